package attendanceRepository

import (
	"Veriface/internal/entity"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

// Repository hands out autocommit clients only. Every ledger write is a
// single conditional statement that is atomic on its own, so no caller
// needs a multi-statement transaction here.
type Repository interface {
	NewClient() (Client, error)
}

func (r *repository) NewClient() (Client, error) {
	return Client{
		Records: &recordRepository{q: r.DB, log: r.log},
	}, nil
}

type Client struct {
	// Records exposes the two single-field transitions the ledger is built
	// on. InsertCheckIn and SetCheckOut report whether the statement won:
	// false means another observation got there first and the caller must
	// re-read the row.
	Records interface {
		InsertCheckIn(ctx context.Context, record entity.AttendanceRecord) (bool, error)
		SetCheckOut(ctx context.Context, identity string, date time.Time, at time.Time) (bool, error)
		GetByIdentityAndDate(ctx context.Context, identity string, date time.Time) (entity.AttendanceRecord, error)
		ListByIdentity(ctx context.Context, identity string, limit int) ([]entity.AttendanceRecord, error)
		ListByDate(ctx context.Context, date time.Time) ([]entity.AttendanceRecord, error)
	}
}

type recordRepository struct {
	q   sqlx.ExtContext
	log *logrus.Logger
}
