package faceRepository

import (
	"Veriface/internal/entity"
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

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var db sqlx.ExtContext
	var commitFunc, rollbackFunc func() error

	db = r.DB

	if tx {
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		db = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Templates: &templateRepository{q: db, log: r.log},
		Commit:    commitFunc,
		Rollback:  rollbackFunc,
	}, nil
}

type Client struct {
	Templates interface {
		Upsert(ctx context.Context, template entity.FaceTemplate) error
		GetAll(ctx context.Context) ([]entity.FaceTemplate, error)
		GetByIdentity(ctx context.Context, identity string) (entity.FaceTemplate, error)
		Delete(ctx context.Context, identity string) error
	}

	Commit   func() error
	Rollback func() error
}

type templateRepository struct {
	q   sqlx.ExtContext
	log *logrus.Logger
}
