package attendanceRepository

import (
	"Veriface/internal/api/attendance"
	"Veriface/internal/entity"
	contextPkg "Veriface/pkg/context"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type attendanceRecordDB struct {
	ID        sql.NullString `db:"id"`
	Identity  sql.NullString `db:"identity"`
	Date      sql.NullTime   `db:"attendance_date"`
	CheckIn   sql.NullTime   `db:"check_in"`
	CheckOut  sql.NullTime   `db:"check_out"`
	CreatedAt sql.NullTime   `db:"created_at"`
	UpdatedAt sql.NullTime   `db:"updated_at"`
}

func (row attendanceRecordDB) toEntity() entity.AttendanceRecord {
	record := entity.AttendanceRecord{
		ID:        row.ID.String,
		Identity:  row.Identity.String,
		Date:      row.Date.Time,
		CheckIn:   row.CheckIn.Time,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}

	if row.CheckOut.Valid {
		checkOut := row.CheckOut.Time
		record.CheckOut = &checkOut
	}

	return record
}

func dateArg(t time.Time) string {
	return t.Format("2006-01-02")
}

// InsertCheckIn creates the day's record with its check-in time. It returns
// false when a record for the (identity, date) key already exists, without
// touching the existing row.
func (r *recordRepository) InsertCheckIn(c context.Context, record entity.AttendanceRecord) (bool, error) {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":              record.ID,
		"identity":        record.Identity,
		"attendance_date": dateArg(record.Date),
		"check_in":        record.CheckIn,
		"created_at":      time.Now(),
		"updated_at":      time.Now(),
	}

	query, args, err := sqlx.Named(queryInsertCheckIn, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for InsertCheckIn")
		return false, err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"identity":   record.Identity,
			"error":      err.Error(),
		}).Error("Database error when inserting check-in")
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}

// SetCheckOut applies the single check-out transition. It returns false
// when the row was already completed (or vanished), i.e. this observation
// lost the race.
func (r *recordRepository) SetCheckOut(c context.Context, identity string, date time.Time, at time.Time) (bool, error) {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"identity":        identity,
		"attendance_date": dateArg(date),
		"check_out":       at,
		"updated_at":      time.Now(),
	}

	query, args, err := sqlx.Named(querySetCheckOut, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for SetCheckOut")
		return false, err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"identity":   identity,
			"error":      err.Error(),
		}).Error("Database error when setting check-out")
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}

func (r *recordRepository) GetByIdentityAndDate(c context.Context, identity string, date time.Time) (entity.AttendanceRecord, error) {
	requestID := contextPkg.GetRequestID(c)

	argsKV := map[string]interface{}{
		"identity":        identity,
		"attendance_date": dateArg(date),
	}

	query, args, err := sqlx.Named(queryGetByIdentityAndDate, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByIdentityAndDate named query preparation err")
		return entity.AttendanceRecord{}, err
	}
	query = r.q.Rebind(query)

	var row attendanceRecordDB
	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.AttendanceRecord{}, attendance.ErrRecordNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"identity":   identity,
			"error":      err.Error(),
		}).Error("Database error when getting attendance record")
		return entity.AttendanceRecord{}, err
	}

	return row.toEntity(), nil
}

func (r *recordRepository) ListByIdentity(c context.Context, identity string, limit int) ([]entity.AttendanceRecord, error) {
	argsKV := map[string]interface{}{
		"identity": identity,
		"limit":    limit,
	}

	return r.list(c, queryListByIdentity, argsKV)
}

func (r *recordRepository) ListByDate(c context.Context, date time.Time) ([]entity.AttendanceRecord, error) {
	argsKV := map[string]interface{}{
		"attendance_date": dateArg(date),
	}

	return r.list(c, queryListByDate, argsKV)
}

func (r *recordRepository) list(c context.Context, namedQuery string, argsKV map[string]interface{}) ([]entity.AttendanceRecord, error) {
	requestID := contextPkg.GetRequestID(c)

	query, args, err := sqlx.Named(namedQuery, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("List named query preparation err")
		return nil, err
	}
	query = r.q.Rebind(query)

	rows, err := r.q.QueryxContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when listing attendance records")
		return nil, err
	}
	defer rows.Close()

	var records []entity.AttendanceRecord
	for rows.Next() {
		var row attendanceRecordDB
		if err := rows.StructScan(&row); err != nil {
			return nil, err
		}
		records = append(records, row.toEntity())
	}

	return records, rows.Err()
}
