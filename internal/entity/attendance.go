package entity

import "time"

// AttendanceRecord is the per-(identity, calendar date) ledger row. CheckIn
// is set exactly once when the row is created; CheckOut at most once after
// that. The (identity, attendance_date) pair is the primary key, which is
// what makes concurrent first observations collapse into a single row.
type AttendanceRecord struct {
	ID        string     `db:"id"`
	Identity  string     `db:"identity"`
	Date      time.Time  `db:"attendance_date"`
	CheckIn   time.Time  `db:"check_in"`
	CheckOut  *time.Time `db:"check_out"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

// Completed reports whether the record has both transitions applied and is
// therefore immutable for the rest of the day.
func (r AttendanceRecord) Completed() bool {
	return r.CheckOut != nil
}

type ObservationOutcome string

const (
	OutcomeCheckedIn        ObservationOutcome = "checked_in"
	OutcomeCheckedOut       ObservationOutcome = "checked_out"
	OutcomeAlreadyCompleted ObservationOutcome = "already_completed"
)

// Observation is the result of recording one attendance observation. Time is
// the timestamp that ended up in the ledger: the new check-in or check-out
// time, or the pre-existing check-out when the day was already completed.
type Observation struct {
	Outcome ObservationOutcome
	Time    time.Time
}
