package attendanceRepository

const (
	// The (identity, attendance_date) primary key turns a concurrent double
	// check-in into a no-op for the loser instead of a duplicate row.
	queryInsertCheckIn = `
INSERT INTO attendance_records (id, identity, attendance_date, check_in, created_at, updated_at)
VALUES (:id, :identity, :attendance_date, :check_in, :created_at, :updated_at)
ON CONFLICT (identity, attendance_date) DO NOTHING`

	// The check_out IS NULL guard makes the check-out transition
	// single-shot: a second writer updates zero rows.
	querySetCheckOut = `
UPDATE attendance_records
SET check_out = :check_out, updated_at = :updated_at
WHERE identity = :identity
  AND attendance_date = :attendance_date
  AND check_out IS NULL`

	queryGetByIdentityAndDate = `
SELECT id, identity, attendance_date, check_in, check_out, created_at, updated_at
FROM attendance_records
    WHERE identity = :identity AND attendance_date = :attendance_date`

	queryListByIdentity = `
SELECT id, identity, attendance_date, check_in, check_out, created_at, updated_at
FROM attendance_records
    WHERE identity = :identity
ORDER BY attendance_date DESC
LIMIT :limit`

	queryListByDate = `
SELECT id, identity, attendance_date, check_in, check_out, created_at, updated_at
FROM attendance_records
    WHERE attendance_date = :attendance_date
ORDER BY check_in ASC`
)
