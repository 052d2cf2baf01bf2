package attendanceService

import (
	"Veriface/internal/api/attendance"
	attendanceRepository "Veriface/internal/api/attendance/repository"
	"Veriface/internal/entity"
	contextPkg "Veriface/pkg/context"
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

// ledgerAttempts bounds how often one observation re-reads the row after
// losing a write race. Two attempts suffice: whichever transition the
// winner applied, the re-read sees a strictly later state, so a second
// loss means the day completed underneath us.
const ledgerAttempts = 2

// RecordObservation advances the (identity, date) record by exactly one
// transition. The first observation of the day creates the row with its
// check-in time, the second closes it, and every later one reports the
// existing completed pair without modifying anything.
//
// Both writes are conditional statements that report whether they won, so
// two concurrent observations can never produce two rows or overwrite an
// existing check-out.
func (s *ledgerDomainImpl) RecordObservation(c context.Context, identity string, at time.Time) (entity.Observation, error) {
	requestID := contextPkg.GetRequestID(c)

	repo, err := s.repo.NewClient()
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create attendance repository client")
		return entity.Observation{}, err
	}

	for attempt := 0; attempt < ledgerAttempts; attempt++ {
		record, err := repo.Records.GetByIdentityAndDate(c, identity, at)
		switch {
		case errors.Is(err, attendance.ErrRecordNotFound):
			won, err := s.insertCheckIn(c, repo, identity, at)
			if err != nil {
				return entity.Observation{}, err
			}
			if won {
				return entity.Observation{Outcome: entity.OutcomeCheckedIn, Time: at}, nil
			}
			// Lost the insert race. Re-read to see the winner's row.
			continue
		case err != nil:
			return entity.Observation{}, err
		}

		if record.Completed() {
			return entity.Observation{Outcome: entity.OutcomeAlreadyCompleted, Time: *record.CheckOut}, nil
		}

		if at.Before(record.CheckIn) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"identity":   identity,
				"at":         at,
				"check_in":   record.CheckIn,
			}).Warn("Observation time precedes recorded check-in")
			return entity.Observation{}, attendance.ErrCheckOutBeforeCheckIn
		}

		won, err := repo.Records.SetCheckOut(c, identity, at, at)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"identity":   identity,
				"error":      err.Error(),
			}).Error("Failed to apply check-out transition")
			return entity.Observation{}, err
		}
		if won {
			return entity.Observation{Outcome: entity.OutcomeCheckedOut, Time: at}, nil
		}
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"identity":   identity,
	}).Warn("Observation lost the ledger race twice")
	return entity.Observation{}, attendance.ErrObservationConflict
}

func (s *ledgerDomainImpl) insertCheckIn(c context.Context, repo attendanceRepository.Client, identity string, at time.Time) (bool, error) {
	requestID := contextPkg.GetRequestID(c)

	id, err := s.utils.NewULIDFromTimestamp(at)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate attendance record id")
		return false, err
	}

	won, err := repo.Records.InsertCheckIn(c, entity.AttendanceRecord{
		ID:       id,
		Identity: identity,
		Date:     at,
		CheckIn:  at,
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"identity":   identity,
			"error":      err.Error(),
		}).Error("Failed to apply check-in transition")
		return false, err
	}

	return won, nil
}
