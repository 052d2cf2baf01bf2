package attendanceService

import (
	"Veriface/internal/api/attendance"
	contextPkg "Veriface/pkg/context"
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultHistoryLimit = 30

func (s *reportDomainImpl) History(c context.Context, identity string, limit int) (attendance.HistoryResponse, error) {
	requestID := contextPkg.GetRequestID(c)

	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	repo, err := s.repo.NewClient()
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create attendance repository client")
		return attendance.HistoryResponse{}, err
	}

	records, err := repo.Records.ListByIdentity(c, identity, limit)
	if err != nil {
		return attendance.HistoryResponse{}, err
	}

	resp := attendance.HistoryResponse{
		Identity: identity,
		Records:  make([]attendance.RecordResponse, 0, len(records)),
	}
	for _, record := range records {
		resp.Records = append(resp.Records, attendance.RecordResponse{
			Identity: record.Identity,
			Date:     record.Date.Format("2006-01-02"),
			CheckIn:  record.CheckIn,
			CheckOut: record.CheckOut,
		})
	}

	return resp, nil
}

func (s *reportDomainImpl) DailySummary(c context.Context, date time.Time) (attendance.DailySummaryResponse, error) {
	requestID := contextPkg.GetRequestID(c)

	repo, err := s.repo.NewClient()
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create attendance repository client")
		return attendance.DailySummaryResponse{}, err
	}

	records, err := repo.Records.ListByDate(c, date)
	if err != nil {
		return attendance.DailySummaryResponse{}, err
	}

	summary := attendance.DailySummaryResponse{
		Date:         date.Format("2006-01-02"),
		TotalRecords: len(records),
	}
	for _, record := range records {
		if record.Completed() {
			summary.Completed++
		} else {
			summary.StillIn++
		}
	}

	return summary, nil
}

// LogDailySummary is the nightly scheduler target. It reports how yesterday
// closed, in particular how many people never checked out.
func (s *reportDomainImpl) LogDailySummary() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	yesterday := time.Now().AddDate(0, 0, -1)
	summary, err := s.DailySummary(ctx, yesterday)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"date":  yesterday.Format("2006-01-02"),
			"error": err.Error(),
		}).Error("Failed to compute daily attendance summary")
		return
	}

	s.log.WithFields(logrus.Fields{
		"date":          summary.Date,
		"total_records": summary.TotalRecords,
		"completed":     summary.Completed,
		"still_in":      summary.StillIn,
	}).Info("Daily attendance summary")
}
