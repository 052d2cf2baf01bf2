package attendanceService

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailySummaryCountsOpenAndCompletedRecords(t *testing.T) {
	store := newFakeRecordStore()
	ledger := newTestLedger(store)
	ctx := context.Background()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	report := &reportDomainImpl{log: logger, repo: &fakeAttendanceRepository{store: store}}

	day := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	_, err := ledger.RecordObservation(ctx, "alice", day.Add(8*time.Hour))
	require.NoError(t, err)
	_, err = ledger.RecordObservation(ctx, "alice", day.Add(17*time.Hour))
	require.NoError(t, err)

	_, err = ledger.RecordObservation(ctx, "bob", day.Add(9*time.Hour))
	require.NoError(t, err)

	summary, err := report.DailySummary(ctx, day)
	require.NoError(t, err)

	assert.Equal(t, "2026-08-29", summary.Date)
	assert.Equal(t, 2, summary.TotalRecords)
	assert.Equal(t, 1, summary.Completed)
	assert.Equal(t, 1, summary.StillIn)
}

func TestHistoryReturnsRecordsForIdentityOnly(t *testing.T) {
	store := newFakeRecordStore()
	ledger := newTestLedger(store)
	ctx := context.Background()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	report := &reportDomainImpl{log: logger, repo: &fakeAttendanceRepository{store: store}}

	_, err := ledger.RecordObservation(ctx, "alice", time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = ledger.RecordObservation(ctx, "alice", time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = ledger.RecordObservation(ctx, "bob", time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	history, err := report.History(ctx, "alice", 0)
	require.NoError(t, err)

	assert.Equal(t, "alice", history.Identity)
	assert.Len(t, history.Records, 2)
	for _, record := range history.Records {
		assert.Equal(t, "alice", record.Identity)
	}
}
