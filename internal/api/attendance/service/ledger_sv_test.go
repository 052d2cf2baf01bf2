package attendanceService

import (
	"Veriface/internal/api/attendance"
	attendanceRepository "Veriface/internal/api/attendance/repository"
	"Veriface/internal/entity"
	"Veriface/pkg/utils"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRecordStore mirrors the database guarantees the ledger is built on:
// InsertCheckIn is atomic on the (identity, date) key and SetCheckOut only
// succeeds while check_out is still unset.
type fakeRecordStore struct {
	mu      sync.Mutex
	records map[string]*entity.AttendanceRecord
}

func newFakeRecordStore() *fakeRecordStore {
	return &fakeRecordStore{records: make(map[string]*entity.AttendanceRecord)}
}

func recordKey(identity string, date time.Time) string {
	return identity + "/" + date.Format("2006-01-02")
}

func (f *fakeRecordStore) InsertCheckIn(ctx context.Context, record entity.AttendanceRecord) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := recordKey(record.Identity, record.Date)
	if _, exists := f.records[key]; exists {
		return false, nil
	}

	stored := record
	f.records[key] = &stored
	return true, nil
}

func (f *fakeRecordStore) SetCheckOut(ctx context.Context, identity string, date time.Time, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	record, exists := f.records[recordKey(identity, date)]
	if !exists || record.CheckOut != nil {
		return false, nil
	}

	checkOut := at
	record.CheckOut = &checkOut
	return true, nil
}

func (f *fakeRecordStore) GetByIdentityAndDate(ctx context.Context, identity string, date time.Time) (entity.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	record, exists := f.records[recordKey(identity, date)]
	if !exists {
		return entity.AttendanceRecord{}, attendance.ErrRecordNotFound
	}
	return *record, nil
}

func (f *fakeRecordStore) ListByIdentity(ctx context.Context, identity string, limit int) ([]entity.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var records []entity.AttendanceRecord
	for _, record := range f.records {
		if record.Identity == identity {
			records = append(records, *record)
		}
	}
	return records, nil
}

func (f *fakeRecordStore) ListByDate(ctx context.Context, date time.Time) ([]entity.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var records []entity.AttendanceRecord
	day := date.Format("2006-01-02")
	for _, record := range f.records {
		if record.Date.Format("2006-01-02") == day {
			records = append(records, *record)
		}
	}
	return records, nil
}

type fakeAttendanceRepository struct {
	store *fakeRecordStore
}

func (f *fakeAttendanceRepository) NewClient() (attendanceRepository.Client, error) {
	return attendanceRepository.Client{Records: f.store}, nil
}

func newTestLedger(store *fakeRecordStore) *ledgerDomainImpl {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return &ledgerDomainImpl{
		log:   logger,
		repo:  &fakeAttendanceRepository{store: store},
		utils: utils.New(),
	}
}

func TestRecordObservationLifecycle(t *testing.T) {
	store := newFakeRecordStore()
	ledger := newTestLedger(store)
	ctx := context.Background()

	day := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	checkIn := day.Add(8 * time.Hour)
	checkOut := day.Add(17 * time.Hour)
	late := day.Add(19 * time.Hour)

	first, err := ledger.RecordObservation(ctx, "alice", checkIn)
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeCheckedIn, first.Outcome)
	assert.Equal(t, checkIn, first.Time)

	second, err := ledger.RecordObservation(ctx, "alice", checkOut)
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeCheckedOut, second.Outcome)
	assert.Equal(t, checkOut, second.Time)

	third, err := ledger.RecordObservation(ctx, "alice", late)
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeAlreadyCompleted, third.Outcome)
	assert.Equal(t, checkOut, third.Time, "a completed day must report the existing check-out, not the new observation")

	record, err := store.GetByIdentityAndDate(ctx, "alice", day)
	require.NoError(t, err)
	assert.Equal(t, checkIn, record.CheckIn)
	require.NotNil(t, record.CheckOut)
	assert.Equal(t, checkOut, *record.CheckOut)
}

func TestRecordObservationSeparateDaysSeparateRecords(t *testing.T) {
	store := newFakeRecordStore()
	ledger := newTestLedger(store)
	ctx := context.Background()

	monday := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	tuesday := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)

	first, err := ledger.RecordObservation(ctx, "alice", monday)
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeCheckedIn, first.Outcome)

	second, err := ledger.RecordObservation(ctx, "alice", tuesday)
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeCheckedIn, second.Outcome, "a new day starts a fresh record")
}

func TestRecordObservationRejectsCheckOutBeforeCheckIn(t *testing.T) {
	store := newFakeRecordStore()
	ledger := newTestLedger(store)
	ctx := context.Background()

	checkIn := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)

	_, err := ledger.RecordObservation(ctx, "alice", checkIn)
	require.NoError(t, err)

	_, err = ledger.RecordObservation(ctx, "alice", checkIn.Add(-time.Hour))
	assert.ErrorIs(t, err, attendance.ErrCheckOutBeforeCheckIn)

	record, err := store.GetByIdentityAndDate(ctx, "alice", checkIn)
	require.NoError(t, err)
	assert.Nil(t, record.CheckOut, "a rejected observation must not touch the record")
}

func TestRecordObservationAtCheckInTimeClosesTheDay(t *testing.T) {
	store := newFakeRecordStore()
	ledger := newTestLedger(store)
	ctx := context.Background()

	at := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)

	_, err := ledger.RecordObservation(ctx, "alice", at)
	require.NoError(t, err)

	observation, err := ledger.RecordObservation(ctx, "alice", at)
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeCheckedOut, observation.Outcome, "only strictly earlier observations are rejected")
}

func TestRecordObservationConcurrentObservers(t *testing.T) {
	store := newFakeRecordStore()
	ledger := newTestLedger(store)
	ctx := context.Background()

	at := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	const observers = 16

	outcomes := make(chan entity.ObservationOutcome, observers)
	errs := make(chan error, observers)

	var wg sync.WaitGroup
	for i := 0; i < observers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			observation, err := ledger.RecordObservation(ctx, "alice", at)
			if err != nil {
				errs <- err
				return
			}
			outcomes <- observation.Outcome
		}()
	}
	wg.Wait()
	close(outcomes)
	close(errs)

	var checkedIn, checkedOut int
	for outcome := range outcomes {
		switch outcome {
		case entity.OutcomeCheckedIn:
			checkedIn++
		case entity.OutcomeCheckedOut:
			checkedOut++
		}
	}

	assert.Equal(t, 1, checkedIn, "exactly one observer may win the check-in")
	assert.Equal(t, 1, checkedOut, "exactly one observer may win the check-out")

	for err := range errs {
		assert.ErrorIs(t, err, attendance.ErrObservationConflict,
			"a racing observer either gets a definite outcome or the conflict error")
	}

	record, err := store.GetByIdentityAndDate(ctx, "alice", at)
	require.NoError(t, err)
	assert.Equal(t, at, record.CheckIn)
	require.NotNil(t, record.CheckOut)
	assert.Equal(t, at, *record.CheckOut)
}
