package attendanceService

import (
	"Veriface/internal/api/attendance"
	"Veriface/internal/api/face"
	faceRepository "Veriface/internal/api/face/repository"
	faceService "Veriface/internal/api/face/service"
	"Veriface/internal/entity"
	"Veriface/pkg/liveness"
	"Veriface/pkg/utils"
	"Veriface/pkg/vision"
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVisionClient struct {
	landmarks    entity.LandmarkSet
	landmarksErr error
	embedding    []float64
	embeddingErr error
}

func (f *fakeVisionClient) ExtractEmbedding(frame []byte) ([]float64, error) {
	return f.embedding, f.embeddingErr
}

func (f *fakeVisionClient) ExtractLandmarks(frame []byte) (entity.LandmarkSet, error) {
	return f.landmarks, f.landmarksErr
}

func (f *fakeVisionClient) IsConnected(kind vision.ExtractorKind) bool { return true }
func (f *fakeVisionClient) Reconnect(kind vision.ExtractorKind) error  { return nil }
func (f *fakeVisionClient) CloseConnections()                          {}

type fakeTemplateStore struct {
	templates []entity.FaceTemplate
}

func (f *fakeTemplateStore) Upsert(ctx context.Context, template entity.FaceTemplate) error {
	f.templates = append(f.templates, template)
	return nil
}

func (f *fakeTemplateStore) GetAll(ctx context.Context) ([]entity.FaceTemplate, error) {
	return f.templates, nil
}

func (f *fakeTemplateStore) GetByIdentity(ctx context.Context, identity string) (entity.FaceTemplate, error) {
	for _, existing := range f.templates {
		if existing.Identity == identity {
			return existing, nil
		}
	}
	return entity.FaceTemplate{}, face.ErrIdentityNotFound
}

func (f *fakeTemplateStore) Delete(ctx context.Context, identity string) error { return nil }

type fakeFaceRepository struct {
	store *fakeTemplateStore
}

func (f *fakeFaceRepository) NewClient(tx bool) (faceRepository.Client, error) {
	return faceRepository.Client{
		Templates: f.store,
		Commit:    func() error { return nil },
		Rollback:  func() error { return nil },
	}, nil
}

// blinkLandmarks builds a full 68-point set whose two eye contours both
// have the requested aspect ratio. The eyes are 4px wide with the lid
// offset chosen so EAR works out to exactly the given value.
func blinkLandmarks(ear float64) entity.LandmarkSet {
	points := make(entity.LandmarkSet, 68)

	h := 2 * ear
	eye := []entity.Point{
		{X: 0, Y: 0},
		{X: 1, Y: -h},
		{X: 3, Y: -h},
		{X: 4, Y: 0},
		{X: 3, Y: h},
		{X: 1, Y: h},
	}

	copy(points[liveness.LeftEyeStart:liveness.LeftEyeEnd], eye)
	copy(points[liveness.RightEyeStart:liveness.RightEyeEnd], eye)

	return points
}

func storedEmbedding(offset float64) []float64 {
	v := make([]float64, entity.EmbeddingDimensions)
	v[0] = offset
	return v
}

func newTestVerifier(visionClient vision.IVision, templates []entity.FaceTemplate) *verifyDomainImpl {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	faceRepo := &fakeFaceRepository{store: &fakeTemplateStore{templates: templates}}
	faceSvc := faceService.New(logger, faceRepo, nil, nil, visionClient)

	ledger := &ledgerDomainImpl{
		log:   logger,
		repo:  &fakeAttendanceRepository{store: newFakeRecordStore()},
		utils: utils.New(),
	}

	return &verifyDomainImpl{
		log:           logger,
		ledger:        ledger,
		faceService:   faceSvc,
		visionClient:  visionClient,
		blinkDetector: liveness.NewWithThreshold(liveness.DefaultEARThreshold),
	}
}

func TestMarkAttendanceNoLandmarks(t *testing.T) {
	verifier := newTestVerifier(&fakeVisionClient{landmarks: nil}, nil)

	_, err := verifier.MarkAttendance(context.Background(), []byte("frame"), time.Now())
	assert.ErrorIs(t, err, attendance.ErrNoLandmarksDetected)
}

func TestMarkAttendanceEyesOpen(t *testing.T) {
	verifier := newTestVerifier(&fakeVisionClient{
		landmarks: blinkLandmarks(0.35),
		embedding: storedEmbedding(0),
	}, []entity.FaceTemplate{{Identity: "alice", Embedding: storedEmbedding(0)}})

	_, err := verifier.MarkAttendance(context.Background(), []byte("frame"), time.Now())
	assert.ErrorIs(t, err, attendance.ErrBlinkNotDetected,
		"a matching face must still be rejected when no blink is seen")
}

func TestMarkAttendanceBlinkButNoFaceForEmbedding(t *testing.T) {
	verifier := newTestVerifier(&fakeVisionClient{
		landmarks: blinkLandmarks(0.1),
		embedding: nil,
	}, nil)

	_, err := verifier.MarkAttendance(context.Background(), []byte("frame"), time.Now())
	assert.ErrorIs(t, err, face.ErrNoFaceDetected)
}

func TestMarkAttendanceUnknownFace(t *testing.T) {
	verifier := newTestVerifier(&fakeVisionClient{
		landmarks: blinkLandmarks(0.1),
		embedding: storedEmbedding(10),
	}, []entity.FaceTemplate{{Identity: "alice", Embedding: storedEmbedding(0)}})

	_, err := verifier.MarkAttendance(context.Background(), []byte("frame"), time.Now())
	assert.ErrorIs(t, err, face.ErrIdentityNotMatched)
}

func TestMarkAttendanceFullDay(t *testing.T) {
	verifier := newTestVerifier(&fakeVisionClient{
		landmarks: blinkLandmarks(0.1),
		embedding: storedEmbedding(0.1),
	}, []entity.FaceTemplate{
		{Identity: "alice", Embedding: storedEmbedding(0)},
		{Identity: "bob", Embedding: storedEmbedding(3)},
	})

	morning := time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 8, 29, 17, 0, 0, 0, time.UTC)

	first, err := verifier.MarkAttendance(context.Background(), []byte("frame"), morning)
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeCheckedIn, first.Status)
	assert.Equal(t, "alice", first.Identity)
	assert.InDelta(t, 0.1, first.Distance, 1e-9)
	assert.Equal(t, morning, first.Time)

	second, err := verifier.MarkAttendance(context.Background(), []byte("frame"), evening)
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeCheckedOut, second.Status)
	assert.Equal(t, evening, second.Time)
}

func TestPreviewLiveness(t *testing.T) {
	noFace := newTestVerifier(&fakeVisionClient{landmarks: nil}, nil)
	preview := noFace.PreviewLiveness([]byte("frame"))
	assert.False(t, preview.FaceDetected)
	assert.False(t, preview.BlinkDetected)
	assert.Equal(t, liveness.DefaultEARThreshold, preview.Threshold)

	eyesOpen := newTestVerifier(&fakeVisionClient{landmarks: blinkLandmarks(0.35)}, nil)
	preview = eyesOpen.PreviewLiveness([]byte("frame"))
	assert.True(t, preview.FaceDetected)
	assert.False(t, preview.BlinkDetected)

	blinking := newTestVerifier(&fakeVisionClient{landmarks: blinkLandmarks(0.1)}, nil)
	preview = blinking.PreviewLiveness([]byte("frame"))
	assert.True(t, preview.FaceDetected)
	assert.True(t, preview.BlinkDetected)
}
