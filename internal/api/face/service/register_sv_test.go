package faceService

import (
	"Veriface/internal/api/face"
	"Veriface/internal/entity"
	"Veriface/pkg/vision"
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVisionClient struct {
	embedding    []float64
	embeddingErr error
}

func (s *stubVisionClient) ExtractEmbedding(frame []byte) ([]float64, error) {
	return s.embedding, s.embeddingErr
}

func (s *stubVisionClient) ExtractLandmarks(frame []byte) (entity.LandmarkSet, error) {
	return nil, nil
}

func (s *stubVisionClient) IsConnected(kind vision.ExtractorKind) bool { return true }
func (s *stubVisionClient) Reconnect(kind vision.ExtractorKind) error  { return nil }
func (s *stubVisionClient) CloseConnections()                          {}

func newTestRegister(visionClient vision.IVision, store *fakeTemplateStore) *registerDomainImpl {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return &registerDomainImpl{
		log:          logger,
		repo:         &fakeFaceRepository{store: store},
		visionClient: visionClient,
	}
}

func TestRegisterFaceNoFaceDetected(t *testing.T) {
	store := &fakeTemplateStore{}
	register := newTestRegister(&stubVisionClient{embedding: nil}, store)

	_, err := register.RegisterFace(context.Background(), face.RegisterFaceRequest{Name: "alice"},
		[]byte("frame"), "alice.jpg", "image/jpeg")

	assert.ErrorIs(t, err, face.ErrNoFaceDetected)
	assert.Empty(t, store.templates, "nothing may be stored for a frame without a face")
}

func TestRegisterFaceRejectsWrongDimensionality(t *testing.T) {
	store := &fakeTemplateStore{}
	register := newTestRegister(&stubVisionClient{embedding: []float64{1, 2, 3}}, store)

	_, err := register.RegisterFace(context.Background(), face.RegisterFaceRequest{Name: "alice"},
		[]byte("frame"), "alice.jpg", "image/jpeg")

	assert.ErrorIs(t, err, face.ErrInvalidEmbedding)
	assert.Empty(t, store.templates)
}

func TestRegisterFaceOverwritesPriorVector(t *testing.T) {
	store := &fakeTemplateStore{}
	ctx := context.Background()

	first := newTestRegister(&stubVisionClient{embedding: embeddingAt(0.1)}, store)
	resp, err := first.RegisterFace(ctx, face.RegisterFaceRequest{Name: "alice"},
		[]byte("frame"), "alice.jpg", "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "registered", resp.Status)
	assert.Equal(t, "alice", resp.Identity)

	second := newTestRegister(&stubVisionClient{embedding: embeddingAt(0.9)}, store)
	_, err = second.RegisterFace(ctx, face.RegisterFaceRequest{Name: "alice"},
		[]byte("frame"), "alice-new.jpg", "image/jpeg")
	require.NoError(t, err)

	require.Len(t, store.templates, 1, "re-registration must replace, not duplicate")
	assert.Equal(t, embeddingAt(0.9), store.templates[0].Embedding)
}

func TestGetStatusUnregisteredIdentity(t *testing.T) {
	register := newTestRegister(&stubVisionClient{}, &fakeTemplateStore{})

	status, err := register.GetStatus(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, "nobody", status.Identity)
	assert.False(t, status.IsRegistered)
}

func TestDeleteFace(t *testing.T) {
	store := &fakeTemplateStore{templates: []entity.FaceTemplate{
		{Identity: "alice", Embedding: embeddingAt(0.1)},
	}}
	register := newTestRegister(&stubVisionClient{}, store)
	ctx := context.Background()

	require.NoError(t, register.DeleteFace(ctx, "alice"))
	assert.Empty(t, store.templates)

	err := register.DeleteFace(ctx, "alice")
	assert.ErrorIs(t, err, face.ErrIdentityNotFound)
}
