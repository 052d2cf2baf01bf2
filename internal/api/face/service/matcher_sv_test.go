package faceService

import (
	"Veriface/internal/api/face"
	faceRepository "Veriface/internal/api/face/repository"
	"Veriface/internal/entity"
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTemplateStore struct {
	templates []entity.FaceTemplate
}

func (f *fakeTemplateStore) Upsert(ctx context.Context, template entity.FaceTemplate) error {
	for i, existing := range f.templates {
		if existing.Identity == template.Identity {
			f.templates[i] = template
			return nil
		}
	}
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

func (f *fakeTemplateStore) Delete(ctx context.Context, identity string) error {
	for i, existing := range f.templates {
		if existing.Identity == identity {
			f.templates = append(f.templates[:i], f.templates[i+1:]...)
			return nil
		}
	}
	return face.ErrIdentityNotFound
}

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

func newTestMatcher(templates []entity.FaceTemplate) *matcherDomainImpl {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return &matcherDomainImpl{
		log:       logger,
		repo:      &fakeFaceRepository{store: &fakeTemplateStore{templates: templates}},
		threshold: DefaultMatchThreshold,
	}
}

// embeddingAt builds a 128-d vector whose distance to embeddingAt(0) is
// exactly the given value, by putting everything on the first axis.
func embeddingAt(offset float64) []float64 {
	v := make([]float64, entity.EmbeddingDimensions)
	v[0] = offset
	return v
}

func TestMatchEmptyStore(t *testing.T) {
	matcher := newTestMatcher(nil)

	_, err := matcher.Match(context.Background(), embeddingAt(0))
	assert.ErrorIs(t, err, face.ErrIdentityNotMatched)
}

func TestMatchPicksMinimumDistanceNotFirstUnderThreshold(t *testing.T) {
	matcher := newTestMatcher([]entity.FaceTemplate{
		{Identity: "close-enough", Embedding: embeddingAt(0.5)},
		{Identity: "closest", Embedding: embeddingAt(0.1)},
		{Identity: "also-close", Embedding: embeddingAt(0.3)},
	})

	match, err := matcher.Match(context.Background(), embeddingAt(0))
	require.NoError(t, err)

	assert.Equal(t, "closest", match.Identity)
	assert.InDelta(t, 0.1, match.Distance, 1e-9)
	assert.True(t, match.Matched)
}

func TestMatchThresholdIsStrict(t *testing.T) {
	matcher := newTestMatcher([]entity.FaceTemplate{
		{Identity: "at-threshold", Embedding: embeddingAt(DefaultMatchThreshold)},
	})

	_, err := matcher.Match(context.Background(), embeddingAt(0))
	assert.ErrorIs(t, err, face.ErrIdentityNotMatched, "distance equal to the threshold must not match")

	match, err := matcher.MatchWithThreshold(context.Background(), embeddingAt(0), DefaultMatchThreshold+0.001)
	require.NoError(t, err)
	assert.Equal(t, "at-threshold", match.Identity)
}

func TestMatchRejectsWrongDimensionality(t *testing.T) {
	matcher := newTestMatcher([]entity.FaceTemplate{
		{Identity: "someone", Embedding: embeddingAt(0.1)},
	})

	_, err := matcher.Match(context.Background(), []float64{1, 2, 3})
	assert.ErrorIs(t, err, face.ErrInvalidEmbedding)
}

func TestMatchSkipsCorruptStoredTemplates(t *testing.T) {
	matcher := newTestMatcher([]entity.FaceTemplate{
		{Identity: "corrupt", Embedding: []float64{0}},
		{Identity: "valid", Embedding: embeddingAt(0.2)},
	})

	match, err := matcher.Match(context.Background(), embeddingAt(0))
	require.NoError(t, err)
	assert.Equal(t, "valid", match.Identity)
}
