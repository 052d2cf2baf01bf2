package faceService

import (
	"Veriface/internal/api/face"
	"Veriface/internal/entity"
	contextPkg "Veriface/pkg/context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
	"gonum.org/v1/gonum/floats"
)

const templateCacheTTL = 5 * time.Minute

// Match resolves a query embedding against every registered template and
// returns the identity with the minimum Euclidean distance among those
// strictly below the threshold. The selection is deterministic regardless
// of scan order; a first-under-threshold policy would depend on storage
// order, which the store does not define.
//
// Cost is O(n*d) for n templates of dimension d per call. There is no index
// structure; the register is expected to stay small.
func (s *matcherDomainImpl) Match(c context.Context, query []float64) (entity.IdentityMatch, error) {
	return s.MatchWithThreshold(c, query, s.threshold)
}

func (s *matcherDomainImpl) MatchWithThreshold(c context.Context, query []float64, threshold float64) (entity.IdentityMatch, error) {
	requestID := contextPkg.GetRequestID(c)

	if len(query) != entity.EmbeddingDimensions {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"dimensions": len(query),
		}).Warn("Query embedding has invalid dimensionality")
		return entity.IdentityMatch{}, face.ErrInvalidEmbedding
	}

	templates, err := s.loadTemplates(c)
	if err != nil {
		return entity.IdentityMatch{}, err
	}

	best := entity.IdentityMatch{}
	for _, template := range templates {
		if len(template.Embedding) != entity.EmbeddingDimensions {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"identity":   template.Identity,
				"dimensions": len(template.Embedding),
			}).Warn("Skipping stored template with invalid dimensionality")
			continue
		}

		dist := floats.Distance(query, template.Embedding, 2)
		if dist >= threshold {
			continue
		}

		if !best.Matched || dist < best.Distance {
			best = entity.IdentityMatch{Identity: template.Identity, Distance: dist, Matched: true}
		}
	}

	if !best.Matched {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"templates":  len(templates),
			"threshold":  threshold,
		}).Warn("No identity matched query embedding")
		return entity.IdentityMatch{}, face.ErrIdentityNotMatched
	}

	return best, nil
}

// loadTemplates serves the matcher from the cached snapshot when present
// and falls back to a full table scan. The snapshot may trail concurrent
// registrations; that is within the matcher's contract, and registration
// invalidates the key besides.
func (s *matcherDomainImpl) loadTemplates(c context.Context) ([]entity.FaceTemplate, error) {
	requestID := contextPkg.GetRequestID(c)

	if s.redisServer != nil {
		cached, err := s.redisServer.GetFaceTemplates(c)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Face template cache read failed, falling back to database")
		} else if cached != nil {
			return cached, nil
		}
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	templates, err := repo.Templates.GetAll(c)
	if err != nil {
		return nil, err
	}

	if s.redisServer != nil && len(templates) > 0 {
		if err := s.redisServer.SetFaceTemplates(c, templates, templateCacheTTL); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Failed to cache face templates")
		}
	}

	return templates, nil
}
