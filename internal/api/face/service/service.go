package faceService

import (
	"Veriface/internal/api/face"
	faceRepository "Veriface/internal/api/face/repository"
	"Veriface/internal/entity"
	"Veriface/pkg/redis"
	"Veriface/pkg/s3"
	"Veriface/pkg/vision"
	"context"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// DefaultMatchThreshold is the Euclidean distance below which a stored
// template is considered the same person, matching the face encoder's
// published operating point.
const DefaultMatchThreshold = 0.6

type FaceService interface {
	Register() RegisterDomain
	Matcher() MatcherDomain
	GetRepository() faceRepository.Repository
}

type RegisterDomain interface {
	RegisterFace(c context.Context, req face.RegisterFaceRequest, image []byte, fileName string, contentType string) (face.RegisterFaceResponse, error)
	GetStatus(c context.Context, identity string) (face.FaceStatusResponse, error)
	DeleteFace(c context.Context, identity string) error
}

type MatcherDomain interface {
	Match(c context.Context, query []float64) (entity.IdentityMatch, error)
	MatchWithThreshold(c context.Context, query []float64, threshold float64) (entity.IdentityMatch, error)
}

type faceService struct {
	log            *logrus.Logger
	faceRepository faceRepository.Repository
	redisServer    redis.IRedis
	s3Client       s3.ItfS3
	visionClient   vision.IVision

	registerDomain RegisterDomain
	matcherDomain  MatcherDomain
}

func (s *faceService) Register() RegisterDomain {
	return s.registerDomain
}

func (s *faceService) Matcher() MatcherDomain {
	return s.matcherDomain
}

func (s *faceService) GetRepository() faceRepository.Repository {
	return s.faceRepository
}

type registerDomainImpl struct {
	log          *logrus.Logger
	repo         faceRepository.Repository
	redisServer  redis.IRedis
	s3Client     s3.ItfS3
	visionClient vision.IVision
}

type matcherDomainImpl struct {
	log         *logrus.Logger
	repo        faceRepository.Repository
	redisServer redis.IRedis
	threshold   float64
}

func New(log *logrus.Logger,
	faceRepo faceRepository.Repository,
	redisServer redis.IRedis,
	s3Client s3.ItfS3,
	visionClient vision.IVision,
) FaceService {
	threshold := DefaultMatchThreshold
	if raw := os.Getenv("FACE_MATCH_THRESHOLD"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed > 0 {
			threshold = parsed
		}
	}

	return &faceService{
		log:            log,
		faceRepository: faceRepo,
		redisServer:    redisServer,
		s3Client:       s3Client,
		visionClient:   visionClient,

		registerDomain: &registerDomainImpl{log: log, repo: faceRepo, redisServer: redisServer, s3Client: s3Client, visionClient: visionClient},
		matcherDomain:  &matcherDomainImpl{log: log, repo: faceRepo, redisServer: redisServer, threshold: threshold},
	}
}
