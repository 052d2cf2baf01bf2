package faceService

import (
	"Veriface/internal/api/face"
	"Veriface/internal/entity"
	contextPkg "Veriface/pkg/context"
	"errors"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func (s *registerDomainImpl) RegisterFace(c context.Context, req face.RegisterFaceRequest, image []byte, fileName string, contentType string) (face.RegisterFaceResponse, error) {
	requestID := contextPkg.GetRequestID(c)

	embedding, err := s.visionClient.ExtractEmbedding(image)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Embedding extractor unavailable during registration")
		return face.RegisterFaceResponse{}, err
	}
	if embedding == nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"identity":   req.Name,
		}).Warn("No face detected in registration image")
		return face.RegisterFaceResponse{}, face.ErrNoFaceDetected
	}

	if len(embedding) != entity.EmbeddingDimensions {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"identity":   req.Name,
			"dimensions": len(embedding),
		}).Error("Extractor returned embedding with invalid dimensionality")
		return face.RegisterFaceResponse{}, face.ErrInvalidEmbedding
	}

	var photoURL string
	if s.s3Client != nil {
		photoURL, err = s.s3Client.UploadBytes(fileName, contentType, image)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"identity":   req.Name,
				"error":      err.Error(),
			}).Error("Failed to upload face photo")
			return face.RegisterFaceResponse{}, face.ErrFailedToUploadFile
		}
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return face.RegisterFaceResponse{}, err
	}

	// One template per identity: re-registering overwrites the prior vector.
	template := entity.FaceTemplate{
		Identity:  req.Name,
		Embedding: embedding,
		PhotoURL:  photoURL,
	}
	if err := repo.Templates.Upsert(c, template); err != nil {
		return face.RegisterFaceResponse{}, err
	}

	s.invalidateCache(c, requestID)

	return face.RegisterFaceResponse{
		Status:   "registered",
		Identity: req.Name,
		PhotoURL: photoURL,
	}, nil
}

func (s *registerDomainImpl) GetStatus(c context.Context, identity string) (face.FaceStatusResponse, error) {
	requestID := contextPkg.GetRequestID(c)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return face.FaceStatusResponse{}, err
	}

	template, err := repo.Templates.GetByIdentity(c, identity)
	if err != nil {
		if errors.Is(err, face.ErrIdentityNotFound) {
			return face.FaceStatusResponse{Identity: identity, IsRegistered: false}, nil
		}
		return face.FaceStatusResponse{}, err
	}

	res := face.FaceStatusResponse{
		Identity:     template.Identity,
		IsRegistered: true,
		RegisteredAt: template.CreatedAt,
	}

	if s.s3Client != nil && template.PhotoURL != "" {
		presigned, err := s.s3Client.PresignUrl(template.PhotoURL)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"identity":   identity,
				"error":      err.Error(),
			}).Warn("Failed to presign face photo URL")
		} else {
			res.PhotoURL = presigned
		}
	}

	return res, nil
}

func (s *registerDomainImpl) DeleteFace(c context.Context, identity string) error {
	requestID := contextPkg.GetRequestID(c)

	// Read and delete share a transaction so the photo cleanup below never
	// runs against a template another request already replaced.
	repo, err := s.repo.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return err
	}

	template, err := repo.Templates.GetByIdentity(c, identity)
	if err != nil {
		repo.Rollback()
		return err
	}

	if err := repo.Templates.Delete(c, identity); err != nil {
		repo.Rollback()
		return err
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"identity":   identity,
			"error":      err.Error(),
		}).Error("Failed to commit face template deletion")
		return err
	}

	if s.s3Client != nil && template.PhotoURL != "" {
		if err := s.s3Client.DeleteFile(template.PhotoURL); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"identity":   identity,
				"error":      err.Error(),
			}).Warn("Failed to delete face photo from storage")
		}
	}

	s.invalidateCache(c, requestID)

	return nil
}

func (s *registerDomainImpl) invalidateCache(c context.Context, requestID string) {
	if s.redisServer == nil {
		return
	}

	if err := s.redisServer.InvalidateFaceTemplates(c); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to invalidate face template cache")
	}
}
