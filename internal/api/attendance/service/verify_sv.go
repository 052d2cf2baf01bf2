package attendanceService

import (
	"Veriface/internal/api/attendance"
	"Veriface/internal/api/face"
	"Veriface/internal/entity"
	"Veriface/pkg/liveness"
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	contextPkg "Veriface/pkg/context"
)

// MarkAttendance runs the full verification pipeline on a single frame:
// liveness first, identity second, ledger last. A frame that fails liveness
// is never matched against the register, so a photo of an enrolled person
// cannot reach the ledger.
//
// The frame is read once; landmark and embedding extraction both work from
// the same bytes.
func (s *verifyDomainImpl) MarkAttendance(c context.Context, frame []byte, now time.Time) (attendance.MarkAttendanceResponse, error) {
	requestID := contextPkg.GetRequestID(c)

	landmarks, err := s.visionClient.ExtractLandmarks(frame)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Landmark extractor call failed")
		return attendance.MarkAttendanceResponse{}, err
	}
	if landmarks == nil {
		return attendance.MarkAttendanceResponse{}, attendance.ErrNoLandmarksDetected
	}

	blinked, err := s.blinkDetector.BlinkDetected(landmarks)
	if err != nil {
		if errors.Is(err, liveness.ErrNoLandmarks) {
			return attendance.MarkAttendanceResponse{}, attendance.ErrNoLandmarksDetected
		}
		return attendance.MarkAttendanceResponse{}, err
	}
	if !blinked {
		return attendance.MarkAttendanceResponse{}, attendance.ErrBlinkNotDetected
	}

	embedding, err := s.visionClient.ExtractEmbedding(frame)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Embedding extractor call failed")
		return attendance.MarkAttendanceResponse{}, err
	}
	if embedding == nil {
		return attendance.MarkAttendanceResponse{}, face.ErrNoFaceDetected
	}

	match, err := s.faceService.Matcher().Match(c, embedding)
	if err != nil {
		return attendance.MarkAttendanceResponse{}, err
	}

	observation, err := s.ledger.RecordObservation(c, match.Identity, now)
	if err != nil {
		return attendance.MarkAttendanceResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"identity":   match.Identity,
		"distance":   match.Distance,
		"outcome":    observation.Outcome,
	}).Info("Attendance observation recorded")

	if observation.Outcome == entity.OutcomeCheckedIn && s.whatsappSender != nil {
		go s.sendCheckInAlert(match.Identity, observation.Time)
	}

	return attendance.MarkAttendanceResponse{
		Status:   observation.Outcome,
		Identity: match.Identity,
		Distance: match.Distance,
		Time:     observation.Time,
	}, nil
}

// PreviewLiveness evaluates one frame for the live websocket feed. It is
// deliberately error-free: a frame without a face is a normal state while
// someone walks up to the camera, not a failure.
func (s *verifyDomainImpl) PreviewLiveness(frame []byte) attendance.LivenessPreview {
	preview := attendance.LivenessPreview{Threshold: s.blinkDetector.Threshold()}

	landmarks, err := s.visionClient.ExtractLandmarks(frame)
	if err != nil || landmarks == nil {
		return preview
	}

	preview.FaceDetected = true
	blinked, err := s.blinkDetector.BlinkDetected(landmarks)
	if err != nil {
		return preview
	}

	preview.BlinkDetected = blinked
	return preview
}

func (s *verifyDomainImpl) sendCheckInAlert(identity string, at time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := s.whatsappSender.SendCheckInAlert(ctx, identity, at); err != nil {
		s.log.WithFields(logrus.Fields{
			"identity": identity,
			"error":    err.Error(),
		}).Warn("Failed to send check-in alert")
	}
}
