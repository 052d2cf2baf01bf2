package attendanceService

import (
	"Veriface/internal/api/attendance"
	attendanceRepository "Veriface/internal/api/attendance/repository"
	faceService "Veriface/internal/api/face/service"
	"Veriface/internal/entity"
	"Veriface/pkg/liveness"
	"Veriface/pkg/utils"
	"Veriface/pkg/vision"
	"Veriface/pkg/whatsapp"
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type AttendanceService interface {
	Ledger() LedgerDomain
	Verify() VerifyDomain
	Report() ReportDomain
}

// LedgerDomain applies one observation to the per-day attendance state
// machine. It never decides who the observation belongs to; identity
// resolution happens before it is called.
type LedgerDomain interface {
	RecordObservation(c context.Context, identity string, at time.Time) (entity.Observation, error)
}

type VerifyDomain interface {
	MarkAttendance(c context.Context, frame []byte, now time.Time) (attendance.MarkAttendanceResponse, error)
	PreviewLiveness(frame []byte) attendance.LivenessPreview
}

type ReportDomain interface {
	History(c context.Context, identity string, limit int) (attendance.HistoryResponse, error)
	DailySummary(c context.Context, date time.Time) (attendance.DailySummaryResponse, error)
	LogDailySummary()
}

type attendanceService struct {
	ledgerDomain LedgerDomain
	verifyDomain VerifyDomain
	reportDomain ReportDomain
}

func (s *attendanceService) Ledger() LedgerDomain {
	return s.ledgerDomain
}

func (s *attendanceService) Verify() VerifyDomain {
	return s.verifyDomain
}

func (s *attendanceService) Report() ReportDomain {
	return s.reportDomain
}

type ledgerDomainImpl struct {
	log   *logrus.Logger
	repo  attendanceRepository.Repository
	utils utils.IUtils
}

type verifyDomainImpl struct {
	log            *logrus.Logger
	ledger         LedgerDomain
	faceService    faceService.FaceService
	visionClient   vision.IVision
	blinkDetector  liveness.IDetector
	whatsappSender whatsapp.IWhatsappSender
}

type reportDomainImpl struct {
	log  *logrus.Logger
	repo attendanceRepository.Repository
}

func New(log *logrus.Logger,
	attendanceRepo attendanceRepository.Repository,
	faceSvc faceService.FaceService,
	visionClient vision.IVision,
	blinkDetector liveness.IDetector,
	whatsappSender whatsapp.IWhatsappSender,
	utilities utils.IUtils,
) AttendanceService {
	ledger := &ledgerDomainImpl{
		log:   log,
		repo:  attendanceRepo,
		utils: utilities,
	}

	return &attendanceService{
		ledgerDomain: ledger,
		verifyDomain: &verifyDomainImpl{
			log:            log,
			ledger:         ledger,
			faceService:    faceSvc,
			visionClient:   visionClient,
			blinkDetector:  blinkDetector,
			whatsappSender: whatsappSender,
		},
		reportDomain: &reportDomainImpl{
			log:  log,
			repo: attendanceRepo,
		},
	}
}
