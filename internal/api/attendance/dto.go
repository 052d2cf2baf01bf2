package attendance

import (
	"Veriface/internal/entity"
	"time"
)

type MarkAttendanceResponse struct {
	Status   entity.ObservationOutcome `json:"status"`
	Identity string                    `json:"identity"`
	Distance float64                   `json:"distance"`
	Time     time.Time                 `json:"time"`
}

type RecordResponse struct {
	Identity string     `json:"identity"`
	Date     string     `json:"date"`
	CheckIn  time.Time  `json:"check_in"`
	CheckOut *time.Time `json:"check_out,omitempty"`
}

type HistoryResponse struct {
	Identity string           `json:"identity"`
	Records  []RecordResponse `json:"records"`
}

type DailySummaryResponse struct {
	Date         string `json:"date"`
	TotalRecords int    `json:"total_records"`
	StillIn      int    `json:"still_in"`
	Completed    int    `json:"completed"`
}

// LivenessPreview is the per-frame reply on the live websocket endpoint.
type LivenessPreview struct {
	FaceDetected  bool    `json:"face_detected"`
	BlinkDetected bool    `json:"blink_detected"`
	Threshold     float64 `json:"threshold"`
}
