package liveness

import (
	"Veriface/internal/entity"
	"errors"
	"os"
	"strconv"

	"gonum.org/v1/gonum/floats"
)

// Eye contour index ranges within the 68-point landmark layout. Each eye is
// an ordered 6-point contour: outer corner, two upper-lid points, inner
// corner, two lower-lid points.
const (
	LeftEyeStart  = 36
	LeftEyeEnd    = 42
	RightEyeStart = 42
	RightEyeEnd   = 48

	landmarkCount = 68
)

// DefaultEARThreshold is the eye-aspect-ratio value below which the eyes are
// considered closed. The ratio is computed in raw image-pixel coordinates,
// so the usable threshold depends on the capture resolution; this mirrors
// the tuning of the upstream landmark model and is not normalized.
const DefaultEARThreshold = 0.2

// ErrNoLandmarks means there was nothing to evaluate: no face or no landmark
// set in the frame. This is deliberately distinct from "eyes open" so the
// caller can tell a missing liveness signal apart from a failed blink check.
var ErrNoLandmarks = errors.New("no facial landmarks to evaluate")

type IDetector interface {
	BlinkDetected(landmarks entity.LandmarkSet) (bool, error)
	Threshold() float64
}

type detector struct {
	threshold float64
}

// New builds a detector with the threshold from LIVENESS_EAR_THRESHOLD,
// falling back to DefaultEARThreshold.
func New() IDetector {
	threshold := DefaultEARThreshold
	if raw := os.Getenv("LIVENESS_EAR_THRESHOLD"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed > 0 {
			threshold = parsed
		}
	}

	return &detector{threshold: threshold}
}

func NewWithThreshold(threshold float64) IDetector {
	return &detector{threshold: threshold}
}

func (d *detector) Threshold() float64 {
	return d.threshold
}

// BlinkDetected reports whether the average eye aspect ratio of both eyes is
// strictly below the threshold, i.e. the subject is captured mid-blink. A
// landmark set shorter than the full 68-point layout yields ErrNoLandmarks.
func (d *detector) BlinkDetected(landmarks entity.LandmarkSet) (bool, error) {
	if len(landmarks) < landmarkCount {
		return false, ErrNoLandmarks
	}

	leftEAR := eyeAspectRatio(landmarks[LeftEyeStart:LeftEyeEnd])
	rightEAR := eyeAspectRatio(landmarks[RightEyeStart:RightEyeEnd])
	avgEAR := (leftEAR + rightEAR) / 2.0

	return avgEAR < d.threshold, nil
}

// eyeAspectRatio computes (|p2-p6| + |p3-p5|) / (2*|p1-p4|) over the ordered
// 6-point eye contour, Euclidean distances in pixel space.
func eyeAspectRatio(eye entity.LandmarkSet) float64 {
	a := pointDistance(eye[1], eye[5])
	b := pointDistance(eye[2], eye[4])
	c := pointDistance(eye[0], eye[3])

	if c == 0 {
		return 0
	}

	return (a + b) / (2.0 * c)
}

func pointDistance(p, q entity.Point) float64 {
	return floats.Distance([]float64{p.X, p.Y}, []float64{q.X, q.Y}, 2)
}
