package attendance

import (
	"Veriface/pkg/response"
	"net/http"
)

var (
	// ErrNoLandmarksDetected means the frame carried no usable liveness
	// signal at all, as opposed to ErrBlinkNotDetected where landmarks were
	// present but the eyes were open.
	ErrNoLandmarksDetected   = response.NewError(http.StatusBadRequest, "no facial landmarks detected")
	ErrBlinkNotDetected      = response.NewError(http.StatusBadRequest, "blink not detected")
	ErrCheckOutBeforeCheckIn = response.NewError(http.StatusBadRequest, "check-out time precedes check-in")
	ErrObservationConflict   = response.NewError(http.StatusConflict, "attendance observation lost a concurrent update")
	ErrRecordNotFound        = response.NewError(http.StatusNotFound, "attendance record not found")
)
