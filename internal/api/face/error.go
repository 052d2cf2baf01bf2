package face

import (
	"Veriface/pkg/response"
	"net/http"
)

var (
	ErrNoFaceDetected     = response.NewError(http.StatusBadRequest, "no face detected in image")
	ErrInvalidEmbedding   = response.NewError(http.StatusBadRequest, "face embedding has invalid dimensionality")
	ErrIdentityNotMatched = response.NewError(http.StatusNotFound, "no registered identity matched")
	ErrIdentityNotFound   = response.NewError(http.StatusNotFound, "identity not registered")
	ErrInvalidFileType    = response.NewError(http.StatusBadRequest, "invalid file type")
	ErrFileTooLarge       = response.NewError(http.StatusBadRequest, "file too large")
	ErrFailedToUploadFile = response.NewError(http.StatusInternalServerError, "failed to upload file")
)
