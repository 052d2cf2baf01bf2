package handlerUtil

import (
	"Veriface/internal/api/attendance"
	"Veriface/internal/api/auth"
	"Veriface/internal/api/face"
	"Veriface/pkg/log"
	"Veriface/pkg/response"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

type ErrorHandler struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

// codeFor maps every domain error to a stable machine-readable code. The
// caller's UI branches on these ("try blinking" vs "register first"), so no
// two failure kinds may collapse into one code.
func codeFor(err error) string {
	switch {
	case errors.Is(err, face.ErrNoFaceDetected):
		return "NO_FACE_DETECTED"
	case errors.Is(err, face.ErrInvalidEmbedding):
		return "INVALID_EMBEDDING"
	case errors.Is(err, face.ErrIdentityNotMatched):
		return "IDENTITY_NOT_MATCHED"
	case errors.Is(err, face.ErrIdentityNotFound):
		return "IDENTITY_NOT_FOUND"
	case errors.Is(err, face.ErrInvalidFileType):
		return "INVALID_FILE_TYPE"
	case errors.Is(err, face.ErrFileTooLarge):
		return "FILE_TOO_LARGE"
	case errors.Is(err, face.ErrFailedToUploadFile):
		return "UPLOAD_FAILED"
	case errors.Is(err, attendance.ErrNoLandmarksDetected):
		return "LIVENESS_UNAVAILABLE"
	case errors.Is(err, attendance.ErrBlinkNotDetected):
		return "BLINK_NOT_DETECTED"
	case errors.Is(err, attendance.ErrCheckOutBeforeCheckIn):
		return "CHECK_OUT_BEFORE_CHECK_IN"
	case errors.Is(err, attendance.ErrObservationConflict):
		return "OBSERVATION_CONFLICT"
	case errors.Is(err, attendance.ErrRecordNotFound):
		return "RECORD_NOT_FOUND"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "INVALID_CREDENTIALS"
	default:
		return ""
	}
}

func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	fields := log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
		"operation":  operation,
	}

	var respErr *response.Error
	if errors.As(err, &respErr) {
		code := codeFor(err)
		fields["code"] = code

		if respErr.Code >= fiber.StatusInternalServerError {
			h.logger.WithFields(fields).Error("Operation failed with error response")
		} else {
			h.logger.WithFields(fields).Warn("Operation failed with error response")
		}

		body := fiber.Map{"error": err.Error()}
		if code != "" {
			body["code"] = code
		}
		return c.Status(respErr.Code).JSON(body)
	}

	h.logger.WithFields(fields).Error("Unexpected error")

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "An unexpected error occurred",
	})
}

func (h *ErrorHandler) HandleValidationError(c *fiber.Ctx, requestID string, err error, path string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
	}).Warn("Validation failed")

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Validation failed: " + err.Error(),
		"code":  "VALIDATION_ERROR",
	})
}

func (h *ErrorHandler) HandleRequestTimeout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusRequestTimeout).JSON(utils.StatusMessage(fiber.StatusRequestTimeout))
}

func (h *ErrorHandler) HandleUnauthorized(c *fiber.Ctx, requestID string, message string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"path":       c.Path(),
		"message":    message,
	}).Warn("Unauthorized access")

	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": message,
		"code":  "UNAUTHORIZED",
	})
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, statusCode int, data interface{}) error {
	if data == nil {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(data)
}
