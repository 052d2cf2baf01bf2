package attendanceHandler

import (
	contextPkg "Veriface/pkg/context"
	"Veriface/pkg/handlerUtil"
	jwtPkg "Veriface/pkg/jwt"
	"Veriface/pkg/log"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *AttendanceHandler) MarkAttendance(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 15*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing attendance observation")

	imageFile, err := ctx.FormFile("image")
	if err != nil {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("image file is required"), ctx.Path())
	}

	if err := h.utils.ValidateImageFile(imageFile); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	frame, err := h.utils.ReadFileHeader(imageFile)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_image")
	}

	resp, err := h.attendanceService.Verify().MarkAttendance(c, frame, time.Now())
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "mark_attendance")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
	}
}

func (h *AttendanceHandler) GetHistory(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	operator, err := jwtPkg.GetOperatorLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	identity := ctx.Params("identity")
	if identity == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("identity is required"), ctx.Path())
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"identity":   identity,
		"operator":   operator.Username,
	}).Debug("Processing attendance history request")

	limit, _ := strconv.Atoi(ctx.Query("limit"))

	resp, err := h.attendanceService.Report().History(c, identity, limit)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_history")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
	}
}

func (h *AttendanceHandler) GetDailySummary(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	operator, err := jwtPkg.GetOperatorLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	date := time.Now()
	if raw := strings.TrimSpace(ctx.Query("date")); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return errHandler.HandleValidationError(ctx, requestID,
				errors.New("date must be formatted as YYYY-MM-DD"), ctx.Path())
		}
		date = parsed
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"date":       date.Format("2006-01-02"),
		"operator":   operator.Username,
	}).Debug("Processing daily summary request")

	resp, err := h.attendanceService.Report().DailySummary(c, date)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_daily_summary")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
	}
}
