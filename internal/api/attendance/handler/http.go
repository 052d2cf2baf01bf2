package attendanceHandler

import (
	attendanceService "Veriface/internal/api/attendance/service"
	"Veriface/internal/middleware"
	"Veriface/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type AttendanceHandler struct {
	log               *logrus.Logger
	validator         *validator.Validate
	middleware        middleware.Middleware
	attendanceService attendanceService.AttendanceService
	utils             utils.IUtils
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	as attendanceService.AttendanceService,
	utils utils.IUtils,
) *AttendanceHandler {
	return &AttendanceHandler{
		log:               log,
		validator:         validator,
		middleware:        middleware,
		attendanceService: as,
		utils:             utils,
	}
}

func (h *AttendanceHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	att := srv.Group("/attendance")
	att.Post("", h.MarkAttendance)
	att.Get("/history/:identity", h.middleware.NewTokenMiddleware, h.GetHistory)
	att.Get("/summary", h.middleware.NewTokenMiddleware, h.GetDailySummary)

	att.Use("/live/ws", wsMiddleware)
	att.Get("/live/ws", websocket.New(h.handleLiveWebSocket))
}
