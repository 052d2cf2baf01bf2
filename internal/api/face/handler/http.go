package faceHandler

import (
	faceService "Veriface/internal/api/face/service"
	"Veriface/internal/middleware"
	"Veriface/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type FaceHandler struct {
	log         *logrus.Logger
	validator   *validator.Validate
	middleware  middleware.Middleware
	faceService faceService.FaceService
	utils       utils.IUtils
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	fs faceService.FaceService,
	utils utils.IUtils,
) *FaceHandler {
	return &FaceHandler{
		log:         log,
		validator:   validator,
		middleware:  middleware,
		faceService: fs,
		utils:       utils,
	}
}

func (h *FaceHandler) Start(srv fiber.Router) {
	faces := srv.Group("/faces")
	faces.Post("", h.RegisterFace)
	faces.Get("/:identity/status", h.GetFaceStatus)
	faces.Delete("/:identity", h.middleware.NewTokenMiddleware, h.DeleteFace)
}
