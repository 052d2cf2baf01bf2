package faceHandler

import (
	"Veriface/internal/api/face"
	contextPkg "Veriface/pkg/context"
	"Veriface/pkg/handlerUtil"
	jwtPkg "Veriface/pkg/jwt"
	"Veriface/pkg/log"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *FaceHandler) RegisterFace(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 15*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing register face request")

	var req face.RegisterFaceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	imageFile, err := ctx.FormFile("image")
	if err != nil {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("image file is required"), ctx.Path())
	}

	if err := h.utils.ValidateImageFile(imageFile); err != nil {
		if strings.Contains(err.Error(), "size") {
			return errHandler.Handle(ctx, requestID, face.ErrFileTooLarge, ctx.Path(), "validate_image")
		}
		return errHandler.Handle(ctx, requestID, face.ErrInvalidFileType, ctx.Path(), "validate_image")
	}

	image, err := h.utils.ReadFileHeader(imageFile)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_image")
	}

	resp, err := h.faceService.Register().RegisterFace(c, req, image, imageFile.Filename, imageFile.Header.Get("Content-Type"))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "register_face")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, resp)
	}
}

func (h *FaceHandler) GetFaceStatus(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	identity := ctx.Params("identity")
	if identity == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("identity is required"), ctx.Path())
	}

	resp, err := h.faceService.Register().GetStatus(c, identity)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_face_status")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
	}
}

func (h *FaceHandler) DeleteFace(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	operator, err := jwtPkg.GetOperatorLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
		"operator":   operator.Username,
	}).Debug("Processing delete face request")

	identity := ctx.Params("identity")
	if identity == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("identity is required"), ctx.Path())
	}

	if err := h.faceService.Register().DeleteFace(c, identity); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "delete_face")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
			"message": "Face template deleted successfully",
		})
	}
}
