// Package handler contains the gin handlers for every API resource. Each
// handler binds and validates the request, delegates to an application
// service and writes the response envelope.
package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/identity"
	"github.com/schoolhub/backend/internal/domain/shared"
	"github.com/schoolhub/backend/internal/interfaces/http/dto"
	"github.com/schoolhub/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides the response and error helpers shared by all
// handlers.
type BaseHandler struct {
	logger *zap.Logger
}

// NewBaseHandler creates a BaseHandler with the given logger
func NewBaseHandler(logger *zap.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// Success writes a 200 with the data wrapped in the envelope
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created writes a 201 with the data wrapped in the envelope
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent writes a 204
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Paginated writes a 200 with items and pagination meta
func Paginated[T any](c *gin.Context, page *shared.Paginated[T]) {
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(page))
}

// BadRequest writes a 400 validation failure
func (h *BaseHandler) BadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest,
		dto.NewErrorResponse(dto.ErrCodeValidation, err.Error(), middleware.GetRequestID(c)))
}

// HandleError maps a service error to its HTTP response. Domain errors
// carry their own code; anything else is an internal error and gets
// logged with the request ID.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		c.JSON(dto.StatusForCode(domainErr.Code),
			dto.NewErrorResponse(domainErr.Code, domainErr.Message, middleware.GetRequestID(c)))
		return
	}

	h.logger.Error("Unhandled service error",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", middleware.GetRequestID(c)))
	c.JSON(http.StatusInternalServerError,
		dto.NewErrorResponse(dto.ErrCodeInternal, "Internal server error", middleware.GetRequestID(c)))
}

// actor returns the authenticated actor, aborting with 401 if the auth
// middleware did not run.
func (h *BaseHandler) actor(c *gin.Context) (identity.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized,
			dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Missing authorization token", middleware.GetRequestID(c)))
	}
	return actor, ok
}

// pathID parses a UUID path parameter, aborting with 400 on bad input
func (h *BaseHandler) pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest,
			dto.NewErrorResponse(dto.ErrCodeBadRequest, "Invalid "+name+" parameter", middleware.GetRequestID(c)))
		return uuid.Nil, false
	}
	return id, true
}

// uploadedFile opens the multipart "file" field of an upload request
func (h *BaseHandler) uploadedFile(c *gin.Context) (multipart.File, string, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest,
			dto.NewErrorResponse(dto.ErrCodeBadRequest, "Missing file upload", middleware.GetRequestID(c)))
		return nil, "", false
	}
	file, err := header.Open()
	if err != nil {
		h.HandleError(c, err)
		return nil, "", false
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return file, contentType, true
}

// listFilter binds the common list query parameters
func (h *BaseHandler) listFilter(c *gin.Context) (shared.Filter, bool) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err)
		return shared.Filter{}, false
	}
	return req.ToFilter(), true
}
