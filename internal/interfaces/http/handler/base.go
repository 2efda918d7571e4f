package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/raas/backend/internal/application/ingestion"
	"github.com/raas/backend/internal/domain/bulk"
	"github.com/raas/backend/internal/domain/shared"
	"github.com/raas/backend/internal/infrastructure/logger"
	"github.com/raas/backend/internal/interfaces/http/dto"
	"github.com/raas/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// RequestIDKey is the gin context key set by the request logging middleware
const RequestIDKey = "request_id"

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(logger.RequestIDHeader)
}

// getUserID extracts the caller's id from JWT claims
func getUserID(c *gin.Context) (uuid.UUID, error) {
	userIDStr := middleware.GetJWTUserID(c)
	if userIDStr == "" {
		return uuid.Nil, errors.New("user ID not found in context")
	}
	return uuid.Parse(userIDStr)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// ValidationError sends a 400 for a request that failed binding.
// Field rule violations are listed in the message as Field(rule).
func (h *BaseHandler) ValidationError(c *gin.Context, err error) {
	logger.L(c.Request.Context()).Debug("Request validation failed", zap.Error(err))
	h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, validationMessage(err))
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "Requisição inválida"
	}
	parts := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		parts[i] = fe.Field() + "(" + fe.Tag() + ")"
	}
	return "Requisição inválida: " + strings.Join(parts, ", ")
}

// HandleError converts application errors to HTTP responses.
// Ingestion errors keep their type tag; domain errors map by code;
// anything else is a 500 that does not leak the cause.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID := getRequestID(c)

	var ingErr *ingestion.IngestionError
	if errors.As(err, &ingErr) {
		code, status := ingestionErrorCode(ingErr.Type)
		if status >= http.StatusInternalServerError {
			logger.L(c.Request.Context()).Error("Upload failed", zap.Error(err))
		}
		resp := dto.NewErrorResponseWithRequestID(code, ingErr.Message, requestID)
		resp.Error.Type = string(ingErr.Type)
		resp.Error.Installations = ingErr.Installations
		if ingErr.BatchID != nil {
			resp.Error.BatchID = ingErr.BatchID.String()
		}
		c.JSON(status, resp)
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, domainErr.Message, requestID))
		return
	}

	logger.L(c.Request.Context()).Error("Unhandled error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeInternal,
		"Erro interno do servidor",
		requestID,
	))
}

func ingestionErrorCode(t bulk.ErrorType) (string, int) {
	switch t {
	case bulk.ErrorTypeInvalidFormat:
		return dto.ErrCodeInvalidFormat, http.StatusBadRequest
	case bulk.ErrorTypeMissingInstallation:
		return dto.ErrCodeMissingInstallation, http.StatusUnprocessableEntity
	default:
		return dto.ErrCodeUploadFailed, http.StatusInternalServerError
	}
}
