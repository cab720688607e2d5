package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mirna-salem/petprofiles/internal/platform/domain"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

const internalMessage = "internal server error"

// StatusFor maps an error kind to its HTTP status code.
func StatusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation, domain.KindUnsupportedMedia, domain.KindTooLarge:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as a JSON error. Internal errors never leak their detail.
func Error(c *gin.Context, err error) {
	var appErr *domain.AppError
	if !errors.As(err, &appErr) || appErr.Kind == domain.KindInternal {
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorBody{
			Error: internalMessage,
			Code:  string(domain.KindInternal),
		})
		return
	}
	c.AbortWithStatusJSON(StatusFor(appErr.Kind), ErrorBody{
		Error: appErr.Message,
		Code:  string(appErr.Kind),
	})
}

// BadRequest writes a 400 validation error.
func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorBody{
		Error: message,
		Code:  string(domain.KindValidation),
	})
}

// Unauthorized writes a 401 with a generic message.
func Unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorBody{
		Error: "unauthorized",
		Code:  string(domain.KindUnauthorized),
	})
}

// Success writes a 200 JSON body.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Created writes a 201 JSON body.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// NoContent writes a 204.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
