package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"error"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

// InvalidRequest answers a body or query that failed to bind.
func InvalidRequest(c *gin.Context) {
	BadRequest(c, "invalid_request", "Dados inválidos.")
}

// Respond writes err as a JSON error body. Typed errors keep their status,
// code and message; anything else is logged and answered with a generic 500.
func Respond(c *gin.Context, err error) {
	var e *Error
	if errors.As(err, &e) {
		if e.Kind == KindInternal {
			logUnhandled(c, err)
		}
		Write(c, e.Status(), e.Code, e.Message)
		return
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		NotFound(c, "not_found", "Registro não encontrado.")
		return
	}

	logUnhandled(c, err)
	Internal(c, "internal_error", "Erro interno do servidor.")
}

func logUnhandled(c *gin.Context, err error) {
	zerolog.Ctx(c.Request.Context()).Error().
		Err(err).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Msg("request failed")
}
