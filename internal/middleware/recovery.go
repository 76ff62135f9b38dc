package middleware

import (
	"fmt"
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

// Recovery turns a panic into a generic 500. The stack only goes to the log.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				var stack [4096]byte
				n := runtime.Stack(stack[:], false)

				zerolog.Ctx(c.Request.Context()).Error().
					Str("panic", fmt.Sprintf("%v", r)).
					Str("stack", string(stack[:n])).
					Msg("panic recovered")

				httperr.Write(c, http.StatusInternalServerError, "internal_error", "Erro interno do servidor.")
				c.Abort()
			}
		}()

		c.Next()
	}
}
