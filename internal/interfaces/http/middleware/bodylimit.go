package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/raas/backend/internal/interfaces/http/dto"
)

// BodyLimit returns a middleware that limits request body size.
// Multipart uploads must fit in maxBytes including the form envelope.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeRequestTooLarge,
					"Corpo da requisição excede o tamanho máximo permitido", c.GetString("request_id")))
			return
		}

		// streaming requests without Content-Length
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
