package middleware

import (
	"net/http"

	"github.com/fintech/wcm/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// BodyLimit rejects requests whose declared Content-Length exceeds maxBytes
// and caps streamed bodies at the same size. CSV import uploads are the main
// consumer; the cap keeps a runaway file from exhausting memory.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponseWithRequestID(
					dto.ErrCodePayloadTooLarge,
					"Request body exceeds maximum allowed size",
					getRequestIDFromContext(c),
				))
			return
		}

		// Content-Length can lie or be absent entirely, so the body is also
		// wrapped in a MaxBytesReader that enforces the cap on read.
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
