package middleware

import (
	"errors"
	"mime"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-pet-backend/internal/fault"
)

const ctxKeyMediaType = "media.type"

var errNoSlash = errors.New("does not contain '/'")

// RequireMediaType rejects requests whose Content-Type is absent, unparsable
// or not one of supported. The parsed media type (lower-cased, without
// parameters) is stored for handlers; see MediaType.
func RequireMediaType(d *fault.Dispatcher, supported ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(supported))
	for _, s := range supported {
		allowed[strings.ToLower(s)] = struct{}{}
	}

	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Content-Type"))
		if raw == "" {
			Problem(c, d, fault.NewMediaTypeNotSupported("", supported, nil))
			return
		}

		mt, _, err := mime.ParseMediaType(raw)
		if err != nil {
			if !strings.Contains(raw, "/") {
				err = errNoSlash
			}
			Problem(c, d, fault.NewMediaTypeNotSupported(raw, supported, err))
			return
		}
		if _, ok := allowed[mt]; !ok {
			Problem(c, d, fault.NewMediaTypeNotSupported(raw, supported, nil))
			return
		}

		c.Set(ctxKeyMediaType, mt)
		c.Next()
	}
}

// MediaType returns the media type accepted by RequireMediaType.
func MediaType(c *gin.Context) string {
	return c.GetString(ctxKeyMediaType)
}
