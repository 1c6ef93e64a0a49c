package middleware

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-pet-backend/internal/fault"
	"github.com/tbourn/go-pet-backend/internal/observability"
)

// ProblemRequest describes the current request to the fault engine. The
// type URI is the request path without query.
func ProblemRequest(c *gin.Context) fault.Request {
	return fault.Request{
		Path:   c.Request.URL.Path,
		Method: c.Request.Method,
		Logger: LoggerFrom(c),
	}
}

// Problem classifies err with d and aborts the request with the resulting
// problem document.
func Problem(c *gin.Context, d *fault.Dispatcher, err error) {
	WriteProblem(c, d.Dispatch(ProblemRequest(c), err))
}

// WriteProblem aborts the request with res. A response that has already
// started keeps its status; only the abort happens.
func WriteProblem(c *gin.Context, res fault.Result) {
	problemResponses.WithLabelValues(res.Rule, strconv.Itoa(res.Status)).Inc()
	observability.RecordProblem(c.Request.Context(), res.ErrorID(), res.Status, res.Rule)
	if c.Writer.Written() {
		c.Abort()
		return
	}
	if len(res.Allow) > 0 {
		c.Header("Allow", strings.Join(res.Allow, ", "))
	}
	// Every document carries a fresh instance id.
	setNoStore(c.Writer.Header())
	// gin keeps an explicitly set Content-Type when rendering JSON.
	c.Header("Content-Type", fault.ContentType)
	c.AbortWithStatusJSON(res.Status, res.Problem)
}
