// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the response utilities shared by all endpoints. Failures
// never get formatted here: handlers pass whatever error they hold to
// problem(), which hands it to the fault dispatcher and writes the resulting
// RFC 9457 document.
//
// Example error response:
//
//	HTTP/1.1 404 Not Found
//	Content-Type: application/problem+json
//	{
//	  "type": "/petstore/petservice/v1/pets/5c4e1c3f-4a41-4bd6-9d53-0d2f8b3bb7a1",
//	  "title": "Not found",
//	  "instance": "urn:ERROR:0d8b52a3-58f2-45ad-9f9b-ae2b3a0c1f44",
//	  "detail": "Resource with ID 5c4e1c3f-4a41-4bd6-9d53-0d2f8b3bb7a1 not found in the persistence"
//	}
package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-pet-backend/internal/binding"
	"github.com/tbourn/go-pet-backend/internal/fault"
	"github.com/tbourn/go-pet-backend/internal/http/middleware"
)

// problem aborts the request with the problem document for err.
func (h *Handlers) problem(c *gin.Context, err error) {
	middleware.Problem(c, h.faults, err)
}

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// noContent writes an HTTP 204 No Content response.
func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// created writes a 201 with a Location header and no body.
func created(c *gin.Context, location string) {
	c.Header("Location", location)
	c.Status(http.StatusCreated)
}

// readBody reads at most max bytes of the request body. Larger bodies are
// a body-site size violation.
func readBody(c *gin.Context, max int64) ([]byte, error) {
	if c.Request.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, max+1))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, bodyTooLarge(min(max, mbe.Limit))
		}
		return nil, fault.Wrap(err)
	}
	if int64(len(body)) > max {
		return nil, bodyTooLarge(max)
	}
	return body, nil
}

func bodyTooLarge(max int64) error {
	return fault.NewBodyViolations([]fault.Violation{{
		Path:    []string{binding.BodySegment},
		Message: binding.SizeMessage(0, int(max)),
	}})
}
