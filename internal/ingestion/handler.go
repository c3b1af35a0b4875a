package ingestion

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"

	v1 "github.com/aevon-lab/project-tally/internal/api/v1"
	httperr "github.com/aevon-lab/project-tally/internal/core/errors"
	"github.com/aevon-lab/project-tally/internal/core/normalize"
	"github.com/gin-gonic/gin"
)

const (
	statusSuccess = "success"

	msgReadBodyFailed   = "Failed to read request body"
	msgBodyTooLarge     = "Request body exceeds maximum allowed size"
	msgInvalidJSON      = "Invalid JSON body"
	msgNormalization    = "Normalization failed"
	msgSimulatedFailure = "Simulated Internal Server Error"
	msgLookupFailed     = "Database lookup failed"
	msgWriteFailed      = "Database write failed"
	msgDeduplicated     = "Event processed (deduplicated)"
	msgRaceDeduplicated = "Event processed (race-condition dedup)"
)

// ingestionError carries the structured HTTP error shape from a helper back to the orchestrator.
// Helpers return this instead of writing to gin.Context directly, keeping them decoupled from HTTP.
type ingestionError struct {
	statusCode int
	errorType  string
	message    string
	details    interface{}
}

func (e *ingestionError) Error() string {
	return e.message
}

// IngestHandler handles POST /ingest.
func (s *Service) IngestHandler(c *gin.Context) {
	req, ierr := s.parseRequest(c)
	if ierr != nil {
		writeError(c, ierr)
		return
	}

	out, err := s.Ingest(c.Request.Context(), IngestCommand{
		Event:           req.Event,
		SimulateFailure: req.SimulateFailure,
		ReceivedAt:      s.nowFn(),
	})
	if err != nil {
		writeError(c, mapIngestError(err))
		return
	}

	switch out.Kind {
	case OutcomeCreated:
		c.JSON(http.StatusCreated, v1.CreatedResponse{Status: statusSuccess, ID: out.Record.ID})
	case OutcomeRaceDuplicate:
		c.JSON(http.StatusOK, v1.DeduplicatedResponse{
			Status:       statusSuccess,
			Message:      msgRaceDeduplicated,
			Deduplicated: true,
		})
	default:
		c.JSON(http.StatusOK, v1.DeduplicatedResponse{
			Status:       statusSuccess,
			Message:      msgDeduplicated,
			Deduplicated: true,
		})
	}
}

// parseRequest reads the bounded body and binds it into an IngestRequest.
func (s *Service) parseRequest(c *gin.Context) (*v1.IngestRequest, *ingestionError) {
	// Enforce maximum body size to prevent OOM attacks
	maxBytes := int64(s.maxBodySizeBytes)
	limitedBody := io.LimitReader(c.Request.Body, maxBytes+1) // +1 to detect oversized requests

	bodyBytes, err := io.ReadAll(limitedBody)
	if err != nil {
		slog.Error("[Ingest] Failed to read request body", "error", err)
		return nil, &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgReadBodyFailed,
		}
	}

	if int64(len(bodyBytes)) > maxBytes {
		slog.Warn("[Ingest] Request body exceeds maximum size", "size", len(bodyBytes), "max", maxBytes)
		return nil, &ingestionError{
			statusCode: http.StatusRequestEntityTooLarge,
			errorType:  httperr.HttpPayloadTooLargeError,
			message:    msgBodyTooLarge,
			details: map[string]interface{}{
				"max_size_mb": maxBytes / (1024 * 1024),
			},
		}
	}

	c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))

	var req v1.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("[Ingest] Invalid JSON body received", "error", err, "payload_size", len(bodyBytes))
		return nil, &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidJsonError,
			message:    msgInvalidJSON,
		}
	}

	if err := req.Validate(); err != nil {
		return nil, &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidJsonError,
			message:    msgInvalidJSON,
			details:    err.Error(),
		}
	}

	return &req, nil
}

// mapIngestError translates pipeline errors into HTTP responses.
func mapIngestError(err error) *ingestionError {
	switch {
	case errors.Is(err, ErrValidation):
		var details interface{}
		var verr *normalize.ValidationError
		if errors.As(err, &verr) {
			details = verr.Reason
		}
		return &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpNormalizationError,
			message:    msgNormalization,
			details:    details,
		}
	case errors.Is(err, ErrSimulatedFailure):
		return &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpSimulatedFailureError,
			message:    msgSimulatedFailure,
		}
	case errors.Is(err, ErrLookup):
		return &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpPersistenceError,
			message:    msgLookupFailed,
		}
	default:
		return &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpPersistenceError,
			message:    msgWriteFailed,
		}
	}
}

// writeError serializes an ingestionError as the JSON HTTP response.
func writeError(c *gin.Context, err *ingestionError) {
	c.JSON(err.statusCode, httperr.ErrorResponse{
		Message:   err.message,
		ErrorType: err.errorType,
		Details:   err.details,
	})
}
