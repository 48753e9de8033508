package types

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// RESULT ENVELOPE
// =============================================================================
//
// Every tier returns its outcome wrapped in a Result so the observability
// layer sees one uniform shape. This subsystem only populates the envelope;
// it never interprets ModuleRef.

// ErrorKind classifies a failed Result.
type ErrorKind string

const (
	// ErrValidation marks malformed input (empty goal, bad constraint value).
	ErrValidation ErrorKind = "validation_error"

	// ErrInference marks an unavailable or timed-out inference collaborator.
	ErrInference ErrorKind = "inference_error"

	// ErrParse marks an LLM reply that was not valid JSON after
	// fence-stripping.
	ErrParse ErrorKind = "parse_error"
)

// ModuleRef tags a Result with its origin for tracing.
type ModuleRef struct {
	Tier     int    `json:"tier"`
	Module   string `json:"module"`
	Function string `json:"function"`
}

// Result is the typed envelope returned by every public pipeline entry point.
type Result struct {
	OK        bool           `json:"ok"`
	Data      any            `json:"data,omitempty"`
	ErrorKind ErrorKind      `json:"error_kind,omitempty"`
	Message   string         `json:"message,omitempty"`
	Metrics   map[string]any `json:"metrics,omitempty"`
	Module    ModuleRef      `json:"module"`
	RequestID string         `json:"request_id"`
	CreatedAt time.Time      `json:"created_at"`
}

// Ok builds a successful Result.
func Ok(data any, metrics map[string]any, ref ModuleRef) Result {
	return Result{
		OK:        true,
		Data:      data,
		Metrics:   metrics,
		Module:    ref,
		RequestID: uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
}

// Fail builds a failed Result with an error kind and message.
func Fail(kind ErrorKind, message string, ref ModuleRef) Result {
	return Result{
		OK:        false,
		ErrorKind: kind,
		Message:   message,
		Module:    ref,
		RequestID: uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
}
