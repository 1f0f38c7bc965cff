package apperrors

import (
	"github.com/google/uuid"
)

// Version is stamped into every rendered envelope.
var Version = "v1"

// Envelope is the uniform JSON error shape returned to callers.
type Envelope struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Cause   string      `json:"cause"`
	Context interface{} `json:"context,omitempty"`
	Meta    Meta        `json:"meta"`
}

type Meta struct {
	Request RequestMeta `json:"request"`
	Version string      `json:"version"`
}

type RequestMeta struct {
	// ID is a fresh UUID minted per rendered error. It is returned for
	// support correlation and never persisted.
	ID     string `json:"id"`
	Status int    `json:"status"`
}

// Envelope renders the error into the transport shape.
func (e *AppError) Envelope() Envelope {
	return Envelope{
		Type:    e.Type,
		Message: e.Message,
		Cause:   e.Cause(),
		Context: e.Context,
		Meta: Meta{
			Request: RequestMeta{ID: uuid.NewString(), Status: e.Status},
			Version: Version,
		},
	}
}
