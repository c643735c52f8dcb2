package viewer

import (
	"context"
	"errors"
	"fmt"

	"geoexplorer/internal/cache"
)

var (
	// ErrNotAttached is returned when an operation runs before Attach
	ErrNotAttached = errors.New("viewer: not attached to a surface")

	// ErrSuperseded is returned by a load whose response arrived after a newer load started
	ErrSuperseded = errors.New("viewer: load superseded by a newer request")
)

// ConfigurationError is a layer configuration that cannot be loaded
type ConfigurationError struct {
	Layer string
	Field string
}

func (e *ConfigurationError) Error() string {
	if e.Layer == "" {
		return fmt.Sprintf("layer config missing %q", e.Field)
	}
	return fmt.Sprintf("layer %q: config missing %q", e.Layer, e.Field)
}

// Load stages reported by LoadError
const (
	StageFetch  = "fetch"
	StageStatus = "status"
	StageDecode = "decode"
)

// LoadError is a failed fetch, a non-success status or an unparseable body
type LoadError struct {
	Stage string
	URL   string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s (%s): %v", e.URL, e.Stage, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func newLoadError(url string, err error) *LoadError {
	var (
		status *cache.StatusError
		decode *cache.DecodeError
	)
	stage := StageFetch
	switch {
	case errors.As(err, &status):
		stage = StageStatus
	case errors.As(err, &decode):
		stage = StageDecode
	}
	return &LoadError{Stage: stage, URL: url, Err: err}
}

// userMessage is what the map shows in place of the data
func userMessage(err error) string {
	var cfgErr *ConfigurationError
	switch {
	case errors.As(err, &cfgErr):
		return "Layer is not configured: " + err.Error()
	case errors.Is(err, context.Canceled):
		return "Loading canceled."
	default:
		return "Failed to load layer data."
	}
}
