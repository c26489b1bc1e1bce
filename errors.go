package waifu2x

import (
	"errors"
	"fmt"
)

// Sentinel errors for the reconstruction pipeline.
var (
	// ErrInvalidConfig is returned when a Config fails validation
	// (non-positive scale ratio, inconsistent block sizing, missing engine).
	ErrInvalidConfig = errors.New("waifu2x: invalid configuration")

	// ErrNotInitialized is returned when Process is called on a closed or
	// zero-value Pipeline.
	ErrNotInitialized = errors.New("waifu2x: pipeline not initialized")

	// ErrCanceled is returned when cooperative cancellation is observed at a
	// pass boundary. It is a terminal outcome distinct from failure: no output
	// image is produced, but nothing went wrong.
	ErrCanceled = errors.New("waifu2x: canceled")
)

// EngineError is returned when an inference engine call fails. The whole
// reconstruction is aborted; no partial canvas is ever returned.
type EngineError struct {
	// Pass names the reconstruction pass that failed ("denoise" or "scale").
	Pass string
	// Batch is the index of the first tile in the failed batch.
	Batch int
	// Err is the engine's own error.
	Err error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("waifu2x: %s engine failed at batch %d: %v", e.Pass, e.Batch, e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }
