package capture

import (
	"errors"

	"github.com/Faultbox/vesselshot/internal/resource"
)

var (
	// ErrResourceLoad marks a program or effect blob that failed to load.
	ErrResourceLoad = resource.ErrLoad
	// ErrRender marks a failed render: target allocation or the renderer itself.
	ErrRender = errors.New("render failure")
	// ErrEffect marks a post-processing pass that failed.
	ErrEffect = errors.New("effect failure")
	// ErrPersistence marks a frame that could not be written to disk.
	ErrPersistence = errors.New("persistence failure")
	// ErrNoFrame is returned when saving before anything was captured.
	ErrNoFrame = errors.New("no frame captured")
)
