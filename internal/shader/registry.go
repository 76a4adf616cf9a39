package shader

import (
	"embed"
	"fmt"
	"io/fs"

	"go.uber.org/zap"

	"github.com/Faultbox/vesselshot/internal/logger"
	"github.com/Faultbox/vesselshot/internal/resource"
)

//go:embed programs/*.yaml
var embedded embed.FS

type programBlob struct {
	Replaces string  `yaml:"replaces"`
	Shading  Shading `yaml:"shading"`
}

// Registry maps host program names to capture programs. It is built once at
// startup and read-only afterwards.
type Registry struct {
	byName map[string]*Program
	byID   map[ProgramID]*Program
	errs   []error
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*Program),
		byID:   make(map[ProgramID]*Program),
	}
}

// DefaultRegistry loads every known program from the embedded blobs.
func DefaultRegistry() *Registry {
	sub, err := fs.Sub(embedded, "programs")
	if err != nil {
		// embed guarantees the directory exists
		panic(err)
	}
	return LoadRegistry(sub)
}

// LoadRegistry loads every known program from "<resource>.yaml" in fsys.
// A blob that fails to load is logged and left out; the rest still load.
func LoadRegistry(fsys fs.FS) *Registry {
	r := NewRegistry()
	for _, id := range Known() {
		var blob programBlob
		if err := resource.Load(fsys, id.Resource()+".yaml", &blob); err != nil {
			logger.Error("failed to load capture program",
				zap.Stringer("program", id),
				zap.Error(err),
			)
			r.errs = append(r.errs, err)
			continue
		}
		if blob.Replaces == "" {
			logger.Error("capture program names no host program", zap.Stringer("program", id))
			r.errs = append(r.errs, fmt.Errorf("%w: %s: missing replaces", resource.ErrLoad, id.Resource()))
			continue
		}
		r.Register(&Program{ID: id, HostName: blob.Replaces, Shading: blob.Shading})
	}
	logger.Debug("capture programs loaded",
		zap.Int("loaded", len(r.byID)),
		zap.Int("failed", len(r.errs)),
	)
	return r
}

// Register adds p, replacing any program previously registered under the
// same host name or ID.
func (r *Registry) Register(p *Program) {
	if old, ok := r.byID[p.ID]; ok {
		delete(r.byName, old.HostName)
	}
	r.byName[p.HostName] = p
	r.byID[p.ID] = p
}

// Lookup resolves a host program name. Names without a replacement resolve to
// Unmapped and a nil program.
func (r *Registry) Lookup(name string) (ProgramID, *Program) {
	p, ok := r.byName[name]
	if !ok {
		return Unmapped, nil
	}
	return p.ID, p
}

// Program returns the program registered for id, or nil.
func (r *Registry) Program(id ProgramID) *Program {
	return r.byID[id]
}

// Len returns the number of registered programs.
func (r *Registry) Len() int {
	return len(r.byID)
}

// LoadErrors returns the failures recorded while loading.
func (r *Registry) LoadErrors() []error {
	return r.errs
}
