// Package resource decodes the named YAML blobs that program and effect
// definitions are shipped as.
package resource

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

// ErrLoad marks a resource blob that could not be read or decoded.
var ErrLoad = errors.New("resource load failure")

// Load reads name from fsys and decodes it into v. Unknown keys are rejected
// so a typo in a blob surfaces as a load failure instead of a silent default.
func Load(fsys fs.FS, name string, v any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrLoad, name, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrLoad, name, err)
	}
	return nil
}
