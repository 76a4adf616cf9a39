package vessel

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/vesselshot/pkg/math"
)

// File is the YAML layout of a vessel description.
type File struct {
	Name           string     `yaml:"name"`
	Facility       Facility   `yaml:"facility"`
	FallbackCenter [3]float32 `yaml:"fallback_center"`
	Parts          []PartFile `yaml:"parts"`
}

// PartFile describes one part. Without an explicit collider the part collides
// with the union of its surfaces.
type PartFile struct {
	ID         string        `yaml:"id"`
	Position   [3]float32    `yaml:"position"`
	Excluded   bool          `yaml:"excluded"`
	NoCollider bool          `yaml:"no_collider"`
	NoModel    bool          `yaml:"no_model"`
	Collider   *BoxFile      `yaml:"collider"`
	Surfaces   []SurfaceFile `yaml:"surfaces"`
}

// SurfaceFile describes one box surface.
type SurfaceFile struct {
	ID      string   `yaml:"id"`
	Program string   `yaml:"program"`
	Color   [4]uint8 `yaml:"color"`

	BoxFile `yaml:",inline"`
}

// BoxFile is a box given by two corners.
type BoxFile struct {
	Min [3]float32 `yaml:"min"`
	Max [3]float32 `yaml:"max"`
}

func (b BoxFile) bounds() math.Bounds {
	return math.BoundsFromMinMax(vec(b.Min), vec(b.Max))
}

func vec(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}

// Load reads a vessel description from path.
func Load(path string) (*Vessel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading vessel: %w", err)
	}
	return Parse(data)
}

// Parse builds a vessel from YAML. Unknown keys are an error.
func Parse(data []byte) (*Vessel, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing vessel: %w", err)
	}
	return f.Build()
}

// Build turns the description into a live vessel.
func (f File) Build() (*Vessel, error) {
	facility := f.Facility
	switch facility {
	case "":
		facility = FacilityVAB
	case FacilityVAB, FacilitySPH:
	default:
		return nil, fmt.Errorf("unknown facility %q", f.Facility)
	}

	v := New(f.Name, facility)
	v.SetFallbackCenter(vec(f.FallbackCenter))

	seen := make(map[string]bool, len(f.Parts))
	materials := make(map[string]*Material)
	for i, pf := range f.Parts {
		if pf.ID == "" {
			return nil, fmt.Errorf("part %d: missing id", i)
		}
		if seen[pf.ID] {
			return nil, fmt.Errorf("part %q: duplicate id", pf.ID)
		}
		seen[pf.ID] = true

		var opts []PartOption
		if pf.Excluded {
			opts = append(opts, Excluded())
		}

		var surfaces []*Surface
		var union *math.Bounds
		for j, sf := range pf.Surfaces {
			if sf.ID == "" {
				sf.ID = fmt.Sprintf("%s/%d", pf.ID, j)
			}
			m, ok := materials[sf.Program]
			if !ok {
				m = NewMaterial(sf.Program)
				materials[sf.Program] = m
			}
			b := sf.bounds()
			c := color.NRGBA{R: sf.Color[0], G: sf.Color[1], B: sf.Color[2], A: sf.Color[3]}
			surfaces = append(surfaces, NewSurface(sf.ID, m, b, c))
			if union == nil {
				union = &b
			} else {
				u := union.Encapsulate(b)
				union = &u
			}
		}

		switch {
		case pf.NoCollider:
		case pf.Collider != nil:
			opts = append(opts, WithCollider(pf.Collider.bounds()))
		case union != nil:
			opts = append(opts, WithCollider(*union))
		}
		if !pf.NoModel {
			opts = append(opts, WithModel(surfaces...))
		}

		v.parts = append(v.parts, NewPart(pf.ID, vec(pf.Position), opts...))
	}
	return v, nil
}
