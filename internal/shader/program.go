// Package shader holds the capture-time shading programs and the registry that
// maps a host surface's program name to its capture replacement.
package shader

import (
	"image/color"

	"github.com/chewxy/math32"

	"github.com/Faultbox/vesselshot/pkg/math"
)

// Ref is any shading program a surface can carry: the host's own materials
// and capture programs alike.
type Ref interface {
	Name() string
}

// ProgramID enumerates the capture programs known at build time.
type ProgramID int

const (
	// Unmapped marks a host program with no capture replacement.
	Unmapped ProgramID = iota
	Edn
	Cutoff
	Diffuse
	Bumped
	BumpedSpecular
	Specular
	Unlit
	EmissiveSpecular
	EmissiveBumpedSpecular
)

var resourceNames = [...]string{
	Unmapped:               "",
	Edn:                    "edn",
	Cutoff:                 "cutoff",
	Diffuse:                "diffuse",
	Bumped:                 "bumped",
	BumpedSpecular:         "bumpedspecular",
	Specular:               "specular",
	Unlit:                  "unlit",
	EmissiveSpecular:       "emissivespecular",
	EmissiveBumpedSpecular: "emissivebumpedspecular",
}

// Known returns every capture program in load order.
func Known() []ProgramID {
	return []ProgramID{
		Edn, Cutoff, Diffuse, Bumped, BumpedSpecular,
		Specular, Unlit, EmissiveSpecular, EmissiveBumpedSpecular,
	}
}

// Resource returns the blob name the program is loaded from.
func (id ProgramID) Resource() string {
	if id < 0 || int(id) >= len(resourceNames) {
		return ""
	}
	return resourceNames[id]
}

func (id ProgramID) String() string {
	if id == Unmapped {
		return "unmapped"
	}
	if r := id.Resource(); r != "" {
		return r
	}
	return "invalid"
}

// Shading holds the flat lighting model a capture program applies.
type Shading struct {
	Ambient   float32 `yaml:"ambient"`
	Diffuse   float32 `yaml:"diffuse"`
	Specular  float32 `yaml:"specular"`
	Shininess float32 `yaml:"shininess"`
	Emission  float32 `yaml:"emission"`
	// Cutoff discards texels whose alpha is below it (0..1).
	Cutoff float32 `yaml:"cutoff"`
	Unlit  bool    `yaml:"unlit"`
}

// Program is a capture-time replacement program.
type Program struct {
	ID ProgramID
	// HostName is the host program name this program replaces. Name returns it,
	// so a substituted surface still reports the same name it had before.
	HostName string
	Shading  Shading
}

// Name implements Ref.
func (p *Program) Name() string {
	return p.HostName
}

// Shade lights base for a surface with the given normal. toLight and toEye
// must be normalized. A discarded texel comes back fully transparent.
func (s Shading) Shade(base color.NRGBA, normal, toLight, toEye math.Vec3) color.NRGBA {
	if s.Cutoff > 0 && float32(base.A)/255 < s.Cutoff {
		return color.NRGBA{}
	}
	if s.Unlit {
		return base
	}

	intensity := s.Ambient + s.Emission
	if d := normal.Dot(toLight); d > 0 {
		intensity += s.Diffuse * d
	}
	var highlight float32
	if s.Specular > 0 {
		h := toLight.Add(toEye).Normalize()
		if d := normal.Dot(h); d > 0 {
			highlight = s.Specular * math32.Pow(d, math32.Max(s.Shininess, 1))
		}
	}

	return color.NRGBA{
		R: channel(base.R, intensity, highlight),
		G: channel(base.G, intensity, highlight),
		B: channel(base.B, intensity, highlight),
		A: base.A,
	}
}

func channel(c uint8, intensity, highlight float32) uint8 {
	v := float32(c)*intensity + 255*highlight
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return uint8(v + 0.5)
}
