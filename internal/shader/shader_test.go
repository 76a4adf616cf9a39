package shader

import (
	"errors"
	"image/color"
	"testing"
	"testing/fstest"

	"github.com/Faultbox/vesselshot/internal/resource"
	"github.com/Faultbox/vesselshot/pkg/math"
)

func TestDefaultRegistryLoadsAllPrograms(t *testing.T) {
	r := DefaultRegistry()
	if errs := r.LoadErrors(); len(errs) != 0 {
		t.Fatalf("unexpected load errors: %v", errs)
	}
	if r.Len() != len(Known()) {
		t.Errorf("Len() = %d, want %d", r.Len(), len(Known()))
	}

	id, p := r.Lookup("KSP/Diffuse")
	if id != Diffuse || p == nil {
		t.Fatalf("Lookup(KSP/Diffuse) = %v, %v", id, p)
	}
	if p.Name() != "KSP/Diffuse" {
		t.Errorf("replacement Name() = %q, want the host name", p.Name())
	}
}

func TestLookupUnknownIsUnmapped(t *testing.T) {
	id, p := DefaultRegistry().Lookup("Legacy Shaders/Transparent")
	if id != Unmapped || p != nil {
		t.Errorf("Lookup(unknown) = %v, %v; want Unmapped, nil", id, p)
	}
	if id.String() != "unmapped" {
		t.Errorf("String() = %q", id.String())
	}
}

func TestLoadRegistrySkipsBrokenBlobs(t *testing.T) {
	fsys := fstest.MapFS{
		"diffuse.yaml":  {Data: []byte("replaces: KSP/Diffuse\nshading:\n  ambient: 0.5\n")},
		"specular.yaml": {Data: []byte("replaces: [oops\n")},
		"unlit.yaml":    {Data: []byte("shading:\n  unlit: true\n")},
	}
	r := LoadRegistry(fsys)

	if r.Program(Diffuse) == nil {
		t.Error("diffuse should load")
	}
	if r.Program(Specular) != nil {
		t.Error("broken specular blob should be excluded")
	}
	if r.Program(Unlit) != nil {
		t.Error("unlit blob without replaces should be excluded")
	}
	// every known program except diffuse failed: 2 broken + the rest missing
	if got, want := len(r.LoadErrors()), len(Known())-1; got != want {
		t.Errorf("LoadErrors() = %d, want %d", got, want)
	}
	for _, err := range r.LoadErrors() {
		if !errors.Is(err, resource.ErrLoad) {
			t.Errorf("error %v is not ErrLoad", err)
		}
	}
}

func TestRegisterReplacesByID(t *testing.T) {
	r := NewRegistry()
	r.Register(&Program{ID: Diffuse, HostName: "Old/Diffuse"})
	r.Register(&Program{ID: Diffuse, HostName: "New/Diffuse"})

	if id, _ := r.Lookup("Old/Diffuse"); id != Unmapped {
		t.Error("old host name should no longer resolve")
	}
	if id, _ := r.Lookup("New/Diffuse"); id != Diffuse {
		t.Error("new host name should resolve")
	}
}

func TestShade(t *testing.T) {
	base := color.NRGBA{R: 200, G: 100, B: 50, A: 255}
	n := math.Vec3{Z: -1}
	toLight := math.Vec3{Z: -1}

	tests := []struct {
		name    string
		shading Shading
		base    color.NRGBA
		want    color.NRGBA
	}{
		{"unlit keeps base", Shading{Unlit: true}, base, base},
		{"full diffuse", Shading{Diffuse: 1}, base, base},
		{"ambient only", Shading{Ambient: 0.5}, base, color.NRGBA{R: 100, G: 50, B: 25, A: 255}},
		{"cutoff discards", Shading{Diffuse: 1, Cutoff: 0.5}, color.NRGBA{R: 10, A: 100}, color.NRGBA{}},
		{"saturates", Shading{Ambient: 1, Emission: 1}, base, color.NRGBA{R: 255, G: 200, B: 100, A: 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.shading.Shade(tt.base, n, toLight, toLight)
			if got != tt.want {
				t.Errorf("Shade() = %v, want %v", got, tt.want)
			}
		})
	}
}
