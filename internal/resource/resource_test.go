package resource

import (
	"errors"
	"testing"
	"testing/fstest"
)

type blob struct {
	Replaces string  `yaml:"replaces"`
	Ambient  float32 `yaml:"ambient"`
}

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"ok.yaml":     {Data: []byte("replaces: KSP/Diffuse\nambient: 0.25\n")},
		"typo.yaml":   {Data: []byte("replace: KSP/Diffuse\n")},
		"broken.yaml": {Data: []byte("replaces: [unterminated\n")},
	}

	var b blob
	if err := Load(fsys, "ok.yaml", &b); err != nil {
		t.Fatalf("Load(ok.yaml) error: %v", err)
	}
	if b.Replaces != "KSP/Diffuse" || b.Ambient != 0.25 {
		t.Errorf("decoded %+v", b)
	}

	for _, name := range []string{"typo.yaml", "broken.yaml", "missing.yaml"} {
		err := Load(fsys, name, &blob{})
		if !errors.Is(err, ErrLoad) {
			t.Errorf("Load(%s) error = %v, want ErrLoad", name, err)
		}
	}
}
