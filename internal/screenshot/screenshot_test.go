package screenshot

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Kerbal X", "Kerbal X"},
		{"My/Ship:1", "My_Ship_1"},
		{`a<>|b`, "a_b"},
		{"lander...", "lander_"},
		{"lander?.", "lander_"},
		{"tab\there", "tab_here"},
		{"v1.2", "v1.2"},
		{"Caf\u0065\u0301", "Caf\u00e9"},
	}
	for _, tt := range tests {
		if got := Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDir(t *testing.T) {
	root := filepath.Join("games", "ksp", "GameData")
	want := filepath.Join("games", "ksp", DirName)
	for _, in := range []string{root, root + string(filepath.Separator)} {
		if got := Dir(in); got != want {
			t.Errorf("Dir(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNextPath(t *testing.T) {
	dir := t.TempDir()

	path, err := NextPath(dir, "Ship")
	if err != nil {
		t.Fatalf("NextPath: %v", err)
	}
	if want := filepath.Join(dir, "Ship_1.png"); path != want {
		t.Errorf("first path = %q, want %q", path, want)
	}

	if err := os.WriteFile(filepath.Join(dir, "Ship_1.png"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	path, err = NextPath(dir, "Ship")
	if err != nil {
		t.Fatalf("NextPath: %v", err)
	}
	if want := filepath.Join(dir, "Ship_2.png"); path != want {
		t.Errorf("next path = %q, want %q", path, want)
	}
}

func TestStoreSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Screenshots")
	s := NewStore(dir)

	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 128})

	first, err := s.Save(img, "front_My/Ship:1")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if want := filepath.Join(dir, "front_My_Ship_1_1.png"); first != want {
		t.Errorf("path = %q, want %q", first, want)
	}
	second, err := s.Save(img, "front_My/Ship:1")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if second == first {
		t.Errorf("second save overwrote %q", first)
	}

	f, err := os.Open(first)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Errorf("decoded bounds = %v", b)
	}
	got := color.NRGBAModel.Convert(decoded.At(1, 1)).(color.NRGBA)
	if got.A != 128 || got.B < 29 || got.B > 31 {
		t.Errorf("pixel = %v, want about {10 20 30 128}", got)
	}
}

func TestStoreSaveUnwritableDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewStore(filepath.Join(file, "Screenshots")).Save(image.NewRGBA(image.Rect(0, 0, 1, 1)), "x"); err == nil {
		t.Error("Save into a path under a file succeeded")
	}
}

func TestStoreSaveEncodeFailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)

	if _, err := s.Save(image.NewRGBA(image.Rectangle{}), "Ship"); err == nil {
		t.Fatal("Save of an empty image succeeded")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("failed save left %d file(s), first %q", len(entries), entries[0].Name())
	}

	// the number is still free for the next save
	path, err := s.Save(image.NewRGBA(image.Rect(0, 0, 1, 1)), "Ship")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if want := filepath.Join(dir, "Ship_1.png"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
}
