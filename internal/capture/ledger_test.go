package capture_test

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/vesselshot/internal/capture"
	"github.com/Faultbox/vesselshot/internal/logger"
	"github.com/Faultbox/vesselshot/internal/shader"
	"github.com/Faultbox/vesselshot/internal/vessel"
)

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := logger.Log
	logger.SetLogger(zap.New(core))
	t.Cleanup(func() { logger.SetLogger(prev) })
	return logs
}

func TestSubstituteAndRestore(t *testing.T) {
	v := rocket()
	originals := make(map[string]shader.Ref)
	for _, p := range v.Parts() {
		m, _ := p.Model()
		for _, s := range m.Surfaces() {
			originals[s.ID()] = s.Program()
		}
	}

	sub := capture.NewSubstituter(shader.DefaultRegistry())
	l := sub.Begin(v.Parts())

	got := programs(v)
	for id, want := range map[string]string{
		"pod/hull":    "capture",
		"pod/window":  "capture",
		"pod/decal":   "host",
		"tank/body":   "capture",
		"clamp/frame": "capture",
	} {
		if got[id] != want {
			t.Errorf("%s during capture = %s, want %s", id, got[id], want)
		}
	}
	if l.Len() != 4 {
		t.Errorf("ledger len = %d, want 4", l.Len())
	}
	if orig, ok := l.Original("pod", "pod/hull"); !ok || orig != originals["pod/hull"] {
		t.Errorf("Original(pod/hull) = %v, %v", orig, ok)
	}
	patches := l.Patches("pod")
	if len(patches) != 2 || patches[0].SurfaceID != "pod/hull" || patches[1].SurfaceID != "pod/window" {
		t.Errorf("Patches(pod) = %+v, want hull then window", patches)
	}
	if l.Patches("missing") != nil {
		t.Error("Patches of an untracked part is not nil")
	}

	report := sub.End(l, v.Parts())
	if report.Restored != 4 || report.MissingParts != 0 || report.MissingSurfaces != 0 {
		t.Errorf("report = %+v, want 4 restored", report)
	}
	for _, p := range v.Parts() {
		m, _ := p.Model()
		for _, s := range m.Surfaces() {
			if s.Program() != originals[s.ID()] {
				t.Errorf("%s not restored: %v", s.ID(), s.Program().Name())
			}
		}
	}
	if l.Len() != 0 || sub.Open() != nil {
		t.Errorf("ledger still open after End: len %d", l.Len())
	}
	if again := sub.End(l, v.Parts()); again != (capture.RestoreReport{}) {
		t.Errorf("second End = %+v, want no-op", again)
	}
}

func TestSubstituteReportsUnmapped(t *testing.T) {
	logs := observeLogs(t)
	v := rocket()
	sub := capture.NewSubstituter(shader.DefaultRegistry())

	l := sub.Begin(v.Parts())
	defer sub.End(l, v.Parts())

	un := l.Unmapped()
	if len(un) != 1 {
		t.Fatalf("unmapped = %+v, want one entry", un)
	}
	want := capture.UnmappedSurface{PartID: "pod", SurfaceID: "pod/decal", Program: "Custom/Glow"}
	if un[0] != want {
		t.Errorf("unmapped[0] = %+v, want %+v", un[0], want)
	}
	warned := logs.FilterMessage("no replacement program").FilterField(zap.String("program", "Custom/Glow"))
	if warned.Len() != 1 {
		t.Errorf("warnings = %d, want 1", warned.Len())
	}
}

func TestSubstituteReentryKeepsOriginals(t *testing.T) {
	logs := observeLogs(t)
	v := rocket()
	pod, _ := v.Part("pod")
	m, _ := pod.Model()
	hull := m.Surfaces()[0]
	original := hull.Program()

	sub := capture.NewSubstituter(shader.DefaultRegistry())
	first := sub.Begin(v.Parts())
	second := sub.Begin(v.Parts())
	if first != second {
		t.Fatal("re-entry opened a second ledger")
	}
	if logs.FilterMessageSnippet("re-entered").Len() != 1 {
		t.Error("re-entry was not logged")
	}
	if len(second.Unmapped()) != 1 {
		t.Errorf("unmapped after re-entry = %d, want 1", len(second.Unmapped()))
	}

	sub.End(second, v.Parts())
	if hull.Program() != original {
		t.Errorf("hull restored to %T %q, want the host material", hull.Program(), hull.Program().Name())
	}
}

func TestRestoreSkipsRemovedParts(t *testing.T) {
	v := rocket()
	sub := capture.NewSubstituter(shader.DefaultRegistry())
	l := sub.Begin(v.Parts())

	v.Remove("tank")
	pod, _ := v.Part("pod")
	m, _ := pod.Model()
	m.(*vessel.Model).Remove("pod/window")

	report := sub.End(l, v.Parts())
	want := capture.RestoreReport{Restored: 2, MissingParts: 1, MissingSurfaces: 2}
	if report != want {
		t.Errorf("report = %+v, want %+v", report, want)
	}
	if got := programs(v)["pod/hull"]; got != "host" {
		t.Errorf("pod/hull = %s, want host", got)
	}
}

func TestSubstituteSkipsPartsWithoutModel(t *testing.T) {
	v := vessel.New("bare", vessel.FacilitySPH)
	v.Attach(vessel.NewPart("strut", v.FallbackCenter()))
	sub := capture.NewSubstituter(shader.DefaultRegistry())
	l := sub.Begin(v.Parts())
	if len(l.Parts()) != 0 || l.Len() != 0 {
		t.Errorf("ledger tracks %v, want nothing", l.Parts())
	}
	sub.End(l, v.Parts())
}
