package capture

import (
	"go.uber.org/zap"

	"github.com/Faultbox/vesselshot/internal/logger"
	"github.com/Faultbox/vesselshot/internal/scene"
	"github.com/Faultbox/vesselshot/internal/shader"
)

// SurfacePatch records the program a surface carried before substitution.
type SurfacePatch struct {
	SurfaceID string
	Original  shader.Ref
}

// UnmappedSurface is a surface left untouched because its program has no
// capture replacement.
type UnmappedSurface struct {
	PartID    string
	SurfaceID string
	Program   string
}

type partPatches struct {
	order   []string
	patches map[string]SurfacePatch
}

// Ledger holds what Substituter.Begin changed so End can undo it. A ledger is
// consumed by End.
type Ledger struct {
	order    []string
	parts    map[string]*partPatches
	unmapped []UnmappedSurface
	seen     map[[2]string]bool
}

func newLedger() *Ledger {
	return &Ledger{
		parts: make(map[string]*partPatches),
		seen:  make(map[[2]string]bool),
	}
}

func (l *Ledger) part(id string) *partPatches {
	pp, ok := l.parts[id]
	if !ok {
		pp = &partPatches{patches: make(map[string]SurfacePatch)}
		l.parts[id] = pp
		l.order = append(l.order, id)
	}
	return pp
}

// record stores the original program unless the surface is already tracked.
func (pp *partPatches) record(surfaceID string, original shader.Ref) {
	if _, ok := pp.patches[surfaceID]; ok {
		return
	}
	pp.patches[surfaceID] = SurfacePatch{SurfaceID: surfaceID, Original: original}
	pp.order = append(pp.order, surfaceID)
}

// Parts returns the tracked part IDs in substitution order.
func (l *Ledger) Parts() []string {
	return append([]string(nil), l.order...)
}

// Patches returns the outstanding patches of a part in substitution order.
func (l *Ledger) Patches(partID string) []SurfacePatch {
	pp, ok := l.parts[partID]
	if !ok {
		return nil
	}
	out := make([]SurfacePatch, 0, len(pp.patches))
	for _, id := range pp.order {
		if p, ok := pp.patches[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Original returns the recorded program of a surface.
func (l *Ledger) Original(partID, surfaceID string) (shader.Ref, bool) {
	pp, ok := l.parts[partID]
	if !ok {
		return nil, false
	}
	p, ok := pp.patches[surfaceID]
	return p.Original, ok
}

// Len returns the number of outstanding patches.
func (l *Ledger) Len() int {
	n := 0
	for _, pp := range l.parts {
		n += len(pp.patches)
	}
	return n
}

// Unmapped returns the surfaces that had no replacement.
func (l *Ledger) Unmapped() []UnmappedSurface {
	return append([]UnmappedSurface(nil), l.unmapped...)
}

// RestoreReport summarizes an End call.
type RestoreReport struct {
	Restored int
	// MissingParts counts tracked parts no longer in the scene or without a model.
	MissingParts int
	// MissingSurfaces counts tracked surfaces no longer on their part.
	MissingSurfaces int
}

// Substituter swaps surface programs for their capture replacements and
// restores them afterwards. Only one ledger is open at a time: calling Begin
// again before End extends the open ledger and never overwrites a recorded
// original.
type Substituter struct {
	registry *shader.Registry
	open     *Ledger
	log      *zap.Logger
}

// NewSubstituter creates a substituter backed by registry.
func NewSubstituter(registry *shader.Registry) *Substituter {
	return &Substituter{registry: registry, log: logger.Named("substitution")}
}

// Open returns the ledger awaiting End, if any.
func (s *Substituter) Open() *Ledger {
	return s.open
}

// Begin substitutes every mapped surface of parts.
func (s *Substituter) Begin(parts []scene.Part) *Ledger {
	l := s.open
	if l == nil {
		l = newLedger()
		s.open = l
	} else {
		s.log.Warn("substitution re-entered before restore; extending open ledger",
			zap.Int("tracked", l.Len()),
		)
	}

	for _, part := range parts {
		model, ok := part.Model()
		if !ok {
			continue
		}
		pp := l.part(part.ID())
		for _, surf := range model.Surfaces() {
			current := surf.Program()
			name := ""
			if current != nil {
				name = current.Name()
			}
			id, replacement := s.registry.Lookup(name)
			if id == shader.Unmapped {
				key := [2]string{part.ID(), surf.ID()}
				if !l.seen[key] {
					l.seen[key] = true
					l.unmapped = append(l.unmapped, UnmappedSurface{
						PartID:    part.ID(),
						SurfaceID: surf.ID(),
						Program:   name,
					})
					s.log.Warn("no replacement program",
						zap.String("program", name),
						zap.String("part", part.ID()),
						zap.String("surface", surf.ID()),
					)
				}
				continue
			}
			pp.record(surf.ID(), current)
			surf.SetProgram(replacement)
		}
	}

	s.log.Debug("programs substituted",
		zap.Int("parts", len(l.order)),
		zap.Int("surfaces", l.Len()),
		zap.Int("unmapped", len(l.unmapped)),
	)
	return l
}

// End restores every tracked surface still present in live and empties the
// ledger. Parts and surfaces removed since Begin are skipped. Calling End on
// an emptied ledger does nothing.
func (s *Substituter) End(l *Ledger, live []scene.Part) RestoreReport {
	var r RestoreReport
	if l == nil {
		return r
	}
	if s.open == l {
		s.open = nil
	}

	byID := make(map[string]scene.Part, len(live))
	for _, p := range live {
		byID[p.ID()] = p
	}

	for _, partID := range l.order {
		pp := l.parts[partID]
		if len(pp.patches) == 0 {
			continue
		}
		part, ok := byID[partID]
		if !ok {
			r.MissingParts++
			r.MissingSurfaces += len(pp.patches)
			continue
		}
		model, ok := part.Model()
		if !ok {
			r.MissingParts++
			r.MissingSurfaces += len(pp.patches)
			continue
		}
		for _, surf := range model.Surfaces() {
			patch, ok := pp.patches[surf.ID()]
			if !ok {
				continue
			}
			surf.SetProgram(patch.Original)
			delete(pp.patches, surf.ID())
			r.Restored++
		}
		r.MissingSurfaces += len(pp.patches)
	}

	l.order = nil
	l.parts = make(map[string]*partPatches)

	s.log.Debug("programs restored",
		zap.Int("restored", r.Restored),
		zap.Int("missing_parts", r.MissingParts),
		zap.Int("missing_surfaces", r.MissingSurfaces),
	)
	return r
}
