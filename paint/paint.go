// Copyright 2022 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package paint coalesces invalidation requests arriving between animation
// frames into a single repaint, so a burst of data updates or cursor moves
// never costs more than one frame's worth of drawing.
package paint

import (
	"context"

	"github.com/stockparfait/logging"

	"github.com/stockparfait/chartcore/delegate"
	"github.com/stockparfait/chartcore/invalidate"
)

// FrameRequester schedules f to run on the next animation frame. A GUI
// embedder backs this with requestAnimationFrame or an equivalent ticker;
// tests back it with an immediate or manually-driven stub.
type FrameRequester interface {
	RequestFrame(f func())
}

// Painter is the host's rendering surface. Scheduler drives its methods in
// the order a frame needs to stay consistent: topology before time-scale,
// time-scale before auto-scale, auto-scale before any pane paints, and the
// time axis last.
type Painter interface {
	// RebuildPaneTopology re-lays-out panes after one was added, removed, or
	// resized. Called only when the frame's overall severity is Full.
	RebuildPaneTopology(ctx context.Context)
	// ApplyTimeScale applies one queued time-scale adjustment, in the order
	// the mask recorded them.
	ApplyTimeScale(ctx context.Context, op invalidate.TimeScaleOp)
	// AutoScalePane recomputes pane's price scale from its visible data.
	// Called only for panes whose mask entry requested it.
	AutoScalePane(ctx context.Context, pane invalidate.PaneID)
	// PaintPane redraws pane at level, which is never LevelNone.
	PaintPane(ctx context.Context, pane invalidate.PaneID, level invalidate.Level)
	// PaintTimeAxis redraws the shared time axis. Called only on a Full
	// frame.
	PaintTimeAxis(ctx context.Context)
}

// Scheduler coalesces Invalidate calls between frames: any number of calls
// before the next frame fires result in exactly one paint, covering the
// merged mask of all of them.
type Scheduler struct {
	requester FrameRequester
	painter   Painter
	pending   *invalidate.Mask
	scheduled bool
	destroyed bool

	// inTimeScaleStep is true while runFrame is applying time-scale and
	// auto-scale for the current frame. An Invalidate call in this window
	// (typically from AutoScalePane reacting to the new scale) is held back
	// instead of scheduling a separate future frame, so runFrame's re-entry
	// guard gets a chance to fold it into the frame in progress.
	inTimeScaleStep bool

	// Destroyed fires once, when Destroy is called.
	Destroyed delegate.Delegate[struct{}]
}

// NewScheduler builds a Scheduler that drives painter with the merged mask
// of every Invalidate call coalesced into a frame.
func NewScheduler(requester FrameRequester, painter Painter) *Scheduler {
	return &Scheduler{requester: requester, painter: painter}
}

// Invalidate merges mask into the pending frame and, if no frame is already
// scheduled, requests one. It is a no-op after Destroy.
func (s *Scheduler) Invalidate(ctx context.Context, mask *invalidate.Mask) {
	if s.destroyed || mask == nil || mask.IsEmpty() {
		return
	}
	if s.pending == nil {
		s.pending = invalidate.NewMask()
	}
	s.pending.Merge(mask)
	if s.inTimeScaleStep || s.scheduled {
		return
	}
	s.scheduleFrame(ctx)
}

func (s *Scheduler) scheduleFrame(ctx context.Context) {
	s.scheduled = true
	s.requester.RequestFrame(func() { s.drain(ctx) })
}

// drain runs on the animation frame: it snapshots and clears the pending
// mask before running it, so a handler that calls Invalidate while painting
// schedules a fresh frame rather than being silently folded into the one in
// progress.
func (s *Scheduler) drain(ctx context.Context) {
	s.scheduled = false
	if s.destroyed {
		return
	}
	mask := s.pending
	s.pending = nil
	if mask == nil || mask.IsEmpty() {
		return
	}
	s.runFrame(ctx, mask)
}

// runFrame drives painter through a single frame: rebuild pane topology on
// Full, apply the queued time-scale ops and per-pane auto-scale on
// Full or Light, paint every invalidated pane at its own effective level,
// and paint the time axis on Full.
//
// If applying time-scale/auto-scale causes a new Full-severity mask to
// accumulate (a handler reacting to the new scale decided a full redraw is
// needed), that mask is merged in and the time-scale/auto-scale step is
// redone once more before any pane is painted. This is a single-level
// re-entry, not a loop: anything queued after that redo is left for the
// next frame.
func (s *Scheduler) runFrame(ctx context.Context, mask *invalidate.Mask) {
	level := mask.FullInvalidation()
	logging.Debugf(ctx, "paint: draining frame, level=%s, panes=%v", level, mask.Panes())

	if level == invalidate.LevelFull {
		s.painter.RebuildPaneTopology(ctx)
	}
	if level >= invalidate.LevelLight {
		s.applyTimeScaleAndAutoScale(ctx, mask)

		if s.pending != nil && s.pending.FullInvalidation() == invalidate.LevelFull {
			extra := s.pending
			s.pending = nil
			mask.Merge(extra)
			level = mask.FullInvalidation()
			s.painter.RebuildPaneTopology(ctx)
			s.applyTimeScaleAndAutoScale(ctx, extra)
		}
		if s.pending != nil {
			s.scheduleFrame(ctx)
		}
	}

	for _, pane := range mask.Panes() {
		s.painter.PaintPane(ctx, pane, mask.LevelForPane(pane))
	}
	if level == invalidate.LevelFull {
		s.painter.PaintTimeAxis(ctx)
	}
}

func (s *Scheduler) applyTimeScaleAndAutoScale(ctx context.Context, mask *invalidate.Mask) {
	s.inTimeScaleStep = true
	for _, op := range mask.TimeScaleOps() {
		s.painter.ApplyTimeScale(ctx, op)
	}
	for _, pane := range mask.Panes() {
		if mask.AutoScaleForPane(pane) {
			s.painter.AutoScalePane(ctx, pane)
		}
	}
	s.inTimeScaleStep = false
}

// Destroy cancels any scheduled frame and makes every future Invalidate a
// no-op. It is idempotent.
func (s *Scheduler) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	s.pending = nil
	s.Destroyed.Fire(struct{}{})
}
