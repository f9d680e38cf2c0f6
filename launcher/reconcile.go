package launcher

import (
	"context"
	"math"
	"sync"

	"craftdeck/bridge"

	"go.uber.org/zap"
)

const defaultInstallError = "Installation failed"

// Reconciler folds streamed install events into the registry. Events for
// unknown ids are dropped, not buffered: a reload or delete may have raced
// the stream, and the record simply no longer exists to update.
type Reconciler struct {
	reg *Registry
	log *zap.SugaredLogger

	mu sync.Mutex
	// last committed progress per id, kept as the raw float so sub-1%
	// jitter is filtered against the committed value, not the rounded one
	tracking map[string]float64
}

// NewReconciler binds a reconciler to a registry.
func NewReconciler(reg *Registry, log *zap.SugaredLogger) *Reconciler {
	return &Reconciler{reg: reg, log: log, tracking: make(map[string]float64)}
}

// ApplyProgress handles one streamed progress update. The first event for a
// record flips it to installing; after that, updates under 1% of delta from
// the last committed value are coalesced away to keep high-frequency
// backend jitter from churning the view. External records have no install
// lifecycle and are never touched.
func (r *Reconciler) ApplyProgress(ev InstallProgressEvent) {
	inst, ok := r.reg.Get(ev.InstanceID)
	if !ok || inst.IsExternal {
		return
	}

	clamped := math.Min(math.Max(ev.Progress, 0), 100)

	r.mu.Lock()
	last, tracked := r.tracking[ev.InstanceID]
	commit := inst.Status != StatusInstalling || !tracked || math.Abs(clamped-last) >= 1
	if commit {
		r.tracking[ev.InstanceID] = clamped
	}
	r.mu.Unlock()

	if !commit {
		return
	}

	progress := int(math.Round(clamped))
	r.reg.apply(ev.InstanceID, func(inst *Instance) {
		inst.Status = StatusInstalling
		inst.InstallProgress = progress
	})
}

// ApplyComplete handles the terminal event for one install attempt. It
// always clears the transient tracking entry, then lands the record on
// ready or failed regardless of the last progress value seen.
func (r *Reconciler) ApplyComplete(ev InstallCompleteEvent) {
	r.mu.Lock()
	delete(r.tracking, ev.InstanceID)
	r.mu.Unlock()

	inst, ok := r.reg.Get(ev.InstanceID)
	if !ok || inst.IsExternal {
		return
	}

	r.reg.apply(ev.InstanceID, func(inst *Instance) {
		if ev.Success {
			inst.Status = StatusReady
			inst.InstallProgress = 100
			inst.ErrorMessage = ""
			return
		}
		inst.Status = StatusFailed
		inst.ErrorMessage = ev.Error
		if inst.ErrorMessage == "" {
			inst.ErrorMessage = defaultInstallError
		}
	})
}

// Apply dispatches a raw bridge event to the matching handler. Modpack
// progress shares the install-progress shape and policy.
func (r *Reconciler) Apply(ev bridge.Event) {
	switch ev.Type {
	case bridge.EventInstallProgress, bridge.EventModpackProgress:
		r.ApplyProgress(InstallProgressEvent{InstanceID: ev.InstanceID, Progress: ev.Progress})
	case bridge.EventInstallComplete:
		success := ev.Success != nil && *ev.Success
		r.ApplyComplete(InstallCompleteEvent{InstanceID: ev.InstanceID, Success: success, Error: ev.Error})
	default:
		r.log.Debugw("Ignoring unknown event type", zap.String("type", string(ev.Type)))
	}
}

// Run drains a subscription into the reconciler until the stream closes or
// ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context, sub *bridge.Subscription) {
	for {
		select {
		case ev, ok := <-sub.Events:
			if !ok {
				return
			}
			r.Apply(ev)
		case <-ctx.Done():
			return
		}
	}
}
