package launcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"craftdeck/bridge"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Registry holds the authoritative in-memory instance list. All mutation
// funnels through its methods; the mutex serializes the UI event loop, the
// event pump, and CLI calls the same way the original single-threaded UI
// runtime did.
type Registry struct {
	mu        sync.Mutex
	backend   Backend
	log       *zap.SugaredLogger
	instances []Instance
}

// NewRegistry creates an empty registry bound to a backend.
func NewRegistry(backend Backend, log *zap.SugaredLogger) *Registry {
	return &Registry{backend: backend, log: log}
}

// Load replaces the whole list with backend-stored instances plus external
// detection results. The two id namespaces are disjoint by backend contract
// (importing an external instance removes it from detection), so no
// cross-source reconciliation happens here. Stored records that fail
// normalization are dropped with a logged warning.
func (r *Registry) Load(ctx context.Context) error {
	raws, err := r.backend.StoredInstances(ctx)
	if err != nil {
		return fmt.Errorf("failed to load instances: %w", err)
	}

	loaded := make([]Instance, 0, len(raws))
	for _, raw := range raws {
		inst, err := NormalizeStored(raw)
		if err != nil {
			r.log.Warnw("Dropping malformed stored instance", zap.Error(err))
			continue
		}
		loaded = append(loaded, inst)
	}

	loaded = append(loaded, DetectExternal(ctx, r.backend, r.log)...)

	r.mu.Lock()
	r.instances = loaded
	r.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the current list for rendering.
func (r *Registry) Snapshot() []Instance {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Instance, len(r.instances))
	copy(out, r.instances)
	return out
}

// Get returns the instance with the given id.
func (r *Registry) Get(id string) (Instance, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inst := range r.instances {
		if inst.ID == id {
			return inst, true
		}
	}
	return Instance{}, false
}

// Len returns the number of tracked instances.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.instances)
}

// Create optimistically inserts a new installing instance under a
// client-generated id, then asks the backend to install using that same id
// so later progress/completion events correlate. A synchronous backend
// rejection fails only this creation, not every install in flight.
func (r *Registry) Create(ctx context.Context, req CreateRequest) (string, error) {
	id := uuid.NewString()

	r.mu.Lock()
	r.instances = append(r.instances, Instance{
		ID:             id,
		Name:           req.Name,
		Version:        req.Version,
		Modpack:        req.Modpack,
		ModpackVersion: req.ModpackVersion,
		Status:         StatusInstalling,
	})
	r.mu.Unlock()

	err := r.backend.Install(ctx, bridge.InstallRequest{
		ID:             id,
		Name:           req.Name,
		Version:        req.Version,
		Modpack:        req.Modpack,
		ModpackVersion: req.ModpackVersion,
	})
	if err != nil {
		r.apply(id, func(inst *Instance) {
			inst.Status = StatusFailed
			inst.ErrorMessage = err.Error()
		})
		return id, fmt.Errorf("failed to create instance %q: %w", req.Name, err)
	}
	return id, nil
}

// Delete removes an instance from the list. External records are
// client-side only, so no backend call is made for them. For managed
// records the backend delete is requested first; a backend error is logged
// and swallowed, and the record is removed regardless.
func (r *Registry) Delete(ctx context.Context, id string) error {
	inst, ok := r.Get(id)
	if !ok {
		return fmt.Errorf("delete %s: %w", id, ErrInstanceNotFound)
	}

	if !inst.IsExternal {
		if err := r.backend.Remove(ctx, id); err != nil {
			r.log.Errorw("Backend delete failed, removing record anyway",
				zap.String("id", id), zap.Error(err))
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.instances {
		if r.instances[i].ID == id {
			r.instances = append(r.instances[:i], r.instances[i+1:]...)
			break
		}
	}
	return nil
}

// Launch validates the instance, stamps LastPlayed optimistically, and asks
// the backend to start the game. LastPlayed is not rolled back if the
// launch fails.
func (r *Registry) Launch(ctx context.Context, id string) error {
	inst, ok := r.Get(id)
	if !ok {
		return fmt.Errorf("launch %s: %w", id, ErrInstanceNotFound)
	}
	if inst.GameDir == "" {
		return fmt.Errorf("cannot launch %q: %w", inst.Name, ErrMissingGameDir)
	}

	now := time.Now()
	r.apply(id, func(inst *Instance) {
		inst.LastPlayed = &now
	})

	if err := r.backend.Launch(ctx, id); err != nil {
		return fmt.Errorf("failed to launch %q: %w", inst.Name, err)
	}
	return nil
}

// apply runs fn against the matching record under the lock. Unknown ids are
// a no-op; a delete racing an event resolves in the delete's favor.
func (r *Registry) apply(id string, fn func(*Instance)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.instances {
		if r.instances[i].ID == id {
			fn(&r.instances[i])
			return true
		}
	}
	return false
}
