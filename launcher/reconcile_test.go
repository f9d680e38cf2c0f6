package launcher

import (
	"context"
	"testing"

	"craftdeck/bridge"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func installingRegistry(t *testing.T) (*Registry, *Reconciler, string) {
	t.Helper()
	reg := newTestRegistry(&fakeBackend{})
	id, err := reg.Create(context.Background(), CreateRequest{Name: "Test", Version: "1.20.4"})
	require.NoError(t, err)
	return reg, NewReconciler(reg, zap.NewNop().Sugar()), id
}

func TestProgressNoiseFilter(t *testing.T) {
	reg, rec, id := installingRegistry(t)

	var committed []int
	last := -1
	for _, p := range []float64{5, 5.4, 6, 6.9, 8} {
		rec.ApplyProgress(InstallProgressEvent{InstanceID: id, Progress: p})
		inst, _ := reg.Get(id)
		if inst.InstallProgress != last {
			committed = append(committed, inst.InstallProgress)
			last = inst.InstallProgress
		}
	}

	// Sub-1% deltas against the last committed value are coalesced away.
	assert.Equal(t, []int{5, 6, 8}, committed)
}

func TestProgressClamp(t *testing.T) {
	reg, rec, id := installingRegistry(t)

	rec.ApplyProgress(InstallProgressEvent{InstanceID: id, Progress: 137})
	inst, _ := reg.Get(id)
	assert.Equal(t, 100, inst.InstallProgress)

	rec.ApplyProgress(InstallProgressEvent{InstanceID: id, Progress: -5})
	inst, _ = reg.Get(id)
	assert.Equal(t, 0, inst.InstallProgress)
}

func TestFirstProgressEventEstablishesInstalling(t *testing.T) {
	backend := &fakeBackend{
		stored: []bridge.RawInstance{
			{"id": "s1", "name": "A", "version": "1.20.4", "gameDir": "/mc/a"},
		},
	}
	reg := newTestRegistry(backend)
	require.NoError(t, reg.Load(context.Background()))
	rec := NewReconciler(reg, zap.NewNop().Sugar())

	rec.ApplyProgress(InstallProgressEvent{InstanceID: "s1", Progress: 0.2})
	inst, _ := reg.Get("s1")
	assert.Equal(t, StatusInstalling, inst.Status)
	assert.Equal(t, 0, inst.InstallProgress)
}

func TestCompletionSuccess(t *testing.T) {
	reg, rec, id := installingRegistry(t)

	rec.ApplyProgress(InstallProgressEvent{InstanceID: id, Progress: 73})
	rec.ApplyComplete(InstallCompleteEvent{InstanceID: id, Success: true})

	inst, _ := reg.Get(id)
	assert.Equal(t, StatusReady, inst.Status)
	assert.Equal(t, 100, inst.InstallProgress)
	assert.Empty(t, inst.ErrorMessage)
}

func TestCompletionFailure(t *testing.T) {
	reg, rec, id := installingRegistry(t)

	rec.ApplyComplete(InstallCompleteEvent{InstanceID: id, Success: false, Error: "disk full"})
	inst, _ := reg.Get(id)
	assert.Equal(t, StatusFailed, inst.Status)
	assert.Equal(t, "disk full", inst.ErrorMessage)
}

func TestCompletionFailureDefaultsMessage(t *testing.T) {
	reg, rec, id := installingRegistry(t)

	rec.ApplyComplete(InstallCompleteEvent{InstanceID: id, Success: false})
	inst, _ := reg.Get(id)
	assert.Equal(t, StatusFailed, inst.Status)
	assert.Equal(t, defaultInstallError, inst.ErrorMessage)
}

func TestUnknownIDIsDropped(t *testing.T) {
	reg := newTestRegistry(&fakeBackend{})
	rec := NewReconciler(reg, zap.NewNop().Sugar())

	rec.ApplyProgress(InstallProgressEvent{InstanceID: "ghost", Progress: 42})
	rec.ApplyComplete(InstallCompleteEvent{InstanceID: "ghost", Success: true})
	assert.Equal(t, 0, reg.Len())
}

func TestExternalRecordsNeverTransition(t *testing.T) {
	backend := &fakeBackend{
		external: []bridge.RawInstance{
			{"id": "e1", "name": "Prism Pack", "version": "1.20.1", "path": "/prism/pack"},
		},
	}
	reg := newTestRegistry(backend)
	require.NoError(t, reg.Load(context.Background()))
	rec := NewReconciler(reg, zap.NewNop().Sugar())

	rec.ApplyProgress(InstallProgressEvent{InstanceID: "e1", Progress: 50})
	rec.ApplyComplete(InstallCompleteEvent{InstanceID: "e1", Success: false, Error: "nope"})

	inst, _ := reg.Get("e1")
	assert.Equal(t, StatusReady, inst.Status)
	assert.Equal(t, 0, inst.InstallProgress)
	assert.Empty(t, inst.ErrorMessage)
}

func TestCompletionBeforeAnyProgress(t *testing.T) {
	reg, rec, id := installingRegistry(t)

	rec.ApplyComplete(InstallCompleteEvent{InstanceID: id, Success: false, Error: "disk full"})
	inst, _ := reg.Get(id)
	assert.Equal(t, StatusFailed, inst.Status)
	assert.Equal(t, "disk full", inst.ErrorMessage)
}

func TestApplyDispatchesBridgeEvents(t *testing.T) {
	reg, rec, id := installingRegistry(t)

	rec.Apply(bridge.Event{Type: bridge.EventInstallProgress, InstanceID: id, Progress: 42})
	inst, _ := reg.Get(id)
	assert.Equal(t, 42, inst.InstallProgress)

	success := true
	rec.Apply(bridge.Event{Type: bridge.EventInstallComplete, InstanceID: id, Success: &success})
	inst, _ = reg.Get(id)
	assert.Equal(t, StatusReady, inst.Status)
}
