package launcher

import (
	"context"
	"errors"
	"testing"

	"craftdeck/bridge"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeBackend is an in-memory Backend for registry unit tests.
type fakeBackend struct {
	stored      []bridge.RawInstance
	external    []bridge.RawInstance
	externalErr error
	installErr  error
	launchErr   error
	removeErr   error

	installCalls []bridge.InstallRequest
	launchCalls  []string
	removeCalls  []string
}

func (f *fakeBackend) StoredInstances(ctx context.Context) ([]bridge.RawInstance, error) {
	return f.stored, nil
}

func (f *fakeBackend) ExternalInstances(ctx context.Context) ([]bridge.RawInstance, error) {
	if f.externalErr != nil {
		return nil, f.externalErr
	}
	return f.external, nil
}

func (f *fakeBackend) Install(ctx context.Context, req bridge.InstallRequest) error {
	f.installCalls = append(f.installCalls, req)
	return f.installErr
}

func (f *fakeBackend) Launch(ctx context.Context, id string) error {
	f.launchCalls = append(f.launchCalls, id)
	return f.launchErr
}

func (f *fakeBackend) Remove(ctx context.Context, id string) error {
	f.removeCalls = append(f.removeCalls, id)
	return f.removeErr
}

func newTestRegistry(backend *fakeBackend) *Registry {
	return NewRegistry(backend, zap.NewNop().Sugar())
}

func TestLoadMergesStoredAndExternal(t *testing.T) {
	backend := &fakeBackend{
		stored: []bridge.RawInstance{
			{"id": "s1", "name": "Survival", "version": "1.20.4", "gameDir": "/mc/survival"},
			{"id": "s2", "name": "NoDir", "version": "1.20.4"}, // malformed, dropped
		},
		external: []bridge.RawInstance{
			{"id": "e1", "name": "Prism Pack", "version": "1.20.1", "path": "/prism/pack", "launcher": "prism"},
		},
	}
	reg := newTestRegistry(backend)
	require.NoError(t, reg.Load(context.Background()))

	instances := reg.Snapshot()
	require.Len(t, instances, 2)
	assert.Equal(t, "s1", instances[0].ID)
	assert.Equal(t, "e1", instances[1].ID)
	assert.True(t, instances[1].IsExternal)
}

func TestLoadToleratesDetectionFailure(t *testing.T) {
	backend := &fakeBackend{
		stored: []bridge.RawInstance{
			{"id": "s1", "name": "Survival", "version": "1.20.4", "gameDir": "/mc/survival"},
		},
		externalErr: errors.New("capability unavailable"),
	}
	reg := newTestRegistry(backend)
	require.NoError(t, reg.Load(context.Background()))
	assert.Equal(t, 1, reg.Len())
}

func TestCreateInsertsOptimistically(t *testing.T) {
	backend := &fakeBackend{}
	reg := newTestRegistry(backend)

	id, err := reg.Create(context.Background(), CreateRequest{Name: "Test", Version: "1.20.4"})
	require.NoError(t, err)

	inst, ok := reg.Get(id)
	require.True(t, ok)
	assert.Equal(t, StatusInstalling, inst.Status)
	assert.Equal(t, 0, inst.InstallProgress)

	// The backend install carries the client-generated id so events correlate.
	require.Len(t, backend.installCalls, 1)
	assert.Equal(t, id, backend.installCalls[0].ID)
}

func TestCreateFailureIsCorrelated(t *testing.T) {
	backend := &fakeBackend{}
	reg := newTestRegistry(backend)
	ctx := context.Background()

	first, err := reg.Create(ctx, CreateRequest{Name: "First", Version: "1.20.4"})
	require.NoError(t, err)

	backend.installErr = errors.New("disk full")
	second, err := reg.Create(ctx, CreateRequest{Name: "Second", Version: "1.20.4"})
	require.Error(t, err)

	// Only the rejected creation fails; the concurrent install is untouched.
	failed, _ := reg.Get(second)
	assert.Equal(t, StatusFailed, failed.Status)
	assert.Contains(t, failed.ErrorMessage, "disk full")

	untouched, _ := reg.Get(first)
	assert.Equal(t, StatusInstalling, untouched.Status)
}

func TestIDUniquenessAcrossOperations(t *testing.T) {
	backend := &fakeBackend{
		stored: []bridge.RawInstance{
			{"id": "s1", "name": "A", "version": "1.20.4", "gameDir": "/mc/a"},
			{"id": "s2", "name": "B", "version": "1.20.4", "gameDir": "/mc/b"},
		},
	}
	reg := newTestRegistry(backend)
	ctx := context.Background()
	require.NoError(t, reg.Load(ctx))

	_, err := reg.Create(ctx, CreateRequest{Name: "C", Version: "1.20.4"})
	require.NoError(t, err)
	_, err = reg.Create(ctx, CreateRequest{Name: "D", Version: "1.20.4"})
	require.NoError(t, err)
	require.NoError(t, reg.Delete(ctx, "s1"))

	seen := map[string]bool{}
	for _, inst := range reg.Snapshot() {
		assert.False(t, seen[inst.ID], "duplicate id %s", inst.ID)
		seen[inst.ID] = true
	}
	assert.Len(t, seen, 3)
}

func TestDeleteManagedInstanceCallsBackend(t *testing.T) {
	backend := &fakeBackend{
		stored: []bridge.RawInstance{
			{"id": "s1", "name": "A", "version": "1.20.4", "gameDir": "/mc/a"},
		},
	}
	reg := newTestRegistry(backend)
	ctx := context.Background()
	require.NoError(t, reg.Load(ctx))

	require.NoError(t, reg.Delete(ctx, "s1"))
	assert.Equal(t, []string{"s1"}, backend.removeCalls)
	assert.Equal(t, 0, reg.Len())
}

func TestDeleteExternalSkipsBackend(t *testing.T) {
	backend := &fakeBackend{
		external: []bridge.RawInstance{
			{"id": "e1", "name": "Prism Pack", "version": "1.20.1", "path": "/prism/pack"},
		},
	}
	reg := newTestRegistry(backend)
	ctx := context.Background()
	require.NoError(t, reg.Load(ctx))

	require.NoError(t, reg.Delete(ctx, "e1"))
	assert.Empty(t, backend.removeCalls, "external delete must not reach the backend")
	assert.Equal(t, 0, reg.Len())
}

func TestDeleteSwallowsBackendError(t *testing.T) {
	backend := &fakeBackend{
		stored: []bridge.RawInstance{
			{"id": "s1", "name": "A", "version": "1.20.4", "gameDir": "/mc/a"},
		},
		removeErr: errors.New("file locked"),
	}
	reg := newTestRegistry(backend)
	ctx := context.Background()
	require.NoError(t, reg.Load(ctx))

	require.NoError(t, reg.Delete(ctx, "s1"))
	assert.Equal(t, 0, reg.Len())
}

func TestDeleteUnknownID(t *testing.T) {
	reg := newTestRegistry(&fakeBackend{})
	err := reg.Delete(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrInstanceNotFound)
}

func TestLaunchStampsLastPlayedOptimistically(t *testing.T) {
	backend := &fakeBackend{
		stored: []bridge.RawInstance{
			{"id": "s1", "name": "A", "version": "1.20.4", "gameDir": "/mc/a"},
		},
		launchErr: errors.New("java not found"),
	}
	reg := newTestRegistry(backend)
	ctx := context.Background()
	require.NoError(t, reg.Load(ctx))

	err := reg.Launch(ctx, "s1")
	require.Error(t, err)

	// Optimistic: the stamp survives the failed launch.
	inst, _ := reg.Get("s1")
	assert.NotNil(t, inst.LastPlayed)
}

func TestLaunchRejectsMissingGameDir(t *testing.T) {
	backend := &fakeBackend{}
	reg := newTestRegistry(backend)
	id, err := reg.Create(context.Background(), CreateRequest{Name: "Fresh", Version: "1.20.4"})
	require.NoError(t, err)

	err = reg.Launch(context.Background(), id)
	assert.ErrorIs(t, err, ErrMissingGameDir)
	assert.Empty(t, backend.launchCalls)
}
