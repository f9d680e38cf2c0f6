package launcher_test

import (
	"context"
	"testing"
	"time"

	"craftdeck/bridge"
	"craftdeck/bridge/bridgetest"
	"craftdeck/launcher"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// End-to-end flows against the fake backend daemon: registry and reconciler
// fed by a real bridge client and event stream.

type fixture struct {
	srv *bridgetest.Server
	reg *launcher.Registry
	rec *launcher.Reconciler
	sub *bridge.Subscription
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv, err := bridgetest.New()
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	client := bridge.NewClient(srv.SocketPath(), "craftdeck/test")
	log := zap.NewNop().Sugar()
	reg := launcher.NewRegistry(client, log)
	rec := launcher.NewReconciler(reg, log)

	sub, err := client.Subscribe(context.Background())
	require.NoError(t, err)
	t.Cleanup(sub.Close)
	go rec.Run(context.Background(), sub)

	waitFor(t, func() bool { return srv.Calls("GET /events") > 0 })
	time.Sleep(50 * time.Millisecond) // let the stream handler register

	return &fixture{srv: srv, reg: reg, rec: rec, sub: sub}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition never became true")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestLoadDropsMalformedStoredKeepsExternal(t *testing.T) {
	f := newFixture(t)
	f.srv.SetStored([]bridge.RawInstance{
		{"id": "s1", "name": "Survival", "version": "1.20.4", "gameDir": "/mc/survival"},
		{"id": "s2", "name": "Corrupt", "version": "1.20.4"},
	})
	f.srv.SetExternal([]bridge.RawInstance{
		{"id": "e1", "name": "Prism Pack", "version": "1.20.1", "path": "/prism/pack", "launcher": "prism"},
	})

	require.NoError(t, f.reg.Load(context.Background()))

	instances := f.reg.Snapshot()
	require.Len(t, instances, 2)
	assert.Equal(t, "s1", instances[0].ID)
	assert.Equal(t, "e1", instances[1].ID)
}

func TestCreateProgressComplete(t *testing.T) {
	f := newFixture(t)

	id, err := f.reg.Create(context.Background(), launcher.CreateRequest{Name: "Test", Version: "1.20.4"})
	require.NoError(t, err)

	inst, ok := f.reg.Get(id)
	require.True(t, ok)
	assert.Equal(t, launcher.StatusInstalling, inst.Status)
	assert.Equal(t, 0, inst.InstallProgress)

	f.srv.EmitProgress(id, 42)
	waitFor(t, func() bool {
		inst, _ := f.reg.Get(id)
		return inst.InstallProgress == 42
	})

	f.srv.EmitComplete(id, true, "")
	waitFor(t, func() bool {
		inst, _ := f.reg.Get(id)
		return inst.Status == launcher.StatusReady && inst.InstallProgress == 100
	})
}

func TestCompleteFailureBeforeProgress(t *testing.T) {
	f := newFixture(t)

	id, err := f.reg.Create(context.Background(), launcher.CreateRequest{Name: "Test", Version: "1.20.4"})
	require.NoError(t, err)

	f.srv.EmitComplete(id, false, "disk full")
	waitFor(t, func() bool {
		inst, _ := f.reg.Get(id)
		return inst.Status == launcher.StatusFailed
	})
	inst, _ := f.reg.Get(id)
	assert.Equal(t, "disk full", inst.ErrorMessage)
}

func TestExternalDeleteNeverReachesBackend(t *testing.T) {
	f := newFixture(t)
	f.srv.SetExternal([]bridge.RawInstance{
		{"id": "e1", "name": "Prism Pack", "version": "1.20.1", "path": "/prism/pack", "launcher": "prism"},
	})
	require.NoError(t, f.reg.Load(context.Background()))

	require.NoError(t, f.reg.Delete(context.Background(), "e1"))
	assert.Equal(t, 0, f.reg.Len())
	assert.Equal(t, 0, f.srv.Calls("DELETE /instances"))
}

func TestDetectionFailureIsEmptyNotFatal(t *testing.T) {
	f := newFixture(t)
	f.srv.FailExternal()
	f.srv.SetStored([]bridge.RawInstance{
		{"id": "s1", "name": "Survival", "version": "1.20.4", "gameDir": "/mc/survival"},
	})

	require.NoError(t, f.reg.Load(context.Background()))
	assert.Equal(t, 1, f.reg.Len())
}

func TestDeleteRacingProgressEvent(t *testing.T) {
	f := newFixture(t)

	id, err := f.reg.Create(context.Background(), launcher.CreateRequest{Name: "Test", Version: "1.20.4"})
	require.NoError(t, err)
	require.NoError(t, f.reg.Delete(context.Background(), id))

	// The event arrives after the delete; the unknown-id drop rule means
	// the delete wins and nothing resurrects.
	f.srv.EmitProgress(id, 90)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, f.reg.Len())
}
