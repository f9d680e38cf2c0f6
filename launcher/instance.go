package launcher

import (
	"context"
	"errors"
	"time"

	"craftdeck/bridge"
)

// Status is the lifecycle state of an instance.
type Status string

const (
	StatusReady      Status = "ready"
	StatusInstalling Status = "installing"
	StatusFailed     Status = "failed"
	// StatusInvalid marks externally-detected records with structurally
	// missing fields. It is terminal and never applied to managed records.
	StatusInvalid Status = "invalid"
)

// Known external launcher provenance tags.
const (
	LauncherVanilla    = "vanilla"
	LauncherCurseForge = "curseforge"
	LauncherPrism      = "prism"
	LauncherMultiMC    = "multimc"
	LauncherATLauncher = "atlauncher"
)

var (
	// ErrInstanceNotFound indicates the id is not in the registry.
	ErrInstanceNotFound = errors.New("instance not found")
	// ErrMissingGameDir indicates a record has no game directory.
	ErrMissingGameDir = errors.New("instance has no game directory")
)

// Instance is one local Minecraft installation tracked by the launcher.
type Instance struct {
	ID             string
	Name           string
	Version        string
	GameDir        string
	Modpack        string
	ModpackVersion string

	LastPlayed       *time.Time
	TotalPlayTimeMin int

	IsModded  bool
	ModsCount int

	// External records come from other launchers' install directories.
	// They are read-only here: no delete command, no install lifecycle.
	IsExternal       bool
	ExternalLauncher string

	Status          Status
	InstallProgress int // 0-100, meaningful only while installing
	ErrorMessage    string
}

// InstallProgressEvent is a streamed progress update for one install attempt.
type InstallProgressEvent struct {
	InstanceID string
	Progress   float64
}

// InstallCompleteEvent is the terminal signal for one install attempt.
type InstallCompleteEvent struct {
	InstanceID string
	Success    bool
	Error      string
}

// CreateRequest describes a new instance the user asked for.
type CreateRequest struct {
	Name           string
	Version        string
	Modpack        string
	ModpackVersion string
}

// Backend is the slice of the bridge surface the registry needs. Satisfied
// by *bridge.Client.
type Backend interface {
	StoredInstances(ctx context.Context) ([]bridge.RawInstance, error)
	ExternalInstances(ctx context.Context) ([]bridge.RawInstance, error)
	Install(ctx context.Context, req bridge.InstallRequest) error
	Launch(ctx context.Context, id string) error
	Remove(ctx context.Context, id string) error
}
