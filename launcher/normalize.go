package launcher

import (
	"fmt"
	"strings"
	"time"

	"craftdeck/bridge"
)

// Field aliases seen across backend and external-detector payloads. The
// detector reads other launchers' on-disk formats, so casing and naming
// drift per source.
var (
	idKeys       = []string{"id", "instanceId", "instance_id", "uuid"}
	nameKeys     = []string{"name", "title", "instanceName", "instance_name"}
	versionKeys  = []string{"version", "minecraftVersion", "minecraft_version", "gameVersion", "game_version", "mcVersion"}
	gameDirKeys  = []string{"gameDir", "game_dir", "path", "directory", "dir", "location", "instanceDir"}
	modpackKeys  = []string{"modpack", "modpackName", "modpack_name", "pack"}
	packVerKeys  = []string{"modpackVersion", "modpack_version", "packVersion"}
	playedKeys   = []string{"lastPlayed", "last_played", "lastLaunched"}
	playTimeKeys = []string{"totalPlayTime", "total_play_time", "playTimeMinutes", "play_time"}
	moddedKeys   = []string{"isModded", "is_modded", "modded"}
	modsKeys     = []string{"modsCount", "mods_count", "modCount"}
	launcherKeys = []string{"launcher", "externalLauncher", "external_launcher", "source"}
	statusKeys   = []string{"status", "state"}
)

// Timestamp layouts the backend and third-party launchers have been seen
// emitting. A string matching none of them means "never played", not an error.
var timeLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func stringField(raw bridge.RawInstance, keys []string) string {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

func intField(raw bridge.RawInstance, keys []string) int {
	for _, k := range keys {
		switch v := raw[k].(type) {
		case float64: // JSON numbers decode as float64
			return int(v)
		case int:
			return v
		}
	}
	return 0
}

func boolField(raw bridge.RawInstance, keys []string) bool {
	for _, k := range keys {
		if v, ok := raw[k].(bool); ok {
			return v
		}
	}
	return false
}

func timeField(raw bridge.RawInstance, keys []string) *time.Time {
	s := stringField(raw, keys)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return &ts
		}
	}
	return nil
}

// baseInstance maps the fields common to both normalization policies.
func baseInstance(raw bridge.RawInstance) Instance {
	inst := Instance{
		ID:               stringField(raw, idKeys),
		Name:             stringField(raw, nameKeys),
		Version:          stringField(raw, versionKeys),
		GameDir:          stringField(raw, gameDirKeys),
		Modpack:          stringField(raw, modpackKeys),
		ModpackVersion:   stringField(raw, packVerKeys),
		LastPlayed:       timeField(raw, playedKeys),
		TotalPlayTimeMin: intField(raw, playTimeKeys),
		IsModded:         boolField(raw, moddedKeys),
		ModsCount:        intField(raw, modsKeys),
		Status:           StatusReady,
	}
	if inst.TotalPlayTimeMin < 0 {
		inst.TotalPlayTimeMin = 0
	}
	return inst
}

// NormalizeStored converts a backend-persisted payload into an Instance.
// A record without a resolvable game directory is rejected outright: the
// backend owns these records, so a missing path is corruption, not something
// to surface.
func NormalizeStored(raw bridge.RawInstance) (Instance, error) {
	inst := baseInstance(raw)
	if inst.GameDir == "" {
		return Instance{}, fmt.Errorf("stored instance %q: %w", inst.Name, ErrMissingGameDir)
	}
	// Managed records may only carry install-lifecycle states; invalid is
	// reserved for external detection.
	switch Status(stringField(raw, statusKeys)) {
	case StatusInstalling:
		inst.Status = StatusInstalling
	case StatusFailed:
		inst.Status = StatusFailed
		inst.ErrorMessage = stringField(raw, []string{"errorMessage", "error_message", "error"})
	default:
		inst.Status = StatusReady
	}
	return inst, nil
}

// NormalizeExternal converts an external-detector payload. Detection is
// lenient: a structurally broken record is still worth showing the user as
// an invalid entry for that launcher, as long as it has a path to point at.
// Records with no path at all are dropped (ok=false) since nothing about
// them is actionable.
func NormalizeExternal(raw bridge.RawInstance) (Instance, bool) {
	inst := baseInstance(raw)
	inst.IsExternal = true
	inst.ExternalLauncher = stringField(raw, launcherKeys)

	if inst.GameDir == "" {
		return Instance{}, false
	}
	// Detector payloads sometimes lack ids; the path is stable enough to
	// stand in for one and keeps the registry's uniqueness invariant.
	if inst.ID == "" {
		inst.ID = inst.GameDir
	}

	var missing []string
	if inst.Name == "" {
		missing = append(missing, "name")
	}
	if inst.Version == "" {
		missing = append(missing, "version")
	}
	if len(missing) > 0 {
		inst.Status = StatusInvalid
		inst.ErrorMessage = fmt.Sprintf("external instance is missing: %s", strings.Join(missing, ", "))
		if inst.Name == "" {
			inst.Name = inst.GameDir
		}
	}
	return inst, true
}
