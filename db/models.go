package db

import (
	"time"

	"gorm.io/gorm"
)

// PinnedInstance marks an instance the user pinned to the top of the list.
// Pins survive registry reloads because they live here, not in the backend.
type PinnedInstance struct {
	gorm.Model
	InstanceID string `gorm:"uniqueIndex"` // Registry instance id
	PinnedAt   time.Time
}

// SearchHistory is one executed search, kept for recall in the browser.
type SearchHistory struct {
	gorm.Model
	Kind       string // "mods" or "modpacks"
	Query      string
	ExecutedAt time.Time
}
