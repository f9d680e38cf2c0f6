package db

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

const maxSearchHistory = 50

// TogglePin flips the pinned state of an instance and reports the new state.
func TogglePin(instanceID string) (bool, error) {
	var pin PinnedInstance
	err := DB.Where("instance_id = ?", instanceID).First(&pin).Error
	switch {
	case err == nil:
		if err := DB.Unscoped().Delete(&pin).Error; err != nil {
			return true, err
		}
		return false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		pin = PinnedInstance{InstanceID: instanceID, PinnedAt: time.Now()}
		if err := DB.Create(&pin).Error; err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, err
	}
}

// PinnedIDs returns the set of pinned instance ids.
func PinnedIDs() (map[string]bool, error) {
	var pins []PinnedInstance
	if err := DB.Find(&pins).Error; err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(pins))
	for _, p := range pins {
		out[p.InstanceID] = true
	}
	return out, nil
}

// RecordSearch appends a search to the history, trimming old entries past
// the cap.
func RecordSearch(kind, query string) error {
	if query == "" {
		return nil
	}
	entry := SearchHistory{Kind: kind, Query: query, ExecutedAt: time.Now()}
	if err := DB.Create(&entry).Error; err != nil {
		return err
	}

	var count int64
	if err := DB.Model(&SearchHistory{}).Where("kind = ?", kind).Count(&count).Error; err != nil {
		return err
	}
	if count > maxSearchHistory {
		return DB.Unscoped().
			Where("kind = ? AND id NOT IN (?)", kind,
				DB.Model(&SearchHistory{}).Select("id").Where("kind = ?", kind).
					Order("executed_at DESC").Limit(maxSearchHistory)).
			Delete(&SearchHistory{}).Error
	}
	return nil
}

// RecentSearches returns the newest n queries of one kind, deduplicated.
func RecentSearches(kind string, n int) ([]string, error) {
	var entries []SearchHistory
	if err := DB.Where("kind = ?", kind).Order("executed_at DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var out []string
	for _, e := range entries {
		if seen[e.Query] {
			continue
		}
		seen[e.Query] = true
		out = append(out, e.Query)
		if len(out) == n {
			break
		}
	}
	return out, nil
}
