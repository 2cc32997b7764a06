package api

import (
	"sync"
	"time"

	"github.com/clubsoiree/sondage/internal/services"
)

// SettingAutoMerge toggles the live dedup step; enabled unless set to "0".
const SettingAutoMerge = "auto_merge"

// moderationCache keeps a short-lived snapshot of the moderation state
// (banned words, corrections, auto-merge flag) so the submission path does
// not hit the store three extra times per answer. Admin mutations call
// invalidate; otherwise entries refresh after the TTL.
type moderationCache struct {
	mu       sync.Mutex
	ttl      time.Duration
	loadedAt time.Time
	cfg      services.ModerationConfig
}

func newModerationCache(ttl time.Duration) *moderationCache {
	return &moderationCache{ttl: ttl}
}

func (c *moderationCache) snapshot(store Store, threshold int) services.ModerationConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loadedAt.IsZero() && time.Since(c.loadedAt) < c.ttl {
		cfg := c.cfg
		cfg.Threshold = threshold
		return cfg
	}
	banned := []string{}
	for _, b := range store.ListBannedWords() {
		banned = append(banned, b.Word)
	}
	rules := []services.Correction{}
	for _, r := range store.ListCorrections() {
		rules = append(rules, services.Correction{Wrong: r.Wrong, Correct: r.Correct})
	}
	c.cfg = services.ModerationConfig{
		BannedWords: banned,
		Corrections: rules,
		AutoMerge:   store.GetSetting(SettingAutoMerge) != "0",
	}
	c.loadedAt = time.Now()
	cfg := c.cfg
	cfg.Threshold = threshold
	return cfg
}

func (c *moderationCache) invalidate() {
	c.mu.Lock()
	c.loadedAt = time.Time{}
	c.mu.Unlock()
}
