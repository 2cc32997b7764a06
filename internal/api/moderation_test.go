package api

import (
	"testing"
	"time"
)

func TestModerationCacheServesSnapshotUntilInvalidated(t *testing.T) {
	store := NewMemoryStore()
	store.AddBannedWord("caca")
	cache := newModerationCache(time.Hour)

	cfg := cache.snapshot(store, 100)
	if len(cfg.BannedWords) != 1 || cfg.BannedWords[0] != "caca" {
		t.Fatalf("banned words = %v", cfg.BannedWords)
	}
	if !cfg.AutoMerge {
		t.Fatal("auto merge defaults to on when the setting is unset")
	}
	if cfg.Threshold != 100 {
		t.Fatalf("threshold = %d, want 100", cfg.Threshold)
	}

	// A store write without invalidation stays invisible inside the TTL.
	store.AddBannedWord("pizza")
	if cfg := cache.snapshot(store, 100); len(cfg.BannedWords) != 1 {
		t.Fatalf("cached banned words = %v, want stale single entry", cfg.BannedWords)
	}

	cache.invalidate()
	if cfg := cache.snapshot(store, 100); len(cfg.BannedWords) != 2 {
		t.Fatalf("banned words after invalidate = %v, want 2", cfg.BannedWords)
	}
}

func TestModerationCacheReadsAutoMergeOff(t *testing.T) {
	store := NewMemoryStore()
	store.SetSetting(SettingAutoMerge, "0")
	cache := newModerationCache(time.Hour)
	if cfg := cache.snapshot(store, 100); cfg.AutoMerge {
		t.Fatal("auto merge should be off")
	}
}

func TestModerationCacheThresholdAlwaysFresh(t *testing.T) {
	store := NewMemoryStore()
	cache := newModerationCache(time.Hour)
	cache.snapshot(store, 100)
	if cfg := cache.snapshot(store, 50); cfg.Threshold != 50 {
		t.Fatalf("threshold = %d, want caller value 50", cfg.Threshold)
	}
}
