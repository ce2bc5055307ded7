package cache

import (
	"testing"
	"time"
)

func TestKey_DistinctInputs(t *testing.T) {
	tests := []struct {
		name string
		a    [3]string
		b    [3]string
	}{
		{"different text", [3]string{"openai", "m", "alpha"}, [3]string{"openai", "m", "beta"}},
		{"different model", [3]string{"openai", "small", "alpha"}, [3]string{"openai", "large", "alpha"}},
		{"different provider", [3]string{"openai", "m", "alpha"}, [3]string{"ollama", "m", "alpha"}},
		{"shifted boundary", [3]string{"ab", "c", "text"}, [3]string{"a", "bc", "text"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if Key(tt.a[0], tt.a[1], tt.a[2]) == Key(tt.b[0], tt.b[1], tt.b[2]) {
				t.Error("distinct inputs collided")
			}
		})
	}
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	vec := []float32{0.1, 0.2, 0.3}
	if err := c.Set("k", vec, 0); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, found := c.Get("k")
	if !found {
		t.Fatal("expected hit")
	}
	for i := range vec {
		if got[i] != vec[i] {
			t.Fatalf("vector corrupted: %v vs %v", got, vec)
		}
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("expected miss after delete")
	}
}

func TestDiskCache_RoundTrip(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)

	vec := []float32{1, 2, 3}
	key := Key("fake", "m", "some text")
	if err := c.Set(key, vec, 0); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, found := c.Get(key)
	if !found {
		t.Fatal("expected hit")
	}
	for i := range vec {
		if got[i] != vec[i] {
			t.Fatalf("vector corrupted: %v vs %v", got, vec)
		}
	}
}

func TestDiskCache_ExpiredEntryDropped(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)

	if err := c.Set("k", []float32{1}, -time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("expired entry should miss")
	}
	// The stale file is removed, so a second lookup stays a miss.
	if _, found := c.Get("k"); found {
		t.Error("expected miss after cleanup")
	}
}

func TestDiskCache_MissOnUnknownKey(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)
	if _, found := c.Get("never-stored"); found {
		t.Error("expected miss")
	}
}

func TestLayeredCache_DiskHitPromoted(t *testing.T) {
	dir := t.TempDir()

	warm := NewLayeredCache(time.Minute, dir, time.Hour)
	if err := warm.Set("k", []float32{4, 5}, 0); err != nil {
		t.Fatalf("set: %v", err)
	}

	// Fresh instance over the same directory: memory is cold, disk is not.
	cold := NewLayeredCache(time.Minute, dir, time.Hour)

	got, found := cold.Get("k")
	if !found {
		t.Fatal("expected disk hit")
	}
	if got[0] != 4 || got[1] != 5 {
		t.Fatalf("vector corrupted: %v", got)
	}

	if _, found := cold.memory.Get("k"); !found {
		t.Error("disk hit was not promoted into memory")
	}
}

func TestLayeredCache_MemoryOnly(t *testing.T) {
	c := NewLayeredCache(time.Minute, "", time.Hour)

	if err := c.Set("k", []float32{7}, 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, found := c.Get("k"); !found {
		t.Error("expected memory hit")
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("expected miss after clear")
	}
}
