package cmap

import (
	"fmt"
	"sync"
	"testing"
)

func newMap() *Map[int] {
	return NewWithShards[int](DefaultShardCount)
}

func TestNewWithShards(t *testing.T) {
	tests := []struct {
		input    int
		expected int
	}{
		{0, DefaultShardCount},
		{-1, DefaultShardCount},
		{3, DefaultShardCount},
		{1, 1},
		{2, 2},
		{8, 8},
		{64, 64},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("shards=%d", tt.input), func(t *testing.T) {
			m := NewWithShards[int](tt.input)
			if got := len(m.Stats()); got != tt.expected {
				t.Errorf("NewWithShards(%d) shard count = %d, want %d",
					tt.input, got, tt.expected)
			}
		})
	}
}

func TestSetAndGet(t *testing.T) {
	m := newMap()

	m.Set("key1", 100)
	m.Set("key2", 200)

	val, ok := m.Get("key1")
	if !ok || val != 100 {
		t.Errorf("Get(key1) = (%d, %v), want (100, true)", val, ok)
	}

	val, ok = m.Get("key2")
	if !ok || val != 200 {
		t.Errorf("Get(key2) = (%d, %v), want (200, true)", val, ok)
	}

	val, ok = m.Get("nonexistent")
	if ok {
		t.Errorf("Get(nonexistent) = (%d, %v), want (0, false)", val, ok)
	}
}

func TestSetOverwrite(t *testing.T) {
	m := NewWithShards[string](DefaultShardCount)
	m.Set("k", "a")
	m.Set("k", "b")

	if v, _ := m.Get("k"); v != "b" {
		t.Errorf("Get(k) = %q, want %q", v, "b")
	}
	if m.Count() != 1 {
		t.Errorf("Count() = %d, want 1", m.Count())
	}
}

func TestDelete(t *testing.T) {
	m := newMap()

	m.Set("key1", 100)
	if !m.Delete("key1") {
		t.Error("Delete(key1) = false, want true")
	}
	if _, ok := m.Get("key1"); ok {
		t.Error("key1 should not exist after deletion")
	}

	// Delete non-existent key should report false
	if m.Delete("nonexistent") {
		t.Error("Delete(nonexistent) = true, want false")
	}
}

func TestDeleteIf(t *testing.T) {
	m := newMap()
	m.Set("k", 5)

	if m.DeleteIf("k", func(v int) bool { return v == 4 }) {
		t.Error("DeleteIf with false predicate removed the key")
	}
	if _, ok := m.Get("k"); !ok {
		t.Fatal("key should still exist")
	}
	if !m.DeleteIf("k", func(v int) bool { return v == 5 }) {
		t.Error("DeleteIf with true predicate did not remove the key")
	}
	if m.DeleteIf("k", func(int) bool { return true }) {
		t.Error("DeleteIf on absent key should return false")
	}
}

func TestCount(t *testing.T) {
	m := newMap()
	for i := 0; i < 100; i++ {
		m.Set(fmt.Sprintf("key%d", i), i)
	}

	if m.Count() != 100 {
		t.Errorf("Count() = %d, want 100", m.Count())
	}
}

func TestConcurrentAccess(t *testing.T) {
	m := newMap()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("key%d-%d", n, j)
				m.Set(key, j)
				m.Get(key)
				if j%2 == 0 {
					m.Delete(key)
				}
			}
		}(i)
	}

	wg.Wait()

	if m.Count() != 50*50 {
		t.Errorf("Count() = %d, want %d", m.Count(), 50*50)
	}
}

func TestStats(t *testing.T) {
	m := NewWithShards[int](4)
	for i := 0; i < 40; i++ {
		m.Set(fmt.Sprintf("k%d", i), i)
	}

	stats := m.Stats()
	if len(stats) != 4 {
		t.Fatalf("Stats() length = %d, want 4", len(stats))
	}

	total := 0
	for i, s := range stats {
		if s.Index != i {
			t.Errorf("stats[%d].Index = %d", i, s.Index)
		}
		total += s.Count
	}
	if total != 40 {
		t.Errorf("total count across shards = %d, want 40", total)
	}
}

func BenchmarkSet(b *testing.B) {
	m := newMap()
	for i := 0; i < b.N; i++ {
		m.Set(fmt.Sprintf("key%d", i%1000), i)
	}
}

func BenchmarkGetParallel(b *testing.B) {
	m := newMap()
	for i := 0; i < 1000; i++ {
		m.Set(fmt.Sprintf("key%d", i), i)
	}
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			m.Get(fmt.Sprintf("key%d", i%1000))
			i++
		}
	})
}
