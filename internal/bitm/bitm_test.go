package bitm

import "testing"

func TestGrowSetUnset(t *testing.T) {
	var m Bitm[uint32]
	if m.Len() != 0 || m.Rem() != 0 {
		t.Fatalf("zero value: have (%d, %d), want (0, 0)", m.Len(), m.Rem())
	}
	idx := m.Grow(1)
	if idx != 0 {
		t.Fatalf("Grow: have %d, want 0", idx)
	}
	if m.Len() != 32 || m.Rem() != 32 {
		t.Fatalf("Grow: have (%d, %d), want (32, 32)", m.Len(), m.Rem())
	}
	m.Set(5)
	if !m.IsSet(5) {
		t.Fatal("Set: bit 5 should be set")
	}
	if m.Rem() != 31 {
		t.Fatalf("Set: Rem have %d, want 31", m.Rem())
	}
	m.Set(5) // idempotent
	if m.Rem() != 31 {
		t.Fatalf("Set (dup): Rem have %d, want 31", m.Rem())
	}
	m.Unset(5)
	if m.IsSet(5) {
		t.Fatal("Unset: bit 5 should be free")
	}
	if m.Rem() != 32 {
		t.Fatalf("Unset: Rem have %d, want 32", m.Rem())
	}
}

func TestSearch(t *testing.T) {
	var m Bitm[uint8]
	if _, ok := m.Search(); ok {
		t.Fatal("Search on empty map should fail")
	}
	m.Grow(1)
	for i := 0; i < 8; i++ {
		idx, ok := m.Search()
		if !ok {
			t.Fatalf("Search: unexpected failure at iteration %d", i)
		}
		if idx != i {
			t.Fatalf("Search: have %d, want %d", idx, i)
		}
		m.Set(idx)
	}
	if _, ok := m.Search(); ok {
		t.Fatal("Search on full map should fail")
	}
}

func TestClear(t *testing.T) {
	var m Bitm[uint32]
	m.Grow(2)
	m.Set(0)
	m.Set(40)
	m.Clear()
	if m.Rem() != m.Len() {
		t.Fatalf("Clear: Rem have %d, want %d", m.Rem(), m.Len())
	}
	if m.IsSet(0) || m.IsSet(40) {
		t.Fatal("Clear: no bit should remain set")
	}
}
