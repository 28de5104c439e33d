package handles

import (
	"sync"
	"testing"
)

type session struct {
	Name string
}

func TestRegisterAndLookup(t *testing.T) {
	var tab Table[*session]

	s := &session{Name: "test"}
	id := tab.Register(s)
	if id == 0 {
		t.Error("Register should return non-zero id")
	}

	got, ok := tab.Lookup(id)
	if !ok || got != s {
		t.Errorf("Lookup(%d) = %v, %v; want %v", id, got, ok, s)
	}
}

func TestUnregister(t *testing.T) {
	var tab Table[string]
	id := tab.Register("userdata")

	tab.Unregister(id)
	if _, ok := tab.Lookup(id); ok {
		t.Error("Expected no value after Unregister")
	}
	tab.Unregister(id)
}

func TestLookupNonExistent(t *testing.T) {
	var tab Table[int]
	if _, ok := tab.Lookup(999999); ok {
		t.Error("Lookup of non-existent id should fail")
	}
	if _, ok := tab.Lookup(0); ok {
		t.Error("id 0 must never resolve")
	}
}

func TestConcurrentAccess(t *testing.T) {
	const numGoroutines = 100
	const numOps = 100

	var tab Table[[2]int]
	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(g int) {
			defer wg.Done()
			for j := 0; j < numOps; j++ {
				id := tab.Register([2]int{g, j})
				got, ok := tab.Lookup(id)
				if !ok || got != [2]int{g, j} {
					t.Errorf("Lookup(%d) = %v, %v", id, got, ok)
				}
				tab.Unregister(id)
			}
		}(i)
	}

	wg.Wait()
	if n := tab.Count(); n != 0 {
		t.Errorf("Count() = %d after unregistering everything", n)
	}
}

func TestIDsAreUnique(t *testing.T) {
	var tab Table[int]
	seen := make(map[uintptr]bool)

	for i := 0; i < 1000; i++ {
		id := tab.Register(i)
		if seen[id] {
			t.Errorf("id %d was returned twice", id)
		}
		seen[id] = true
	}
	if tab.Count() != 1000 {
		t.Errorf("Count() = %d, want 1000", tab.Count())
	}
}
