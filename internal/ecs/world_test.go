package ecs

import "testing"

// stub components used only in tests
type hpComp struct{ val int }

func (hpComp) Type() ComponentType { return 1 }

type tagComp struct{}

func (tagComp) Type() ComponentType { return 2 }

func TestCreateEntity(t *testing.T) {
	w := NewWorld()
	id := w.CreateEntity()
	if id == NilEntity {
		t.Fatal("expected non-nil entity ID")
	}
	if !w.Alive(id) {
		t.Fatal("expected entity to be alive after creation")
	}
}

func TestAddAndGetComponent(t *testing.T) {
	w := NewWorld()
	id := w.CreateEntity()
	w.Add(id, hpComp{val: 42})

	c, ok := w.Get(id, ComponentType(1)).(hpComp)
	if !ok {
		t.Fatal("wrong component type returned")
	}
	if c.val != 42 {
		t.Fatalf("expected val=42, got %d", c.val)
	}
}

func TestAddToDeadEntityIsDropped(t *testing.T) {
	w := NewWorld()
	id := w.CreateEntity()
	w.DestroyEntity(id)
	w.Add(id, hpComp{val: 3})
	if w.Has(id, ComponentType(1)) {
		t.Fatal("component attached to a destroyed entity")
	}
}

func TestDestroyEntityRemovesComponents(t *testing.T) {
	w := NewWorld()
	id := w.CreateEntity()
	w.Add(id, hpComp{val: 7})
	w.DestroyEntity(id)

	if w.Alive(id) {
		t.Fatal("entity should not be alive after DestroyEntity")
	}
	if w.Get(id, ComponentType(1)) != nil {
		t.Fatal("component should be gone after DestroyEntity")
	}
	// second destroy must not panic
	w.DestroyEntity(id)
}

func TestQueryFiltersCorrectly(t *testing.T) {
	w := NewWorld()

	both := w.CreateEntity()
	w.Add(both, hpComp{})
	w.Add(both, tagComp{})

	onlyA := w.CreateEntity()
	w.Add(onlyA, hpComp{})

	results := w.Query(ComponentType(1), ComponentType(2))
	if len(results) != 1 || results[0] != both {
		t.Fatalf("expected [%v], got %v", both, results)
	}
	if n := w.Count(ComponentType(1)); n != 2 {
		t.Fatalf("Count = %d; want 2", n)
	}
}

func TestQueryIsOrderedByID(t *testing.T) {
	w := NewWorld()
	var ids []EntityID
	for range 50 {
		id := w.CreateEntity()
		w.Add(id, hpComp{})
		ids = append(ids, id)
	}
	got := w.Query(ComponentType(1))
	if len(got) != len(ids) {
		t.Fatalf("got %d entities; want %d", len(got), len(ids))
	}
	for i := range got {
		if got[i] != ids[i] {
			t.Fatalf("index %d: got %v want %v", i, got[i], ids[i])
		}
	}
}

func TestHasAndRemove(t *testing.T) {
	w := NewWorld()
	id := w.CreateEntity()

	if w.Has(id, ComponentType(1)) {
		t.Fatal("Has should return false before Add")
	}
	w.Add(id, hpComp{val: 1})
	if !w.Has(id, ComponentType(1)) {
		t.Fatal("Has should return true after Add")
	}
	w.Remove(id, ComponentType(1))
	if w.Has(id, ComponentType(1)) {
		t.Fatal("Has should return false after Remove")
	}
	// Removing a type that was never added must not panic.
	w.Remove(id, ComponentType(99))
}

func TestQueryExcludesDeadEntities(t *testing.T) {
	w := NewWorld()
	alive := w.CreateEntity()
	w.Add(alive, hpComp{})

	dead := w.CreateEntity()
	w.Add(dead, hpComp{})
	w.DestroyEntity(dead)

	results := w.Query(ComponentType(1))
	if len(results) != 1 || results[0] != alive {
		t.Fatalf("expected only the alive entity; got %v", results)
	}
}
