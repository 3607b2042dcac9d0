package ecs

import (
	"testing"

	"github.com/milk9111/limbopass/ecs/component"
)

func TestWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			if len(Entities(w)) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(Entities(w)))
			}
			if c.destroyIndex < 0 {
				return
			}
			if !DestroyEntity(w, ents[c.destroyIndex]) {
				t.Fatalf("DestroyEntity should return true for alive entity")
			}
			if IsAlive(w, ents[c.destroyIndex]) {
				t.Fatalf("entity should not be alive after destruction")
			}
			if DestroyEntity(w, ents[c.destroyIndex]) {
				t.Fatalf("second destroy should report false")
			}
			if len(Entities(w)) != c.create-1 {
				t.Fatalf("expected %d entities after destroy, got %d", c.create-1, len(Entities(w)))
			}
		})
	}
}

func TestRecycledIDGetsNewGeneration(t *testing.T) {
	w := NewWorld()
	first := CreateEntity(w)
	DestroyEntity(w, first)
	second := CreateEntity(w)

	if first.id() != second.id() {
		t.Fatalf("expected id reuse, got %d and %d", first.id(), second.id())
	}
	if first == second {
		t.Fatalf("recycled entity must differ from stale handle")
	}
	if IsAlive(w, first) {
		t.Fatalf("stale handle must not be alive")
	}
}

func intPtr(i int) *int {
	return &i
}

func TestComponentsFollowEntity(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()
	e := CreateEntity(w)

	if err := Add(w, e, h.Kind(), intPtr(7)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	v, ok := Get(w, e, h.Kind())
	if !ok || *v != 7 {
		t.Fatalf("expected 7, got %v ok=%v", v, ok)
	}
	*v = 9
	if again, _ := Get(w, e, h.Kind()); *again != 9 {
		t.Fatalf("Get should hand out the stored pointer")
	}

	DestroyEntity(w, e)
	reused := CreateEntity(w)
	if Has(w, reused, h.Kind()) {
		t.Fatalf("recycled entity must not inherit components")
	}
	if err := Add(w, e, h.Kind(), intPtr(1)); err != component.ErrEntityNotAlive {
		t.Fatalf("expected ErrEntityNotAlive, got %v", err)
	}
	if err := Add[int](w, reused, h.Kind(), nil); err != component.ErrNilComponent {
		t.Fatalf("expected ErrNilComponent, got %v", err)
	}
}

func TestForEachVariants(t *testing.T) {
	w := NewWorld()
	ka := component.NewComponentKind[int]()
	kb := component.NewComponentKind[int]()
	kc := component.NewComponentKind[int]()
	kd := component.NewComponentKind[int]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	e3 := CreateEntity(w)

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(Add(w, e1, ka, intPtr(1)))
	must(Add(w, e2, ka, intPtr(2)))
	must(Add(w, e2, kb, intPtr(3)))
	must(Add(w, e2, kc, intPtr(4)))
	must(Add(w, e2, kd, intPtr(5)))
	must(Add(w, e3, kb, intPtr(6)))

	var one []Entity
	ForEach(w, ka, func(e Entity, _ *int) { one = append(one, e) })
	if len(one) != 2 {
		t.Fatalf("ForEach: expected 2 entities, got %v", one)
	}

	var two []Entity
	ForEach2(w, ka, kb, func(e Entity, _ *int, _ *int) { two = append(two, e) })
	if len(two) != 1 || two[0] != e2 {
		t.Fatalf("ForEach2: expected only e2, got %v", two)
	}

	var four []Entity
	ForEach4(w, ka, kb, kc, kd, func(e Entity, _, _, _, _ *int) { four = append(four, e) })
	if len(four) != 1 || four[0].id() != e2.id() {
		t.Fatalf("ForEach4: expected only e2, got %v", four)
	}

	DestroyEntity(w, e2)
	var three []Entity
	ForEach3(w, ka, kb, kc, func(e Entity, _, _, _ *int) { three = append(three, e) })
	if len(three) != 0 {
		t.Fatalf("ForEach3: expected empty result after destroy, got %v", three)
	}

	if first, ok := First(w, kb); !ok || first != e3 {
		t.Fatalf("First: expected e3, got %v ok=%v", first, ok)
	}
}

func TestControlledHandle(t *testing.T) {
	w := NewWorld()
	if _, ok := Controlled(w); ok {
		t.Fatalf("fresh world has no controlled body")
	}

	e := CreateEntity(w)
	if err := SetControlled(w, e); err != nil {
		t.Fatalf("SetControlled: %v", err)
	}
	if got, ok := Controlled(w); !ok || got != e {
		t.Fatalf("expected %v, got %v ok=%v", e, got, ok)
	}

	DestroyEntity(w, e)
	if _, ok := Controlled(w); ok {
		t.Fatalf("destroying the body must clear the handle")
	}
	if err := SetControlled(w, e); err != component.ErrEntityNotAlive {
		t.Fatalf("expected ErrEntityNotAlive for dead entity, got %v", err)
	}
}
