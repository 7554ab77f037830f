package catalog

import (
	"errors"
	"sync"
	"testing"

	"github.com/signalsfoundry/polynet/layout"
	"github.com/signalsfoundry/polynet/model"
	"github.com/signalsfoundry/polynet/polyhedron"
)

func TestPolyhedronIsBuiltOnce(t *testing.T) {
	c := New()
	var events []Event
	c.Subscribe(func(ev Event) { events = append(events, ev) })

	a, err := c.Polyhedron(polyhedron.Icosahedron)
	if err != nil {
		t.Fatalf("Polyhedron: %v", err)
	}
	b, err := c.Polyhedron(polyhedron.Icosahedron)
	if err != nil {
		t.Fatalf("Polyhedron: %v", err)
	}
	if a != b {
		t.Fatal("expected the cached polyhedron to be reused")
	}
	if len(events) != 1 || events[0].Type != EventPolyhedronBuilt || events[0].Polyhedron != polyhedron.Icosahedron {
		t.Fatalf("events = %+v, want one polyhedron build", events)
	}
}

func TestNetBuildsPolyhedronAndNotifies(t *testing.T) {
	c := New()
	var events []Event
	unsubscribe := c.Subscribe(func(ev Event) { events = append(events, ev) })

	key := NetKey{Polyhedron: polyhedron.Cube, Variant: layout.DepthFirst, Root: 2}
	n, err := c.Net(key)
	if err != nil {
		t.Fatalf("Net: %v", err)
	}
	again, _ := c.Net(key)
	if n != again {
		t.Fatal("expected the cached net to be reused")
	}
	p, _ := c.Polyhedron(polyhedron.Cube)
	if n.Polyhedron() != p {
		t.Fatal("net does not share the cached polyhedron")
	}

	if len(events) != 2 || events[0].Type != EventPolyhedronBuilt || events[1].Type != EventNetBuilt {
		t.Fatalf("events = %+v", events)
	}
	if events[1].Root != n.Root() || events[1].Net != layout.DepthFirst {
		t.Fatalf("net event = %+v", events[1])
	}

	unsubscribe()
	if _, err := c.Net(NetKey{Polyhedron: polyhedron.Cube, Variant: layout.Standard}); err != nil {
		t.Fatalf("Net: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("unsubscribed callback still invoked: %+v", events)
	}

	if got := c.Nets(); len(got) != 2 || got[0].Variant != layout.DepthFirst {
		t.Fatalf("Nets() = %+v", got)
	}
	if got := c.Polyhedra(); len(got) != 1 || got[0] != polyhedron.Cube {
		t.Fatalf("Polyhedra() = %v", got)
	}
}

func TestErrorsAreNotCached(t *testing.T) {
	c := New()
	if _, err := c.Polyhedron("torus"); !errors.Is(err, model.ErrUnsupportedConfiguration) {
		t.Fatalf("Polyhedron(torus) err = %v", err)
	}
	if _, err := c.Net(NetKey{Polyhedron: polyhedron.Tetrahedron, Variant: layout.Standard, Root: 9}); !errors.Is(err, model.ErrUnsupportedConfiguration) {
		t.Fatalf("Net(root 9) err = %v", err)
	}
	if len(c.Nets()) != 0 {
		t.Fatalf("failed net was cached: %v", c.Nets())
	}
}

func TestConcurrentAccessSharesOneInstance(t *testing.T) {
	c := New()
	var (
		mu     sync.Mutex
		builds int
	)
	c.Subscribe(func(ev Event) {
		if ev.Type == EventNetBuilt {
			mu.Lock()
			builds++
			mu.Unlock()
		}
	})

	key := NetKey{Polyhedron: polyhedron.Dodecahedron, Variant: layout.Standard}
	results := make([]*layout.Net, 16)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			n, err := c.Net(key)
			if err != nil {
				t.Errorf("Net: %v", err)
				return
			}
			results[i] = n
		}(i)
	}
	wg.Wait()

	for i, n := range results {
		if n != results[0] {
			t.Fatalf("goroutine %d got a different net", i)
		}
	}
	if builds != 1 {
		t.Fatalf("net built %d times, want 1", builds)
	}
}
