// Package catalog caches built polyhedra and nets so each geometry is
// constructed once and shared by every engine that asks for it.
package catalog

import (
	"fmt"
	"sort"
	"sync"

	"github.com/signalsfoundry/polynet/layout"
	"github.com/signalsfoundry/polynet/polyhedron"
)

// EventType indicates what kind of change happened in the catalog.
type EventType int

const (
	EventPolyhedronBuilt EventType = iota
	EventNetBuilt
)

func (t EventType) String() string {
	switch t {
	case EventPolyhedronBuilt:
		return "polyhedron"
	case EventNetBuilt:
		return "net"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// Event is emitted to subscribers after a geometry is built.
type Event struct {
	Type       EventType
	Polyhedron polyhedron.Variant
	// Net and Root are set for EventNetBuilt. Root is the face actually
	// used, which differs from the requested one when that root failed.
	Net  layout.Variant
	Root int
}

// NetKey identifies a requested net.
type NetKey struct {
	Polyhedron polyhedron.Variant
	Variant    layout.Variant
	Root       int
}

// Catalog is an in-memory, thread-safe store of built geometry.
type Catalog struct {
	mu sync.RWMutex

	polyhedra map[polyhedron.Variant]*polyhedron.Polyhedron
	nets      map[NetKey]*layout.Net

	subs   map[int]func(Event)
	nextID int
}

// New constructs an empty catalog.
func New() *Catalog {
	return &Catalog{
		polyhedra: make(map[polyhedron.Variant]*polyhedron.Polyhedron),
		nets:      make(map[NetKey]*layout.Net),
		subs:      make(map[int]func(Event)),
	}
}

// Polyhedron returns the cached polyhedron for v, building it on first use.
func (c *Catalog) Polyhedron(v polyhedron.Variant) (*polyhedron.Polyhedron, error) {
	c.mu.RLock()
	p, ok := c.polyhedra[v]
	c.mu.RUnlock()
	if ok {
		return p, nil
	}

	c.mu.Lock()
	if p, ok := c.polyhedra[v]; ok {
		c.mu.Unlock()
		return p, nil
	}
	p, err := polyhedron.New(v)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.polyhedra[v] = p
	subs := c.subscribers()
	c.mu.Unlock()

	// Notify subscribers outside the lock to avoid deadlocks.
	notify(subs, Event{Type: EventPolyhedronBuilt, Polyhedron: v})
	return p, nil
}

// Net returns the cached net for key, building it and its polyhedron on
// first use.
func (c *Catalog) Net(key NetKey) (*layout.Net, error) {
	c.mu.RLock()
	n, ok := c.nets[key]
	c.mu.RUnlock()
	if ok {
		return n, nil
	}

	p, err := c.Polyhedron(key.Polyhedron)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if n, ok := c.nets[key]; ok {
		c.mu.Unlock()
		return n, nil
	}
	n, err = layout.New(p, key.Variant, key.Root)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.nets[key] = n
	subs := c.subscribers()
	c.mu.Unlock()

	notify(subs, Event{Type: EventNetBuilt, Polyhedron: key.Polyhedron, Net: key.Variant, Root: n.Root()})
	return n, nil
}

// Polyhedra returns the variants built so far, sorted by name.
func (c *Catalog) Polyhedra() []polyhedron.Variant {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res := make([]polyhedron.Variant, 0, len(c.polyhedra))
	for v := range c.polyhedra {
		res = append(res, v)
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

// Nets returns the keys of the nets built so far in a stable order.
func (c *Catalog) Nets() []NetKey {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res := make([]NetKey, 0, len(c.nets))
	for k := range c.nets {
		res = append(res, k)
	}
	sort.Slice(res, func(i, j int) bool {
		a, b := res[i], res[j]
		if a.Polyhedron != b.Polyhedron {
			return a.Polyhedron < b.Polyhedron
		}
		if a.Variant != b.Variant {
			return a.Variant < b.Variant
		}
		return a.Root < b.Root
	})
	return res
}

// Subscribe registers a callback for catalog events. It returns an
// unsubscribe function.
func (c *Catalog) Subscribe(fn func(Event)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

// subscribers snapshots callbacks in registration order. Callers hold mu.
func (c *Catalog) subscribers() []func(Event) {
	ids := make([]int, 0, len(c.subs))
	for id := range c.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]func(Event), len(ids))
	for i, id := range ids {
		out[i] = c.subs[id]
	}
	return out
}

func notify(subs []func(Event), ev Event) {
	for _, sub := range subs {
		sub(ev)
	}
}
