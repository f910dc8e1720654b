package ecs

import (
	"slices"
	"strings"

	"github.com/kamstrup/intmap"
)

// Family is a live view of all entities that have every required component type.
// It is updated synchronously on every component or entity change, so a system
// running later in the same frame always sees the current membership.
//
// A Family only indexes entities, the Engine owns them.
type Family struct {
	types []ComponentType

	entities []*Entity
	index    *intmap.Map[uint32, int]
}

// Family returns the live family for the given required component types.
// Families with the same set of types (in any order) are shared.
func (en *Engine) Family(types ...ComponentType) *Family {
	sorted := slices.Clone(types)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	key := familyKey(sorted)
	if family, ok := en.families[key]; ok {
		return family
	}

	family := &Family{
		types: sorted,
		index: intmap.New[uint32, int](64),
	}

	// initial population
	for _, e := range en.entities {
		family.check(e)
	}

	en.families[key] = family
	en.familyList = append(en.familyList, family)
	return family
}

// Families returns all live families in creation order
func (en *Engine) Families() []*Family {
	return en.familyList
}

// familyKey joins the sorted types with NUL, which never appears in a type name.
func familyKey(sorted []ComponentType) string {
	var sb strings.Builder
	for _, t := range sorted {
		sb.WriteString(string(t))
		sb.WriteByte(0)
	}
	return sb.String()
}

// Types returns the required component types, sorted
func (f *Family) Types() []ComponentType {
	return slices.Clone(f.types)
}

// Entities returns the current members. The slice is owned by the family and
// is only valid until the next change to the engine.
func (f *Family) Entities() []*Entity {
	return f.entities
}

// Len returns the number of members
func (f *Family) Len() int {
	return len(f.entities)
}

// First returns the first member, or false if the family is empty.
// Singleton-role families (main camera, light) use this and must handle the empty case.
func (f *Family) First() (*Entity, bool) {
	if len(f.entities) == 0 {
		return nil, false
	}
	return f.entities[0], true
}

// Contains checks if the entity is currently a member
func (f *Family) Contains(e *Entity) bool {
	if e == nil || e.handle == 0 {
		return false
	}
	_, ok := f.index.Get(e.handle)
	return ok
}

// Matches checks if the entity has every required component type
func (f *Family) Matches(e *Entity) bool {
	return e.HasComponents(f.types)
}

// check re-tests a single entity and adds or removes it accordingly
func (f *Family) check(e *Entity) {
	member := f.Contains(e)
	matches := f.Matches(e)

	switch {
	case matches && !member:
		f.index.Put(e.handle, len(f.entities))
		f.entities = append(f.entities, e)

	case !matches && member:
		f.remove(e)
	}
}

// remove drops the entity by moving the last member into its slot
func (f *Family) remove(e *Entity) {
	pos, ok := f.index.Get(e.handle)
	if !ok {
		return
	}

	last := len(f.entities) - 1
	if pos != last {
		moved := f.entities[last]
		f.entities[pos] = moved
		f.index.Put(moved.handle, pos)
	}

	f.entities[last] = nil
	f.entities = f.entities[:last]
	f.index.Del(e.handle)
}
