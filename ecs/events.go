package ecs

import "fmt"

// EventKind identifies a change in the engine.
type EventKind int

const (
	EntityAdded EventKind = iota
	EntityRemoved
	ComponentAdded
	ComponentRemoved
	SelectionChanged
)

func (k EventKind) String() string {
	switch k {
	case EntityAdded:
		return "EntityAdded"
	case EntityRemoved:
		return "EntityRemoved"
	case ComponentAdded:
		return "ComponentAdded"
	case ComponentRemoved:
		return "ComponentRemoved"
	case SelectionChanged:
		return "SelectionChanged"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is delivered synchronously to subscribers on the thread that caused the change.
type Event struct {
	Kind EventKind

	// Entity is the entity that changed. For SelectionChanged it is the new
	// selection and may be nil.
	Entity *Entity

	// Component is set for ComponentAdded and ComponentRemoved
	Component ComponentType

	// Index is the entity's position in the engine's entity list for
	// EntityAdded and EntityRemoved
	Index int

	// Previous is the previous selection for SelectionChanged
	Previous *Entity
}

type subscriber struct {
	id uint64
	fn func(Event)
}

// Subscribe registers fn for every engine change. The returned function cancels
// the subscription.
func (en *Engine) Subscribe(fn func(Event)) (cancel func()) {
	en.nextSubscriberId++
	id := en.nextSubscriberId
	en.subscribers = append(en.subscribers, subscriber{id: id, fn: fn})

	return func() {
		for i, sub := range en.subscribers {
			if sub.id == id {
				en.subscribers = append(en.subscribers[:i:i], en.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (en *Engine) emit(ev Event) {
	for _, sub := range en.subscribers {
		sub.fn(ev)
	}
}
