package debugui

import (
	"reflect"
	"sync"
)

// FieldInfo describes an exported struct field shown read-only for
// components that do not expose ecs.FieldSource.
type FieldInfo struct {
	Name  string
	Index int
}

type ReflectionCache struct {
	mu     sync.RWMutex
	fields map[reflect.Type][]FieldInfo
}

func NewReflectionCache() *ReflectionCache {
	return &ReflectionCache{
		fields: make(map[reflect.Type][]FieldInfo),
	}
}

// Fields returns the exported fields of a struct type, or nil for other kinds.
func (rc *ReflectionCache) Fields(t reflect.Type) []FieldInfo {
	rc.mu.RLock()
	cached, ok := rc.fields[t]
	rc.mu.RUnlock()
	if ok {
		return cached
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()

	if cached, ok := rc.fields[t]; ok {
		return cached
	}

	var fields []FieldInfo
	if t.Kind() == reflect.Struct {
		for i := range t.NumField() {
			field := t.Field(i)
			if field.IsExported() {
				fields = append(fields, FieldInfo{Name: field.Name, Index: i})
			}
		}
	}

	rc.fields[t] = fields
	return fields
}

var globalReflectionCache = NewReflectionCache()
