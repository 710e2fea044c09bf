package mapping

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// CollectionKeyPath is the envelope key list payloads are nested under.
const CollectionKeyPath = "data"

var (
	// ErrNoMappingClass indicates that no mapping target can be resolved for a
	// collection type because its element type was never registered.
	ErrNoMappingClass = errors.New("no mapping class")

	// ErrNotMappable indicates a type outside the mappable type set. Using such
	// a type as a result type is a programming error.
	ErrNotMappable = errors.New("type is not mappable")
)

// Mappable is implemented by model types that can be decoded from a payload.
// Implementations must use a value receiver and must not depend on receiver
// state: the method is called on the zero value.
type Mappable interface {
	// ModelKeyPath returns the default key path of the model inside a
	// payload, or "" when the model is the whole payload.
	ModelKeyPath() string
}

// Target is the concrete type a payload is decoded into.
type Target struct {
	// Name is the mapped model type name, the element type for collections.
	Name string

	// Collection is true when the target decodes a list of Name.
	Collection bool

	newValue func() any
	value    func(ptr any) any
}

// New returns a pointer to a fresh zero value of the target type.
func (t Target) New() any {
	return t.newValue()
}

// Value dereferences a pointer returned by New.
func (t Target) Value(ptr any) any {
	return t.value(ptr)
}

// Valid reports whether the target can instantiate values.
func (t Target) Valid() bool {
	return t.newValue != nil && t.value != nil
}

func targetFor[T any](name string, collection bool) Target {
	return Target{
		Name:       name,
		Collection: collection,
		newValue:   func() any { return new(T) },
		value:      func(ptr any) any { return *(ptr.(*T)) },
	}
}

// Descriptor tells the dispatcher how to decode a result type.
type Descriptor struct {
	// Target is the mapping target.
	Target Target

	// KeyPath is the default dotted key path into the payload, "" for none.
	KeyPath string
}

// Table holds the descriptors registered for an application's models.
// It is safe for concurrent use.
type Table struct {
	mu          sync.RWMutex
	descriptors map[reflect.Type]Descriptor
}

// NewTable creates an empty descriptor table.
func NewTable() *Table {
	return &Table{
		descriptors: make(map[reflect.Type]Descriptor),
	}
}

// Register adds the descriptors for E and []E. The collection inherits the
// element as mapping target and CollectionKeyPath as its default key path.
func Register[E Mappable](t *Table) {
	var zero E
	elem := reflect.TypeFor[E]()
	keyPath := modelKeyPath(zero, elem)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.descriptors[elem] = Descriptor{
		Target:  targetFor[E](elem.String(), false),
		KeyPath: keyPath,
	}
	t.descriptors[reflect.TypeFor[[]E]()] = Descriptor{
		Target:  targetFor[[]E](elem.String(), true),
		KeyPath: CollectionKeyPath,
	}
}

var mappableType = reflect.TypeFor[Mappable]()

// modelKeyPath calls ModelKeyPath on a zero value of typ. Pointer types are
// given a fresh element so the call never goes through a nil receiver.
func modelKeyPath(m Mappable, typ reflect.Type) string {
	if typ.Kind() == reflect.Pointer {
		m = reflect.New(typ.Elem()).Interface().(Mappable)
	}
	return m.ModelKeyPath()
}

// Len returns the number of registered descriptors.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.descriptors)
}

// Lookup resolves the descriptor for T.
//
// Registered types resolve from the table. An unregistered T that implements
// Mappable resolves directly, and so does a collection of such elements. A
// collection of anything else returns ErrNoMappingClass; any other type
// returns ErrNotMappable.
func Lookup[T any](t *Table) (Descriptor, error) {
	key := reflect.TypeFor[T]()

	if t != nil {
		t.mu.RLock()
		d, ok := t.descriptors[key]
		t.mu.RUnlock()
		if ok {
			return d, nil
		}
	}

	var zero T
	if m, ok := any(zero).(Mappable); ok {
		return Descriptor{
			Target:  targetFor[T](key.String(), false),
			KeyPath: modelKeyPath(m, key),
		}, nil
	}

	switch key.Kind() {
	case reflect.Slice, reflect.Array:
		if key.Elem().Implements(mappableType) {
			return Descriptor{
				Target:  targetFor[T](key.Elem().String(), true),
				KeyPath: CollectionKeyPath,
			}, nil
		}
		return Descriptor{}, fmt.Errorf("%w: element of %s is not mappable", ErrNoMappingClass, key)
	default:
		return Descriptor{}, fmt.Errorf("%w: %s", ErrNotMappable, key)
	}
}
