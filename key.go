package factory

import (
	"fmt"
	"reflect"
	"strings"
)

// Key uniquely identifies a registration within a process.
// It combines the produced type, the owning container and, for parameterized
// factories, the parameter type. Name separates several declared factories
// that produce the same type.
type Key struct {
	Type      reflect.Type
	Container string
	Param     reflect.Type
	Name      string
}

// keyFor builds the key for a factory producing T with no parameters.
func keyFor[T any](container, name string) Key {
	return Key{
		Type:      reflect.TypeFor[T](),
		Container: container,
		Name:      name,
	}
}

// paramKeyFor builds the key for a factory producing T from a P.
func paramKeyFor[P, T any](container, name string) Key {
	return Key{
		Type:      reflect.TypeFor[T](),
		Container: container,
		Param:     reflect.TypeFor[P](),
		Name:      name,
	}
}

// TypeName returns the produced type's name without package path noise.
// Generic types report their first type argument, so Box[pkg.Service]
// is tracked as pkg.Service in dependency chains.
func (k Key) TypeName() string {
	if k.Type == nil {
		return "<nil>"
	}

	name := k.Type.String()
	if open := strings.IndexByte(name, '['); open >= 0 {
		if end := strings.LastIndexByte(name, ']'); end > open {
			return name[open+1 : end]
		}
	}

	return name
}

// String returns a human-readable representation of the key.
func (k Key) String() string {
	var b strings.Builder

	b.WriteString(k.Container)
	b.WriteByte('.')

	if k.Name != "" {
		b.WriteString(k.Name)
		b.WriteByte(':')
	}

	if k.Type == nil {
		b.WriteString("<nil>")
	} else {
		b.WriteString(k.Type.String())
	}

	if k.Param != nil {
		fmt.Fprintf(&b, "(%s)", k.Param)
	}

	return b.String()
}
