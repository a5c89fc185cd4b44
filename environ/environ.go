package environ

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var ErrUndefined = errors.New("undefined identifier")

type Environ[T any] interface {
	Resolve(string) (T, error)
	Define(string, T)
	Defined(string) bool
	Names() []string
	Len() int
}

type Env[T any] struct {
	values map[string]T
	parent Environ[T]
}

func Empty[T any]() Environ[T] {
	return Enclosed[T](nil)
}

func Enclosed[T any](parent Environ[T]) Environ[T] {
	e := Env[T]{
		values: make(map[string]T),
		parent: parent,
	}
	return &e
}

func From[T any](values map[string]T) Environ[T] {
	e := Env[T]{
		values: maps.Clone(values),
	}
	if e.values == nil {
		e.values = make(map[string]T)
	}
	return &e
}

func (e *Env[T]) Len() int {
	if e.parent == nil {
		return len(e.values)
	}
	return len(e.Names())
}

// Names returns the identifiers visible from e, inner scopes first and
// each group sorted.
func (e *Env[T]) Names() []string {
	names := slices.Sorted(maps.Keys(e.values))
	if e.parent == nil {
		return names
	}
	for _, n := range e.parent.Names() {
		if _, ok := e.values[n]; ok {
			continue
		}
		names = append(names, n)
	}
	return names
}

func (e *Env[T]) Define(ident string, value T) {
	e.values[ident] = value
}

func (e *Env[T]) Defined(ident string) bool {
	if _, ok := e.values[ident]; ok {
		return true
	}
	return e.parent != nil && e.parent.Defined(ident)
}

func (e *Env[T]) Resolve(ident string) (T, error) {
	value, ok := e.values[ident]
	if ok {
		return value, nil
	}
	if e.parent != nil {
		return e.parent.Resolve(ident)
	}
	var t T
	return t, fmt.Errorf("%s: %w", ident, ErrUndefined)
}

func (e *Env[T]) Unwrap() Environ[T] {
	if e.parent == nil {
		return e
	}
	return e.parent
}

func (e *Env[T]) Clone() Environ[T] {
	x := Env[T]{
		values: maps.Clone(e.values),
	}
	if c, ok := e.parent.(interface{ Clone() Environ[T] }); ok {
		x.parent = c.Clone()
	} else {
		x.parent = e.parent
	}
	return &x
}
