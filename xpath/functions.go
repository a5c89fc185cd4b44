package xpath

import (
	"fmt"
	"sync"
	"sync/atomic"
)

type Function interface {
	// Arity gives the accepted number of arguments. A negative max means
	// the function is variadic.
	Arity() (min int, max int)
	Call(*Context, []Value) (Value, error)
}

// Factory creates the implementation of a function the first time its ID
// is resolved.
type Factory func() (Function, error)

const (
	FuncCurrent int32 = iota
	FuncLast
	FuncPosition
	FuncCount
	FuncID
	FuncKey
	FuncLocalName
	FuncNamespaceURI
	FuncName
	FuncGenerateID
	FuncNot
	FuncTrue
	FuncFalse
	FuncBoolean
	FuncNumber
	FuncFloor
	FuncCeiling
	FuncRound
	FuncSum
	FuncString
	FuncStartsWith
	FuncContains
	FuncSubstringBefore
	FuncSubstringAfter
	FuncNormalizeSpace
	FuncTranslate
	FuncConcat
	FuncSubstring
	FuncStringLength
	FuncSystemProperty
	FuncLang
	FuncFunctionAvailable
	FuncElementAvailable
	FuncUnparsedEntityURI
	FuncDocumentLocation

	numBuiltinFuncs
)

type loader struct {
	name    string
	factory Factory

	once sync.Once
	fn   Function
	err  error
}

func (l *loader) load() (Function, error) {
	l.once.Do(func() {
		if l.factory == nil {
			l.err = fmt.Errorf("%s: %w", l.name, ErrFunctionLoad)
			return
		}
		l.fn, l.err = l.factory()
		if l.err != nil {
			l.err = fmt.Errorf("%s: %w: %w", l.name, ErrFunctionLoad, l.err)
		} else if l.fn == nil {
			l.err = fmt.Errorf("%s: %w: factory returned no function", l.name, ErrFunctionLoad)
		}
	})
	return l.fn, l.err
}

type functionSet struct {
	entries []*loader
	names   map[string]int32
}

func (s *functionSet) with(id int32, ld *loader) *functionSet {
	x := functionSet{
		entries: make([]*loader, len(s.entries), len(s.entries)+1),
		names:   make(map[string]int32, len(s.names)+1),
	}
	copy(x.entries, s.entries)
	for n, i := range s.names {
		x.names[n] = i
	}
	if int(id) == len(x.entries) {
		x.entries = append(x.entries, ld)
	} else {
		x.entries[id] = ld
	}
	x.names[ld.name] = id
	return &x
}

// FunctionTable maps function names to stable IDs and IDs to lazily
// created implementations. Lookups read an immutable snapshot; Install
// publishes a new snapshot under a lock.
type FunctionTable struct {
	mu       sync.Mutex
	current  atomic.Pointer[functionSet]
	builtins int
}

func NewFunctionTable() *FunctionTable {
	set := functionSet{
		entries: make([]*loader, numBuiltinFuncs),
		names:   make(map[string]int32, numBuiltinFuncs),
	}
	for id, b := range builtinFunctions {
		set.entries[id] = &loader{
			name:    b.name,
			factory: b.factory,
		}
		set.names[b.name] = id
	}
	var ft FunctionTable
	ft.builtins = len(set.entries)
	ft.current.Store(&set)
	return &ft
}

var (
	defaultFunctions     *FunctionTable
	defaultFunctionsOnce sync.Once
)

// DefaultFunctions returns the table used by compilers and contexts that
// are not given their own.
func DefaultFunctions() *FunctionTable {
	defaultFunctionsOnce.Do(func() {
		defaultFunctions = NewFunctionTable()
	})
	return defaultFunctions
}

func (t *FunctionTable) Lookup(name string) (int32, bool) {
	id, ok := t.current.Load().names[name]
	return id, ok
}

func (t *FunctionTable) Resolve(id int32) (Function, error) {
	set := t.current.Load()
	if id < 0 || int(id) >= len(set.entries) {
		return nil, fmt.Errorf("function #%d: %w", id, ErrFunction)
	}
	return set.entries[id].load()
}

// Install registers fn under name. A name installed before keeps its ID
// and gets its implementation replaced. Other names, built-in ones
// included, get the next free ID; a built-in keeps its own ID but is no
// longer found by name.
func (t *FunctionTable) Install(name string, fn Factory) int32 {
	t.mu.Lock()
	defer t.mu.Unlock()

	set := t.current.Load()
	id, ok := set.names[name]
	if !ok || int(id) < t.builtins {
		id = int32(len(set.entries))
	}
	ld := loader{
		name:    name,
		factory: fn,
	}
	t.current.Store(set.with(id, &ld))
	return id
}

func (t *FunctionTable) Name(id int32) (string, bool) {
	set := t.current.Load()
	if id < 0 || int(id) >= len(set.entries) {
		return "", false
	}
	return set.entries[id].name, true
}

func (t *FunctionTable) Len() int {
	return len(t.current.Load().entries)
}

// Builtins gives the number of IDs reserved for the built-in functions.
func (t *FunctionTable) Builtins() int {
	return t.builtins
}

func (t *FunctionTable) Names() []string {
	set := t.current.Load()
	names := make([]string, len(set.entries))
	for i := range set.entries {
		names[i] = set.entries[i].name
	}
	return names
}

// Prototype wraps an already built function in a Factory.
func Prototype(fn Function) Factory {
	return func() (Function, error) {
		return fn, nil
	}
}
