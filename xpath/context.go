package xpath

import (
	"maps"

	"github.com/midbel/xpc/environ"
)

// Context holds everything a compiled program can read without a
// document: the focus (Position and Size), variables, extension
// functions and the values returned by system-property.
type Context struct {
	Position int
	Size     int

	Variables  environ.Environ[Value]
	Extensions environ.Environ[Function]
	Functions  *FunctionTable
	Resolver   Resolver
	Properties map[string]string
}

func NewContext() *Context {
	ctx := Context{
		Position:   1,
		Size:       1,
		Variables:  environ.Empty[Value](),
		Extensions: environ.Empty[Function](),
		Functions:  DefaultFunctions(),
		Properties: make(map[string]string),
	}
	return &ctx
}

// Nest creates a child context whose variables shadow the ones of c.
func (c *Context) Nest() *Context {
	ctx := *c
	ctx.Variables = environ.Enclosed(c.Variables)
	ctx.Extensions = environ.Enclosed(c.Extensions)
	ctx.Properties = maps.Clone(c.Properties)
	return &ctx
}

// Sub gives a copy of c with another focus.
func (c *Context) Sub(pos, size int) *Context {
	ctx := *c
	ctx.Position = pos
	ctx.Size = size
	return &ctx
}

func (c *Context) Define(name string, value Value) {
	if c.Variables == nil {
		c.Variables = environ.Empty[Value]()
	}
	c.Variables.Define(name, value)
}

// DefineFunc registers an extension function under uri and local name. It
// can then be called with any prefix bound to uri.
func (c *Context) DefineFunc(uri, local string, fn Function) {
	if c.Extensions == nil {
		c.Extensions = environ.Empty[Function]()
	}
	c.Extensions.Define(ExpandedName(uri, local), fn)
}

func (c *Context) functions() *FunctionTable {
	if c.Functions == nil {
		return DefaultFunctions()
	}
	return c.Functions
}

func (c *Context) resolveVariable(prefix, local string) (Value, error) {
	if c.Variables == nil {
		return nil, ErrUndefined
	}
	name := local
	if prefix != "" {
		name = prefix + ":" + local
		if c.Resolver != nil {
			if uri, err := c.Resolver.Resolve(prefix); err == nil {
				if v, err := c.Variables.Resolve(ExpandedName(uri, local)); err == nil {
					return v, nil
				}
			}
		}
	}
	return c.Variables.Resolve(name)
}

func (c *Context) resolveExtension(prefix, local string) (Function, error) {
	if c.Extensions == nil {
		return nil, ErrFunction
	}
	if c.Resolver != nil {
		if uri, err := c.Resolver.Resolve(prefix); err == nil {
			if fn, err := c.Extensions.Resolve(ExpandedName(uri, local)); err == nil {
				return fn, nil
			}
		}
	}
	return c.Extensions.Resolve(prefix + ":" + local)
}

// ExpandedName gives the Clark notation of a qualified name.
func ExpandedName(uri, local string) string {
	if uri == "" {
		return local
	}
	return "{" + uri + "}" + local
}
