package xpath

import (
	"maps"
	"slices"
	"sync"
)

const (
	kwOr    = "or"
	kwAnd   = "and"
	kwDiv   = "div"
	kwMod   = "mod"
	kwQuo   = "quo"
	kwID    = "id"
	kwKey   = "key"
	kwAttr  = "attribute"
	kwChild = "child"
)

// Keywords maps axis names and node type names to their opcodes. A
// Keywords is never modified once built and can be shared between
// goroutines.
type Keywords struct {
	axes      map[string]Opcode
	nodetypes map[string]Opcode
}

func NewKeywords() *Keywords {
	k := Keywords{
		axes: map[string]Opcode{
			"ancestor":           FromAncestors,
			"ancestor-or-self":   FromAncestorsOrSelf,
			"attribute":          FromAttributes,
			"child":              FromChildren,
			"descendant":         FromDescendants,
			"descendant-or-self": FromDescendantsOrSelf,
			"following":          FromFollowing,
			"following-sibling":  FromFollowingSiblings,
			"parent":             FromParent,
			"preceding":          FromPreceding,
			"preceding-sibling":  FromPrecedingSiblings,
			"self":               FromSelf,
			"namespace":          FromNamespace,
		},
		nodetypes: map[string]Opcode{
			"comment":                NodeTypeComment,
			"text":                   NodeTypeText,
			"processing-instruction": NodeTypePI,
			"node":                   NodeTypeNode,
		},
	}
	return &k
}

var (
	defaultKeywords     *Keywords
	defaultKeywordsOnce sync.Once
)

// DefaultKeywords returns the keyword tables shared by compilers that are
// not given their own.
func DefaultKeywords() *Keywords {
	defaultKeywordsOnce.Do(func() {
		defaultKeywords = NewKeywords()
	})
	return defaultKeywords
}

func (k *Keywords) Axis(name string) (Opcode, bool) {
	op, ok := k.axes[name]
	return op, ok
}

func (k *Keywords) NodeType(name string) (Opcode, bool) {
	op, ok := k.nodetypes[name]
	return op, ok
}

func (k *Keywords) AxisNames() []string {
	return slices.Sorted(maps.Keys(k.axes))
}

func (k *Keywords) NodeTypeNames() []string {
	return slices.Sorted(maps.Keys(k.nodetypes))
}

// AxisName is the reverse lookup of Axis. The abbreviated and pattern only
// axes have no name.
func (k *Keywords) AxisName(op Opcode) (string, bool) {
	for n, o := range k.axes {
		if o == op {
			return n, true
		}
	}
	return "", false
}
