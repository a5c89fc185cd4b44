package xpath

import (
	"strconv"
)

// Opcode is the value stored in a slot of an operation map. Depending on
// its position a slot holds an opcode, a record length, a token index or a
// function ID.
type Opcode = int32

const (
	EndOp        Opcode = -1
	Empty        Opcode = -2
	ElemWildcard Opcode = -3
)

const (
	OpXPath Opcode = iota + 1
	OpOr
	OpAnd
	OpNotEquals
	OpEquals
	OpLte
	OpLt
	OpGte
	OpGt
	OpPlus
	OpMinus
	OpMult
	OpDiv
	OpMod
	OpQuo
	OpNeg
	OpString
	OpBool
	OpNumber
	OpUnion
	OpLiteral
	OpVariable
	OpGroup
	OpExtFunction
	OpFunction
	OpArgument
	OpNumberLit
	OpLocationPath
	OpPredicate
	OpMatchPattern
	OpLocationPathPattern
)

const (
	NodeName Opcode = iota + 34
	NodeTypeRoot
	NodeTypeAnyElement
)

const (
	NodeTypeComment Opcode = iota + 1030
	NodeTypeText
	NodeTypePI
	NodeTypeNode
	NodeTypeFuncTest
)

const (
	FromAncestors Opcode = iota + 37
	FromAncestorsOrSelf
	FromAttributes
	FromChildren
	FromDescendants
	FromDescendantsOrSelf
	FromFollowing
	FromFollowingSiblings
	FromParent
	FromPreceding
	FromPrecedingSiblings
	FromSelf
	FromNamespace
	FromRoot
	MatchAttribute
	MatchAnyAncestor
	MatchImmediateAncestor
)

const (
	axesStart = FromAncestors
	axesEnd   = MatchImmediateAncestor
)

const (
	// MapIndexLength is the slot of the root record holding the number of
	// used slots of the whole map.
	MapIndexLength = 1
)

func IsAxis(op Opcode) bool {
	return op >= axesStart && op <= axesEnd
}

func IsBinary(op Opcode) bool {
	return op >= OpOr && op <= OpQuo
}

func IsNodeType(op Opcode) bool {
	switch op {
	case NodeTypeComment, NodeTypeText, NodeTypePI, NodeTypeNode, NodeTypeFuncTest:
		return true
	case NodeName, NodeTypeRoot, NodeTypeAnyElement:
		return true
	default:
		return false
	}
}

var opnames = map[Opcode]string{
	EndOp:                  "ENDOP",
	Empty:                  "EMPTY",
	ElemWildcard:           "ELEMWILDCARD",
	OpXPath:                "OP_XPATH",
	OpOr:                   "OP_OR",
	OpAnd:                  "OP_AND",
	OpNotEquals:            "OP_NOTEQUALS",
	OpEquals:               "OP_EQUALS",
	OpLte:                  "OP_LTE",
	OpLt:                   "OP_LT",
	OpGte:                  "OP_GTE",
	OpGt:                   "OP_GT",
	OpPlus:                 "OP_PLUS",
	OpMinus:                "OP_MINUS",
	OpMult:                 "OP_MULT",
	OpDiv:                  "OP_DIV",
	OpMod:                  "OP_MOD",
	OpQuo:                  "OP_QUO",
	OpNeg:                  "OP_NEG",
	OpString:               "OP_STRING",
	OpBool:                 "OP_BOOL",
	OpNumber:               "OP_NUMBER",
	OpUnion:                "OP_UNION",
	OpLiteral:              "OP_LITERAL",
	OpVariable:             "OP_VARIABLE",
	OpGroup:                "OP_GROUP",
	OpExtFunction:          "OP_EXTFUNCTION",
	OpFunction:             "OP_FUNCTION",
	OpArgument:             "OP_ARGUMENT",
	OpNumberLit:            "OP_NUMBERLIT",
	OpLocationPath:         "OP_LOCATIONPATH",
	OpPredicate:            "OP_PREDICATE",
	OpMatchPattern:         "OP_MATCHPATTERN",
	OpLocationPathPattern:  "OP_LOCATIONPATHPATTERN",
	NodeName:               "NODENAME",
	NodeTypeRoot:           "NODETYPE_ROOT",
	NodeTypeAnyElement:     "NODETYPE_ANYELEMENT",
	NodeTypeComment:        "NODETYPE_COMMENT",
	NodeTypeText:           "NODETYPE_TEXT",
	NodeTypePI:             "NODETYPE_PI",
	NodeTypeNode:           "NODETYPE_NODE",
	NodeTypeFuncTest:       "NODETYPE_FUNCTEST",
	FromAncestors:          "FROM_ANCESTORS",
	FromAncestorsOrSelf:    "FROM_ANCESTORS_OR_SELF",
	FromAttributes:         "FROM_ATTRIBUTES",
	FromChildren:           "FROM_CHILDREN",
	FromDescendants:        "FROM_DESCENDANTS",
	FromDescendantsOrSelf:  "FROM_DESCENDANTS_OR_SELF",
	FromFollowing:          "FROM_FOLLOWING",
	FromFollowingSiblings:  "FROM_FOLLOWING_SIBLINGS",
	FromParent:             "FROM_PARENT",
	FromPreceding:          "FROM_PRECEDING",
	FromPrecedingSiblings:  "FROM_PRECEDING_SIBLINGS",
	FromSelf:               "FROM_SELF",
	FromNamespace:          "FROM_NAMESPACE",
	FromRoot:               "FROM_ROOT",
	MatchAttribute:         "MATCH_ATTRIBUTE",
	MatchAnyAncestor:       "MATCH_ANY_ANCESTOR",
	MatchImmediateAncestor: "MATCH_IMMEDIATE_ANCESTOR",
}

// OpName gives the printable name of op, or its decimal value when op is
// not a known opcode.
func OpName(op Opcode) string {
	if str, ok := opnames[op]; ok {
		return str
	}
	return strconv.Itoa(int(op))
}
