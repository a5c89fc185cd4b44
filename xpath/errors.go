package xpath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	CodeGenericError = "XPST0003"
	CodeUndefinedVar = "XPST0008"
	CodeUnknownFunc  = "XPST0017"
	CodeNumberArg    = "XPST0018"
	CodeBadAxis      = "XPST0010"
	CodeNodeType     = "XPST0051"
	CodeLimit        = "XPDY0130"
)

var (
	ErrExpected       = errors.New("expected token")
	ErrAxis           = errors.New("illegal axis name")
	ErrNodeType       = errors.New("unknown node type")
	ErrFunction       = errors.New("function not found")
	ErrFunctionLoad   = errors.New("function can not be loaded")
	ErrArity          = errors.New("invalid number of argument(s)")
	ErrBooleanArg     = errors.New("boolean argument is not optional")
	ErrLiteral        = errors.New("literal needs to be quoted")
	ErrNumber         = errors.New("token can not be formatted to a number")
	ErrComma          = errors.New("misplaced comma")
	ErrPredicate      = errors.New("predicate not allowed after abbreviated step")
	ErrAxisNotAllowed = errors.New("axis not allowed in pattern")
	ErrLocationPath   = errors.New("location path expected")
	ErrLocationStep   = errors.New("location step expected")
	ErrExtraTokens    = errors.New("extra illegal tokens")
	ErrToken          = errors.New("invalid character")
	ErrLimit          = errors.New("expression exceeds limit")
	ErrNamespace      = errors.New("prefix can not be resolved")
	ErrQuo            = errors.New("quo is not an XPath 1.0 operator")
	ErrProgram        = errors.New("malformed operation map")
)

var (
	ErrNodeSet   = errors.New("node-set can not be evaluated without a document")
	ErrUndefined = errors.New("undefined")
	ErrType      = errors.New("invalid type")
)

type SyntaxError struct {
	Code  string
	Expr  string
	Cause string
	Args  []string
	Err   error
	Position
}

func syntaxError(code, expr string, err error, args ...string) *SyntaxError {
	return &SyntaxError{
		Code:  code,
		Expr:  expr,
		Cause: formatCause(err, args),
		Args:  args,
		Err:   err,
	}
}

func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] %s (%d:%d): %s", e.Code, e.Expr, e.Line, e.Column, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Expr, e.Cause)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

func formatCause(err error, args []string) string {
	switch {
	case errors.Is(err, ErrExpected) && len(args) == 2:
		found := "end of expression"
		if args[1] != "" {
			found = strconv.Quote(args[1])
		}
		return fmt.Sprintf("expected %q, but found %s", args[0], found)
	case errors.Is(err, ErrArity) && len(args) == 2:
		return fmt.Sprintf("%s: %s (%s given)", err, args[0], args[1])
	case len(args) > 0:
		return fmt.Sprintf("%s: %s", err, strings.Join(args, ", "))
	default:
		return err.Error()
	}
}

// Listener receives the problems found while compiling. Warning and Error
// never stop the compilation, Fatal is followed by the compiler giving up.
type Listener interface {
	Warning(*SyntaxError)
	Error(*SyntaxError)
	Fatal(*SyntaxError)
}

// Collector is a Listener keeping everything it receives.
type Collector struct {
	Warnings []*SyntaxError
	Errors   []*SyntaxError
	Fatals   []*SyntaxError
}

func (c *Collector) Warning(err *SyntaxError) {
	c.Warnings = append(c.Warnings, err)
}

func (c *Collector) Error(err *SyntaxError) {
	c.Errors = append(c.Errors, err)
}

func (c *Collector) Fatal(err *SyntaxError) {
	c.Fatals = append(c.Fatals, err)
}
