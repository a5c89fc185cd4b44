package xpath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/midbel/xpc/environ"
)

const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

// Resolver gives the namespace URI bound to a prefix.
type Resolver interface {
	Resolve(string) (string, error)
}

// Namespaces is a Resolver backed by an environment of prefix bindings.
// The xml prefix is always bound.
type Namespaces struct {
	environ.Environ[string]
}

func NewNamespaces() *Namespaces {
	ns := Namespaces{
		Environ: environ.Empty[string](),
	}
	ns.Define("xml", xmlNamespace)
	return &ns
}

type chainResolver []Resolver

func (c chainResolver) Resolve(prefix string) (string, error) {
	var last error
	for _, r := range c {
		uri, err := r.Resolve(prefix)
		if err == nil {
			return uri, nil
		}
		last = err
	}
	return "", last
}

type Option func(*Compiler)

func WithNamespace(prefix, uri string) Option {
	return func(c *Compiler) {
		if c.namespaces == nil {
			c.namespaces = NewNamespaces()
		}
		c.namespaces.Define(prefix, uri)
	}
}

// WithResolver sets the resolver consulted for the prefixes that are not
// bound with WithNamespace.
func WithResolver(r Resolver) Option {
	return func(c *Compiler) {
		c.resolver = r
	}
}

func WithListener(l Listener) Option {
	return func(c *Compiler) {
		c.listener = l
	}
}

func WithTracer(t Tracer) Option {
	return func(c *Compiler) {
		if t == nil {
			t = discardTracer{}
		}
		c.Tracer = t
	}
}

func WithFunctions(ft *FunctionTable) Option {
	return func(c *Compiler) {
		if ft != nil {
			c.functions = ft
		}
	}
}

func WithKeywords(kw *Keywords) Option {
	return func(c *Compiler) {
		if kw != nil {
			c.keywords = kw
		}
	}
}

// WithResultType wraps the compiled expression in the conversion to the
// given type. TypeAny leaves the expression as is.
func WithResultType(t ValueType) Option {
	return func(c *Compiler) {
		c.result = t
	}
}

func WithMaxTokens(n int) Option {
	return func(c *Compiler) {
		c.maxTokens = n
	}
}

// WithMaxDepth bounds the nesting of parenthesis and brackets.
func WithMaxDepth(n int) Option {
	return func(c *Compiler) {
		c.maxDepth = n
	}
}

// Compiler holds the configuration shared by compilations. Each call to
// Compile or CompilePattern uses its own operation map and token queue so a
// Compiler can be reused.
type Compiler struct {
	Tracer
	listener   Listener
	resolver   Resolver
	namespaces *Namespaces
	functions  *FunctionTable
	keywords   *Keywords
	result     ValueType
	maxTokens  int
	maxDepth   int
}

func NewCompiler(options ...Option) *Compiler {
	cp := Compiler{
		Tracer:    discardTracer{},
		functions: DefaultFunctions(),
		keywords:  DefaultKeywords(),
	}
	for _, o := range options {
		o(&cp)
	}
	return &cp
}

func Compile(expr string, options ...Option) (*Program, error) {
	return NewCompiler(options...).Compile(expr)
}

func CompileTokens(queue *TokenQueue, options ...Option) (*Program, error) {
	return NewCompiler(options...).CompileTokens(queue)
}

func CompilePattern(expr string, options ...Option) (*Program, error) {
	return NewCompiler(options...).CompilePattern(expr)
}

func (c *Compiler) Compile(expr string) (*Program, error) {
	queue, err := c.tokenize(expr)
	if err != nil {
		return nil, err
	}
	return c.compile(expr, queue, OpXPath)
}

func (c *Compiler) CompileTokens(queue *TokenQueue) (*Program, error) {
	return c.compile(queue.String(), queue, OpXPath)
}

func (c *Compiler) CompilePattern(expr string) (*Program, error) {
	queue, err := c.tokenize(expr)
	if err != nil {
		return nil, err
	}
	return c.compile(expr, queue, OpMatchPattern)
}

// Resolver gives the resolver used for namespace node tests, nil when none
// is configured.
func (c *Compiler) Resolver() Resolver {
	switch {
	case c.namespaces != nil && c.resolver != nil:
		return chainResolver{c.namespaces, c.resolver}
	case c.namespaces != nil:
		return c.namespaces
	default:
		return c.resolver
	}
}

func (c *Compiler) tokenize(expr string) (*TokenQueue, error) {
	queue, err := Tokenize(expr)
	if err == nil {
		return queue, nil
	}
	var serr *SyntaxError
	if errors.As(err, &serr) {
		serr.Expr = expr
		c.Error("tokenize", serr)
		if c.listener != nil {
			c.listener.Fatal(serr)
		}
	}
	return nil, err
}

func (c *Compiler) compile(expr string, queue *TokenQueue, kind Opcode) (*Program, error) {
	if err := c.checkLimits(expr, queue); err != nil {
		return nil, err
	}
	p := parser{
		Compiler: c,
		expr:     expr,
		ops:      NewOpMap(),
		queue:    queue,
	}
	p.ops.Set(0, kind)
	p.ops.SetLen(2)

	var err error
	if kind == OpMatchPattern {
		err = p.compilePattern()
	} else {
		err = p.compileXPath()
	}
	if err == nil && !p.done() {
		err = p.extraTokens()
	}
	if err != nil {
		return nil, err
	}
	if kind == OpMatchPattern {
		p.ops.Terminate()
	}
	p.ops.Shrink()

	prog := Program{
		Expr:   expr,
		Errors: p.errors,
		ops:    p.ops.Slice(),
		tokens: queue,
		funcs:  c.functions,
	}
	return &prog, nil
}

func (c *Compiler) checkLimits(expr string, queue *TokenQueue) error {
	var cause string
	if c.maxTokens > 0 && queue.Len() > c.maxTokens {
		cause = fmt.Sprintf("%d tokens (max %d)", queue.Len(), c.maxTokens)
	}
	if cause == "" && c.maxDepth > 0 {
		if depth := nestingDepth(queue); depth > c.maxDepth {
			cause = fmt.Sprintf("depth %d (max %d)", depth, c.maxDepth)
		}
	}
	if cause == "" {
		return nil
	}
	err := syntaxError(CodeLimit, expr, ErrLimit, cause)
	c.Error("limits", err)
	if c.listener != nil {
		c.listener.Fatal(err)
	}
	return err
}

func nestingDepth(queue *TokenQueue) int {
	var curr, depth int
	for _, tok := range queue.Tokens() {
		switch {
		case tok.Is(lparen) || tok.Is(lsquare):
			curr++
			depth = max(depth, curr)
		case tok.Is(rparen) || tok.Is(rsquare):
			curr--
		}
	}
	return depth
}

// parser is the state of one compilation: the operation map being built and
// the cursor into the token queue.
type parser struct {
	*Compiler

	expr   string
	ops    *OpMap
	queue  *TokenQueue
	pos    int
	errors []*SyntaxError
	rules  []string
}

func (p *parser) Enter(rule string) {
	p.rules = append(p.rules, rule)
	p.Tracer.Enter(rule)
}

func (p *parser) Leave(rule string) {
	if n := len(p.rules); n > 0 {
		p.rules = p.rules[:n-1]
	}
	p.Tracer.Leave(rule)
}

func (p *parser) compileXPath() error {
	switch p.result {
	case TypeString:
		return p.compileConvert(OpString)
	case TypeBoolean:
		return p.compileConvert(OpBool)
	case TypeNumber:
		return p.compileConvert(OpNumber)
	default:
		return p.compileExpr()
	}
}

func (p *parser) compileConvert(op Opcode) error {
	p.Enter("convert")
	defer p.Leave("convert")

	pos := p.ops.Append(2, op)
	if err := p.compileExpr(); err != nil {
		return err
	}
	if op == OpBool && p.ops.Len()-pos == 2 {
		return p.fatal(CodeGenericError, ErrBooleanArg)
	}
	p.ops.Patch(pos)
	return nil
}

func (p *parser) compileExpr() error {
	return p.compileOr()
}

func (p *parser) compileOr() error {
	p.Enter("or")
	defer p.Leave("or")

	pos := p.ops.Len()
	if err := p.compileAnd(); err != nil {
		return err
	}
	if !p.is(kwOr) {
		return nil
	}
	p.next()
	p.ops.Insert(pos, 2, OpOr)
	if err := p.compileOr(); err != nil {
		return err
	}
	p.ops.Patch(pos)
	return nil
}

func (p *parser) compileAnd() error {
	p.Enter("and")
	defer p.Leave("and")

	pos := p.ops.Len()
	if _, err := p.compileEquality(-1); err != nil {
		return err
	}
	if !p.is(kwAnd) {
		return nil
	}
	p.next()
	p.ops.Insert(pos, 2, OpAnd)
	if err := p.compileAnd(); err != nil {
		return err
	}
	p.ops.Patch(pos)
	return nil
}

// compileChain compiles a sequence of operands joined by operators of the
// same precedence. Every operator found is inserted at addPos, in front of
// everything compiled so far, so that the chain is recorded left nested:
// a-b-c gives (- (- a b) c).
func (p *parser) compileChain(addPos int, operand func() error, match func() (Opcode, bool), self func(int) (int, error)) (int, error) {
	if addPos < 0 {
		addPos = p.ops.Len()
	}
	if err := operand(); err != nil {
		return addPos, err
	}
	op, ok := match()
	if !ok {
		return addPos, nil
	}
	p.ops.Insert(addPos, 2, op)
	left := p.ops.Len() - addPos

	addPos, err := self(addPos)
	if err != nil {
		return addPos, err
	}
	size := p.ops.Get(addPos+left+MapIndexLength) + int32(left)
	p.ops.Set(addPos+MapIndexLength, size)
	return addPos + 2, nil
}

func (p *parser) compileEquality(addPos int) (int, error) {
	p.Enter("equality")
	defer p.Leave("equality")

	operand := func() error {
		_, err := p.compileRelational(-1)
		return err
	}
	return p.compileChain(addPos, operand, p.matchEquality, p.compileEquality)
}

func (p *parser) matchEquality() (Opcode, bool) {
	switch {
	case p.isChar(bang) && p.lookahead(equal, 1):
		p.next()
		p.next()
		return OpNotEquals, true
	case p.isChar(equal):
		p.next()
		return OpEquals, true
	default:
		return 0, false
	}
}

func (p *parser) compileRelational(addPos int) (int, error) {
	p.Enter("relational")
	defer p.Leave("relational")

	operand := func() error {
		_, err := p.compileAdditive(-1)
		return err
	}
	return p.compileChain(addPos, operand, p.matchRelational, p.compileRelational)
}

func (p *parser) matchRelational() (Opcode, bool) {
	var lt bool
	switch {
	case p.isChar(langle):
		lt = true
	case p.isChar(rangle):
	default:
		return 0, false
	}
	p.next()
	eq := p.isChar(equal)
	if eq {
		p.next()
	}
	switch {
	case lt && eq:
		return OpLte, true
	case lt:
		return OpLt, true
	case eq:
		return OpGte, true
	default:
		return OpGt, true
	}
}

func (p *parser) compileAdditive(addPos int) (int, error) {
	p.Enter("additive")
	defer p.Leave("additive")

	operand := func() error {
		_, err := p.compileMultiplicative(-1)
		return err
	}
	return p.compileChain(addPos, operand, p.matchAdditive, p.compileAdditive)
}

func (p *parser) matchAdditive() (Opcode, bool) {
	var op Opcode
	switch {
	case p.isChar(plus):
		op = OpPlus
	case p.isChar(dash):
		op = OpMinus
	default:
		return 0, false
	}
	p.next()
	return op, true
}

func (p *parser) compileMultiplicative(addPos int) (int, error) {
	p.Enter("multiplicative")
	defer p.Leave("multiplicative")

	return p.compileChain(addPos, p.compileUnary, p.matchMultiplicative, p.compileMultiplicative)
}

func (p *parser) matchMultiplicative() (Opcode, bool) {
	var op Opcode
	switch {
	case p.isChar(star):
		op = OpMult
	case p.is(kwDiv):
		op = OpDiv
	case p.is(kwMod):
		op = OpMod
	case p.is(kwQuo):
		op = OpQuo
		p.warn(CodeGenericError, ErrQuo)
	default:
		return 0, false
	}
	p.next()
	return op, true
}

func (p *parser) compileUnary() error {
	p.Enter("unary")
	defer p.Leave("unary")

	if !p.isChar(dash) {
		return p.compileUnion()
	}
	p.next()
	pos := p.ops.Append(2, OpNeg)
	if err := p.compileUnary(); err != nil {
		return err
	}
	p.ops.Patch(pos)
	return nil
}

func (p *parser) compileUnion() error {
	p.Enter("union")
	defer p.Leave("union")

	var (
		pos   = p.ops.Len()
		found bool
	)
	for {
		if err := p.compilePath(); err != nil {
			return err
		}
		if !p.isChar(pipe) {
			break
		}
		if !found {
			found = true
			p.ops.Insert(pos, 2, OpUnion)
		}
		p.next()
	}
	if found {
		p.ops.Terminate()
		p.ops.Patch(pos)
	}
	return nil
}

func (p *parser) compilePath() error {
	p.Enter("path")
	defer p.Leave("path")

	pos := p.ops.Len()
	if err := p.compileFilter(); err != nil {
		return err
	}
	if !p.isChar(slash) {
		return nil
	}
	p.next()
	p.ops.Insert(pos, 2, OpLocationPath)
	if err := p.compileTrailingPath(); err != nil {
		return err
	}
	p.ops.Terminate()
	p.ops.Patch(pos)
	return nil
}

func (p *parser) compileFilter() error {
	p.Enter("filter")
	defer p.Leave("filter")

	pos := p.ops.Len()
	if err := p.compilePrimary(); err != nil {
		return err
	}
	if !p.isChar(lsquare) {
		return nil
	}
	p.ops.Insert(pos, 2, OpLocationPath)
	for p.isChar(lsquare) {
		if err := p.compilePredicate(); err != nil {
			return err
		}
	}
	if p.isChar(slash) {
		p.next()
		if err := p.compileTrailingPath(); err != nil {
			return err
		}
	}
	p.ops.Terminate()
	p.ops.Patch(pos)
	return nil
}

// compileTrailingPath compiles the steps following a filter expression,
// where at least one step is required.
func (p *parser) compileTrailingPath() error {
	ok, err := p.compileRelativePath()
	if err == nil && !ok {
		err = p.fatal(CodeGenericError, ErrLocationStep, p.found())
	}
	return err
}

func (p *parser) compilePrimary() error {
	p.Enter("primary")
	defer p.Leave("primary")

	if p.done() {
		return p.compileLocationPath()
	}
	var (
		pos = p.ops.Len()
		tok = p.curr()
		err error
	)
	switch {
	case isQuote(tok.Text):
		p.ops.Append(2, OpLiteral)
		err = p.compileLiteral()
	case tok.Is(dollar):
		p.next()
		p.ops.Append(2, OpVariable)
		err = p.compileQName()
	case tok.Is(lparen):
		p.next()
		p.ops.Append(2, OpGroup)
		if err = p.compileExpr(); err == nil {
			err = p.expect(")")
		}
	case isNumberToken(tok.Text):
		p.ops.Append(2, OpNumberLit)
		err = p.compileNumber()
	case isName(tok.Text) && (p.lookahead(lparen, 1) || (p.lookahead(colon, 1) && p.lookahead(lparen, 3))):
		return p.compileFunctionCall()
	default:
		return p.compileLocationPath()
	}
	if err != nil {
		return err
	}
	p.ops.Patch(pos)
	return nil
}

func (p *parser) compileArgument() error {
	p.Enter("argument")
	defer p.Leave("argument")

	pos := p.ops.Append(2, OpArgument)
	if err := p.compileExpr(); err != nil {
		return err
	}
	p.ops.Patch(pos)
	return nil
}

func (p *parser) compileFunctionCall() error {
	p.Enter("call")
	defer p.Leave("call")

	var (
		pos  = p.ops.Len()
		name = p.text()
		fn   Function
	)
	if p.lookahead(colon, 1) {
		p.ops.Append(4, OpExtFunction)
		p.ops.Set(pos+2, int32(p.pos))
		p.next()
		if err := p.expect(":"); err != nil {
			return err
		}
		name += ":" + p.text()
		p.ops.Set(pos+3, int32(p.pos))
		p.next()
	} else {
		if _, ok := p.keywords.NodeType(name); ok {
			return p.compileLocationPath()
		}
		id, ok := p.functions.Lookup(name)
		if !ok {
			return p.fatal(CodeUnknownFunc, ErrFunction, name)
		}
		f, err := p.functions.Resolve(id)
		if err != nil {
			return p.fatal(CodeUnknownFunc, err)
		}
		fn = f
		p.ops.Append(3, OpFunction)
		p.ops.Set(pos+2, id)
		p.next()
	}
	if err := p.expect("("); err != nil {
		return err
	}
	var argc int
	for !p.isChar(rparen) && !p.done() {
		if p.isChar(comma) {
			return p.fatal(CodeGenericError, ErrComma, "no preceding argument")
		}
		if err := p.compileArgument(); err != nil {
			return err
		}
		argc++
		if p.isChar(rparen) || p.done() {
			break
		}
		if err := p.expect(","); err != nil {
			return err
		}
		if p.isChar(rparen) {
			return p.fatal(CodeGenericError, ErrComma, "no following argument")
		}
	}
	if err := p.expect(")"); err != nil {
		return err
	}
	p.ops.Terminate()
	p.ops.Patch(pos)
	if fn == nil {
		return nil
	}
	return p.checkArity(name, fn, argc)
}

func (p *parser) checkArity(name string, fn Function, argc int) error {
	if name == "boolean" && argc == 0 {
		return p.fatal(CodeNumberArg, ErrBooleanArg)
	}
	if err := checkArgs(fn, argc); err != nil {
		return p.fatal(CodeNumberArg, ErrArity, name, strconv.Itoa(argc))
	}
	return nil
}

func (p *parser) compileLocationPath() error {
	p.Enter("location-path")
	defer p.Leave("location-path")

	pos := p.ops.Append(2, OpLocationPath)
	root := p.isChar(slash)
	if root {
		p.appendStep(FromRoot, NodeTypeRoot)
		p.next()
	} else if p.done() {
		return p.fatal(CodeGenericError, ErrLocationPath, p.found())
	}
	if !p.done() {
		ok, err := p.compileRelativePath()
		if err != nil {
			return err
		}
		if !ok && !root {
			return p.fatal(CodeGenericError, ErrLocationPath, p.found())
		}
	}
	p.ops.Terminate()
	p.ops.Patch(pos)
	return nil
}

// compileRelativePath reports false when no step could be compiled at the
// current token. A step is required after every slash.
func (p *parser) compileRelativePath() (bool, error) {
	p.Enter("relative-path")
	defer p.Leave("relative-path")

	ok, err := p.compileStep()
	if err != nil || !ok {
		return ok, err
	}
	for p.isChar(slash) {
		p.next()
		ok, err := p.compileStep()
		if err != nil {
			return false, err
		}
		if !ok {
			return false, p.fatal(CodeGenericError, ErrLocationStep, p.found())
		}
	}
	return true, nil
}

func (p *parser) compileStep() (bool, error) {
	p.Enter("step")
	defer p.Leave("step")

	var (
		pos    = p.ops.Len()
		double = p.isChar(slash)
	)
	if double {
		p.next()
		p.appendStep(FromDescendantsOrSelf, NodeTypeNode)
		pos = p.ops.Len()
	}
	switch {
	case p.is("."):
		p.next()
		if p.isChar(lsquare) {
			return false, p.fatal(CodeGenericError, ErrPredicate, ".")
		}
		p.appendStep(FromSelf, NodeTypeNode)
	case p.is(".."):
		p.next()
		if p.isChar(lsquare) {
			return false, p.fatal(CodeGenericError, ErrPredicate, "..")
		}
		p.appendStep(FromParent, NodeTypeNode)
	case p.isChar(star) || p.isChar(arobase) || isName(p.text()):
		if err := p.compileBasis(); err != nil {
			return false, err
		}
		for p.isChar(lsquare) {
			if err := p.compilePredicate(); err != nil {
				return false, err
			}
		}
		p.ops.Patch(pos)
	default:
		if double {
			return false, p.fatal(CodeGenericError, ErrLocationStep, p.found())
		}
		return false, nil
	}
	return true, nil
}

// appendStep writes a step without name test nor predicate.
func (p *parser) appendStep(axis, test Opcode) {
	pos := p.ops.Append(4, axis)
	p.ops.Set(pos+2, 4)
	p.ops.Set(pos+3, test)
}

func (p *parser) compileBasis() error {
	p.Enter("basis")
	defer p.Leave("basis")

	var (
		pos  = p.ops.Len()
		axis Opcode
	)
	switch {
	case p.lookaheadText("::", 1):
		op, err := p.compileAxis()
		if err != nil {
			return err
		}
		axis = op
	case p.isChar(arobase):
		axis = FromAttributes
		p.ops.Append(2, axis)
		p.next()
	default:
		axis = FromChildren
		p.ops.Append(2, axis)
	}
	p.ops.Reserve(1)
	if err := p.compileNodeTest(axis); err != nil {
		return err
	}
	p.ops.Set(pos+2, int32(p.ops.Len()-pos))
	return nil
}

func (p *parser) compileAxis() (Opcode, error) {
	name := p.text()
	axis, ok := p.keywords.Axis(name)
	if !ok {
		return 0, p.fatal(CodeBadAxis, ErrAxis, name)
	}
	p.ops.Append(2, axis)
	p.next()
	p.next()
	return axis, nil
}

func (p *parser) compileNodeTest(axis Opcode) error {
	p.Enter("node-test")
	defer p.Leave("node-test")

	if p.lookahead(lparen, 1) {
		return p.compileNodeType()
	}
	p.ops.Push(NodeName)
	if p.lookahead(colon, 1) {
		switch {
		case p.isChar(star):
			p.ops.Push(ElemWildcard)
		case isName(p.text()):
			p.ops.Push(int32(p.pos))
		default:
			return p.fatal(CodeGenericError, ErrExpected, "name", p.text())
		}
		p.next()
		if err := p.expect(":"); err != nil {
			return err
		}
	} else {
		p.ops.Push(Empty)
	}
	switch {
	case p.isChar(star):
		p.ops.Push(ElemWildcard)
	case isName(p.text()):
		if axis == FromNamespace {
			p.resolveNamespace()
		}
		p.ops.Push(int32(p.pos))
	default:
		return p.fatal(CodeGenericError, ErrExpected, "name", p.text())
	}
	p.next()
	return nil
}

func (p *parser) compileNodeType() error {
	name := p.text()
	test, ok := p.keywords.NodeType(name)
	if !ok {
		return p.fatal(CodeNodeType, ErrNodeType, name)
	}
	p.next()
	p.ops.Push(test)
	if err := p.expect("("); err != nil {
		return err
	}
	if test == NodeTypePI && !p.isChar(rparen) {
		if err := p.compileLiteral(); err != nil {
			return err
		}
	}
	return p.expect(")")
}

// resolveNamespace replaces the name of a namespace node test by the URI it
// is bound to.
func (p *parser) resolveNamespace() {
	r := p.Resolver()
	if r == nil {
		return
	}
	prefix := p.text()
	uri, err := r.Resolve(prefix)
	if err != nil {
		p.warn(CodeGenericError, ErrNamespace, prefix)
		return
	}
	p.queue.Replace(p.pos, String(uri))
}

func (p *parser) compilePredicate() error {
	p.Enter("predicate")
	defer p.Leave("predicate")

	if !p.isChar(lsquare) {
		return nil
	}
	p.next()
	pos := p.ops.Append(2, OpPredicate)
	if err := p.compileExpr(); err != nil {
		return err
	}
	p.ops.Terminate()
	p.ops.Patch(pos)
	return p.expect("]")
}

func (p *parser) compileQName() error {
	if !isName(p.text()) {
		return p.fatal(CodeGenericError, ErrExpected, "name", p.text())
	}
	if p.lookahead(colon, 1) {
		p.ops.Push(int32(p.pos))
		p.next()
		if err := p.expect(":"); err != nil {
			return err
		}
		if !isName(p.text()) {
			return p.fatal(CodeGenericError, ErrExpected, "name", p.text())
		}
	} else {
		p.ops.Push(Empty)
	}
	p.ops.Push(int32(p.pos))
	p.next()
	return nil
}

func (p *parser) compileLiteral() error {
	str := p.text()
	if n := len(str); n < 2 || !isQuote(str) || str[n-1] != str[0] {
		return p.fatal(CodeGenericError, ErrLiteral, str)
	}
	p.queue.Replace(p.pos, String(str[1:len(str)-1]))
	p.ops.Push(int32(p.pos))
	p.next()
	return nil
}

// compileNumber never fails: a malformed number is recorded as 0 and the
// error is kept in the Errors of the program.
func (p *parser) compileNumber() error {
	var (
		str = p.text()
		num float64
	)
	if isNumber(str) {
		num, _ = strconv.ParseFloat(str, 64)
	} else {
		p.recover(CodeGenericError, ErrNumber, str)
	}
	p.queue.Replace(p.pos, Number(num))
	p.ops.Push(int32(p.pos))
	p.next()
	return nil
}

func (p *parser) extraTokens() error {
	var list []string
	for i := p.pos; i < p.queue.Len(); i++ {
		list = append(list, "'"+p.queue.Text(i)+"'")
	}
	err := p.fatal(CodeGenericError, ErrExtraTokens, strings.Join(list, ", "))
	p.pos = p.queue.Len()
	return err
}

func (p *parser) curr() Token {
	tok, _ := p.queue.At(p.pos)
	return tok
}

func (p *parser) text() string {
	return p.queue.Text(p.pos)
}

func (p *parser) done() bool {
	return p.pos >= p.queue.Len()
}

func (p *parser) next() {
	if !p.done() {
		p.pos++
	}
}

func (p *parser) is(str string) bool {
	return !p.done() && p.text() == str
}

func (p *parser) isChar(c byte) bool {
	tok, ok := p.queue.At(p.pos)
	return ok && tok.Is(c)
}

func (p *parser) lookahead(c byte, n int) bool {
	tok, ok := p.queue.At(p.pos + n)
	return ok && tok.Is(c)
}

func (p *parser) lookaheadText(str string, n int) bool {
	tok, ok := p.queue.At(p.pos + n)
	return ok && tok.Text == str
}

func (p *parser) expect(str string) error {
	if p.is(str) {
		p.next()
		return nil
	}
	return p.fatal(CodeGenericError, ErrExpected, str, p.text())
}

func (p *parser) found() string {
	if p.done() {
		return "end of expression"
	}
	return p.text()
}

func (p *parser) position() Position {
	if tok, ok := p.queue.At(p.pos); ok {
		return tok.Position
	}
	if tok, ok := p.queue.At(p.queue.Len() - 1); ok {
		return tok.Position
	}
	return Position{}
}

func (p *parser) rule() string {
	if n := len(p.rules); n > 0 {
		return p.rules[n-1]
	}
	return ""
}

func (p *parser) newError(code string, err error, args ...string) *SyntaxError {
	e := syntaxError(code, p.expr, err, args...)
	e.Position = p.position()
	return e
}

// fatal reports err to the listener. The returned error aborts the
// compilation.
func (p *parser) fatal(code string, err error, args ...string) error {
	e := p.newError(code, err, args...)
	p.Error(p.rule(), e)
	if p.listener != nil {
		p.listener.Fatal(e)
	}
	return e
}

func (p *parser) recover(code string, err error, args ...string) {
	e := p.newError(code, err, args...)
	p.errors = append(p.errors, e)
	p.Error(p.rule(), e)
	if p.listener != nil {
		p.listener.Error(e)
	}
}

func (p *parser) warn(code string, err error, args ...string) {
	e := p.newError(code, err, args...)
	if p.listener != nil {
		p.listener.Warning(e)
		return
	}
	p.Warn(e.Error(), "rule", p.rule(), "code", e.Code)
}

func isQuote(str string) bool {
	return str != "" && (str[0] == quote || str[0] == apos)
}

func isNumberToken(str string) bool {
	if str == "" {
		return false
	}
	if str[0] == dot {
		return len(str) > 1 && isDigit(rune(str[1]))
	}
	return isDigit(rune(str[0]))
}

func isName(str string) bool {
	c, _ := utf8.DecodeRuneInString(str)
	return c == underscore || unicode.IsLetter(c)
}
