package xpath

// Patterns are compiled in reverse orientation: every step records how the
// node matched by the step before it relates to the node it matches.

func (p *parser) compilePattern() error {
	p.Enter("pattern")
	defer p.Leave("pattern")

	for {
		if err := p.compileLocationPathPattern(); err != nil {
			return err
		}
		if !p.isChar(pipe) {
			break
		}
		p.next()
	}
	return nil
}

func (p *parser) compileLocationPathPattern() error {
	p.Enter("location-path-pattern")
	defer p.Leave("location-path-pattern")

	var (
		pos      = p.ops.Append(2, OpLocationPathPattern)
		required bool
	)
	switch {
	case p.lookahead(lparen, 1) && (p.is(kwID) || p.is(kwKey)):
		if err := p.compileIdKeyPattern(); err != nil {
			return err
		}
		if p.isChar(slash) && p.lookahead(slash, 1) {
			p.appendStep(MatchAnyAncestor, NodeTypeFuncTest)
			p.next()
			p.next()
			required = true
		} else if p.isChar(slash) {
			p.next()
			required = true
		}
	case p.isChar(slash):
		if p.lookahead(slash, 1) {
			p.appendStep(MatchAnyAncestor, NodeTypeRoot)
		} else {
			p.appendStep(FromRoot, NodeTypeRoot)
		}
		p.next()
	case p.done() || p.isChar(pipe):
		return p.fatal(CodeGenericError, ErrLocationPath, p.found())
	}
	if !p.isChar(pipe) && !p.done() {
		if err := p.compileRelativePathPattern(); err != nil {
			return err
		}
	} else if required {
		return p.fatal(CodeGenericError, ErrLocationStep, p.found())
	}
	p.ops.Terminate()
	p.ops.Patch(pos)
	return nil
}

func (p *parser) compileIdKeyPattern() error {
	p.Enter("id-key-pattern")
	defer p.Leave("id-key-pattern")

	return p.compileFunctionCall()
}

func (p *parser) compileRelativePathPattern() error {
	p.Enter("relative-path-pattern")
	defer p.Leave("relative-path-pattern")

	if err := p.compileStepPattern(); err != nil {
		return err
	}
	for p.isChar(slash) {
		p.next()
		if err := p.compileStepPattern(); err != nil {
			return err
		}
	}
	return nil
}

// compileStepPattern records a bare step as matching an immediate ancestor.
// The step is changed to match any ancestor when it is followed by "//".
func (p *parser) compileStepPattern() error {
	p.Enter("step-pattern")
	defer p.Leave("step-pattern")

	var (
		pos   = p.ops.Len()
		match = -1
		axis  Opcode
	)
	switch {
	case p.isChar(arobase):
		axis = MatchAttribute
		p.ops.Append(2, axis)
		p.next()
	case p.lookaheadText("::", 1):
		switch p.text() {
		case kwAttr:
			axis = MatchAttribute
		case kwChild:
			axis = MatchImmediateAncestor
		default:
			return p.fatal(CodeBadAxis, ErrAxisNotAllowed, p.text())
		}
		p.ops.Append(2, axis)
		p.next()
		p.next()
	case p.isChar(slash):
		axis = MatchAnyAncestor
		p.ops.Append(2, axis)
		p.next()
	default:
		match = pos
		axis = MatchImmediateAncestor
		p.ops.Append(2, axis)
	}
	p.ops.Reserve(1)
	if p.done() {
		return p.fatal(CodeGenericError, ErrLocationStep, p.found())
	}
	if err := p.compileNodeTest(axis); err != nil {
		return err
	}
	p.ops.Set(pos+2, int32(p.ops.Len()-pos))

	for p.isChar(lsquare) {
		if err := p.compilePredicate(); err != nil {
			return err
		}
	}
	if match >= 0 && p.isChar(slash) && p.lookahead(slash, 1) {
		p.ops.Set(match, MatchAnyAncestor)
		p.next()
	}
	p.ops.Patch(pos)
	return nil
}
