package asm

// Parse consumes a token stream (as produced by Tokenize) into an ordered
// list of Items. Whitespace and Comment tokens are dropped here; they exist
// in the token stream for external tooling, not for the parser itself.
// Parse error-recovers to the next line on a malformed line, so one pass
// surfaces every line's errors rather than stopping at the first.
func Parse(tokens []Token) ([]Item, []AssemblyError) {
	lines := splitLines(tokens)
	var items []Item
	var errs []AssemblyError

	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		lineItems, lineErrs := parseLine(line)
		items = append(items, lineItems...)
		errs = append(errs, lineErrs...)
	}
	return items, errs
}

// splitLines groups tokens into per-source-line slices, dropping
// Whitespace, Comment and the Newline/Eof delimiters themselves.
func splitLines(tokens []Token) [][]Token {
	var lines [][]Token
	var current []Token
	for _, t := range tokens {
		switch t.Type {
		case TokenWhitespace, TokenComment:
			continue
		case TokenNewline:
			lines = append(lines, current)
			current = nil
		case TokenEof:
			lines = append(lines, current)
		default:
			current = append(current, t)
		}
	}
	return lines
}

type lineParser struct {
	toks []Token
	pos  int
}

func (p *lineParser) peek() (Token, bool) {
	if p.pos >= len(p.toks) {
		return Token{}, false
	}
	return p.toks[p.pos], true
}

func (p *lineParser) advance() Token {
	t := p.toks[p.pos]
	p.pos++
	return t
}

func (p *lineParser) atEnd() bool { return p.pos >= len(p.toks) }

func parseLine(toks []Token) ([]Item, []AssemblyError) {
	p := &lineParser{toks: toks}
	var items []Item
	var errs []AssemblyError

	// Label definition: IDENT ':' optionally followed by more items.
	if t, ok := p.peek(); ok && t.Type == TokenIdentifier {
		if next, ok := p.peekAt(1); ok && next.Type == TokenColon {
			items = append(items, LabelDef{Name: t.Text, Line: t.Line, Column: t.Column})
			p.advance()
			p.advance()
		}
	}

	if p.atEnd() {
		return items, errs
	}

	t, _ := p.peek()
	switch t.Type {
	case TokenIdentifier:
		// Either "IDENT = expr" (constant) or a mnemonic + operand.
		if next, ok := p.peekAt(1); ok && next.Type == TokenEqual {
			name := p.advance().Text
			p.advance() // '='
			expr, err := p.parseExpr()
			if err != nil {
				errs = append(errs, *err)
				break
			}
			items = append(items, ConstantDef{Name: name, Expr: expr, Line: t.Line, Column: t.Column})
			break
		}
		inst, err := p.parseInstruction()
		if err != nil {
			errs = append(errs, *err)
			break
		}
		items = append(items, inst)

	case TokenDot:
		dir, err := p.parseDirective()
		if err != nil {
			errs = append(errs, *err)
			break
		}
		items = append(items, dir)

	default:
		errs = append(errs, AssemblyError{
			Line: t.Line, Column: t.Column, Kind: KindParseError,
			Message: "expected label, constant, instruction, or directive",
		})
	}

	return items, errs
}

func (p *lineParser) peekAt(offset int) (Token, bool) {
	idx := p.pos + offset
	if idx >= len(p.toks) {
		return Token{}, false
	}
	return p.toks[idx], true
}

func (p *lineParser) parseInstruction() (Instruction, *AssemblyError) {
	startCol := p.toks[p.pos].Column
	inst, err := p.parseInstructionBody()
	if p.pos > 0 {
		last := p.toks[p.pos-1]
		inst.Length = last.Column + last.Length - startCol
	}
	return inst, err
}

func (p *lineParser) parseInstructionBody() (Instruction, *AssemblyError) {
	mnemonicTok := p.advance()
	inst := Instruction{Mnemonic: mnemonicTok.Text, Line: mnemonicTok.Line, Column: mnemonicTok.Column}

	if p.atEnd() {
		inst.Operand = operandSyntax{kind: synNone}
		return inst, nil
	}

	t, _ := p.peek()

	switch t.Type {
	case TokenHash: // Immediate
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return inst, err
		}
		inst.Operand = operandSyntax{kind: synImmediate, expr: expr}
		return inst, nil

	case TokenLParen: // Indirect / IndirectX / IndirectY
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return inst, err
		}
		if tok, ok := p.peek(); ok && tok.Type == TokenComma {
			p.advance()
			if xTok, ok := p.peek(); !ok || xTok.Type != TokenIdentifier || xTok.Text != "X" {
				return inst, &AssemblyError{Line: t.Line, Column: t.Column, Kind: KindParseError, Message: "expected X after ',' in indexed-indirect operand"}
			}
			p.advance()
			if rp, ok := p.peek(); !ok || rp.Type != TokenRParen {
				return inst, &AssemblyError{Line: t.Line, Column: t.Column, Kind: KindParseError, Message: "expected ')' closing indexed-indirect operand"}
			}
			p.advance()
			inst.Operand = operandSyntax{kind: synIndirectX, expr: expr}
			return inst, nil
		}
		if rp, ok := p.peek(); !ok || rp.Type != TokenRParen {
			return inst, &AssemblyError{Line: t.Line, Column: t.Column, Kind: KindParseError, Message: "expected ')' closing indirect operand"}
		}
		p.advance()
		if ct, ok := p.peek(); ok && ct.Type == TokenComma {
			p.advance()
			if yTok, ok := p.peek(); !ok || yTok.Type != TokenIdentifier || yTok.Text != "Y" {
				return inst, &AssemblyError{Line: t.Line, Column: t.Column, Kind: KindParseError, Message: "expected Y after ')' in indirect-indexed operand"}
			}
			p.advance()
			inst.Operand = operandSyntax{kind: synIndirectY, expr: expr}
			return inst, nil
		}
		inst.Operand = operandSyntax{kind: synIndirect, expr: expr}
		return inst, nil

	case TokenIdentifier:
		if t.Text == "A" {
			if _, more := p.peekAt(1); !more {
				p.advance()
				inst.Operand = operandSyntax{kind: synAccumulator}
				return inst, nil
			}
		}
		expr, err := p.parseExpr()
		if err != nil {
			return inst, err
		}
		return p.finishIndexedOrPlain(inst, expr, t)

	default:
		expr, err := p.parseExpr()
		if err != nil {
			return inst, err
		}
		return p.finishIndexedOrPlain(inst, expr, t)
	}
}

func (p *lineParser) finishIndexedOrPlain(inst Instruction, expr Expr, start Token) (Instruction, *AssemblyError) {
	if ct, ok := p.peek(); ok && ct.Type == TokenComma {
		p.advance()
		regTok, ok := p.peek()
		if !ok || regTok.Type != TokenIdentifier || (regTok.Text != "X" && regTok.Text != "Y") {
			return inst, &AssemblyError{Line: start.Line, Column: start.Column, Kind: KindParseError, Message: "expected X or Y after ',' in indexed operand"}
		}
		p.advance()
		if regTok.Text == "X" {
			inst.Operand = operandSyntax{kind: synIndexedX, expr: expr}
		} else {
			inst.Operand = operandSyntax{kind: synIndexedY, expr: expr}
		}
		return inst, nil
	}
	inst.Operand = operandSyntax{kind: synPlain, expr: expr}
	return inst, nil
}

func (p *lineParser) parseDirective() (Directive, *AssemblyError) {
	dotTok := p.advance() // '.'
	nameTok, ok := p.peek()
	if !ok || nameTok.Type != TokenIdentifier {
		return Directive{}, &AssemblyError{Line: dotTok.Line, Column: dotTok.Column, Kind: KindParseError, Message: "expected directive name after '.'"}
	}
	p.advance()

	var kind DirectiveKind
	switch nameTok.Text {
	case "ORG":
		kind = DirectiveOrg
	case "BYTE":
		kind = DirectiveByte
	case "WORD":
		kind = DirectiveWord
	default:
		return Directive{}, &AssemblyError{Line: nameTok.Line, Column: nameTok.Column, Kind: KindParseError, Message: "unknown directive ." + nameTok.Text}
	}

	dir := Directive{Kind: kind, Line: dotTok.Line, Column: dotTok.Column}

	if kind == DirectiveOrg {
		expr, err := p.parseExpr()
		if err != nil {
			return dir, err
		}
		dir.Args = []Expr{expr}
		return dir, nil
	}

	for {
		if t, ok := p.peek(); ok && t.Type == TokenString {
			p.advance()
			dir.Args = append(dir.Args, StringLit{Value: t.Text, Line: t.Line, Col: t.Column})
		} else {
			expr, err := p.parseExpr()
			if err != nil {
				return dir, err
			}
			dir.Args = append(dir.Args, expr)
		}
		if t, ok := p.peek(); ok && t.Type == TokenComma {
			p.advance()
			continue
		}
		break
	}
	return dir, nil
}

// parseExpr parses a primary expression: a number, identifier, or a
// byte-select operator applied to either. The grammar has no binary
// operators; `<`/`>` are the only prefix forms and bind to one following
// primary.
func (p *lineParser) parseExpr() (Expr, *AssemblyError) {
	t, ok := p.peek()
	if !ok {
		return nil, &AssemblyError{Kind: KindParseError, Message: "expected expression, found end of line"}
	}

	switch t.Type {
	case TokenLess:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return LowByteExpr{Inner: inner, Line: t.Line, Col: t.Column}, nil

	case TokenGreater:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return HighByteExpr{Inner: inner, Line: t.Line, Col: t.Column}, nil

	case TokenHexNumber, TokenBinaryNumber, TokenDecimalNumber:
		p.advance()
		return NumberLit{Value: t.Value, Line: t.Line, Col: t.Column}, nil

	case TokenIdentifier:
		p.advance()
		return IdentExpr{Name: t.Text, Line: t.Line, Col: t.Column}, nil

	default:
		return nil, &AssemblyError{Line: t.Line, Column: t.Column, Kind: KindParseError, Message: "expected expression"}
	}
}
