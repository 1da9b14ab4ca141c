package asm

// Expr is the expression-grammar AST: numeric literals, identifiers
// (resolved against the symbol table), and the unary byte-select operators.
type Expr interface {
	isExpr()
}

// NumberLit is a literal value already in its final numeric form; the
// lexer has already normalized hex/binary/decimal into one integer space.
type NumberLit struct {
	Value uint32
	Line  int
	Col   int
}

func (NumberLit) isExpr() {}

// IdentExpr references a symbol (constant or label) by name, resolved
// during symbol resolution.
type IdentExpr struct {
	Name string
	Line int
	Col  int
}

func (IdentExpr) isExpr() {}

// LowByteExpr is `<expr`: the low 8 bits of expr's value.
type LowByteExpr struct {
	Inner Expr
	Line  int
	Col   int
}

func (LowByteExpr) isExpr() {}

// HighByteExpr is `>expr`: the high 8 bits of expr's value.
type HighByteExpr struct {
	Inner Expr
	Line  int
	Col   int
}

func (HighByteExpr) isExpr() {}

// StringLit is a quoted string, valid only as a .byte directive operand.
type StringLit struct {
	Value string
	Line  int
	Col   int
}

func (StringLit) isExpr() {}

// operandSyntaxKind is the surface syntax an instruction's operand was
// written in; it narrows to a concrete AddrMode during symbol resolution,
// once operand values (and therefore zero-page eligibility) are known.
type operandSyntaxKind int

const (
	synNone operandSyntaxKind = iota
	synAccumulator
	synImmediate
	synIndirectX
	synIndirectY
	synIndirect
	synIndexedX
	synIndexedY
	synPlain
)

type operandSyntax struct {
	kind operandSyntaxKind
	expr Expr
}

// Item is one parsed element of the source: a label definition, a constant
// definition, an instruction, or a directive. Items appear in an ordered
// list that mirrors the source's line order; a single line may contribute
// more than one Item (a label followed by an instruction).
type Item interface {
	isItem()
	sourceLine() int
}

// LabelDef is `IDENT:`. Its address is the cursor value at the point it's
// encountered during pass 1.
type LabelDef struct {
	Name   string
	Line   int
	Column int
}

func (LabelDef) isItem()        {}
func (l LabelDef) sourceLine() int { return l.Line }

// ConstantDef is `IDENT = expr`. Unlike labels, its value is evaluated
// immediately (constants may not forward-reference labels defined later in
// the assembler's single left-to-right constant-folding pass).
type ConstantDef struct {
	Name   string
	Expr   Expr
	Line   int
	Column int
}

func (ConstantDef) isItem()        {}
func (c ConstantDef) sourceLine() int { return c.Line }

// Instruction is a mnemonic plus its (possibly absent) operand, in one of
// the addressing-mode syntaxes recognized by the parser.
type Instruction struct {
	Mnemonic string
	Operand  operandSyntax
	Line     int
	Column   int
	Length   int // source span, for the SourceMap

	resolvedMode AddrMode // not set by the encoder: pass 1 records each mode in encoder.resolvedMode
}

func (Instruction) isItem()        {}
func (i Instruction) sourceLine() int { return i.Line }

// DirectiveKind identifies one of the three supported assembler directives.
type DirectiveKind int

const (
	DirectiveOrg DirectiveKind = iota
	DirectiveByte
	DirectiveWord
)

// Directive is `.org expr`, `.byte list`, or `.word list`. Byte lists may
// mix string and numeric operands; word lists accept only numeric operands.
type Directive struct {
	Kind   DirectiveKind
	Args   []Expr
	Line   int
	Column int
}

func (Directive) isItem()        {}
func (d Directive) sourceLine() int { return d.Line }
