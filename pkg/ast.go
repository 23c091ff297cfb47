package dhall

// Expr is a node of a parsed Dhall expression. Nodes are immutable once the
// parser has returned them.
type Expr interface {
	GetLocation() *Location
}

type BadExpr struct {
	Location *Location
	Err      *Error
}

type BoolLiteral struct {
	Location *Location
	Value    bool
}

type NaturalLiteral struct {
	Location *Location
	Value    int64
}

type IntegerLiteral struct {
	Location *Location
	Value    int64
}

type DoubleLiteral struct {
	Location *Location
	Value    float64
}

type TextLiteral struct {
	Location *Location
	Value    string
}

// ListLiteral is `[a, b]` or `[] : List T`. Annotation is nil when the
// list carries no type annotation.
type ListLiteral struct {
	Location   *Location
	Elems      []Expr
	Annotation TypeExpr
}

type RecordField struct {
	Location *Location
	Name     string
	Value    Expr
}

type RecordLiteral struct {
	Location *Location
	Fields   []*RecordField
}

type NoneExpr struct {
	Location   *Location
	Annotation TypeExpr
}

type SomeExpr struct {
	Location *Location
	Value    Expr
}

// AnnotatedExpr is `expr : T` on anything other than a list literal.
type AnnotatedExpr struct {
	Location   *Location
	Expr       Expr
	Annotation TypeExpr
}

type UnaryOp string

const (
	UnaryNegative UnaryOp = "-"
)

type UnaryExpr struct {
	Location  *Location
	Operation UnaryOp
	Operand   Expr
}

// Identifier is a variable reference. It parses so that the reducer can
// report it as unsupported.
type Identifier struct {
	Location *Location
	Name     string
}

// TypeExpr is the syntax of a type annotation.
type TypeExpr interface {
	Expr
	typeExpr()
}

type BasicTypeExpr struct {
	Location *Location
	Name     string
}

type ListTypeExpr struct {
	Location *Location
	Elem     TypeExpr
}

type OptionalTypeExpr struct {
	Location *Location
	Elem     TypeExpr
}

type RecordTypeField struct {
	Name string
	Type TypeExpr
}

type RecordTypeExpr struct {
	Location *Location
	Fields   []*RecordTypeField
}

func (e *BadExpr) GetLocation() *Location          { return e.Location }
func (e *BoolLiteral) GetLocation() *Location      { return e.Location }
func (e *NaturalLiteral) GetLocation() *Location   { return e.Location }
func (e *IntegerLiteral) GetLocation() *Location   { return e.Location }
func (e *DoubleLiteral) GetLocation() *Location    { return e.Location }
func (e *TextLiteral) GetLocation() *Location      { return e.Location }
func (e *ListLiteral) GetLocation() *Location      { return e.Location }
func (e *RecordLiteral) GetLocation() *Location    { return e.Location }
func (e *NoneExpr) GetLocation() *Location         { return e.Location }
func (e *SomeExpr) GetLocation() *Location         { return e.Location }
func (e *AnnotatedExpr) GetLocation() *Location    { return e.Location }
func (e *UnaryExpr) GetLocation() *Location        { return e.Location }
func (e *Identifier) GetLocation() *Location       { return e.Location }
func (e *BasicTypeExpr) GetLocation() *Location    { return e.Location }
func (e *ListTypeExpr) GetLocation() *Location     { return e.Location }
func (e *OptionalTypeExpr) GetLocation() *Location { return e.Location }
func (e *RecordTypeExpr) GetLocation() *Location   { return e.Location }

func (*BadExpr) typeExpr()          {}
func (*BasicTypeExpr) typeExpr()    {}
func (*ListTypeExpr) typeExpr()     {}
func (*OptionalTypeExpr) typeExpr() {}
func (*RecordTypeExpr) typeExpr()   {}
