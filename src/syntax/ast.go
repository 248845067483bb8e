package syntax

type (
	// NodeKind is the closed discriminant of every syntax node the parser
	// produces. Consumers dispatch on it instead of type switching so that an
	// unhandled kind is an explicit default case rather than a silent fallthrough.
	NodeKind uint8
	// UnaryOp is the operator of a UnaryExpr.
	UnaryOp uint8
	// BinaryOp is the operator of a BinaryExpr.
	BinaryOp uint8
	// DeclKeyword is the declaring keyword of a VarDecl.
	DeclKeyword uint8

	// Node is implemented by every piece of syntax.
	Node interface {
		Pos() LineInfo
		Kind() NodeKind
	}
	// Expr nodes produce values and receive types during checking.
	Expr interface {
		Node
		exprNode()
	}
	// Stmt nodes are the statement level of a file.
	Stmt interface {
		Node
		stmtNode()
	}
	// TypeNode nodes are type annotations.
	TypeNode interface {
		Node
		typeNode()
	}

	// File is one parsed source file.
	File struct {
		Filename string
		Stmts    []Stmt
	}
)

const (
	// KindIdent is an identifier reference.
	KindIdent NodeKind = iota
	// KindStringLit is a string literal.
	KindStringLit
	// KindNumberLit is a number literal.
	KindNumberLit
	// KindBoolLit is a true or false literal.
	KindBoolLit
	// KindNullLit is the null literal.
	KindNullLit
	// KindUndefinedLit is the undefined literal.
	KindUndefinedLit
	// KindTemplateLit is a template literal.
	KindTemplateLit
	// KindParenExpr is a parenthesized expression.
	KindParenExpr
	// KindUnaryExpr is a prefix operator expression.
	KindUnaryExpr
	// KindBinaryExpr is an infix operator expression.
	KindBinaryExpr
	// KindCondExpr is a conditional expression.
	KindCondExpr
	// KindObjectLit is an object literal.
	KindObjectLit
	// KindArrayLit is an array literal.
	KindArrayLit
	// KindPropAccess is a property access.
	KindPropAccess
	// KindElemAccess is a bracketed element access.
	KindElemAccess
	// KindCallExpr is a call.
	KindCallExpr
	// KindVarDecl is a single variable declarator.
	KindVarDecl
	// KindTypeAliasDecl is a type alias declaration.
	KindTypeAliasDecl
	// KindFuncDecl is a function declaration.
	KindFuncDecl
	// KindInterfaceDecl is an interface declaration.
	KindInterfaceDecl
	// KindExprStmt is an expression statement.
	KindExprStmt
	// KindBlockStmt is a braced statement list.
	KindBlockStmt
	// KindIfStmt is a conditional statement.
	KindIfStmt
	// KindReturnStmt is a return statement.
	KindReturnStmt
	// KindEmptyStmt is a lone semicolon.
	KindEmptyStmt
	// KindKeywordType is an intrinsic keyword annotation.
	KindKeywordType
	// KindLiteralType is a literal type annotation.
	KindLiteralType
	// KindUnionType is a union annotation.
	KindUnionType
	// KindIntersectionType is an intersection annotation.
	KindIntersectionType
	// KindParenType is a parenthesized annotation.
	KindParenType
	// KindTypeRef is a reference to a named type.
	KindTypeRef
	// KindTypeLit is an inline object type annotation.
	KindTypeLit
	// KindArrayType is an array annotation.
	KindArrayType
	// KindTupleType is a tuple annotation.
	KindTupleType
	// KindFuncType is a function annotation.
	KindFuncType
	// KindKeyofType is a keyof annotation.
	KindKeyofType
	// KindTypeofType is a typeof annotation.
	KindTypeofType
	// KindIndexedAccessType is an indexed access annotation.
	KindIndexedAccessType
	// KindMappedType is a mapped type annotation.
	KindMappedType
)

const (
	// OpNeg is unary minus.
	OpNeg UnaryOp = iota
	// OpPlus is unary plus.
	OpPlus
	// OpNot is logical not.
	OpNot
	// OpBitNot is bitwise not.
	OpBitNot
	// OpTypeof is the typeof operator.
	OpTypeof
	// OpVoid is the void operator.
	OpVoid
)

const (
	// OpAdd is addition and string concatenation.
	OpAdd BinaryOp = iota
	// OpSub is subtraction.
	OpSub
	// OpMul is multiplication.
	OpMul
	// OpDiv is division.
	OpDiv
	// OpMod is remainder.
	OpMod
	// OpPow is exponentiation.
	OpPow
	// OpLt is less than.
	OpLt
	// OpGt is greater than.
	OpGt
	// OpLe is less or equal.
	OpLe
	// OpGe is greater or equal.
	OpGe
	// OpEq is loose equality.
	OpEq
	// OpNe is loose inequality.
	OpNe
	// OpStrictEq is strict equality.
	OpStrictEq
	// OpStrictNe is strict inequality.
	OpStrictNe
	// OpAnd is logical and.
	OpAnd
	// OpOr is logical or.
	OpOr
	// OpNullish is nullish coalescing.
	OpNullish
)

const (
	// DeclLet is a let declaration.
	DeclLet DeclKeyword = iota
	// DeclConst is a const declaration.
	DeclConst
	// DeclVar is a var declaration.
	DeclVar
)

type (
	// Ident is a name reference.
	Ident struct {
		LineInfo
		Name string
	}
	// StringLit is a single or double quoted string literal.
	StringLit struct {
		LineInfo
		Value string
	}
	// NumberLit is a numeric literal.
	NumberLit struct {
		LineInfo
		Value float64
	}
	// BoolLit is true or false.
	BoolLit struct {
		LineInfo
		Value bool
	}
	// NullLit is the null literal.
	NullLit struct {
		LineInfo
	}
	// UndefinedLit is the undefined literal.
	UndefinedLit struct {
		LineInfo
	}
	// TemplateLit is a backtick string. Text holds the cooked literal chunks
	// and Subst reports whether the template had substitution spans.
	TemplateLit struct {
		LineInfo
		Text  string
		Subst bool
	}
	// ParenExpr is a parenthesized expression.
	ParenExpr struct {
		LineInfo
		Inner Expr
	}
	// UnaryExpr is a prefix operator applied to an operand.
	UnaryExpr struct {
		LineInfo
		Op      UnaryOp
		Operand Expr
	}
	// BinaryExpr is an infix operator applied to two operands.
	BinaryExpr struct {
		LineInfo
		Op          BinaryOp
		Left, Right Expr
	}
	// CondExpr is cond ? then : else.
	CondExpr struct {
		LineInfo
		Cond, Then, Else Expr
	}
	// ObjectProp is one property of an object literal.
	ObjectProp struct {
		LineInfo
		Key   string
		Value Expr
	}
	// ObjectLit is an object literal expression.
	ObjectLit struct {
		LineInfo
		Props []ObjectProp
	}
	// ArrayLit is an array literal expression.
	ArrayLit struct {
		LineInfo
		Items []Expr
	}
	// PropAccess is object.name.
	PropAccess struct {
		LineInfo
		Object Expr
		Name   string
	}
	// ElemAccess is object[index].
	ElemAccess struct {
		LineInfo
		Object Expr
		Index  Expr
	}
	// CallExpr is callee(args).
	CallExpr struct {
		LineInfo
		Callee Expr
		Args   []Expr
	}

	// VarDecl is one declarator of a let, const, or var statement. A statement
	// with several declarators parses into several VarDecl nodes.
	VarDecl struct {
		LineInfo
		Keyword    DeclKeyword
		Name       string
		Annotation TypeNode
		Init       Expr
	}
	// TypeAliasDecl is a type alias declaration.
	TypeAliasDecl struct {
		LineInfo
		Name string
		Type TypeNode
	}
	// Param is one parameter of a function declaration or function type.
	Param struct {
		LineInfo
		Name       string
		Annotation TypeNode
	}
	// FuncDecl is a function declaration.
	FuncDecl struct {
		LineInfo
		Name   string
		Params []Param
		Return TypeNode
		Body   *BlockStmt
	}
	// InterfaceDecl is an interface declaration.
	InterfaceDecl struct {
		LineInfo
		Name    string
		Members []TypeMember
	}
	// ExprStmt is an expression in statement position.
	ExprStmt struct {
		LineInfo
		X Expr
	}
	// BlockStmt is a braced statement list.
	BlockStmt struct {
		LineInfo
		Stmts []Stmt
	}
	// IfStmt is if (cond) then else.
	IfStmt struct {
		LineInfo
		Cond Expr
		Then Stmt
		Else Stmt
	}
	// ReturnStmt is a return with an optional value.
	ReturnStmt struct {
		LineInfo
		X Expr
	}
	// EmptyStmt is a lone semicolon.
	EmptyStmt struct {
		LineInfo
	}

	// KeywordType is an intrinsic keyword in type position.
	KeywordType struct {
		LineInfo
		Name string
	}
	// LiteralType wraps a literal expression used as a type.
	LiteralType struct {
		LineInfo
		Lit Expr
	}
	// UnionType is members joined by pipes.
	UnionType struct {
		LineInfo
		Members []TypeNode
	}
	// IntersectionType is members joined by ampersands.
	IntersectionType struct {
		LineInfo
		Members []TypeNode
	}
	// ParenType is a parenthesized annotation.
	ParenType struct {
		LineInfo
		Inner TypeNode
	}
	// TypeRef is a reference to a named type, possibly with type arguments.
	TypeRef struct {
		LineInfo
		Name string
		Args []TypeNode
	}
	// TypeMember is one member of a type literal or interface body.
	TypeMember struct {
		LineInfo
		Name     string
		Optional bool
		Type     TypeNode
	}
	// TypeLit is an inline object type annotation. IndexSig reports that the
	// body carried an index signature.
	TypeLit struct {
		LineInfo
		Members  []TypeMember
		IndexSig bool
	}
	// ArrayType is elem[].
	ArrayType struct {
		LineInfo
		Elem TypeNode
	}
	// TupleType is [a, b, c].
	TupleType struct {
		LineInfo
		Elems []TypeNode
	}
	// FuncType is (params) => ret in type position.
	FuncType struct {
		LineInfo
		Params []Param
		Return TypeNode
	}
	// KeyofType is keyof operand.
	KeyofType struct {
		LineInfo
		Operand TypeNode
	}
	// TypeofType is typeof expr in type position.
	TypeofType struct {
		LineInfo
		X Expr
	}
	// IndexedAccessType is object[index] in type position.
	IndexedAccessType struct {
		LineInfo
		Object TypeNode
		Index  TypeNode
	}
	// MappedType is { [name in constraint]: value }.
	MappedType struct {
		LineInfo
		Name       string
		Constraint TypeNode
		Value      TypeNode
	}
)

var unaryOpText = map[UnaryOp]string{
	OpNeg:    "-",
	OpPlus:   "+",
	OpNot:    "!",
	OpBitNot: "~",
	OpTypeof: "typeof",
	OpVoid:   "void",
}

var binaryOpText = map[BinaryOp]string{
	OpAdd:      "+",
	OpSub:      "-",
	OpMul:      "*",
	OpDiv:      "/",
	OpMod:      "%",
	OpPow:      "**",
	OpLt:       "<",
	OpGt:       ">",
	OpLe:       "<=",
	OpGe:       ">=",
	OpEq:       "==",
	OpNe:       "!=",
	OpStrictEq: "===",
	OpStrictNe: "!==",
	OpAnd:      "&&",
	OpOr:       "||",
	OpNullish:  "??",
}

func (op UnaryOp) String() string  { return unaryOpText[op] }
func (op BinaryOp) String() string { return binaryOpText[op] }

// Kind implementations for every node, grouped by family.
func (*Ident) Kind() NodeKind             { return KindIdent }
func (*StringLit) Kind() NodeKind         { return KindStringLit }
func (*NumberLit) Kind() NodeKind         { return KindNumberLit }
func (*BoolLit) Kind() NodeKind           { return KindBoolLit }
func (*NullLit) Kind() NodeKind           { return KindNullLit }
func (*UndefinedLit) Kind() NodeKind      { return KindUndefinedLit }
func (*TemplateLit) Kind() NodeKind       { return KindTemplateLit }
func (*ParenExpr) Kind() NodeKind         { return KindParenExpr }
func (*UnaryExpr) Kind() NodeKind         { return KindUnaryExpr }
func (*BinaryExpr) Kind() NodeKind        { return KindBinaryExpr }
func (*CondExpr) Kind() NodeKind          { return KindCondExpr }
func (*ObjectLit) Kind() NodeKind         { return KindObjectLit }
func (*ArrayLit) Kind() NodeKind          { return KindArrayLit }
func (*PropAccess) Kind() NodeKind        { return KindPropAccess }
func (*ElemAccess) Kind() NodeKind        { return KindElemAccess }
func (*CallExpr) Kind() NodeKind          { return KindCallExpr }
func (*VarDecl) Kind() NodeKind           { return KindVarDecl }
func (*TypeAliasDecl) Kind() NodeKind     { return KindTypeAliasDecl }
func (*FuncDecl) Kind() NodeKind          { return KindFuncDecl }
func (*InterfaceDecl) Kind() NodeKind     { return KindInterfaceDecl }
func (*ExprStmt) Kind() NodeKind          { return KindExprStmt }
func (*BlockStmt) Kind() NodeKind         { return KindBlockStmt }
func (*IfStmt) Kind() NodeKind            { return KindIfStmt }
func (*ReturnStmt) Kind() NodeKind        { return KindReturnStmt }
func (*EmptyStmt) Kind() NodeKind         { return KindEmptyStmt }
func (*KeywordType) Kind() NodeKind       { return KindKeywordType }
func (*LiteralType) Kind() NodeKind       { return KindLiteralType }
func (*UnionType) Kind() NodeKind         { return KindUnionType }
func (*IntersectionType) Kind() NodeKind  { return KindIntersectionType }
func (*ParenType) Kind() NodeKind         { return KindParenType }
func (*TypeRef) Kind() NodeKind           { return KindTypeRef }
func (*TypeLit) Kind() NodeKind           { return KindTypeLit }
func (*ArrayType) Kind() NodeKind         { return KindArrayType }
func (*TupleType) Kind() NodeKind         { return KindTupleType }
func (*FuncType) Kind() NodeKind          { return KindFuncType }
func (*KeyofType) Kind() NodeKind         { return KindKeyofType }
func (*TypeofType) Kind() NodeKind        { return KindTypeofType }
func (*IndexedAccessType) Kind() NodeKind { return KindIndexedAccessType }
func (*MappedType) Kind() NodeKind        { return KindMappedType }

func (*Ident) exprNode()        {}
func (*StringLit) exprNode()    {}
func (*NumberLit) exprNode()    {}
func (*BoolLit) exprNode()      {}
func (*NullLit) exprNode()      {}
func (*UndefinedLit) exprNode() {}
func (*TemplateLit) exprNode()  {}
func (*ParenExpr) exprNode()    {}
func (*UnaryExpr) exprNode()    {}
func (*BinaryExpr) exprNode()   {}
func (*CondExpr) exprNode()     {}
func (*ObjectLit) exprNode()    {}
func (*ArrayLit) exprNode()     {}
func (*PropAccess) exprNode()   {}
func (*ElemAccess) exprNode()   {}
func (*CallExpr) exprNode()     {}

func (*VarDecl) stmtNode()       {}
func (*TypeAliasDecl) stmtNode() {}
func (*FuncDecl) stmtNode()      {}
func (*InterfaceDecl) stmtNode() {}
func (*ExprStmt) stmtNode()      {}
func (*BlockStmt) stmtNode()     {}
func (*IfStmt) stmtNode()        {}
func (*ReturnStmt) stmtNode()    {}
func (*EmptyStmt) stmtNode()     {}

func (*KeywordType) typeNode()       {}
func (*LiteralType) typeNode()       {}
func (*UnionType) typeNode()         {}
func (*IntersectionType) typeNode()  {}
func (*ParenType) typeNode()         {}
func (*TypeRef) typeNode()           {}
func (*TypeLit) typeNode()           {}
func (*ArrayType) typeNode()         {}
func (*TupleType) typeNode()         {}
func (*FuncType) typeNode()          {}
func (*KeyofType) typeNode()         {}
func (*TypeofType) typeNode()        {}
func (*IndexedAccessType) typeNode() {}
func (*MappedType) typeNode()        {}
