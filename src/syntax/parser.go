package syntax

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aodai/taipu/src/conf"
	"github.com/aodai/taipu/src/diag"
)

type (
	// Parser turns one source file at a time into a syntax tree.
	Parser struct {
		lex           *lexer
		filename      string
		lastTokenInfo LineInfo
		depth         int
	}
)

var unaryOps = map[tokenType]UnaryOp{
	tokenMinus:  OpNeg,
	tokenAdd:    OpPlus,
	tokenNot:    OpNot,
	tokenTilde:  OpBitNot,
	tokenTypeof: OpTypeof,
	tokenVoid:   OpVoid,
}

var binaryOps = map[tokenType]BinaryOp{
	tokenAdd:        OpAdd,
	tokenMinus:      OpSub,
	tokenMultiply:   OpMul,
	tokenDivide:     OpDiv,
	tokenModulo:     OpMod,
	tokenExponent:   OpPow,
	tokenLt:         OpLt,
	tokenGt:         OpGt,
	tokenLe:         OpLe,
	tokenGe:         OpGe,
	tokenEq:         OpEq,
	tokenNe:         OpNe,
	tokenStrictEq:   OpStrictEq,
	tokenStrictNe:   OpStrictNe,
	tokenLogicalAnd: OpAnd,
	tokenLogicalOr:  OpOr,
	tokenNullish:    OpNullish,
}

var declKeywords = map[tokenType]DeclKeyword{
	tokenLet:   DeclLet,
	tokenConst: DeclConst,
	tokenVar:   DeclVar,
}

// keywordTypeNames are the intrinsic names that are ordinary identifiers to the
// lexer but keywords in type position. undefined and void carry their own
// tokens and are handled separately.
var keywordTypeNames = map[string]bool{
	"any":     true,
	"unknown": true,
	"string":  true,
	"number":  true,
	"boolean": true,
	"bigint":  true,
	"symbol":  true,
	"object":  true,
	"never":   true,
}

// New creates a new parser that can parse one file at a time.
func New() *Parser {
	return &Parser{}
}

// ParseFile is a helper function around Parse to open and close a file
// automatically.
func ParseFile(path string) (*File, error) {
	src, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = src.Close() }()
	return Parse(path, src)
}

// Parse parses a full source file into a File tree.
func Parse(filename string, src io.Reader) (*File, error) {
	return New().Parse(filename, src)
}

// TryStat allows for trying a single statement. This is primarily for repl. A
// declaration statement with several declarators yields several statements.
func TryStat(src string) ([]Stmt, error) {
	filename := "<source>"
	p := New()
	p.filename = filename
	p.lex = newLexer(filename, strings.NewReader(src))
	stmts := []Stmt{}
	if err := p.stat(&stmts); err != nil {
		return nil, err
	}
	return stmts, nil
}

// Parse will reset the parser but parse the source within the context of this
// parser's configuration.
func (p *Parser) Parse(filename string, src io.Reader) (*File, error) {
	p.filename = filename
	p.lex = newLexer(filename, src)
	file := &File{Filename: filename}
	stmts, err := p.statList()
	if err != nil && !errors.Is(err, io.EOF) {
		return file, err
	}
	file.Stmts = stmts
	if ptk, err := p.peek(); err != nil {
		return file, err
	} else if ptk.Kind != tokenEOS {
		return file, p.parseErr(ptk, fmt.Errorf("unexpected %q after last statement", ptk.Kind))
	}
	return file, nil
}

func (p *Parser) parseErr(tk *token, err error) error {
	if err == nil {
		return nil
	}
	var tErr *diag.Error
	if errors.As(err, &tErr) {
		return err
	} else if errors.Is(err, io.EOF) {
		return err
	}
	newErr := &diag.Error{
		Kind:     diag.ParserErr,
		Filename: p.filename,
		Err:      err,
	}
	if tk != nil {
		newErr.Line = tk.Line
		newErr.Column = tk.Column
	}
	return newErr
}

func (p *Parser) peek() (*token, error) {
	for {
		tk, err := p.lex.Peek()
		if err != nil || tk.Kind != tokenComment {
			return tk, err
		}
		if _, err := p.lex.Next(); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	}
}

func (p *Parser) consumeToken(tt tokenType) (*token, error) {
	if _, err := p.peek(); err != nil {
		return nil, err
	}
	tk, err := p.lex.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, p.parseErr(tk, fmt.Errorf("unexpected end of file while looking for %q", tt))
		}
		return nil, p.parseErr(tk, err)
	} else if tt != tk.Kind {
		return nil, p.parseErr(tk, fmt.Errorf("expected %q but consumed %q", tt, tk.Kind))
	}
	p.lastTokenInfo = tk.LineInfo
	return tk, nil
}

func (p *Parser) next(tt tokenType) error {
	_, err := p.consumeToken(tt)
	return err
}

// case something goes funky.
func (p *Parser) mustnext(tt tokenType) *token {
	tk, err := p.consumeToken(tt)
	if err != nil {
		panic(err)
	}
	return tk
}

// memberName consumes a property name, which may be a plain identifier or any
// keyword since keywords are not reserved in member position.
func (p *Parser) memberName() (*token, string, error) {
	if _, err := p.peek(); err != nil {
		return nil, "", err
	}
	tk, err := p.lex.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, "", p.parseErr(tk, errors.New("unexpected end of file while looking for a property name"))
		}
		return nil, "", p.parseErr(tk, err)
	}
	p.lastTokenInfo = tk.LineInfo
	if tk.Kind == tokenIdentifier {
		return tk, tk.StringVal, nil
	} else if _, isKeyword := keywords[string(tk.Kind)]; isKeyword {
		return tk, string(tk.Kind), nil
	}
	return nil, "", p.parseErr(tk, fmt.Errorf("expected a property name but found %q", tk.Kind))
}

func (p *Parser) optionalSemi() error {
	if ptk, err := p.peek(); err != nil {
		return err
	} else if ptk.Kind == tokenSemiColon {
		p.mustnext(tokenSemiColon)
	}
	return nil
}

// statlist -> { stat }.
func (p *Parser) statList() ([]Stmt, error) {
	stmts := []Stmt{}
	for {
		ptk, err := p.peek()
		if err != nil {
			return nil, err
		} else if ptk.Kind == tokenEOS || ptk.Kind == tokenCloseCurly {
			return stmts, nil
		}
		if err := p.stat(&stmts); err != nil {
			return nil, err
		}
	}
}

// stat -> ';' | vardecl | typealias | funcdecl | interfacedecl | block |
// ifstat | retstat | exprstat.
func (p *Parser) stat(list *[]Stmt) error {
	tk, err := p.peek()
	if err != nil {
		return err
	}
	var stmt Stmt
	switch tk.Kind {
	case tokenSemiColon:
		tk := p.mustnext(tokenSemiColon)
		stmt = &EmptyStmt{LineInfo: tk.LineInfo}
	case tokenLet, tokenConst, tokenVar:
		return p.varstat(list)
	case tokenTypeDef:
		stmt, err = p.typealiasstat()
	case tokenFunction:
		stmt, err = p.funcstat()
	case tokenInterface:
		stmt, err = p.interfacestat()
	case tokenOpenCurly:
		stmt, err = p.blockstat()
	case tokenIf:
		stmt, err = p.ifstat()
	case tokenReturn:
		stmt, err = p.retstat()
	default:
		stmt, err = p.exprstat()
	}
	if err != nil {
		return err
	}
	*list = append(*list, stmt)
	return nil
}

// substat parses the single statement body of an if or else arm. A declaration
// with several declarators comes back as several statements, so those are
// wrapped into a block to stay one node.
func (p *Parser) substat() (Stmt, error) {
	stmts := []Stmt{}
	if err := p.stat(&stmts); err != nil {
		return nil, err
	}
	if len(stmts) == 1 {
		return stmts[0], nil
	}
	return &BlockStmt{LineInfo: stmts[0].Pos(), Stmts: stmts}, nil
}

// vardecl -> ('let' | 'const' | 'var') declarator {',' declarator} [';']
// declarator -> NAME [':' typeexpr] ['=' expression].
func (p *Parser) varstat(list *[]Stmt) error {
	tk, err := p.peek()
	if err != nil {
		return err
	}
	keyword := declKeywords[tk.Kind]
	p.mustnext(tk.Kind)
	for {
		ident, err := p.consumeToken(tokenIdentifier)
		if err != nil {
			return err
		}
		decl := &VarDecl{LineInfo: ident.LineInfo, Keyword: keyword, Name: ident.StringVal}
		if ptk, err := p.peek(); err != nil {
			return err
		} else if ptk.Kind == tokenColon {
			p.mustnext(tokenColon)
			if decl.Annotation, err = p.typeExpr(); err != nil {
				return err
			}
		}
		if ptk, err := p.peek(); err != nil {
			return err
		} else if ptk.Kind == tokenAssign {
			p.mustnext(tokenAssign)
			if decl.Init, err = p.expression(); err != nil {
				return err
			}
		}
		*list = append(*list, decl)
		if ptk, err := p.peek(); err != nil {
			return err
		} else if ptk.Kind != tokenComma {
			break
		}
		p.mustnext(tokenComma)
	}
	return p.optionalSemi()
}

// typealias -> 'type' NAME '=' typeexpr [';'].
func (p *Parser) typealiasstat() (Stmt, error) {
	tk := p.mustnext(tokenTypeDef)
	name, err := p.consumeToken(tokenIdentifier)
	if err != nil {
		return nil, err
	} else if err := p.next(tokenAssign); err != nil {
		return nil, err
	}
	defn, err := p.typeExpr()
	if err != nil {
		return nil, err
	}
	return &TypeAliasDecl{LineInfo: tk.LineInfo, Name: name.StringVal, Type: defn}, p.optionalSemi()
}

// funcdecl -> 'function' NAME '(' paramlist ')' [':' typeexpr] block.
func (p *Parser) funcstat() (Stmt, error) {
	tk := p.mustnext(tokenFunction)
	name, err := p.consumeToken(tokenIdentifier)
	if err != nil {
		return nil, err
	} else if err := p.next(tokenOpenParen); err != nil {
		return nil, err
	}
	params, err := p.paramList()
	if err != nil {
		return nil, err
	} else if err := p.next(tokenCloseParen); err != nil {
		return nil, err
	}
	decl := &FuncDecl{LineInfo: tk.LineInfo, Name: name.StringVal, Params: params}
	if ptk, err := p.peek(); err != nil {
		return nil, err
	} else if ptk.Kind == tokenColon {
		p.mustnext(tokenColon)
		if decl.Return, err = p.typeExpr(); err != nil {
			return nil, err
		}
	}
	if decl.Body, err = p.blockstat(); err != nil {
		return nil, err
	}
	return decl, nil
}

// paramlist -> [ NAME [':' typeexpr] {',' NAME [':' typeexpr]} ].
func (p *Parser) paramList() ([]Param, error) {
	params := []Param{}
	for {
		ptk, err := p.peek()
		if err != nil {
			return nil, err
		} else if ptk.Kind == tokenCloseParen {
			return params, nil
		}
		ident, err := p.consumeToken(tokenIdentifier)
		if err != nil {
			return nil, err
		}
		param := Param{LineInfo: ident.LineInfo, Name: ident.StringVal}
		if ptk, err := p.peek(); err != nil {
			return nil, err
		} else if ptk.Kind == tokenColon {
			p.mustnext(tokenColon)
			if param.Annotation, err = p.typeExpr(); err != nil {
				return nil, err
			}
		}
		params = append(params, param)
		if ptk, err := p.peek(); err != nil {
			return nil, err
		} else if ptk.Kind != tokenComma {
			return params, nil
		}
		p.mustnext(tokenComma)
	}
}

// interfacedecl -> 'interface' NAME '{' members '}'.
func (p *Parser) interfacestat() (Stmt, error) {
	tk := p.mustnext(tokenInterface)
	name, err := p.consumeToken(tokenIdentifier)
	if err != nil {
		return nil, err
	} else if err := p.next(tokenOpenCurly); err != nil {
		return nil, err
	}
	members, _, err := p.typeMembers()
	if err != nil {
		return nil, err
	}
	decl := &InterfaceDecl{LineInfo: tk.LineInfo, Name: name.StringVal, Members: members}
	return decl, p.next(tokenCloseCurly)
}

// block -> '{' statlist '}'.
func (p *Parser) blockstat() (*BlockStmt, error) {
	tk, err := p.consumeToken(tokenOpenCurly)
	if err != nil {
		return nil, err
	}
	stmts, err := p.statList()
	if err != nil {
		return nil, err
	}
	return &BlockStmt{LineInfo: tk.LineInfo, Stmts: stmts}, p.next(tokenCloseCurly)
}

// ifstat -> 'if' '(' expression ')' stat ['else' stat].
func (p *Parser) ifstat() (Stmt, error) {
	tk := p.mustnext(tokenIf)
	if err := p.next(tokenOpenParen); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	} else if err := p.next(tokenCloseParen); err != nil {
		return nil, err
	}
	stmt := &IfStmt{LineInfo: tk.LineInfo, Cond: cond}
	if stmt.Then, err = p.substat(); err != nil {
		return nil, err
	}
	if ptk, err := p.peek(); err != nil {
		return nil, err
	} else if ptk.Kind == tokenElse {
		p.mustnext(tokenElse)
		if stmt.Else, err = p.substat(); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

// retstat -> 'return' [expression] [';'].
func (p *Parser) retstat() (Stmt, error) {
	tk := p.mustnext(tokenReturn)
	stmt := &ReturnStmt{LineInfo: tk.LineInfo}
	ptk, err := p.peek()
	if err != nil {
		return nil, err
	}
	if ptk.Kind != tokenSemiColon && ptk.Kind != tokenCloseCurly && ptk.Kind != tokenEOS {
		if stmt.X, err = p.expression(); err != nil {
			return nil, err
		}
	}
	return stmt, p.optionalSemi()
}

// exprstat -> expression [';'].
func (p *Parser) exprstat() (Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &ExprStmt{LineInfo: expr.Pos(), X: expr}, p.optionalSemi()
}

// expression -> expr ['?' expression ':' expression].
func (p *Parser) expression() (Expr, error) {
	desc, err := p.expr(0)
	if err != nil {
		return nil, err
	}
	if ptk, err := p.peek(); err != nil {
		return nil, err
	} else if ptk.Kind == tokenQuestion {
		p.mustnext(tokenQuestion)
		then, err := p.expression()
		if err != nil {
			return nil, err
		} else if err := p.next(tokenColon); err != nil {
			return nil, err
		}
		els, err := p.expression()
		if err != nil {
			return nil, err
		}
		return &CondExpr{LineInfo: desc.Pos(), Cond: desc, Then: then, Else: els}, nil
	}
	return desc, nil
}

// where 'binop' is any binary operator with a priority higher than 'limit'.
func (p *Parser) expr(limit int) (Expr, error) {
	if p.depth++; p.depth > conf.MAXPARSEDEPTH {
		p.depth--
		return nil, p.parseErr(&token{LineInfo: p.lastTokenInfo}, fmt.Errorf("max expression depth of %v reached", conf.MAXPARSEDEPTH))
	}
	defer func() { p.depth-- }()
	var desc Expr
	if tk, err := p.peek(); err != nil {
		return nil, err
	} else if tk.isUnary() {
		if err = p.next(tk.Kind); err != nil {
			return nil, err
		}
		operand, err := p.expr(unaryPriority)
		if err != nil {
			return nil, err
		}
		desc = &UnaryExpr{LineInfo: tk.LineInfo, Op: unaryOps[tk.Kind], Operand: operand}
	} else if desc, err = p.simpleexp(); err != nil {
		return nil, err
	}
	op, err := p.peek()
	if err != nil {
		return nil, err
	}
	for op.isBinary() && binaryPriority[op.Kind][0] > limit {
		p.mustnext(op.Kind)
		rdesc, err := p.expr(binaryPriority[op.Kind][1])
		if err != nil {
			return nil, err
		}
		desc = &BinaryExpr{LineInfo: desc.Pos(), Op: binaryOps[op.Kind], Left: desc, Right: rdesc}
		op, err = p.peek()
		if err != nil {
			return nil, err
		}
	}
	return desc, nil
}

// simpleexp -> Number | String | Template | true | false | null | undefined |
// constructor | arraylit | suffixedexp.
func (p *Parser) simpleexp() (Expr, error) {
	ptk, err := p.peek()
	if err != nil {
		return nil, err
	}
	switch ptk.Kind {
	case tokenNumber:
		tk := p.mustnext(tokenNumber)
		return &NumberLit{LineInfo: tk.LineInfo, Value: tk.FloatVal}, nil
	case tokenString:
		tk := p.mustnext(tokenString)
		return &StringLit{LineInfo: tk.LineInfo, Value: tk.StringVal}, nil
	case tokenTemplate:
		tk := p.mustnext(tokenTemplate)
		return &TemplateLit{LineInfo: tk.LineInfo, Text: tk.StringVal, Subst: tk.Subst}, nil
	case tokenTrue:
		tk := p.mustnext(tokenTrue)
		return &BoolLit{LineInfo: tk.LineInfo, Value: true}, nil
	case tokenFalse:
		tk := p.mustnext(tokenFalse)
		return &BoolLit{LineInfo: tk.LineInfo, Value: false}, nil
	case tokenNull:
		tk := p.mustnext(tokenNull)
		return &NullLit{LineInfo: tk.LineInfo}, nil
	case tokenUndefined:
		tk := p.mustnext(tokenUndefined)
		return &UndefinedLit{LineInfo: tk.LineInfo}, nil
	case tokenOpenCurly:
		return p.constructor()
	case tokenOpenBracket:
		return p.arraylit()
	default:
		return p.suffixedexp()
	}
}

// constructor -> '{' [ prop {',' prop} [','] ] '}'
// prop -> propname ':' expression | NAME.
func (p *Parser) constructor() (Expr, error) {
	tk := p.mustnext(tokenOpenCurly)
	obj := &ObjectLit{LineInfo: tk.LineInfo, Props: []ObjectProp{}}
	for {
		ptk, err := p.peek()
		if err != nil {
			return nil, err
		} else if ptk.Kind == tokenCloseCurly {
			break
		}
		key, name, err := p.propName()
		if err != nil {
			return nil, err
		}
		prop := ObjectProp{LineInfo: key.LineInfo, Key: name}
		if ptk, err := p.peek(); err != nil {
			return nil, err
		} else if ptk.Kind == tokenColon {
			p.mustnext(tokenColon)
			if prop.Value, err = p.expression(); err != nil {
				return nil, err
			}
		} else if key.Kind == tokenIdentifier { // shorthand property
			prop.Value = &Ident{LineInfo: key.LineInfo, Name: name}
		} else {
			return nil, p.parseErr(ptk, fmt.Errorf("expected %q after property name but found %q", tokenColon, ptk.Kind))
		}
		obj.Props = append(obj.Props, prop)
		if ptk, err := p.peek(); err != nil {
			return nil, err
		} else if ptk.Kind != tokenComma {
			break
		}
		p.mustnext(tokenComma)
	}
	return obj, p.next(tokenCloseCurly)
}

// propname -> NAME | KEYWORD | String | Number.
func (p *Parser) propName() (*token, string, error) {
	ptk, err := p.peek()
	if err != nil {
		return nil, "", err
	}
	switch ptk.Kind {
	case tokenString:
		tk := p.mustnext(tokenString)
		return tk, tk.StringVal, nil
	case tokenNumber:
		tk := p.mustnext(tokenNumber)
		return tk, strconv.FormatFloat(tk.FloatVal, 'f', -1, 64), nil
	default:
		return p.memberName()
	}
}

// arraylit -> '[' [ expression {',' expression} [','] ] ']'.
func (p *Parser) arraylit() (Expr, error) {
	tk := p.mustnext(tokenOpenBracket)
	arr := &ArrayLit{LineInfo: tk.LineInfo, Items: []Expr{}}
	for {
		ptk, err := p.peek()
		if err != nil {
			return nil, err
		} else if ptk.Kind == tokenCloseBracket {
			break
		}
		item, err := p.expression()
		if err != nil {
			return nil, err
		}
		arr.Items = append(arr.Items, item)
		if ptk, err := p.peek(); err != nil {
			return nil, err
		} else if ptk.Kind != tokenComma {
			break
		}
		p.mustnext(tokenComma)
	}
	return arr, p.next(tokenCloseBracket)
}

// primaryexp -> NAME | '(' expression ')'.
func (p *Parser) primaryexp() (Expr, error) {
	tk, err := p.peek()
	if err != nil {
		return nil, err
	}
	switch tk.Kind {
	case tokenOpenParen:
		otk := p.mustnext(tokenOpenParen)
		desc, err := p.expression()
		if err != nil {
			return nil, err
		}
		return &ParenExpr{LineInfo: otk.LineInfo, Inner: desc}, p.next(tokenCloseParen)
	case tokenIdentifier:
		ident := p.mustnext(tokenIdentifier)
		return &Ident{LineInfo: ident.LineInfo, Name: ident.StringVal}, nil
	default:
		return nil, p.parseErr(tk, fmt.Errorf("unexpected symbol %v", tk.Kind))
	}
}

// suffixedexp -> primaryexp { '.' NAME | '[' expression ']' | '(' args ')' }.
func (p *Parser) suffixedexp() (Expr, error) {
	expr, err := p.primaryexp()
	if err != nil {
		return nil, err
	}
	for {
		ptk, err := p.peek()
		if err != nil {
			return nil, err
		}
		switch ptk.Kind {
		case tokenPeriod:
			p.mustnext(tokenPeriod)
			key, name, err := p.memberName()
			if err != nil {
				return nil, err
			}
			expr = &PropAccess{LineInfo: key.LineInfo, Object: expr, Name: name}
		case tokenOpenBracket:
			tk := p.mustnext(tokenOpenBracket)
			key, err := p.expression()
			if err != nil {
				return nil, err
			} else if err := p.next(tokenCloseBracket); err != nil {
				return nil, err
			}
			expr = &ElemAccess{LineInfo: tk.LineInfo, Object: expr, Index: key}
		case tokenOpenParen:
			tk := p.mustnext(tokenOpenParen)
			args := []Expr{}
			for {
				if ptk, err := p.peek(); err != nil {
					return nil, err
				} else if ptk.Kind == tokenCloseParen {
					break
				}
				arg, err := p.expression()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if ptk, err := p.peek(); err != nil {
					return nil, err
				} else if ptk.Kind != tokenComma {
					break
				}
				p.mustnext(tokenComma)
			}
			if err := p.next(tokenCloseParen); err != nil {
				return nil, err
			}
			expr = &CallExpr{LineInfo: tk.LineInfo, Callee: expr, Args: args}
		default:
			return expr, nil
		}
	}
}

// typeexpr -> ['|'] intersectiontype { '|' intersectiontype }.
func (p *Parser) typeExpr() (TypeNode, error) {
	if p.depth++; p.depth > conf.MAXPARSEDEPTH {
		p.depth--
		return nil, p.parseErr(&token{LineInfo: p.lastTokenInfo}, fmt.Errorf("max type depth of %v reached", conf.MAXPARSEDEPTH))
	}
	defer func() { p.depth-- }()
	if ptk, err := p.peek(); err != nil {
		return nil, err
	} else if ptk.Kind == tokenPipe { // leading pipe on multiline unions
		p.mustnext(tokenPipe)
	}
	first, err := p.intersectionType()
	if err != nil {
		return nil, err
	}
	members := []TypeNode{first}
	for {
		if ptk, err := p.peek(); err != nil {
			return nil, err
		} else if ptk.Kind != tokenPipe {
			break
		}
		p.mustnext(tokenPipe)
		member, err := p.intersectionType()
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	if len(members) == 1 {
		return first, nil
	}
	return &UnionType{LineInfo: first.Pos(), Members: members}, nil
}

// intersectiontype -> postfixtype { '&' postfixtype }.
func (p *Parser) intersectionType() (TypeNode, error) {
	first, err := p.postfixType()
	if err != nil {
		return nil, err
	}
	members := []TypeNode{first}
	for {
		if ptk, err := p.peek(); err != nil {
			return nil, err
		} else if ptk.Kind != tokenAmpersand {
			break
		}
		p.mustnext(tokenAmpersand)
		member, err := p.postfixType()
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	if len(members) == 1 {
		return first, nil
	}
	return &IntersectionType{LineInfo: first.Pos(), Members: members}, nil
}

// postfixtype -> simpletype { '[' ']' | '[' typeexpr ']' }.
func (p *Parser) postfixType() (TypeNode, error) {
	defn, err := p.simpleType()
	if err != nil {
		return nil, err
	}
	for {
		ptk, err := p.peek()
		if err != nil {
			return nil, err
		} else if ptk.Kind != tokenOpenBracket {
			return defn, nil
		}
		p.mustnext(tokenOpenBracket)
		if ptk, err := p.peek(); err != nil {
			return nil, err
		} else if ptk.Kind == tokenCloseBracket {
			p.mustnext(tokenCloseBracket)
			defn = &ArrayType{LineInfo: defn.Pos(), Elem: defn}
			continue
		}
		index, err := p.typeExpr()
		if err != nil {
			return nil, err
		} else if err := p.next(tokenCloseBracket); err != nil {
			return nil, err
		}
		defn = &IndexedAccessType{LineInfo: defn.Pos(), Object: defn, Index: index}
	}
}

// simpletype -> KEYWORD | NAME ['<' typeargs '>'] | Literal | '-' Number |
// 'typeof' suffixedexp | 'keyof' postfixtype | fntype | '(' typeexpr ')' |
// tbltype | tupletype.
func (p *Parser) simpleType() (TypeNode, error) {
	tk, err := p.peek()
	if err != nil {
		return nil, err
	}
	switch tk.Kind {
	case tokenIdentifier:
		ident := p.mustnext(tokenIdentifier)
		if keywordTypeNames[ident.StringVal] {
			return &KeywordType{LineInfo: ident.LineInfo, Name: ident.StringVal}, nil
		}
		ref := &TypeRef{LineInfo: ident.LineInfo, Name: ident.StringVal}
		if ptk, err := p.peek(); err != nil {
			return nil, err
		} else if ptk.Kind == tokenLt {
			if ref.Args, err = p.typeArgs(); err != nil {
				return nil, err
			}
		}
		return ref, nil
	case tokenString:
		lit := p.mustnext(tokenString)
		return &LiteralType{LineInfo: lit.LineInfo, Lit: &StringLit{LineInfo: lit.LineInfo, Value: lit.StringVal}}, nil
	case tokenTemplate:
		lit := p.mustnext(tokenTemplate)
		if lit.Subst {
			return nil, p.parseErr(lit, errors.New("template literal types with substitutions are not supported"))
		}
		return &LiteralType{LineInfo: lit.LineInfo, Lit: &StringLit{LineInfo: lit.LineInfo, Value: lit.StringVal}}, nil
	case tokenNumber:
		lit := p.mustnext(tokenNumber)
		return &LiteralType{LineInfo: lit.LineInfo, Lit: &NumberLit{LineInfo: lit.LineInfo, Value: lit.FloatVal}}, nil
	case tokenMinus:
		neg := p.mustnext(tokenMinus)
		lit, err := p.consumeToken(tokenNumber)
		if err != nil {
			return nil, err
		}
		return &LiteralType{LineInfo: neg.LineInfo, Lit: &NumberLit{LineInfo: neg.LineInfo, Value: -lit.FloatVal}}, nil
	case tokenTrue:
		lit := p.mustnext(tokenTrue)
		return &LiteralType{LineInfo: lit.LineInfo, Lit: &BoolLit{LineInfo: lit.LineInfo, Value: true}}, nil
	case tokenFalse:
		lit := p.mustnext(tokenFalse)
		return &LiteralType{LineInfo: lit.LineInfo, Lit: &BoolLit{LineInfo: lit.LineInfo, Value: false}}, nil
	case tokenNull:
		lit := p.mustnext(tokenNull)
		return &LiteralType{LineInfo: lit.LineInfo, Lit: &NullLit{LineInfo: lit.LineInfo}}, nil
	case tokenUndefined:
		kw := p.mustnext(tokenUndefined)
		return &KeywordType{LineInfo: kw.LineInfo, Name: "undefined"}, nil
	case tokenVoid:
		kw := p.mustnext(tokenVoid)
		return &KeywordType{LineInfo: kw.LineInfo, Name: "void"}, nil
	case tokenTypeof:
		kw := p.mustnext(tokenTypeof)
		operand, err := p.suffixedexp()
		if err != nil {
			return nil, err
		}
		return &TypeofType{LineInfo: kw.LineInfo, X: operand}, nil
	case tokenKeyof:
		kw := p.mustnext(tokenKeyof)
		operand, err := p.postfixType()
		if err != nil {
			return nil, err
		}
		return &KeyofType{LineInfo: kw.LineInfo, Operand: operand}, nil
	case tokenOpenParen:
		return p.fnOrParenType()
	case tokenOpenCurly:
		return p.tbltype()
	case tokenOpenBracket:
		return p.tupletype()
	default:
		return nil, p.parseErr(tk, fmt.Errorf("type expected but found %s", tk))
	}
}

// typeargs -> typeexpr {',' typeexpr}.
func (p *Parser) typeArgs() ([]TypeNode, error) {
	p.mustnext(tokenLt)
	args := []TypeNode{}
	for {
		arg, err := p.typeExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if ptk, err := p.peek(); err != nil {
			return nil, err
		} else if ptk.Kind != tokenComma {
			break
		}
		p.mustnext(tokenComma)
	}
	return args, p.next(tokenGt)
}

// fntype -> '(' paramlist ')' '=>' typeexpr.
func (p *Parser) fnOrParenType() (TypeNode, error) {
	tk := p.mustnext(tokenOpenParen)
	isFn, err := p.arrowAhead()
	if err != nil {
		return nil, err
	}
	if isFn {
		params, err := p.paramList()
		if err != nil {
			return nil, err
		} else if err := p.next(tokenCloseParen); err != nil {
			return nil, err
		} else if err := p.next(tokenArrow); err != nil {
			return nil, err
		}
		ret, err := p.typeExpr()
		if err != nil {
			return nil, err
		}
		return &FuncType{LineInfo: tk.LineInfo, Params: params, Return: ret}, nil
	}
	inner, err := p.typeExpr()
	if err != nil {
		return nil, err
	}
	return &ParenType{LineInfo: tk.LineInfo, Inner: inner}, p.next(tokenCloseParen)
}

// arrowAhead reports whether an already consumed open paren starts a function
// type rather than a parenthesized type. It reads at most two tokens past the
// paren and pushes them back before returning.
func (p *Parser) arrowAhead() (bool, error) {
	ptk, err := p.peek()
	if err != nil {
		return false, err
	} else if ptk.Kind == tokenCloseParen {
		return true, nil
	} else if ptk.Kind != tokenIdentifier {
		return false, nil
	}
	name, err := p.lex.Next()
	if err != nil {
		return false, p.parseErr(name, err)
	}
	ptk, err = p.lex.Peek()
	if err != nil {
		p.lex.back(name)
		return false, p.parseErr(ptk, err)
	}
	switch ptk.Kind {
	case tokenColon, tokenComma:
		p.lex.back(name)
		return true, nil
	case tokenCloseParen:
		closing, err := p.lex.Next()
		if err != nil {
			p.lex.back(name)
			return false, p.parseErr(closing, err)
		}
		ptk, err = p.lex.Peek()
		if err != nil {
			p.lex.back(closing)
			p.lex.back(name)
			return false, p.parseErr(ptk, err)
		}
		isFn := ptk.Kind == tokenArrow
		p.lex.back(closing)
		p.lex.back(name)
		return isFn, nil
	default:
		p.lex.back(name)
		return false, nil
	}
}

// tbltype -> '{' members '}' | '{' '[' NAME 'in' typeexpr ']' ':' typeexpr '}'.
func (p *Parser) tbltype() (TypeNode, error) {
	tk := p.mustnext(tokenOpenCurly)
	mapped, err := p.mappedAhead()
	if err != nil {
		return nil, err
	}
	if mapped {
		return p.mappedType(tk)
	}
	members, indexSig, err := p.typeMembers()
	if err != nil {
		return nil, err
	}
	lit := &TypeLit{LineInfo: tk.LineInfo, Members: members, IndexSig: indexSig}
	return lit, p.next(tokenCloseCurly)
}

// mappedAhead reports whether the open curly that was just consumed starts a
// mapped type, which is the case when it is followed by '[' NAME 'in'.
func (p *Parser) mappedAhead() (bool, error) {
	ptk, err := p.peek()
	if err != nil {
		return false, err
	} else if ptk.Kind != tokenOpenBracket {
		return false, nil
	}
	open, err := p.lex.Next()
	if err != nil {
		return false, p.parseErr(open, err)
	}
	ptk, err = p.lex.Peek()
	if err != nil || ptk.Kind != tokenIdentifier {
		p.lex.back(open)
		return false, p.parseErr(ptk, err)
	}
	name, err := p.lex.Next()
	if err != nil {
		p.lex.back(open)
		return false, p.parseErr(name, err)
	}
	ptk, err = p.lex.Peek()
	if err != nil {
		p.lex.back(name)
		p.lex.back(open)
		return false, p.parseErr(ptk, err)
	}
	isMapped := ptk.Kind == tokenIn
	p.lex.back(name)
	p.lex.back(open)
	return isMapped, nil
}

// mappedtype -> '[' NAME 'in' typeexpr ']' ':' typeexpr '}'.
func (p *Parser) mappedType(tk *token) (TypeNode, error) {
	p.mustnext(tokenOpenBracket)
	name := p.mustnext(tokenIdentifier)
	p.mustnext(tokenIn)
	constraint, err := p.typeExpr()
	if err != nil {
		return nil, err
	} else if err := p.next(tokenCloseBracket); err != nil {
		return nil, err
	} else if err := p.next(tokenColon); err != nil {
		return nil, err
	}
	value, err := p.typeExpr()
	if err != nil {
		return nil, err
	}
	mt := &MappedType{LineInfo: tk.LineInfo, Name: name.StringVal, Constraint: constraint, Value: value}
	return mt, p.next(tokenCloseCurly)
}

// members -> { member [',' | ';'] }
// member -> propname ['?'] ':' typeexpr | '[' NAME ':' typeexpr ']' ':' typeexpr.
func (p *Parser) typeMembers() ([]TypeMember, bool, error) {
	members := []TypeMember{}
	indexSig := false
	for {
		ptk, err := p.peek()
		if err != nil {
			return nil, false, err
		} else if ptk.Kind == tokenCloseCurly {
			return members, indexSig, nil
		}
		if ptk.Kind == tokenOpenBracket {
			if err := p.indexSignature(); err != nil {
				return nil, false, err
			}
			indexSig = true
		} else {
			tk, name, err := p.memberName()
			if err != nil {
				return nil, false, err
			}
			member := TypeMember{LineInfo: tk.LineInfo, Name: name}
			if ptk, err := p.peek(); err != nil {
				return nil, false, err
			} else if ptk.Kind == tokenQuestion {
				p.mustnext(tokenQuestion)
				member.Optional = true
			}
			if err := p.next(tokenColon); err != nil {
				return nil, false, err
			}
			if member.Type, err = p.typeExpr(); err != nil {
				return nil, false, err
			}
			members = append(members, member)
		}
		if ptk, err := p.peek(); err != nil {
			return nil, false, err
		} else if ptk.Kind == tokenComma || ptk.Kind == tokenSemiColon {
			p.mustnext(ptk.Kind)
		}
	}
}

// indexsig -> '[' NAME ':' typeexpr ']' ':' typeexpr. The key and value types
// are consumed but dropped since index signatures only degrade downstream.
func (p *Parser) indexSignature() error {
	p.mustnext(tokenOpenBracket)
	if err := p.next(tokenIdentifier); err != nil {
		return err
	} else if err := p.next(tokenColon); err != nil {
		return err
	} else if _, err := p.typeExpr(); err != nil {
		return err
	} else if err := p.next(tokenCloseBracket); err != nil {
		return err
	} else if err := p.next(tokenColon); err != nil {
		return err
	}
	_, err := p.typeExpr()
	return err
}

// tupletype -> '[' [typeexpr {',' typeexpr} [',']] ']'.
func (p *Parser) tupletype() (TypeNode, error) {
	tk := p.mustnext(tokenOpenBracket)
	tuple := &TupleType{LineInfo: tk.LineInfo, Elems: []TypeNode{}}
	for {
		ptk, err := p.peek()
		if err != nil {
			return nil, err
		} else if ptk.Kind == tokenCloseBracket {
			break
		}
		elem, err := p.typeExpr()
		if err != nil {
			return nil, err
		}
		tuple.Elems = append(tuple.Elems, elem)
		if ptk, err := p.peek(); err != nil {
			return nil, err
		} else if ptk.Kind != tokenComma {
			break
		}
		p.mustnext(tokenComma)
	}
	return tuple, p.next(tokenCloseBracket)
}
