package syntax

import "fmt"

type (
	tokenType string
	token     struct {
		LineInfo
		Kind      tokenType
		StringVal string
		FloatVal  float64
		// Subst marks a template token that contained substitution spans.
		Subst bool
	}

	// LineInfo is a shared struct that is used for tracking where a token or
	// node originated from in the source text.
	LineInfo struct {
		Line   int64
		Column int64
	}
)

// Pos returns the position itself so that every node embedding LineInfo
// satisfies the Node interface.
func (li LineInfo) Pos() LineInfo { return li }

const (
	tokenAdd          tokenType = "+"
	tokenMinus        tokenType = "-"
	tokenMultiply     tokenType = "*"
	tokenDivide       tokenType = "/"
	tokenModulo       tokenType = "%"
	tokenExponent     tokenType = "**"
	tokenLt           tokenType = "<"
	tokenGt           tokenType = ">"
	tokenLe           tokenType = "<="
	tokenGe           tokenType = ">="
	tokenEq           tokenType = "=="
	tokenNe           tokenType = "!="
	tokenStrictEq     tokenType = "==="
	tokenStrictNe     tokenType = "!=="
	tokenAssign       tokenType = "="
	tokenArrow        tokenType = "=>"
	tokenLogicalAnd   tokenType = "&&"
	tokenLogicalOr    tokenType = "||"
	tokenNullish      tokenType = "??"
	tokenAmpersand    tokenType = "&"
	tokenPipe         tokenType = "|"
	tokenCaret        tokenType = "^"
	tokenNot          tokenType = "!"
	tokenTilde        tokenType = "~"
	tokenQuestion     tokenType = "?"
	tokenColon        tokenType = ":"
	tokenSemiColon    tokenType = ";"
	tokenComma        tokenType = ","
	tokenPeriod       tokenType = "."
	tokenOpenParen    tokenType = "("
	tokenCloseParen   tokenType = ")"
	tokenOpenCurly    tokenType = "{"
	tokenCloseCurly   tokenType = "}"
	tokenOpenBracket  tokenType = "["
	tokenCloseBracket tokenType = "]"
	tokenLet          tokenType = "let"
	tokenConst        tokenType = "const"
	tokenVar          tokenType = "var"
	tokenTypeDef      tokenType = "type"
	tokenFunction     tokenType = "function"
	tokenInterface    tokenType = "interface"
	tokenIf           tokenType = "if"
	tokenElse         tokenType = "else"
	tokenReturn       tokenType = "return"
	tokenTrue         tokenType = "true"
	tokenFalse        tokenType = "false"
	tokenNull         tokenType = "null"
	tokenUndefined    tokenType = "undefined"
	tokenTypeof       tokenType = "typeof"
	tokenVoid         tokenType = "void"
	tokenKeyof        tokenType = "keyof"
	tokenIn           tokenType = "in"
	tokenNumber       tokenType = "number"
	tokenString       tokenType = "string"
	tokenTemplate     tokenType = "template"
	tokenIdentifier   tokenType = "identifier"
	tokenComment      tokenType = "comment"
	tokenEOS          tokenType = "<EOS>"
)

const unaryPriority = 10

// left, right priority for binary ops.
var (
	binaryPriority = map[tokenType][2]int{
		tokenNullish:    {2, 2},
		tokenLogicalOr:  {2, 2},
		tokenLogicalAnd: {3, 3},
		tokenEq:         {4, 4},
		tokenNe:         {4, 4},
		tokenStrictEq:   {4, 4},
		tokenStrictNe:   {4, 4},
		tokenLt:         {5, 5},
		tokenGt:         {5, 5},
		tokenLe:         {5, 5},
		tokenGe:         {5, 5},
		tokenAdd:        {6, 6},
		tokenMinus:      {6, 6},
		tokenMultiply:   {7, 7},
		tokenDivide:     {7, 7},
		tokenModulo:     {7, 7},
		tokenExponent:   {9, 8},
	}
	keywords = map[string]tokenType{
		string(tokenLet):       tokenLet,
		string(tokenConst):     tokenConst,
		string(tokenVar):       tokenVar,
		string(tokenTypeDef):   tokenTypeDef,
		string(tokenFunction):  tokenFunction,
		string(tokenInterface): tokenInterface,
		string(tokenIf):        tokenIf,
		string(tokenElse):      tokenElse,
		string(tokenReturn):    tokenReturn,
		string(tokenTrue):      tokenTrue,
		string(tokenFalse):     tokenFalse,
		string(tokenNull):      tokenNull,
		string(tokenUndefined): tokenUndefined,
		string(tokenTypeof):    tokenTypeof,
		string(tokenVoid):      tokenVoid,
		string(tokenKeyof):     tokenKeyof,
		string(tokenIn):        tokenIn,
	}
)

func (tk *token) String() string {
	switch tk.Kind {
	case tokenNumber:
		return fmt.Sprintf("n%v", tk.FloatVal)
	case tokenIdentifier:
		return fmt.Sprintf("<%v>", tk.StringVal)
	case tokenString:
		return fmt.Sprintf("%q", tk.StringVal)
	case tokenTemplate:
		return fmt.Sprintf("`%v`", tk.StringVal)
	case tokenComment:
		return fmt.Sprintf("// %v", tk.StringVal)
	default:
		return string(tk.Kind)
	}
}

func (tk *token) isUnary() bool {
	switch tk.Kind {
	case tokenNot, tokenMinus, tokenAdd, tokenTilde, tokenTypeof, tokenVoid:
		return true
	default:
		return false
	}
}

func (tk *token) isBinary() bool {
	_, ok := binaryPriority[tk.Kind]
	return ok
}
