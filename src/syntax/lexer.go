package syntax

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode"

	"github.com/smasher164/xid"

	"github.com/aodai/taipu/src/diag"
)

var escapeCodes = map[rune]rune{
	'0':  '\x00', // null
	'b':  '\x08', // backspace
	'f':  '\x0C', // form feed
	'n':  '\n',   // newline
	'r':  '\r',   // carriage return
	't':  '\t',   // tab
	'v':  '\x0B', // vertical tab
	'\\': '\\',   // backslash
	'"':  '"',    // quote
	'\'': '\'',   // apostrophe
	'`':  '`',    // backtick
}

type (
	lexer struct {
		filename string
		rdr      *bufio.Reader
		peeked   []*token
		LineInfo
	}
)

func newLexer(filename string, src io.Reader) *lexer {
	return &lexer{
		filename: filename,
		LineInfo: LineInfo{Line: 1},
		rdr:      bufio.NewReaderSize(src, 4096),
		peeked:   []*token{},
	}
}

func (lex *lexer) errf(msg string, data ...any) error {
	return lex.err(fmt.Errorf(msg, data...))
}

func (lex *lexer) err(err error) error {
	if errors.Is(err, io.EOF) {
		return err
	}
	return &diag.Error{
		Filename: lex.filename,
		Kind:     diag.LexerErr,
		Line:     lex.Line,
		Column:   lex.Column,
		Err:      err,
	}
}

func (lex *lexer) peek() rune {
	chs, _ := lex.rdr.Peek(1)
	if len(chs) == 0 {
		return 0
	}
	return rune(chs[0])
}

func (lex *lexer) next() (rune, error) {
	ch, _, err := lex.rdr.ReadRune()
	if err != nil {
		return ch, lex.err(err)
	}
	if ch == '\n' || ch == '\r' {
		lex.Line++
		lex.Column = 0
	}
	lex.Column++
	return ch, err
}

func (lex *lexer) mustNext(expected rune) error {
	ch, err := lex.next()
	if err != nil {
		return err
	} else if ch != expected {
		return lex.err(fmt.Errorf("expected rune %v but found %v", string(expected), string(ch)))
	}
	return nil
}

func (lex *lexer) skipWhitespace() error {
	for {
		if tk := lex.peek(); tk == ' ' || tk == '\t' || tk == '\n' || tk == '\r' {
			if _, err := lex.next(); err != nil {
				return err
			}
			continue
		}
		return nil
	}
}

func (lex *lexer) tokenVal(tk tokenType) (*token, error) {
	return &token{Kind: tk, LineInfo: LineInfo{Line: lex.Line, Column: lex.Column - int64(len(tk))}}, nil
}

func (lex *lexer) takeTokenVal(tk tokenType) (*token, error) {
	_, err := lex.next()
	return &token{Kind: tk, LineInfo: LineInfo{Line: lex.Line, Column: lex.Column - int64(len(tk))}}, err
}

// allow for FIFO stack.
func (lex *lexer) back(tk *token) {
	lex.peeked = append(lex.peeked, tk)
}

func (lex *lexer) Peek() (*token, error) {
	if len(lex.peeked) == 0 {
		tk, err := lex.Next()
		if err != nil && !errors.Is(err, io.EOF) {
			return &token{Kind: tokenEOS}, err
		} else if err != nil && errors.Is(err, io.EOF) {
			return &token{Kind: tokenEOS}, nil
		}
		lex.peeked = append(lex.peeked, tk)
	}
	return lex.peeked[len(lex.peeked)-1], nil
}

func (lex *lexer) Next() (*token, error) {
	if len(lex.peeked) != 0 {
		top := lex.peeked[len(lex.peeked)-1]
		lex.peeked = lex.peeked[:len(lex.peeked)-1]
		return top, nil
	}
	if lex.peek() == '#' && lex.Line == 1 && lex.Column == 0 {
		if err := lex.parseShebang(); err != nil {
			return nil, err
		}
	}
	if err := lex.skipWhitespace(); err != nil {
		return nil, err
	}
	ch, err := lex.next()
	if err != nil {
		return nil, err
	}
	peekCh := lex.peek()
	if ch == '/' && (peekCh == '/' || peekCh == '*') {
		return lex.parseComment()
	} else if ch == '/' {
		return lex.tokenVal(tokenDivide)
	} else if ch == '=' && peekCh == '>' {
		return lex.takeTokenVal(tokenArrow)
	} else if ch == '=' && peekCh == '=' {
		if _, err := lex.next(); err != nil {
			return nil, err
		}
		if lex.peek() == '=' {
			return lex.takeTokenVal(tokenStrictEq)
		}
		return lex.tokenVal(tokenEq)
	} else if ch == '=' {
		return lex.tokenVal(tokenAssign)
	} else if ch == '!' && peekCh == '=' {
		if _, err := lex.next(); err != nil {
			return nil, err
		}
		if lex.peek() == '=' {
			return lex.takeTokenVal(tokenStrictNe)
		}
		return lex.tokenVal(tokenNe)
	} else if ch == '!' {
		return lex.tokenVal(tokenNot)
	} else if ch == '<' && peekCh == '=' {
		return lex.takeTokenVal(tokenLe)
	} else if ch == '<' {
		return lex.tokenVal(tokenLt)
	} else if ch == '>' && peekCh == '=' {
		return lex.takeTokenVal(tokenGe)
	} else if ch == '>' {
		return lex.tokenVal(tokenGt)
	} else if ch == '&' && peekCh == '&' {
		return lex.takeTokenVal(tokenLogicalAnd)
	} else if ch == '&' {
		return lex.tokenVal(tokenAmpersand)
	} else if ch == '|' && peekCh == '|' {
		return lex.takeTokenVal(tokenLogicalOr)
	} else if ch == '|' {
		return lex.tokenVal(tokenPipe)
	} else if ch == '?' && peekCh == '?' {
		return lex.takeTokenVal(tokenNullish)
	} else if ch == '?' {
		return lex.tokenVal(tokenQuestion)
	} else if ch == '*' && peekCh == '*' {
		return lex.takeTokenVal(tokenExponent)
	} else if ch == '*' {
		return lex.tokenVal(tokenMultiply)
	} else if ch == '.' {
		if unicode.IsDigit(peekCh) {
			return lex.parseNumber(ch)
		}
		return lex.tokenVal(tokenPeriod)
	} else if ch == '+' {
		return lex.tokenVal(tokenAdd)
	} else if ch == '-' {
		return lex.tokenVal(tokenMinus)
	} else if ch == '%' {
		return lex.tokenVal(tokenModulo)
	} else if ch == '^' {
		return lex.tokenVal(tokenCaret)
	} else if ch == '~' {
		return lex.tokenVal(tokenTilde)
	} else if ch == ':' {
		return lex.tokenVal(tokenColon)
	} else if ch == ',' {
		return lex.tokenVal(tokenComma)
	} else if ch == ';' {
		return lex.tokenVal(tokenSemiColon)
	} else if ch == '(' {
		return lex.tokenVal(tokenOpenParen)
	} else if ch == ')' {
		return lex.tokenVal(tokenCloseParen)
	} else if ch == '{' {
		return lex.tokenVal(tokenOpenCurly)
	} else if ch == '}' {
		return lex.tokenVal(tokenCloseCurly)
	} else if ch == '[' {
		return lex.tokenVal(tokenOpenBracket)
	} else if ch == ']' {
		return lex.tokenVal(tokenCloseBracket)
	} else if ch == '"' || ch == '\'' {
		return lex.parseString(ch)
	} else if ch == '`' {
		return lex.parseTemplate()
	} else if unicode.IsDigit(ch) {
		return lex.parseNumber(ch)
	} else if ch == '_' || ch == '$' || xid.Start(ch) {
		return lex.parseIdentifier(ch)
	}
	return nil, lex.errf("unexpected character %v", string(ch))
}

func (lex *lexer) parseIdentifier(start rune) (*token, error) {
	linfo := lex.LineInfo
	var ident bytes.Buffer
	if _, err := ident.WriteRune(start); err != nil {
		return nil, err
	}

	for {
		if peekCh := lex.peek(); peekCh == '$' || xid.Continue(peekCh) {
			if ch, err := lex.next(); err != nil {
				return nil, err
			} else if _, err := ident.WriteRune(ch); err != nil {
				return nil, err
			}
		} else {
			break
		}
	}

	strVal := ident.String()
	if kw, ok := keywords[strVal]; ok {
		return lex.tokenVal(kw)
	}
	return &token{
		Kind:      tokenIdentifier,
		StringVal: strVal,
		LineInfo:  linfo,
	}, nil
}

/*
A string literal is delimited by matching single or double quotes and can
contain the following escape sequences:

'\0'      (null)
'\b'      (backspace)
'\f'      (form feed)
'\n'      (newline)
'\r'      (carriage return)
'\t'      (horizontal tab)
'\v'      (vertical tab)
'\\'      (backslash)
'\"'      (quotation mark)
'\”      (apostrophe)
\xXX      where XX is a sequence of exactly two hexadecimal digits
\uXXXX    where XXXX is a sequence of exactly four hexadecimal digits
\u{XXX}   where XXX is one or more hexadecimal digits for a code point

A backslash before a line terminator continues the string onto the next line
without including the break. Any other escaped character stands for itself,
so "\q" is the same as "q". An unescaped line terminator inside the quotes is
an error.
*/
func (lex *lexer) parseString(delimiter rune) (*token, error) {
	linfo := lex.LineInfo
	var str bytes.Buffer
	for {
		if ch, err := lex.next(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, lex.errf("unterminated string literal")
			}
			return nil, err
		} else if ch == '\n' || ch == '\r' {
			return nil, lex.errf("unterminated string literal")
		} else if ch == '\\' {
			if err := lex.parseEscape(&str); err != nil {
				return nil, err
			}
		} else if ch == delimiter {
			return &token{
				Kind:      tokenString,
				StringVal: str.String(),
				LineInfo:  linfo,
			}, nil
		} else {
			str.WriteRune(ch)
		}
	}
}

func (lex *lexer) parseEscape(str *bytes.Buffer) error {
	ch, err := lex.next()
	if err != nil {
		return err
	}
	if esc, ok := escapeCodes[ch]; ok {
		str.WriteRune(esc)
	} else if ch == '\n' || ch == '\r' { // line continuation
		if (ch == '\r' && lex.peek() == '\n') || (ch == '\n' && lex.peek() == '\r') {
			if _, err := lex.next(); err != nil {
				return err
			}
		}
	} else if ch == 'u' && lex.peek() == '{' { // braced code point
		if err := lex.mustNext('{'); err != nil {
			return err
		}

		var hexNumber bytes.Buffer
		for isHexDigit(lex.peek()) {
			if err := lex.writeNext(&hexNumber); err != nil {
				return err
			}
		}
		if hexNumber.Len() == 0 {
			return lex.errf("hexadecimal digit expected near %q", `\u{`)
		}

		ivalue, err := strconv.ParseInt(hexNumber.String(), 16, 64)
		if err != nil {
			return lex.err(fmt.Errorf("parse int: %w", errors.Unwrap(err)))
		}
		str.WriteRune(rune(ivalue))

		if err := lex.mustNext('}'); err != nil {
			return err
		}
	} else if ch == 'u' { // four hex digit code unit
		var hexNumber bytes.Buffer
		for range 4 {
			if !isHexDigit(lex.peek()) {
				return lex.errf("hexadecimal digit expected near %q", `\u`+hexNumber.String())
			}
			if err := lex.writeNext(&hexNumber); err != nil {
				return err
			}
		}

		ivalue, err := strconv.ParseInt(hexNumber.String(), 16, 64)
		if err != nil {
			return lex.err(fmt.Errorf("parse int: %w", errors.Unwrap(err)))
		}
		str.WriteRune(rune(ivalue))
	} else if ch == 'x' { // two hex digit char code
		var hexNumber bytes.Buffer
		for range 2 {
			if !isHexDigit(lex.peek()) {
				return lex.errf("hexadecimal digit expected near %q", `\x`+hexNumber.String())
			}
			if err := lex.writeNext(&hexNumber); err != nil {
				return err
			}
		}

		ivalue, err := strconv.ParseInt(hexNumber.String(), 16, 64)
		if err != nil {
			return lex.err(fmt.Errorf("parse int: %w", errors.Unwrap(err)))
		}
		str.WriteRune(rune(ivalue))
	} else { // any other escaped character stands for itself
		str.WriteRune(ch)
	}
	return nil
}

// parseTemplate scans a backtick string. The literal chunks are cooked the
// same way quoted strings are, while substitution spans are consumed up to
// their matching close brace and only flagged, since their contents are plain
// expressions that the parser sees again through separate statements. Line
// breaks are legal inside the backticks.
func (lex *lexer) parseTemplate() (*token, error) {
	linfo := lex.LineInfo
	subst := false
	var str bytes.Buffer
	for {
		if ch, err := lex.next(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, lex.errf("unterminated template literal")
			}
			return nil, err
		} else if ch == '\\' {
			if err := lex.parseEscape(&str); err != nil {
				return nil, err
			}
		} else if ch == '$' && lex.peek() == '{' {
			subst = true
			if err := lex.skipSubstitution(); err != nil {
				return nil, err
			}
		} else if ch == '`' {
			return &token{
				Kind:      tokenTemplate,
				StringVal: str.String(),
				Subst:     subst,
				LineInfo:  linfo,
			}, nil
		} else {
			str.WriteRune(ch)
		}
	}
}

// skipSubstitution consumes a ${...} span, balancing braces and stepping over
// nested string and template literals so that braces inside them do not count.
func (lex *lexer) skipSubstitution() error {
	if err := lex.mustNext('{'); err != nil {
		return err
	}
	depth := 1
	for depth > 0 {
		ch, err := lex.next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return lex.errf("unterminated template literal")
			}
			return err
		}
		switch ch {
		case '{':
			depth++
		case '}':
			depth--
		case '"', '\'', '`':
			if err := lex.skipDelimited(ch); err != nil {
				return err
			}
		}
	}
	return nil
}

func (lex *lexer) skipDelimited(delimiter rune) error {
	for {
		ch, err := lex.next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return lex.errf("unterminated template literal")
			}
			return err
		}
		if ch == '\\' {
			if _, err := lex.next(); err != nil {
				return err
			}
		} else if ch == delimiter {
			return nil
		}
	}
}

func (lex *lexer) parseNumber(start rune) (*token, error) {
	linfo := lex.LineInfo
	var number bytes.Buffer

	if start == '0' {
		if peekCh := lex.peek(); peekCh == 'x' || peekCh == 'X' {
			return lex.parseRadixNumber(linfo, 16, isHexDigit)
		} else if peekCh == 'b' || peekCh == 'B' {
			return lex.parseRadixNumber(linfo, 2, func(ch rune) bool { return ch == '0' || ch == '1' })
		} else if peekCh == 'o' || peekCh == 'O' {
			return lex.parseRadixNumber(linfo, 8, func(ch rune) bool { return ch >= '0' && ch <= '7' })
		}
	}

	if start != '.' {
		if _, err := number.WriteRune(start); err != nil {
			return nil, lex.err(err)
		}

		if err := lex.consumeDigits(&number); err != nil {
			return nil, err
		}

		if peekCh := lex.peek(); peekCh == '.' {
			if err := lex.writeNext(&number); err != nil {
				return nil, err
			} else if err := lex.consumeDigits(&number); err != nil {
				return nil, err
			}
		}
	} else {
		number.WriteRune('0')
		number.WriteRune('.')
		if err := lex.writeNext(&number); err != nil {
			return nil, err
		} else if err := lex.consumeDigits(&number); err != nil {
			return nil, err
		}
	}

	if peekCh := lex.peek(); peekCh == 'e' || peekCh == 'E' {
		if err := lex.parseExponent(&number); err != nil {
			return nil, err
		}
	}

	num, err := strconv.ParseFloat(number.String(), 64)
	if err != nil {
		return nil, lex.err(fmt.Errorf("parse float: %w", errors.Unwrap(err)))
	}
	return &token{
		Kind:     tokenNumber,
		FloatVal: num,
		LineInfo: linfo,
	}, nil
}

func (lex *lexer) parseRadixNumber(linfo LineInfo, base int, digit func(rune) bool) (*token, error) {
	if _, err := lex.next(); err != nil { // radix marker
		return nil, err
	}

	var number bytes.Buffer
	for digit(lex.peek()) {
		if err := lex.writeNext(&number); err != nil {
			return nil, err
		}
	}
	if number.Len() == 0 {
		return nil, lex.errf("digit expected in numeric literal")
	}

	ivalue, err := strconv.ParseUint(number.String(), base, 64)
	if err != nil {
		return nil, lex.err(fmt.Errorf("parse int: %w", errors.Unwrap(err)))
	}
	return &token{
		Kind:     tokenNumber,
		FloatVal: float64(ivalue),
		LineInfo: linfo,
	}, nil
}

func (lex *lexer) consumeDigits(number *bytes.Buffer) error {
	for {
		ch := lex.peek()
		if !unicode.IsDigit(ch) {
			return nil
		} else if err := lex.writeNext(number); err != nil {
			return err
		}
	}
}

func (lex *lexer) parseExponent(number *bytes.Buffer) error {
	if err := lex.writeNext(number); err != nil {
		return err
	}
	if tk := lex.peek(); tk == '-' || tk == '+' {
		if err := lex.writeNext(number); err != nil {
			return err
		}
	}
	return lex.consumeDigits(number)
}

func (lex *lexer) writeNext(number *bytes.Buffer) error {
	if ch, err := lex.next(); err != nil {
		return err
	} else if _, err := number.WriteRune(ch); err != nil {
		return lex.err(err)
	}
	return nil
}

func (lex *lexer) parseShebang() error {
	for {
		if ch, err := lex.next(); err != nil {
			return err
		} else if ch == '\n' {
			return nil
		}
	}
}

func (lex *lexer) parseComment() (*token, error) {
	linfo := lex.LineInfo
	marker, err := lex.next()
	if err != nil {
		return nil, err
	}

	var comment bytes.Buffer
	if marker == '*' {
		for {
			ch, err := lex.next()
			if err != nil {
				if errors.Is(err, io.EOF) {
					return nil, lex.errf("unterminated block comment")
				}
				return nil, err
			} else if ch == '*' && lex.peek() == '/' {
				if _, err := lex.next(); err != nil {
					return nil, err
				}
				return &token{
					Kind:      tokenComment,
					StringVal: comment.String(),
					LineInfo:  linfo,
				}, nil
			}
			comment.WriteRune(ch)
		}
	}

	for {
		ch, err := lex.next()
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		} else if ch == '\n' || errors.Is(err, io.EOF) {
			return &token{
				Kind:      tokenComment,
				StringVal: comment.String(),
				LineInfo:  linfo,
			}, nil
		} else if _, err := comment.WriteRune(ch); err != nil {
			return nil, lex.err(err)
		}
	}
}

func isHexDigit(ch rune) bool {
	return unicode.IsDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}
