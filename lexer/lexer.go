// Package lexer tokenizes Solidity source into a stream of
// (span, token) pairs (spec.md §4.1). It is hand-written rather than
// generated, following the teacher's own position-tracking idiom
// (go/token.Pos-shaped spans) without reusing go/scanner, which only
// tokenizes Go.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/solang-go/solang/diag"
	"github.com/solang-go/solang/token"
)

// Token is one lexed unit. Lit holds the exact source text for
// identifiers, literals and denominations; it is empty for fixed
// punctuation/operator tokens.
type Token struct {
	Kind token.Kind
	Span token.Span
	Lit  string
}

// Lexer produces a lazy sequence of Tokens from one file's bytes via
// Next. Comments are never returned as tokens: doc-comments (`///`
// lines and `/** */` blocks) are retained in the lexer for the parser
// to collect with TakeDoc, while ordinary comments are skipped
// (spec.md §4.1).
type Lexer struct {
	file token.FileNo
	src  []byte
	bag  *diag.Bag

	offset int // current byte offset
	rdOff  int // offset of the next rune to read
	ch     rune

	doc []string // accumulated doc-comment lines since the last TakeDoc; a plain comment clears it
}

// TakeDoc returns the doc-comment text accumulated since the last call
// (or since lexer creation), then clears it. Called by the parser once
// per declaration to capture `///` / `/** */` comments immediately
// preceding it (spec.md §4.1: "skip comments but retain doc-comments").
func (l *Lexer) TakeDoc() string {
	if len(l.doc) == 0 {
		return ""
	}
	s := strings.Join(l.doc, "\n")
	l.doc = nil
	return s
}

// New creates a Lexer over src belonging to file. Diagnostics for
// invalid bytes are appended to bag; the lexer never aborts on its own.
func New(file token.FileNo, src []byte, bag *diag.Bag) *Lexer {
	l := &Lexer{file: file, src: src, bag: bag}
	l.next()
	return l
}

const eof = -1

func (l *Lexer) next() {
	if l.rdOff >= len(l.src) {
		l.offset = len(l.src)
		l.ch = eof
		return
	}
	l.offset = l.rdOff
	r, w := utf8.DecodeRune(l.src[l.rdOff:])
	if r == utf8.RuneError && w <= 1 {
		l.bag.Errorf(diag.KindLex, token.Span{File: l.file, Start: l.offset, End: l.offset + 1}, "invalid UTF-8 byte")
		l.rdOff++
		l.ch = rune(l.src[l.offset])
		return
	}
	l.rdOff += w
	l.ch = r
}

func (l *Lexer) peekByte() byte {
	if l.rdOff < len(l.src) {
		return l.src[l.rdOff]
	}
	return 0
}

func (l *Lexer) span(start int) token.Span {
	return token.Span{File: l.file, Start: start, End: l.offset}
}

// Next returns the next token, EOF once the source is exhausted.
// Comments are skipped; doc-comments (/// or /** */) are not returned
// as tokens but kept for TakeDoc.
func (l *Lexer) Next() Token {
	l.skipWhitespace()

	start := l.offset
	ch := l.ch

	switch {
	case ch == eof:
		return Token{Kind: token.EOF, Span: l.span(start)}
	case isIdentStart(ch):
		return l.scanIdentOrKeyword(start)
	case isDigit(ch):
		return l.scanNumber(start)
	case ch == '"' || ch == '\'':
		return l.scanString(start, byte(ch))
	}

	l.next()
	switch ch {
	case '(':
		return Token{Kind: token.LPAREN, Span: l.span(start)}
	case ')':
		return Token{Kind: token.RPAREN, Span: l.span(start)}
	case '{':
		return Token{Kind: token.LBRACE, Span: l.span(start)}
	case '}':
		return Token{Kind: token.RBRACE, Span: l.span(start)}
	case '[':
		return Token{Kind: token.LBRACK, Span: l.span(start)}
	case ']':
		return Token{Kind: token.RBRACK, Span: l.span(start)}
	case ';':
		return Token{Kind: token.SEMI, Span: l.span(start)}
	case ',':
		return Token{Kind: token.COMMA, Span: l.span(start)}
	case '.':
		return Token{Kind: token.DOT, Span: l.span(start)}
	case ':':
		return Token{Kind: token.COLON, Span: l.span(start)}
	case '?':
		return Token{Kind: token.QUESTION, Span: l.span(start)}
	case '=':
		switch l.ch {
		case '=':
			l.next()
			return Token{Kind: token.EQL, Span: l.span(start)}
		case '>':
			l.next()
			return Token{Kind: token.ARROW, Span: l.span(start)}
		}
		return Token{Kind: token.ASSIGN, Span: l.span(start)}
	case '+':
		switch l.ch {
		case '+':
			l.next()
			return Token{Kind: token.INC, Span: l.span(start)}
		case '=':
			l.next()
			return Token{Kind: token.ADD_ASSIGN, Span: l.span(start)}
		}
		return Token{Kind: token.ADD, Span: l.span(start)}
	case '-':
		switch l.ch {
		case '-':
			l.next()
			return Token{Kind: token.DEC, Span: l.span(start)}
		case '=':
			l.next()
			return Token{Kind: token.SUB_ASSIGN, Span: l.span(start)}
		}
		return Token{Kind: token.SUB, Span: l.span(start)}
	case '*':
		switch l.ch {
		case '*':
			l.next()
			return Token{Kind: token.POW, Span: l.span(start)}
		case '=':
			l.next()
			return Token{Kind: token.MUL_ASSIGN, Span: l.span(start)}
		}
		return Token{Kind: token.MUL, Span: l.span(start)}
	case '/':
		if l.ch == '=' {
			l.next()
			return Token{Kind: token.QUO_ASSIGN, Span: l.span(start)}
		}
		return Token{Kind: token.QUO, Span: l.span(start)}
	case '%':
		if l.ch == '=' {
			l.next()
			return Token{Kind: token.REM_ASSIGN, Span: l.span(start)}
		}
		return Token{Kind: token.REM, Span: l.span(start)}
	case '&':
		switch l.ch {
		case '&':
			l.next()
			return Token{Kind: token.LAND, Span: l.span(start)}
		case '=':
			l.next()
			return Token{Kind: token.AND_ASSIGN, Span: l.span(start)}
		}
		return Token{Kind: token.AND, Span: l.span(start)}
	case '|':
		switch l.ch {
		case '|':
			l.next()
			return Token{Kind: token.LOR, Span: l.span(start)}
		case '=':
			l.next()
			return Token{Kind: token.OR_ASSIGN, Span: l.span(start)}
		}
		return Token{Kind: token.OR, Span: l.span(start)}
	case '^':
		if l.ch == '=' {
			l.next()
			return Token{Kind: token.XOR_ASSIGN, Span: l.span(start)}
		}
		return Token{Kind: token.XOR, Span: l.span(start)}
	case '!':
		if l.ch == '=' {
			l.next()
			return Token{Kind: token.NEQ, Span: l.span(start)}
		}
		return Token{Kind: token.NOT, Span: l.span(start)}
	case '~':
		return Token{Kind: token.BNOT, Span: l.span(start)}
	case '<':
		switch l.ch {
		case '=':
			l.next()
			return Token{Kind: token.LEQ, Span: l.span(start)}
		case '<':
			l.next()
			if l.ch == '=' {
				l.next()
				return Token{Kind: token.SHL_ASSIGN, Span: l.span(start)}
			}
			return Token{Kind: token.SHL, Span: l.span(start)}
		}
		return Token{Kind: token.LSS, Span: l.span(start)}
	case '>':
		switch l.ch {
		case '=':
			l.next()
			return Token{Kind: token.GEQ, Span: l.span(start)}
		case '>':
			l.next()
			if l.ch == '=' {
				l.next()
				return Token{Kind: token.SHR_ASSIGN, Span: l.span(start)}
			}
			return Token{Kind: token.SHR, Span: l.span(start)}
		}
		return Token{Kind: token.GTR, Span: l.span(start)}
	}

	l.bag.Errorf(diag.KindLex, l.span(start), "unexpected character %q", ch)
	return l.Next()
}

func (l *Lexer) skipWhitespace() {
	for {
		switch l.ch {
		case ' ', '\t', '\n', '\r':
			l.next()
			continue
		case '/':
			if l.peekByte() == '/' {
				l.skipLineComment()
				continue
			}
			if l.peekByte() == '*' {
				l.skipBlockComment()
				continue
			}
		}
		return
	}
}

func (l *Lexer) skipLineComment() {
	start := l.offset
	for l.ch != '\n' && l.ch != eof {
		l.next()
	}
	text := string(l.src[start:l.offset])
	if strings.HasPrefix(text, "///") {
		l.doc = append(l.doc, strings.TrimSpace(strings.TrimPrefix(text, "///")))
	} else {
		l.doc = nil // a plain comment breaks a doc-comment run, like godoc
	}
}

func (l *Lexer) skipBlockComment() {
	start := l.offset
	l.next() // '/'
	l.next() // '*'
	isDoc := l.ch == '*' && l.peekByte() != '/'
	for {
		if l.ch == eof {
			break
		}
		if l.ch == '*' && l.peekByte() == '/' {
			l.next()
			l.next()
			break
		}
		l.next()
	}
	if isDoc {
		text := string(l.src[start:l.offset])
		text = strings.TrimSuffix(strings.TrimPrefix(text, "/**"), "*/")
		l.doc = append(l.doc, strings.TrimSpace(text))
	} else {
		l.doc = nil
	}
}

func isIdentStart(ch rune) bool {
	return ch == '_' || ch == '$' || unicode.In(ch, unicode.L) || unicode.Is(unicode.Other_ID_Start, ch)
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || isDigit(ch) || unicode.In(ch, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc)
}

func isDigit(ch rune) bool { return ch >= '0' && ch <= '9' }

func isHexDigit(ch rune) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func (l *Lexer) scanIdentOrKeyword(start int) Token {
	for isIdentPart(l.ch) {
		l.next()
	}
	lit := string(l.src[start:l.offset])

	// hex"..." and unicode"..." string literals are identifier-shaped
	// prefixes immediately followed by a quote.
	if lit == "hex" && (l.ch == '"' || l.ch == '\'') {
		return l.scanHexString(start)
	}
	if lit == "unicode" && (l.ch == '"' || l.ch == '\'') {
		tok := l.scanString(l.offset, byte(l.ch))
		tok.Kind = token.UNICODE_STRING
		tok.Span.Start = start
		return tok
	}
	if k, ok := intTypeKeyword(lit); ok {
		return Token{Kind: k, Span: l.span(start), Lit: lit}
	}
	return Token{Kind: token.Lookup(lit), Span: l.span(start), Lit: lit}
}

// intTypeKeyword recognizes the uint/uintN, int/intN and bytesN type
// keywords, which aren't plain reserved words; address, bool, string
// and bytes come from token.Lookup.
func intTypeKeyword(lit string) (token.Kind, bool) {
	switch {
	case lit == "uint" || (strings.HasPrefix(lit, "uint") && isAllDigits(lit[4:])):
		return token.UINT, true
	case lit == "int" || (strings.HasPrefix(lit, "int") && isAllDigits(lit[3:])):
		return token.INT, true
	case strings.HasPrefix(lit, "bytes") && len(lit) > 5 && isAllDigits(lit[5:]):
		return token.BYTES_N, true
	}
	return 0, false
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isDigit(r) {
			return false
		}
	}
	return true
}

func (l *Lexer) scanNumber(start int) Token {
	if l.ch == '0' && (l.peekByte() == 'x' || l.peekByte() == 'X') {
		l.next()
		l.next()
		for isHexDigit(l.ch) || l.ch == '_' {
			l.next()
		}
	} else {
		for isDigit(l.ch) || l.ch == '_' {
			l.next()
		}
		if l.ch == '.' && isDigit(rune(l.peekByte())) {
			l.next()
			for isDigit(l.ch) || l.ch == '_' {
				l.next()
			}
		}
		if l.ch == 'e' || l.ch == 'E' {
			l.next()
			if l.ch == '+' || l.ch == '-' {
				l.next()
			}
			for isDigit(l.ch) {
				l.next()
			}
		}
	}
	lit := string(l.src[start:l.offset])

	// optional denomination suffix, e.g. `1 ether`, `30 days`.
	litEnd := l.offset
	l.skipInlineSpace()
	denomStart := l.offset
	for isIdentPart(l.ch) {
		l.next()
	}
	denom := string(l.src[denomStart:l.offset])
	switch denom {
	case "wei", "gwei", "ether", "seconds", "minutes", "hours", "days", "weeks":
		return Token{Kind: token.NUMBER, Span: l.span(start), Lit: lit + " " + denom}
	default:
		// not a denomination: rewind.
		l.rewindTo(litEnd)
		return Token{Kind: token.NUMBER, Span: l.span(start), Lit: lit}
	}
}

func (l *Lexer) skipInlineSpace() {
	for l.ch == ' ' || l.ch == '\t' {
		l.next()
	}
}

// rewindTo resets lexer position to byte offset pos. Only used for the
// number-denomination lookahead above.
func (l *Lexer) rewindTo(pos int) {
	l.rdOff = pos
	l.offset = pos
	l.next()
}

func (l *Lexer) scanString(start int, quote byte) Token {
	l.next() // opening quote
	var sb strings.Builder
	for {
		if l.ch == eof || l.ch == '\n' {
			l.bag.Errorf(diag.KindLex, l.span(start), "unterminated string literal")
			break
		}
		if byte(l.ch) == quote {
			l.next()
			break
		}
		if l.ch == '\\' {
			l.next()
			sb.WriteRune(l.decodeEscape(start))
			continue
		}
		sb.WriteRune(l.ch)
		l.next()
	}
	return Token{Kind: token.STRING, Span: l.span(start), Lit: sb.String()}
}

func (l *Lexer) decodeEscape(start int) rune {
	ch := l.ch
	l.next()
	switch ch {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '\\', '\'', '"':
		return ch
	case 'x':
		v := 0
		for i := 0; i < 2 && isHexDigit(l.ch); i++ {
			v = v*16 + hexVal(l.ch)
			l.next()
		}
		return rune(v)
	case 'u':
		v := 0
		for i := 0; i < 4 && isHexDigit(l.ch); i++ {
			v = v*16 + hexVal(l.ch)
			l.next()
		}
		return rune(v)
	default:
		l.bag.Errorf(diag.KindLex, l.span(start), "invalid escape sequence")
		return ch
	}
}

func hexVal(ch rune) int {
	switch {
	case ch >= '0' && ch <= '9':
		return int(ch - '0')
	case ch >= 'a' && ch <= 'f':
		return int(ch-'a') + 10
	case ch >= 'A' && ch <= 'F':
		return int(ch-'A') + 10
	}
	return 0
}

func (l *Lexer) scanHexString(start int) Token {
	quote := byte(l.ch)
	l.next()
	bodyStart := l.offset
	for l.ch != eof && byte(l.ch) != quote {
		if !isHexDigit(l.ch) {
			l.bag.Errorf(diag.KindLex, l.span(start), "invalid character in hex string literal")
		}
		l.next()
	}
	lit := string(l.src[bodyStart:l.offset])
	if l.ch != eof {
		l.next()
	}
	return Token{Kind: token.HEX_STRING, Span: l.span(start), Lit: lit}
}
