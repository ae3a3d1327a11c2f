package lexer

import (
	"strings"

	"github.com/Magicianred/vbscripttranslator/vberr"
)

// Lex tokenises source text into a flat token run. Whitespace is consumed and
// never emitted, and "." is always emitted as MemberAccessorOrDecimalPoint
// (stage one resolves it to MemberAccessor); every other token variant is
// emitted.
func Lex(source string) ([]Token, error) {
	l := &lexer{src: []rune(source), line: 1}
	if err := l.run(); err != nil {
		return nil, err
	}
	return l.tokens, nil
}

type lexer struct {
	src    []rune
	pos    int
	line   int
	tokens []Token

	// braceDepth suppresses statement breaks on newlines inside (...).
	braceDepth int
	// lineHasContent decides Comment vs InlineComment.
	lineHasContent bool
}

func (l *lexer) run() error {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '\r':
			l.pos++
		case c == '\n':
			l.endOfLine()
		case c == ' ' || c == '\t':
			l.pos++
		case c == ':':
			l.emit(Token{Type: EndOfStatement, Content: ":", Line: l.line})
			l.pos++
		case c == '\'':
			l.comment(1)
		case c == '"':
			if err := l.stringLiteral(); err != nil {
				return err
			}
		case c == '(':
			l.braceDepth++
			l.emit(Token{Type: OpenBrace, Content: "(", Line: l.line})
			l.pos++
		case c == ')':
			if l.braceDepth > 0 {
				l.braceDepth--
			}
			l.emit(Token{Type: CloseBrace, Content: ")", Line: l.line})
			l.pos++
		case c == ',':
			l.emit(Token{Type: ArgumentSeparator, Content: ",", Line: l.line})
			l.pos++
		case c == '.':
			l.dot()
		case c == '&':
			if err := l.ampersand(); err != nil {
				return err
			}
		case c >= '0' && c <= '9':
			if err := l.number(); err != nil {
				return err
			}
		case c == '_' && l.isContinuation():
			l.skipContinuation()
		case isIdentStart(c):
			if err := l.word(); err != nil {
				return err
			}
		case c == '<' || c == '>' || c == '=':
			l.comparison()
		case c == '+' || c == '-' || c == '*' || c == '/' || c == '\\' || c == '^':
			l.emit(Token{Type: Operator, Content: string(c), Line: l.line})
			l.pos++
		default:
			return vberr.NewLexError(l.line, "unexpected character "+string(c))
		}
	}
	return nil
}

func (l *lexer) emit(t Token) {
	if t.Type != EndOfStatement && t.Type != Comment {
		l.lineHasContent = true
	}
	l.tokens = append(l.tokens, t)
}

func (l *lexer) endOfLine() {
	if l.braceDepth == 0 {
		l.emit(Token{Type: EndOfStatement, Content: "\n", Line: l.line})
	}
	l.pos++
	l.line++
	l.lineHasContent = false
}

func (l *lexer) peek(offset int) rune {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

// isContinuation reports whether the underscore at the current position is a
// line continuation (followed only by whitespace before the line break).
func (l *lexer) isContinuation() bool {
	i := l.pos + 1
	for i < len(l.src) && (l.src[i] == ' ' || l.src[i] == '\t' || l.src[i] == '\r') {
		i++
	}
	return i >= len(l.src) || l.src[i] == '\n'
}

func (l *lexer) skipContinuation() {
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		l.pos++
	}
	if l.pos < len(l.src) {
		l.pos++
		l.line++
	}
}

func (l *lexer) comment(markerLen int) {
	start := l.pos + markerLen
	end := start
	for end < len(l.src) && l.src[end] != '\n' {
		end++
	}
	text := strings.TrimSuffix(string(l.src[start:end]), "\r")
	tokenType := Comment
	if l.lineHasContent {
		tokenType = InlineComment
	}
	l.emit(Token{Type: tokenType, Content: text, Line: l.line})
	l.pos = end
}

func (l *lexer) stringLiteral() error {
	startLine := l.line
	var sb strings.Builder
	l.pos++
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '\n' {
			return vberr.NewLexError(startLine, "unterminated string literal")
		}
		if c == '"' {
			if l.peek(1) == '"' {
				sb.WriteRune('"')
				l.pos += 2
				continue
			}
			l.pos++
			l.emit(Token{Type: StringLiteral, Content: sb.String(), Line: startLine})
			return nil
		}
		sb.WriteRune(c)
		l.pos++
	}
	return vberr.NewLexError(startLine, "unterminated string literal")
}

// dot handles "." which may be a member accessor, part of a numeric literal
// (".5") or ambiguous until stage one has seen the surrounding tokens.
func (l *lexer) dot() {
	next := l.peek(1)
	if next >= '0' && next <= '9' && !l.previousIsValueLike() {
		_ = l.number()
		return
	}
	l.emit(Token{Type: MemberAccessorOrDecimalPoint, Content: ".", Line: l.line})
	l.pos++
}

// previousIsValueLike reports whether the previous emitted token could end a
// value (so a following "." must be member access, not a decimal point).
func (l *lexer) previousIsValueLike() bool {
	if len(l.tokens) == 0 {
		return false
	}
	prev := l.tokens[len(l.tokens)-1]
	return prev.IsNameLike() || prev.Is(CloseBrace) || prev.Is(NumericLiteral) || prev.Is(StringLiteral)
}

// ampersand handles "&" which opens hex (&H..) and octal (&O..) literals and
// otherwise is the concatenation operator.
func (l *lexer) ampersand() error {
	next := l.peek(1)
	if next == 'H' || next == 'h' {
		return l.radixLiteral(isHexDigit)
	}
	if next == 'O' || next == 'o' {
		return l.radixLiteral(isOctalDigit)
	}
	l.emit(Token{Type: Operator, Content: "&", Line: l.line})
	l.pos++
	return nil
}

func (l *lexer) radixLiteral(digit func(rune) bool) error {
	start := l.pos
	end := l.pos + 2
	if end >= len(l.src) || !digit(l.src[end]) {
		return vberr.NewLexError(l.line, "malformed numeric literal "+string(l.src[start:min(end, len(l.src))]))
	}
	for end < len(l.src) && digit(l.src[end]) {
		end++
	}
	l.emit(Token{Type: NumericLiteral, Content: string(l.src[start:end]), Line: l.line})
	l.pos = end
	return nil
}

func (l *lexer) number() error {
	start := l.pos
	end := l.pos
	for end < len(l.src) && l.src[end] >= '0' && l.src[end] <= '9' {
		end++
	}
	if end < len(l.src) && l.src[end] == '.' {
		end++
		digits := 0
		for end < len(l.src) && l.src[end] >= '0' && l.src[end] <= '9' {
			end++
			digits++
		}
		if digits == 0 {
			return vberr.NewLexError(l.line, "malformed numeric literal "+string(l.src[start:end]))
		}
	}
	if end < len(l.src) && isIdentStart(l.src[end]) {
		return vberr.NewLexError(l.line, "malformed numeric literal "+string(l.src[start:end+1]))
	}
	l.emit(Token{Type: NumericLiteral, Content: string(l.src[start:end]), Line: l.line})
	l.pos = end
	return nil
}

func (l *lexer) word() error {
	start := l.pos
	end := l.pos
	for end < len(l.src) && isIdentChar(l.src[end]) {
		end++
	}
	word := string(l.src[start:end])
	if strings.EqualFold(word, "rem") {
		l.pos = start
		l.comment(end - start)
		return nil
	}
	l.emit(Token{Type: classifyWord(word), Content: word, Line: l.line})
	l.pos = end
	return nil
}

func (l *lexer) comparison() {
	c := l.src[l.pos]
	next := l.peek(1)
	symbol := string(c)
	if c == '<' && (next == '=' || next == '>') {
		symbol = string(c) + string(next)
	} else if c == '>' && next == '=' {
		symbol = ">="
	}
	l.emit(Token{Type: ComparisonOperator, Content: symbol, Line: l.line})
	l.pos += len(symbol)
}

func isIdentStart(c rune) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c rune) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isOctalDigit(c rune) bool {
	return c >= '0' && c <= '7'
}
