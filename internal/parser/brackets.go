package parser

import "github.com/Magicianred/vbscripttranslator/internal/lexer"

// standardiseBrackets normalises a call statement's token run so that the
// argument list is always explicitly parenthesised: "F 1, 2" and "F(1, 2)"
// converge on the same shape before stage two sees them.
func standardiseBrackets(run []lexer.Token) []lexer.Token {
	chainEnd := memberChainEnd(run)
	if chainEnd == 0 || chainEnd >= len(run) {
		return run
	}
	rest := run[chainEnd:]
	if rest[0].Is(lexer.OpenBrace) && matchingBrace(rest, 0) == len(rest)-1 {
		return run
	}
	line := rest[0].Line
	standardised := make([]lexer.Token, 0, len(run)+2)
	standardised = append(standardised, run[:chainEnd]...)
	standardised = append(standardised, lexer.Token{Type: lexer.OpenBrace, Content: "(", Line: line})
	standardised = append(standardised, rest...)
	return append(standardised, lexer.Token{Type: lexer.CloseBrace, Content: ")", Line: run[len(run)-1].Line})
}

// memberChainEnd returns the index just past the leading member access chain
// (name, name.name, and the .name form used inside With blocks), or 0 if the
// run does not start with one.
func memberChainEnd(run []lexer.Token) int {
	var i int
	switch {
	case len(run) > 1 && run[0].IsMemberAccessorToken() && run[1].IsNameLike():
		i = 2
	case len(run) > 0 && run[0].IsNameLike():
		i = 1
	default:
		return 0
	}
	for i+1 < len(run) && run[i].IsMemberAccessorToken() && run[i+1].IsNameLike() {
		i += 2
	}
	return i
}

// matchingBrace returns the index of the close brace matching the open brace
// at the given index, or -1.
func matchingBrace(run []lexer.Token, open int) int {
	depth := 0
	for i := open; i < len(run); i++ {
		switch {
		case run[i].Is(lexer.OpenBrace):
			depth++
		case run[i].Is(lexer.CloseBrace):
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
