package decoder

// lexer splits the input on runs of ASCII whitespace. Every non-blank run is
// either a BUTTON token or an ILLEGAL one.
type lexer struct {
	src    []byte
	ch     byte
	offset int
	pos    int
	// eof is set once ch holds no byte.
	eof bool
}

func newLexer(src []byte) *lexer {
	l := &lexer{src: src}
	l.next()

	return l
}

// Scan returns the position, kind and text of the next token.
func (l *lexer) Scan() (int, Token, string) {
	for !l.eof && isSpace(l.ch) {
		l.next()
	}

	if l.eof {
		return l.pos, EOF, ""
	}

	pos := l.pos
	for !l.eof && !isSpace(l.ch) {
		l.next()
	}
	word := string(l.src[pos:l.pos])

	if isButton(word) {
		return pos, BUTTON, word
	}

	return pos, ILLEGAL, word
}

// Unterminated reports whether the input ends inside a token, with no
// trailing separator.
func (l *lexer) Unterminated() bool {
	return len(l.src) > 0 && !isSpace(l.src[len(l.src)-1])
}

// Load the next byte into l.ch and advance; l.pos is the offset of l.ch.
func (l *lexer) next() {
	if l.offset >= len(l.src) {
		l.pos = len(l.src)
		l.ch = 0
		l.eof = true
		return
	}
	l.pos = l.offset
	l.ch = l.src[l.offset]
	l.offset++
}

func isButton(word string) bool {
	if len(word) < 2 || word[0] != 'b' {
		return false
	}
	for i := 1; i < len(word); i++ {
		if !isDigit(word[i]) {
			return false
		}
	}
	return true
}

func isSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
