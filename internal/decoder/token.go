package decoder

type Token int

const (
	ILLEGAL Token = iota
	EOF

	// b<digits>
	BUTTON
)

var tokenNames = map[Token]string{
	ILLEGAL: "illegal",
	EOF:     "EOF",
	BUTTON:  "button",
}

func (t Token) String() string {
	return tokenNames[t]
}
