package decoder

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/entity"
	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/metrics"
)

// MaxPending bounds the carried partial token. A longer run without
// whitespace cannot be a useful token and is dropped.
const MaxPending = 32

type Option func(*Decoder)

// WithCarry keeps a trailing unterminated token and prepends it to the next
// chunk.
func WithCarry() Option {
	return func(d *Decoder) {
		d.carry = true
	}
}

// Decoder turns serial chunks into button ids. Malformed tokens never
// produce errors; they are dropped and logged at debug level.
type Decoder struct {
	carry   bool
	pending []byte
}

func New(opts ...Option) *Decoder {
	d := &Decoder{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode returns the button ids found in chunk, in token order.
func (d *Decoder) Decode(chunk []byte) []entity.ButtonID {
	src := chunk
	if d.carry && len(d.pending) > 0 {
		src = make([]byte, 0, len(d.pending)+len(chunk))
		src = append(src, d.pending...)
		src = append(src, chunk...)
		d.pending = d.pending[:0]
	}

	type word struct {
		tok  Token
		text string
	}

	l := newLexer(src)
	words := []word{}
	for {
		_, tok, text := l.Scan()
		if tok == EOF {
			break
		}
		words = append(words, word{tok: tok, text: text})
	}

	// the final word may continue in the next chunk
	if d.carry && l.Unterminated() && len(words) > 0 {
		tail := words[len(words)-1].text
		words = words[:len(words)-1]
		if len(tail) <= MaxPending {
			d.pending = append(d.pending[:0], tail...)
		} else {
			metrics.TokensDropped.Inc()
			zap.S().Debugw("dropping oversized partial token", "length", len(tail))
		}
	}

	var ids []entity.ButtonID
	for _, w := range words {
		ids = d.accept(ids, w.tok, w.text)
	}

	return ids
}

// Flush decodes whatever partial token is held. Used when the link closes.
func (d *Decoder) Flush() []entity.ButtonID {
	if len(d.pending) == 0 {
		return nil
	}
	l := newLexer(d.pending)
	_, tok, text := l.Scan()
	d.pending = d.pending[:0]
	return d.accept(nil, tok, text)
}

// Pending returns the carried partial token.
func (d *Decoder) Pending() string {
	return string(d.pending)
}

func (d *Decoder) accept(ids []entity.ButtonID, tok Token, text string) []entity.ButtonID {
	id, ok := parseButton(text)
	if tok != BUTTON || !ok {
		metrics.TokensDropped.Inc()
		zap.S().Debugw("dropped malformed token", "token", text)
		return ids
	}
	metrics.TokensDecoded.Inc()
	return append(ids, id)
}

// Decode is a stateless decode of one chunk without carry-over.
func Decode(chunk []byte) []entity.ButtonID {
	return New().Decode(chunk)
}

// parseButton accepts "b" followed by decimal digits naming an index >= 1
// that fits in 32 bits. Leading zeros are allowed.
func parseButton(text string) (entity.ButtonID, bool) {
	if !isButton(text) {
		return 0, false
	}
	n, err := strconv.ParseUint(text[1:], 10, 31)
	if err != nil || n == 0 {
		return 0, false
	}
	return entity.ButtonID(n), true
}
