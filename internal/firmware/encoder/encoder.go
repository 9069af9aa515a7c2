package encoder

import (
	"errors"
	"io"
	"sort"
	"strconv"

	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/entity"
)

const (
	// Prefix starts every button token.
	Prefix = 'b'
	// Separator ends every button token.
	Separator = ' '
)

var ErrInvalidButton = errors.New("encoder: button index must be >= 1")

// Encoder writes pressed-edge tokens on the outgoing serial line.
// There is no acknowledgement: a token lost on the wire is a missed press.
type Encoder struct {
	w io.Writer
}

func New(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// AppendToken appends "b<id> " to dst.
func AppendToken(dst []byte, id entity.ButtonID) []byte {
	dst = append(dst, Prefix)
	dst = strconv.AppendInt(dst, int64(id), 10)
	return append(dst, Separator)
}

// Emit writes one token per button in index order with a single write.
func (e *Encoder) Emit(ids ...entity.ButtonID) error {
	if len(ids) == 0 {
		return nil
	}

	sorted := make([]entity.ButtonID, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	buf := make([]byte, 0, 4*len(sorted))
	for _, id := range sorted {
		if !id.Valid() {
			return ErrInvalidButton
		}
		buf = AppendToken(buf, id)
	}

	_, err := e.w.Write(buf)
	return err
}
