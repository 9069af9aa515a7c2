package encoder

import (
	"bytes"
	"errors"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/entity"
)

func TestEmit(t *testing.T) {
	tests := []struct {
		name   string
		ids    []entity.ButtonID
		output string
	}{
		{name: "single", ids: []entity.ButtonID{3}, output: "b3 "},
		{name: "index order", ids: []entity.ButtonID{5, 1, 3}, output: "b1 b3 b5 "},
		{name: "multi digit", ids: []entity.ButtonID{12}, output: "b12 "},
		{name: "nothing", ids: nil, output: ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			g := NewWithT(t)

			var buf bytes.Buffer
			g.Expect(New(&buf).Emit(test.ids...)).To(Succeed())
			g.Expect(buf.String()).To(Equal(test.output))
		})
	}
}

func TestEmitRejectsInvalidIndex(t *testing.T) {
	g := NewWithT(t)

	var buf bytes.Buffer
	err := New(&buf).Emit(1, 0)
	g.Expect(errors.Is(err, ErrInvalidButton)).To(BeTrue())
	g.Expect(buf.Len()).To(Equal(0))
}
