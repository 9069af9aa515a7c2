package executor

import (
	"errors"
	"runtime"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/executor/common"
)

func TestSplit(t *testing.T) {
	t.Setenv("BUTTONPAD_TEST_DIR", "/tmp/pad")

	tests := []struct {
		input  string
		output []string
	}{
		{input: "notepad", output: []string{"notepad"}},
		{input: `code --new-window "my project"`, output: []string{"code", "--new-window", "my project"}},
		{input: `xdg-open '/home/me/some file.pdf'`, output: []string{"xdg-open", "/home/me/some file.pdf"}},
		{input: "ls $BUTTONPAD_TEST_DIR", output: []string{"ls", "/tmp/pad"}},
		{input: `echo a\ b`, output: []string{"echo", "a b"}},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			g := NewWithT(t)

			args, err := Split(test.input)
			g.Expect(err).To(BeNil())
			g.Expect(args).To(Equal(test.output))
		})
	}
}

func TestSplitUnbalancedQuote(t *testing.T) {
	g := NewWithT(t)

	_, err := Split(`echo "unterminated`)
	g.Expect(errors.Is(err, common.ErrorParsingCommand)).To(BeTrue())
}

func TestLaunch(t *testing.T) {
	g := NewWithT(t)

	e := New()
	g.Expect(e.Launch("")).To(Succeed())
	g.Expect(e.Launch("   ")).To(Succeed())

	err := e.Launch("buttonpad-no-such-binary --flag")
	g.Expect(errors.Is(err, common.ErrorLaunchingCommand)).To(BeTrue())

	if runtime.GOOS != "windows" {
		g.Expect(NewWithDir(t.TempDir()).Launch("true")).To(Succeed())
	}
}
