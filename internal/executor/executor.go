package executor

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/mattn/go-shellwords"
	"go.uber.org/zap"

	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/executor/common"
)

// Executor launches action command lines detached from the bridge. It never
// waits for the child beyond reaping it.
type Executor struct {
	dir string
}

func New() *Executor {
	return &Executor{}
}

// NewWithDir runs every command from dir.
func NewWithDir(dir string) *Executor {
	return &Executor{dir: dir}
}

// Split parses command like a POSIX shell would: quotes, escapes and
// environment variables.
func Split(command string) ([]string, error) {
	parser := shellwords.NewParser()
	parser.ParseEnv = true

	args, err := parser.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", common.ErrorParsingCommand, err)
	}
	return args, nil
}

// Launch starts command and returns as soon as the process exists.
// An empty command does nothing.
func (e *Executor) Launch(command string) error {
	if strings.TrimSpace(command) == "" {
		return nil
	}

	args, err := Split(command)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = e.dir
	detach(cmd)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w '%s': %s", common.ErrorLaunchingCommand, command, err)
	}

	pid := cmd.Process.Pid
	zap.S().Debugw("process started", "command", command, "pid", pid)

	go func() {
		err := cmd.Wait()
		zap.S().Debugw("process exited", "pid", pid, "error", err)
	}()

	return nil
}
