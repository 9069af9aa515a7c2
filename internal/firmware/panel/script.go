package panel

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/entity"
)

var ErrBadScript = errors.New("invalid press script")

// Step is a set of buttons pressed together.
type Step []entity.ButtonID

// ParseScript reads a comma separated list of steps. Buttons joined with '+'
// are pressed in the same step: "1,3+5,2".
func ParseScript(script string, buttons int) ([]Step, error) {
	steps := []Step{}
	for _, field := range strings.Split(script, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		step := Step{}
		for _, part := range strings.Split(field, "+") {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return nil, fmt.Errorf("%w: '%s'", ErrBadScript, part)
			}
			if n < 1 || n > buttons {
				return nil, fmt.Errorf("%w: button %d out of range 1..%d", ErrBadScript, n, buttons)
			}
			step = append(step, entity.ButtonID(n))
		}
		sort.Slice(step, func(i, j int) bool { return step[i] < step[j] })
		steps = append(steps, step)
	}

	if len(steps) == 0 {
		return nil, fmt.Errorf("%w: no step", ErrBadScript)
	}
	return steps, nil
}

// Play holds every step down for hold, then waits gap before the next one.
func Play(ctx context.Context, pins []*VirtualPin, steps []Step, hold, gap time.Duration) error {
	for _, step := range steps {
		for _, id := range step {
			pins[id-1].Press()
		}
		if err := sleep(ctx, hold); err != nil {
			return err
		}

		for _, id := range step {
			pins[id-1].Release()
		}
		if err := sleep(ctx, gap); err != nil {
			return err
		}
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
