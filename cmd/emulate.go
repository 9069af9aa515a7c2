package cmd

import (
	"context"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	config "github.com/JoseTomasTocino/ArduinoButtonPad/configuration"
	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/firmware/encoder"
	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/firmware/input"
	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/firmware/panel"
	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/serial"
)

var (
	script   string
	hold     time.Duration
	gap      time.Duration
	pollRate time.Duration
)

var emulateCmd = &cobra.Command{
	Use:   "emulate",
	Short: "Run the panel firmware against scripted presses",
	Long: `emulate drives virtual buttons through the firmware loop and writes
the resulting tokens to --port, or to stdout when no port is given.

Example: buttonpad emulate --script "1,2,5,3+4"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		buttons := config.GetButtons()

		steps, err := panel.ParseScript(script, buttons)
		if err != nil {
			return err
		}

		var out io.Writer = cmd.OutOrStdout()
		if address := config.GetPort(); address != "" {
			port, err := serial.OpenWriter(address, config.GetBaudRate())
			if err != nil {
				return err
			}
			defer port.Close()
			out = port
		}

		vps := make([]*panel.VirtualPin, buttons)
		pins := make([]input.Pin, buttons)
		for i := range vps {
			vps[i] = panel.NewVirtualPin()
			pins[i] = vps[i]
		}

		p, err := panel.NewWithEncoder(pins, encoder.New(out))
		if err != nil {
			return err
		}
		if err := p.Initialize(); err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		loopDone := make(chan error, 1)
		go func() {
			loopDone <- p.Run(ctx, pollRate)
		}()

		zap.S().Infow("playing script", "steps", len(steps))
		if err := panel.Play(ctx, vps, steps, hold, gap); err != nil {
			return err
		}

		cancel()
		return <-loopDone
	},
}

func init() {
	emulateCmd.Flags().StringVar(&script, "script", "", "comma separated presses, '+' for simultaneous buttons")
	emulateCmd.Flags().DurationVar(&hold, "hold", 50*time.Millisecond, "how long each step is held")
	emulateCmd.Flags().DurationVar(&gap, "gap", 600*time.Millisecond, "pause after each step")
	emulateCmd.Flags().DurationVar(&pollRate, "poll", panel.DefaultPollInterval, "firmware poll interval")
	emulateCmd.MarkFlagRequired("script")
}

