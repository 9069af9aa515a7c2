/*
Copyright © 2022 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	config "github.com/JoseTomasTocino/ArduinoButtonPad/configuration"
	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/autostart"
	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/display"
	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/entity"
	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/executor"
	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/serial"
	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/server"
	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/session"
	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/store"
)

var (
	configFile string
	logLevel   string
	undoLogger func()
)

var rootCmd = &cobra.Command{
	Use:   "buttonpad",
	Short: "Serial button pad bridge",
	Long: `buttonpad reads button presses sent by the panel over a serial line
and launches the command bound to the button in the current profile.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.InitConfiguration(cmd, configFile); err != nil {
			return err
		}

		output := "stdout"
		// tokens go to stdout when emulating without a port
		if cmd == emulateCmd && config.GetPort() == "" {
			output = "stderr"
		}

		logger := setupLogger(config.GetLogLevel(), output)
		undoLogger = zap.ReplaceGlobals(logger)
		if used := config.GetConfigFileUsed(); used != "" {
			zap.S().Infof("using config file: %v", used)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		zap.L().Sync()
		if undoLogger != nil {
			undoLogger()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		buttons := config.GetButtons()
		cycleButton := entity.ButtonID(config.GetCycleButton())

		repository, err := store.New(config.GetSettingsPath(), buttons)
		if err != nil {
			return err
		}

		autostartEntry, err := autostart.NewXDG()
		if err != nil {
			return err
		}

		view := display.New(buttons, cycleButton)

		sess := session.New(session.Config{
			Slots:        buttons,
			CycleButton:  cycleButton,
			Threshold:    config.GetPressThreshold(),
			CarryPartial: config.GetCarryPartial(),
		}, repository, view, executor.New(), autostartEntry)
		manager := session.NewManager(sess)

		link := serial.NewLink(
			serial.Config{Port: config.GetPort(), Match: config.GetPortMatch()},
			serial.NewScanner(),
			serial.NewOpener(config.GetBaudRate(), serial.DefaultReadTimeout),
			view,
		)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		done := make(chan os.Signal, 1)
		signal.Notify(done, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-done:
				zap.S().Infow("signal received, shutting down", "signal", sig.String())
				cancel()
			case <-ctx.Done():
			}
		}()

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return manager.Run(ctx)
		})
		g.Go(func() error {
			return link.Run(ctx, manager)
		})

		if addr := config.GetListenAddress(); addr != "" {
			srv := server.New(addr, manager, view, link)
			g.Go(func() error {
				return srv.Run(ctx)
			})
		}

		zap.S().Infow("buttonpad started", "settings", config.GetSettingsPath(), "buttons", buttons, "cycle_button", cycleButton.String())

		return g.Wait()
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level")
	rootCmd.PersistentFlags().String("port", "", "serial device (skips discovery)")
	rootCmd.PersistentFlags().Int("baud", config.DefaultBaud, "serial baud rate")
	rootCmd.PersistentFlags().Int("buttons", config.DefaultButtons, "number of buttons on the panel")

	rootCmd.Flags().String("settings", config.DefaultSettings, "profile store (.ini, .yaml or .yml)")
	rootCmd.Flags().String("port-match", config.DefaultPortMatch, "substring used to discover the serial device")
	rootCmd.Flags().String("listen", config.DefaultListen, "control api address, empty to disable")
	rootCmd.Flags().Int("cycle-button", config.DefaultCycleButton, "button cycling profiles")
	rootCmd.Flags().Duration("press-threshold", config.DefaultPressThreshold, "minimum time between two presses of a button")
	rootCmd.Flags().Bool("carry-partial", false, "keep a token split across two reads")

	rootCmd.AddCommand(emulateCmd, portsCmd)
}

func setupLogger(level, output string) *zap.Logger {
	loggerCfg := &zap.Config{
		Level:    zap.NewAtomicLevelAt(zapcore.InfoLevel),
		Encoding: "json",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "time",
			LevelKey:       "severity",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "message",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeTime:     zapcore.RFC3339TimeEncoder,
			EncodeDuration: zapcore.MillisDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
	}

	atomicLogLevel, err := zap.ParseAtomicLevel(level)
	if err == nil {
		loggerCfg.Level = atomicLogLevel
	}

	plain, err := loggerCfg.Build(zap.AddStacktrace(zap.DPanicLevel))
	if err != nil {
		panic(err)
	}

	return plain
}
