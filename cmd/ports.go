package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	config "github.com/JoseTomasTocino/ArduinoButtonPad/configuration"
	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/serial"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial devices and the one discovery would pick",
	RunE: func(cmd *cobra.Command, args []string) error {
		scanner := serial.NewScanner()

		candidates := scanner.Candidates()
		if len(candidates) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Current serial port: none")
			return nil
		}

		selected, _ := scanner.Find(config.GetPortMatch())
		if explicit := config.GetPort(); explicit != "" {
			selected = explicit
		}

		for _, c := range candidates {
			marker := " "
			if c == selected {
				marker = "*"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, c)
		}
		return nil
	},
}

func init() {
	portsCmd.Flags().String("port-match", config.DefaultPortMatch, "substring used to discover the serial device")
}
