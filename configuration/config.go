package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	prefix         = "BUTTONPAD"
	logLevel       = "log_level"
	settings       = "settings"
	port           = "port"
	portMatch      = "port_match"
	baud           = "baud"
	listen         = "listen"
	buttons        = "buttons"
	cycleButton    = "cycle_button"
	pressThreshold = "press_threshold"
	carryPartial   = "carry_partial"

	DefaultSettings       = "config.ini"
	DefaultPortMatch      = "1a86"
	DefaultBaud           = 9600
	DefaultListen         = "127.0.0.1:8765"
	DefaultButtons        = 5
	DefaultCycleButton    = 5
	DefaultPressThreshold = 500 * time.Millisecond
	DefaultLogLevel       = "info"
)

var v = newViper()

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(logLevel, DefaultLogLevel)
	v.SetDefault(settings, DefaultSettings)
	v.SetDefault(portMatch, DefaultPortMatch)
	v.SetDefault(baud, DefaultBaud)
	v.SetDefault(listen, DefaultListen)
	v.SetDefault(buttons, DefaultButtons)
	v.SetDefault(cycleButton, DefaultCycleButton)
	v.SetDefault(pressThreshold, DefaultPressThreshold)
	v.SetDefault(carryPartial, false)
	return v
}

func InitConfiguration(cmd *cobra.Command, configFile string) error {
	v = newViper()

	v.SetEnvPrefix(prefix)
	v.AutomaticEnv() // read in environment variables that match

	if len(configFile) > 0 {
		v.SetConfigFile(configFile)

		err := v.ReadInConfig()
		if err != nil {
			return fmt.Errorf("fail to read config file '%s': %w", configFile, err)
		}
	}

	// Bind the current command's flags to viper
	bindFlags(cmd, v)

	return nil
}

// Bind each cobra flag to its associated viper configuration (config file and environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// replace - with _ to match the config file keys
		flagName := f.Name
		if strings.Contains(f.Name, "-") {
			// Environment variables can't have dashes in them, so bind them to their equivalent
			// keys with underscores.
			flagName = strings.ReplaceAll(f.Name, "-", "_")
			v.BindEnv(flagName, fmt.Sprintf("%s_%s", prefix, strings.ToUpper(flagName)))
		}

		// Apply the viper config value to the flag when the flag is not set and viper has a value
		// and the other way around.
		if !f.Changed && v.IsSet(flagName) {
			val := v.Get(flagName)
			cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val))
		} else if f.Changed {
			v.Set(flagName, f.Value.String())
		}
	})
}

// GetConfigFileUsed is the file read by InitConfiguration, if any.
func GetConfigFileUsed() string {
	return v.ConfigFileUsed()
}

func GetLogLevel() string {
	return v.GetString(logLevel)
}

// GetSettingsPath is the profile store. The extension picks the format.
func GetSettingsPath() string {
	return v.GetString(settings)
}

// GetPort is an explicit serial device; empty means discovery.
func GetPort() string {
	return v.GetString(port)
}

func GetPortMatch() string {
	return v.GetString(portMatch)
}

func GetBaudRate() int {
	if b := v.GetInt(baud); b > 0 {
		return b
	}
	return DefaultBaud
}

// GetListenAddress is the control API address; empty disables it.
func GetListenAddress() string {
	return v.GetString(listen)
}

func GetButtons() int {
	if n := v.GetInt(buttons); n > 0 {
		return n
	}
	return DefaultButtons
}

func GetCycleButton() int {
	if n := v.GetInt(cycleButton); n > 0 {
		return n
	}
	return DefaultCycleButton
}

func GetPressThreshold() time.Duration {
	if d := v.GetDuration(pressThreshold); d >= 0 {
		return d
	}
	return DefaultPressThreshold
}

func GetCarryPartial() bool {
	return v.GetBool(carryPartial)
}
