package common

import "errors"

var (
	ErrorParsingCommand   = errors.New("failed to parse command line")
	ErrorLaunchingCommand = errors.New("failed to launch command")
)
