package main

import "github.com/JoseTomasTocino/ArduinoButtonPad/cmd"

func main() {
	cmd.Execute()
}
