package main

import (
	"os"

	"github.com/vzahanych/weather-report/cmd"
)

func main() {
	os.Exit(cmd.ExitCode(cmd.Execute()))
}
