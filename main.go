package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"jumptimer/internal/di"
	"jumptimer/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVarP(&flags.ConfigPath, "config", "c", "config.yaml", "path to the YAML config file")
	flag.BoolVarP(&flags.DebugMode, "debug", "d", false, "also log to stdout")
	flag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "jumptimer: %s\n", err)
		os.Exit(1)
	}
}
