package main

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/RowanDark/cribdrag/internal/config"
)

func runConfig(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "config subcommand required")
		return 2
	}

	switch args[0] {
	case "print":
		return runConfigPrint()
	default:
		fmt.Fprintf(os.Stderr, "unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func runConfigPrint() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}
	if err := printResolvedConfig(os.Stdout, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "print config: %v\n", err)
		return 1
	}
	return 0
}

// printResolvedConfig writes cfg as YAML with the auth token masked.
func printResolvedConfig(out io.Writer, cfg config.Config) error {
	if cfg.Server.AuthToken != "" {
		cfg.Server.AuthToken = "********"
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}
