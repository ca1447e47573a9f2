package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/RowanDark/cribdrag/internal/cipher"
)

func runDetect(args []string) int {
	fs := flag.NewFlagSet("detect", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	input, err := argOrStdin(fs.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	results, err := cipher.DecodeAll(context.Background(), []byte(input))
	if err != nil {
		fmt.Fprintf(os.Stderr, "detect: %v\n", err)
		return 1
	}
	if *asJSON {
		return printJSON(results)
	}
	if len(results) == 0 {
		fmt.Println("no plausible interpretation")
		return 1
	}
	for _, r := range results {
		fmt.Printf("%-12s %3.0f%%  %s\n", r.Detection.Kind, r.Detection.Confidence*100, r.Detection.Reasoning)
		if r.Success {
			fmt.Printf("  %s -> %s\n", r.Detection.Operation, r.Output)
		} else {
			fmt.Printf("  %s failed: %s\n", r.Detection.Operation, r.Error)
		}
	}
	return 0
}
