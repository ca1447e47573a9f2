package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/RowanDark/cribdrag/internal/config"
	"github.com/RowanDark/cribdrag/internal/crib"
	"github.com/RowanDark/cribdrag/internal/rpc"
)

func runRemote(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "remote subcommand required (drag, xor, decode)")
		return 2
	}
	switch args[0] {
	case "drag":
		return runRemoteDrag(args[1:])
	case "xor":
		return runRemoteXor(args[1:])
	case "decode":
		return runRemoteDecode(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown remote subcommand: %s\n", args[0])
		return 2
	}
}

type remoteFlags struct {
	addr    *string
	token   *string
	timeout *time.Duration
}

func addRemoteFlags(fs *flag.FlagSet, cfg config.Config) remoteFlags {
	return remoteFlags{
		addr:    fs.String("addr", cfg.Server.Addr, "cribd address"),
		token:   fs.String("token", cfg.Server.AuthToken, "bearer token"),
		timeout: fs.Duration("timeout", 30*time.Second, "call timeout"),
	}
}

func (rf remoteFlags) dial() (*rpc.Client, context.Context, context.CancelFunc, error) {
	client, err := rpc.Dial(*rf.addr, *rf.token)
	if err != nil {
		return nil, nil, nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), *rf.timeout)
	return client, ctx, cancel, nil
}

func runRemoteDrag(args []string) int {
	cfg, ok := loadConfig()
	if !ok {
		return 1
	}
	fs := flag.NewFlagSet("remote drag", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	rf := addRemoteFlags(fs, cfg)
	stream := fs.String("stream", "", "XOR bit stream to search")
	maxPositions := fs.Int("max", 0, "maximum offsets to try (0 = server default)")
	showAll := fs.Bool("all", false, "list unreadable placements too")
	asJSON := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *stream == "" || fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: cribctl remote drag -stream BITS [flags] CRIB...")
		return 2
	}

	client, ctx, cancel, err := rf.dial()
	if err != nil {
		fmt.Fprintf(os.Stderr, "remote: %v\n", err)
		return 1
	}
	defer cancel()
	defer client.Close()

	var responses []rpc.DragResponse
	for _, c := range fs.Args() {
		resp, err := client.DragCrib(ctx, rpc.DragRequest{
			Stream:       *stream,
			Crib:         c,
			MaxPositions: *maxPositions,
			ReadableOnly: *asJSON && cfg.ReadableOnly && !*showAll,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "remote drag %q: %v\n", c, err)
			return 1
		}
		responses = append(responses, resp)
		if !*asJSON {
			if err := crib.Format(os.Stdout, c, resp.Matches, *showAll); err != nil {
				fmt.Fprintf(os.Stderr, "write report: %v\n", err)
				return 1
			}
		}
	}
	if *asJSON {
		return printJSON(responses)
	}
	return 0
}

func runRemoteXor(args []string) int {
	cfg, ok := loadConfig()
	if !ok {
		return 1
	}
	fs := flag.NewFlagSet("remote xor", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	rf := addRemoteFlags(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: cribctl remote xor [flags] HEX1 HEX2")
		return 2
	}

	client, ctx, cancel, err := rf.dial()
	if err != nil {
		fmt.Fprintf(os.Stderr, "remote: %v\n", err)
		return 1
	}
	defer cancel()
	defer client.Close()

	resp, err := client.ComputeXorStream(ctx, fs.Arg(0), fs.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "remote xor: %v\n", err)
		return 1
	}
	fmt.Printf("stream:  %s\n", resp.Stream)
	fmt.Printf("codes:   %s\n", strings.Join(resp.Chunks, " "))
	fmt.Printf("decoded: %s\n", resp.Decoded)
	return 0
}

func runRemoteDecode(args []string) int {
	cfg, ok := loadConfig()
	if !ok {
		return 1
	}
	fs := flag.NewFlagSet("remote decode", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	rf := addRemoteFlags(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	bits, err := argOrStdin(fs.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	client, ctx, cancel, err := rf.dial()
	if err != nil {
		fmt.Fprintf(os.Stderr, "remote: %v\n", err)
		return 1
	}
	defer cancel()
	defer client.Close()

	text, err := client.Decode(ctx, strings.Join(strings.Fields(bits), ""))
	if err != nil {
		fmt.Fprintf(os.Stderr, "remote decode: %v\n", err)
		return 1
	}
	fmt.Println(text)
	return 0
}
