package main

import (
	"flag"
	"fmt"
	"os"
)

const productName = "cribdrag"
const cliBanner = productName + " CLI (cribctl)"

const usageText = `usage: cribctl <command> [flags] [args]

commands:
  xor       XOR two hex ciphertexts into a bit stream
  drag      drag cribs across a stream
  encode    encode text as 5-bit codes
  decode    decode 5-bit codes to text
  readable  test text against the readability heuristic
  table     print a code table
  verify    check the K xor 5 = H identity
  detect    guess what kind of input was given
  pipe      run operation pipelines and recipes
  config    print the resolved configuration
  remote    call a cribd server
  version   print the version
`

func init() {
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), cliBanner)
		fmt.Fprintln(flag.CommandLine.Output())
		fmt.Fprint(flag.CommandLine.Output(), usageText)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	if maybePrintVersion() {
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	os.Exit(dispatch(args))
}

func dispatch(args []string) int {
	switch args[0] {
	case "xor":
		return runXor(args[1:])
	case "drag":
		return runDrag(args[1:])
	case "encode":
		return runEncode(args[1:])
	case "decode":
		return runDecode(args[1:])
	case "readable":
		return runReadable(args[1:])
	case "table":
		return runTable(args[1:])
	case "verify":
		return runVerify(args[1:])
	case "detect":
		return runDetect(args[1:])
	case "pipe":
		return runPipe(args[1:])
	case "config":
		return runConfig(args[1:])
	case "remote":
		return runRemote(args[1:])
	case "version":
		return runVersion(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand: %s\n", args[0])
		flag.Usage()
		return 2
	}
}
