package main

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

const exitCodeFailure = 100

func main() {
	// a missing .env is fine, the environment may already hold the key.
	_ = godotenv.Load()

	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}

		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFailure)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		help()
		return errors.New("missing sub-command")
	}

	switch args[0] {
	case "dump", "decrypt":
		return parseDump(args[1:], out)

	case "info":
		return parseInfo(args[1:], out)

	case "list":
		return parseList(args[1:], out)

	case "help", "-h", "--help":
		help()
		return pflag.ErrHelp

	default:
		help()
		return errors.Errorf("unknown sub-command '%s'", args[0])
	}
}

func help() {
	_, _ = fmt.Fprint(os.Stderr, `Usage: k7 <command> [options]

Commands:
   dump: prints a cassette as JSON, decrypted and decompressed.
   info: prints a summary of a cassette.
   list: prints the requests recorded on a cassette.

The encryption key is read from --key-file or, failing that, from the base64
encoded K7_CASSETTE_KEY environment variable (a .env file is honoured).
`)
}
