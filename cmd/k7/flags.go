package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/seborama/k7/encryption"
)

const envCassetteKey = "K7_CASSETTE_KEY"

type cassetteFlags struct {
	cassetteFile string
	keyFile      string
	cipher       string
}

func newFlagSet(name, usage string, cf *cassetteFlags) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetInterspersed(true)

	fs.StringVar(&cf.cassetteFile, "cassette-file", "", "location of the cassette file")
	fs.StringVar(&cf.keyFile, "key-file", "", "location of the encryption key file")
	fs.StringVar(&cf.cipher, "cipher", encryption.KindAESGCM,
		"cipher of an encrypted cassette: "+encryption.KindAESGCM+" or "+encryption.KindChaCha20Poly1305)

	fs.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage: k7 %s [options]\n\n%s\n\nOptions:\n", name, usage)
		fs.PrintDefaults()
	}

	return fs
}

func (cf *cassetteFlags) validate() error {
	if cf.cassetteFile == "" {
		return errors.New("please specify a cassette file with the 'cassette-file' argument")
	}

	return nil
}

// crypter returns nil when no key was supplied.
func (cf *cassetteFlags) crypter() (*encryption.Crypter, error) {
	var (
		key []byte
		err error
	)

	switch {
	case cf.keyFile != "":
		key, err = encryption.KeyFromFile(cf.keyFile)
	case os.Getenv(envCassetteKey) != "":
		key, err = encryption.KeyFromBase64(os.Getenv(envCassetteKey))
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	crypter, err := encryption.NewCrypterOfKind(cf.cipher, key)
	if err != nil {
		return nil, errors.Wrap(err, "cryptographer")
	}

	return crypter, nil
}

func parseDump(args []string, out io.Writer) error {
	var cf cassetteFlags

	fs := newFlagSet("dump", "Print a cassette as JSON, decrypted and decompressed.", &cf)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := cf.validate(); err != nil {
		return err
	}

	return dump(out, &cf)
}

func parseInfo(args []string, out io.Writer) error {
	var cf cassetteFlags

	fs := newFlagSet("info", "Print a summary of a cassette.", &cf)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := cf.validate(); err != nil {
		return err
	}

	return info(out, &cf)
}

func parseList(args []string, out io.Writer) error {
	var cf cassetteFlags

	fs := newFlagSet("list", "Print the requests recorded on a cassette.", &cf)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := cf.validate(); err != nil {
		return err
	}

	return list(out, &cf)
}
