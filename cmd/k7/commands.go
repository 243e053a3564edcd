package main

import (
	"fmt"
	"io"
	"net/http"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"

	"github.com/seborama/k7"
	"github.com/seborama/k7/cassette"
	k7err "github.com/seborama/k7/cassette/errors"
	"github.com/seborama/k7/storage"
)

func fileStorage(cf *cassetteFlags) (*storage.File[k7.RequestKey, k7.Response], error) {
	crypter, err := cf.crypter()
	if err != nil {
		return nil, err
	}

	var opts []storage.Option
	if crypter != nil {
		opts = append(opts, storage.WithCrypter(crypter))
	}

	return k7.NewFileStorage(opts...), nil
}

// loadCassette loads an existing cassette. Unlike cassette.Load, a missing
// cassette is an error here.
func loadCassette(cf *cassetteFlags) (*k7.Cassette, error) {
	fs, err := fileStorage(cf)
	if err != nil {
		return nil, err
	}

	records, err := fs.Load(cf.cassetteFile)
	if err != nil {
		if errors.Is(err, k7err.ErrNotFoundInStorage) {
			return nil, errors.Errorf("cassette '%s' does not exist", cf.cassetteFile)
		}
		return nil, err
	}

	k7Cassette := cassette.New[k7.RequestKey, k7.Response](cf.cassetteFile, fs, cassette.WithReadOnly())
	for _, r := range records {
		k7Cassette.Append(r.Request, r.Response)
	}

	return k7Cassette, nil
}

func dump(out io.Writer, cf *cassetteFlags) error {
	fs, err := fileStorage(cf)
	if err != nil {
		return err
	}

	data, err := fs.Dump(cf.cassetteFile)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, string(data))
	return errors.WithStack(err)
}

func info(out io.Writer, cf *cassetteFlags) error {
	k7Cassette, err := loadCassette(cf)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "%s: %s\n", cf.cassetteFile, k7Cassette)
	return errors.WithStack(err)
}

func list(out io.Writer, cf *cassetteFlags) error {
	k7Cassette, err := loadCassette(cf)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Method", "URL", "Status", "Size"})

	for i, r := range k7Cassette.Records() {
		t.AppendRow(table.Row{i + 1, r.Request.Method, r.Request.URL, statusText(r.Response.StatusCode), len(r.Response.Body)})
	}

	t.AppendFooter(table.Row{"", "", "", "Total", k7Cassette.Len()})
	t.Render()

	return nil
}

func statusText(code int) string {
	if text := http.StatusText(code); text != "" {
		return fmt.Sprintf("%d %s", code, text)
	}
	return fmt.Sprintf("%d", code)
}
