package app

import (
	"io"
	"os"

	"github.com/dshills/capfix/internal/buffer"
	"github.com/dshills/capfix/internal/correct"
)

// Fix corrects every file given in the options. Corrected text is written
// back to the file when Write is set and printed to out otherwise. A failing
// file does not stop the others; all failures are returned together.
func (a *Application) Fix(out io.Writer) error {
	if len(a.opts.Files) == 0 {
		return ErrNoFiles
	}

	var errs ErrorList
	total := 0
	for _, path := range a.opts.Files {
		n, err := a.fixFile(path, out)
		if err != nil {
			a.logger.Error("%v", err)
			errs.Add(err)
			continue
		}
		total += n
	}
	a.logger.Info("%d corrections in %d files", total, len(a.opts.Files)-errs.Len())
	return errs.AsError()
}

func (a *Application) fixFile(path string, out io.Writer) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, NewOperationError("read", path, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, NewOperationError("read", path, err)
	}
	buf, err := buffer.NewBufferFromReader(f)
	f.Close()
	if err != nil {
		return 0, NewOperationError("read", path, err)
	}

	n, err := correct.FixDocument(buf, a.store.Lookup())
	if err != nil {
		return 0, NewOperationError("fix", path, err)
	}
	a.logger.WithField("file", path).Debug("%d corrections", n)

	if !a.opts.Write {
		if _, err := io.WriteString(out, buf.Text()); err != nil {
			return 0, NewOperationError("print", path, err)
		}
		return n, nil
	}
	if n == 0 {
		return 0, nil
	}
	if err := os.WriteFile(path, []byte(buf.Text()), info.Mode().Perm()); err != nil {
		return 0, NewOperationError("write", path, err)
	}
	return n, nil
}
