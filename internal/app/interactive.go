package app

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/capfix/internal/buffer"
	"github.com/dshills/capfix/internal/config"
	"github.com/dshills/capfix/internal/config/watcher"
	"github.com/dshills/capfix/internal/correct"
	"github.com/dshills/capfix/internal/settings"
	"github.com/dshills/capfix/internal/term"
)

// RunInteractive opens the first file, or an empty document, in the
// terminal editor on screen and blocks until the user quits or ctx is
// cancelled. Edits to the settings file are picked up while it runs.
func (a *Application) RunInteractive(ctx context.Context, screen tcell.Screen) error {
	if len(a.opts.Files) > 1 {
		return ErrTooManyFiles
	}
	var path string
	if len(a.opts.Files) == 1 {
		path = a.opts.Files[0]
	}

	buf, err := openDocument(path)
	if err != nil {
		return NewOperationError("open", path, err)
	}

	ctrl := correct.New(buf, a.store, correct.WithLogger(a.logger))
	buf.OnChange(ctrl.HandleChange)

	opts := []term.Option{term.WithPath(path), term.WithLogger(a.logger)}
	if cfgPath := a.loader.Path(); cfgPath != "" {
		opts = append(opts, term.WithPersist(func(s settings.Settings) error {
			return config.Save(cfgPath, s)
		}))
	}
	session := term.NewSession(screen, buf, ctrl, a.store, opts...)
	a.followSettings(session)

	if err := session.Init(); err != nil {
		return err
	}
	defer session.Close()

	if a.loader.Path() != "" {
		w, err := a.watchSettings(ctx, session)
		if err != nil {
			a.logger.Warn("live reload disabled: %v", err)
		} else {
			defer w.Close()
		}
	}

	err = session.Run(ctx)
	a.logger.Info("session ended: %+v", ctrl.Stats())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// watchSettings reloads the settings file on the session's event loop
// whenever it changes on disk.
func (a *Application) watchSettings(ctx context.Context, session *term.Session) (*watcher.Watcher, error) {
	w, err := watcher.New(watcher.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(a.loader.Path()); err != nil {
		w.Close()
		return nil, err
	}

	w.OnChange(func(ev watcher.Event) {
		if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
			return
		}
		err := session.Post(func() {
			if _, err := a.loader.Reload(a.store); err != nil {
				a.logger.Warn("reloading settings: %v", err)
				session.SetStatus("settings not reloaded: %v", err)
				return
			}
			a.logger.Info("settings reloaded from %s", ev.Path)
			session.SetStatus("settings reloaded")
		})
		if err != nil {
			a.logger.Warn("dropping settings reload: %v", err)
		}
	})

	if err := w.Start(ctx); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}

// followSettings redraws session whenever the settings change, so that
// updates made off the event loop show up in the status line.
func (a *Application) followSettings(session *term.Session) {
	a.store.Subscribe(func(l *settings.Lookup) {
		a.logger.Debug("settings changed: list items %t, sentences %t", l.ListItems, l.Sentences)
		// An empty interrupt is enough; the loop redraws after every event.
		_ = session.Post(func() {})
	})
}

// openDocument reads path into a buffer. A missing file opens empty.
func openDocument(path string) (*buffer.Buffer, error) {
	if path == "" {
		return buffer.NewBuffer(), nil
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return buffer.NewBuffer(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return buffer.NewBufferFromReader(f)
}
