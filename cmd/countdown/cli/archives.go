package cli

import (
	"context"

	"braces.dev/errtrace"

	"github.com/tickworks/countdown"
	"github.com/tickworks/countdown/history"
	"github.com/tickworks/countdown/journal"
	"github.com/tickworks/countdown/log"
)

// openArchives wires the configured run archive and event journal to
// every engine mgr creates. The returned function detaches and closes
// them.
func openArchives(mgr *countdown.Manager) (closeFn func(), err error) {
	var closers []func()
	closeAll := func() {
		for _, fn := range closers {
			fn()
		}
	}

	if conf.HistoryPath != "" {
		store, err := history.OpenStore(conf.HistoryPath)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		unbind := history.BindManager(store, mgr)
		closers = append(closers, func() {
			unbind()
			if err := store.Close(); err != nil {
				log.Default().Error("closing run archive", "error", err)
			}
		})
	}

	if conf.JournalPath != "" {
		fj, err := journal.NewFileJournal(conf.JournalPath)
		if err != nil {
			closeAll()
			return nil, errtrace.Wrap(err)
		}
		remove := mgr.OnNewEngine(func(_ context.Context, eng *countdown.Engine) {
			journal.Bind(fj, eng)
		})
		closers = append(closers, func() {
			remove()
			if err := fj.Close(); err != nil {
				log.Default().Error("closing event journal", "error", err)
			}
		})
	}

	return closeAll, nil
}
