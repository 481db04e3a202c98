package service

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Saver persists everything held in memory and reports how many records it
// wrote.
type Saver interface {
	Save() int
}

// Autosaver calls Save on a fixed interval and once more on Close.
type Autosaver struct {
	saver    Saver
	interval time.Duration
	silent   bool
	logger   *zap.Logger

	ticker   *time.Ticker
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	final    int
}

// NewAutosaver starts periodic saving. An interval of zero or less disables
// the timer; Close still performs the shutdown save. When silent is set the
// periodic log line is suppressed.
func NewAutosaver(saver Saver, interval time.Duration, silent bool, logger *zap.Logger) *Autosaver {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Autosaver{
		saver:    saver,
		interval: interval,
		silent:   silent,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	if interval <= 0 {
		close(a.done)
		logger.Info("Autosave disabled")
		return a
	}

	a.ticker = time.NewTicker(interval)
	go a.run()

	logger.Info("Autosave started", zap.Duration("interval", interval))
	return a
}

// run saves on every tick until Close is called.
func (a *Autosaver) run() {
	defer close(a.done)
	for {
		select {
		case <-a.ticker.C:
			saved := a.saver.Save()
			if saved > 0 && !a.silent {
				a.logger.Info("Auto-saved chests", zap.Int("count", saved))
			}
		case <-a.stop:
			return
		}
	}
}

// Close stops the timer, waits for an in-flight save and performs the final
// save. It returns the number of chests written by that final save; later
// calls return the same number without saving again.
func (a *Autosaver) Close() int {
	a.stopOnce.Do(func() {
		if a.ticker != nil {
			a.ticker.Stop()
		}
		close(a.stop)
		<-a.done

		a.final = a.saver.Save()
		a.logger.Info("Saved chests", zap.Int("count", a.final))
	})
	return a.final
}
