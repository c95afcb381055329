// Package poller pulls updates from the Bot API with long polling and
// feeds them to the dispatcher, one goroutine per update.
package poller

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/psewdon1m/hermes/internal/metrics"
	"github.com/psewdon1m/hermes/internal/telegram"
)

const errorBackoff = 5 * time.Second

// Dedup marks an update id as processed and reports whether it was seen
// for the first time.
type Dedup interface {
	MarkProcessed(ctx context.Context, updateID int) (bool, error)
}

type DispatchFunc func(ctx context.Context, upd telegram.Update)

type Poller struct {
	tg       *telegram.Client
	dedup    Dedup
	dispatch DispatchFunc
	logger   *zap.SugaredLogger
	offset   int
}

func New(tg *telegram.Client, dedup Dedup, dispatch DispatchFunc, logger *zap.SugaredLogger) *Poller {
	return &Poller{
		tg:       tg,
		dedup:    dedup,
		dispatch: dispatch,
		logger:   logger,
	}
}

// Run blocks until ctx is cancelled. Poll errors back off and retry; a
// single bad update never stops the loop.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("update poller started")

	for {
		if ctx.Err() != nil {
			p.logger.Info("update poller stopped")
			return nil
		}

		updates, err := p.tg.GetUpdates(ctx, p.offset)
		if err != nil {
			if ctx.Err() != nil {
				p.logger.Info("update poller stopped")
				return nil
			}
			p.logger.Errorw("failed to poll updates", "error", err)
			select {
			case <-time.After(errorBackoff):
			case <-ctx.Done():
				return nil
			}
			continue
		}

		for _, upd := range updates {
			p.offset = upd.UpdateID + 1

			first, err := p.dedup.MarkProcessed(ctx, upd.UpdateID)
			if err != nil {
				// Fail open: losing dedup for one update is better than
				// dropping it.
				p.logger.Errorw("failed to mark update processed",
					"update_id", upd.UpdateID,
					"error", err)
			} else if !first {
				metrics.UpdatesDuplicate.Inc()
				p.logger.Debugw("skipping duplicate update", "update_id", upd.UpdateID)
				continue
			}

			go p.dispatch(ctx, upd)
		}
	}
}
