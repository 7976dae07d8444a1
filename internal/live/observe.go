package live

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Observe emits load's result once, then again after every change to one of tables,
// until ctx is done. The returned channel is closed when the projection stops.
// A failed load is logged and skipped; the next change retries it.
func Observe[T any](ctx context.Context, hub *Hub, load func(ctx context.Context) (T, error), tables ...string) <-chan T {
	out := make(chan T)
	// Subscribe before the first load so a write racing with it is not missed.
	changes, cancel := hub.Subscribe(tables...)
	log.Debug().Strs("tables", tables).Int("subscribers", hub.Subscribers()).Msg("live: projection started")

	go func() {
		defer close(out)
		defer cancel()

		emit := func() bool {
			value, err := load(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return false
				}
				log.Error().Err(err).Strs("tables", tables).Msg("live: reloading projection failed")
				return true
			}
			select {
			case out <- value:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok || !emit() {
					return
				}
			}
		}
	}()
	return out
}
