package drift

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Play runs tracks concurrently and returns once all have completed — the
// shape of a page transition, where the outgoing and incoming sections
// animate in parallel. Nil tracks are skipped. The first non-nil error
// (in practice only ctx cancellation) is returned after all tracks stop.
func Play(ctx context.Context, tracks ...Track) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, track := range tracks {
		if track == nil {
			continue
		}
		g.Go(func() error {
			return track(ctx)
		})
	}
	return g.Wait()
}

// Step is one entry of a sequential timeline: an optional delay before the
// track starts.
type Step struct {
	Delay time.Duration
	Track Track
}

// PlaySequence runs steps in order, waiting out each step's delay before
// its track and returning after the last completes — the shape of an intro
// sequence. Nil tracks still honor their delay. Cancellation stops between
// steps and during delays.
func PlaySequence(ctx context.Context, steps ...Step) error {
	for _, step := range steps {
		if step.Delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(step.Delay):
			}
		}
		if step.Track == nil {
			continue
		}
		if err := step.Track(ctx); err != nil {
			return err
		}
	}
	return nil
}
