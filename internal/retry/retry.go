// Package retry runs an operation a bounded number of times with
// doubling backoff. Used for the review submission call, which the
// platform occasionally rejects transiently.
package retry

import (
	"context"
	"time"
)

type Fn func() error

func Do(ctx context.Context, attempts int, wait time.Duration, fn Fn) error {

	var err error

	for i := 0; i < attempts; i++ {

		if ctx.Err() != nil {
			return ctx.Err()
		}

		err = fn()
		if err == nil {
			return nil
		}

		if i == attempts-1 {
			break
		}

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
		wait = wait * 2
	}

	return err
}
