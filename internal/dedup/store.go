// Package dedup tracks webhook delivery IDs so redelivered events do
// not enqueue duplicate review jobs.
package dedup

import "context"

type Store interface {
	Seen(ctx context.Context, key string) bool
	Mark(ctx context.Context, key string) error
}
