package health

import "context"

// Pinger checks that a backing component answers.
type Pinger interface {
	Ping(ctx context.Context) error
}
