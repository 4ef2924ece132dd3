package publishers

import "context"

// Publisher sends run reports to a downstream sink (SQS, SNS, Pub/Sub, HTTP).
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

// closer is implemented by publishers holding connections.
type closer interface {
	Close() error
}
