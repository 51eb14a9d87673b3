package semaphore

import "context"

// Gateway is the set of operations offered by the Semaphore API.
type Gateway interface {
	Balance(ctx context.Context) (Response, error)
	Send(ctx context.Context, recipient, message string) (Response, error)

	Account(ctx context.Context) (Response, error)
	Users(ctx context.Context) (Response, error)
	SenderNames(ctx context.Context) (Response, error)
	Transactions(ctx context.Context) (Response, error)
}
