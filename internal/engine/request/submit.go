package request

import (
	"context"

	"github.com/go-arcade/orgman/internal/engine/errs"
)

// Submit places a request on a dispatch channel. It fails synchronously when
// the request can never be picked up: the channel is closed (all workers
// stopped) or the context ends while the bounded channel stays full. A
// submitted request is therefore never silently dropped.
func Submit[T any](ctx context.Context, requests chan<- T, req T) (err error) {
	defer func() {
		if recover() != nil {
			err = errs.New(errs.KindInternalFailure, "failed to send request: channel is closed")
		}
	}()

	select {
	case requests <- req:
		return nil
	case <-ctx.Done():
		return errs.Newf(errs.KindInternalFailure, "failed to send request: %v", ctx.Err())
	}
}
