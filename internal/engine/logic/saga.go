package logic

import (
	"context"

	"github.com/go-arcade/orgman/pkg/log"
)

// SagaStep is one forward action of a multi-step operation together with the
// action that undoes it. Compensate may be nil when the step leaves nothing
// behind on failure of a later step.
type SagaStep struct {
	Name       string
	Run        func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// RunSaga executes the steps in order. When step k fails, the compensations
// of steps k-1..0 run in reverse order and the step error is returned
// untouched: compensation failures are logged, never retried and never mask
// the primary error.
func RunSaga(ctx context.Context, steps []SagaStep) error {
	for i, step := range steps {
		if err := step.Run(ctx); err != nil {
			compensate(ctx, steps[:i])
			return err
		}
	}

	return nil
}

func compensate(ctx context.Context, completed []SagaStep) {
	for i := len(completed) - 1; i >= 0; i-- {
		step := completed[i]
		if step.Compensate == nil {
			continue
		}

		if err := step.Compensate(ctx); err != nil {
			log.Errorf("failed to compensate step '%s': %v", step.Name, err)
		}
	}
}
