package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"slotbook/models"

	"github.com/hibiken/asynq"
)

// TypeConfirmationSend is the asynq task type for confirmation delivery.
const TypeConfirmationSend = "confirmation:send"

// NewConfirmationTask builds the delivery task for a confirmation.
func NewConfirmationTask(confirmation models.Confirmation) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(confirmation)
	if err != nil {
		return nil, nil, err
	}
	opts := []asynq.Option{
		asynq.MaxRetry(5),
		asynq.Timeout(30 * time.Second),
	}
	return asynq.NewTask(TypeConfirmationSend, b), opts, nil
}

// AsynqDispatcher implements Dispatcher over an asynq client.
type AsynqDispatcher struct {
	Client *asynq.Client
}

func (d *AsynqDispatcher) EnqueueConfirmation(ctx context.Context, confirmation models.Confirmation) error {
	task, opts, err := NewConfirmationTask(confirmation)
	if err != nil {
		return fmt.Errorf("failed to build confirmation task: %w", err)
	}
	if _, err := d.Client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue confirmation task: %w", err)
	}
	return nil
}
