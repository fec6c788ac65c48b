package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"slotbook/config"
	"slotbook/models"
	"slotbook/services/notification"

	"github.com/hibiken/asynq"
)

// InitConfirmationWorker runs the async confirmation-delivery worker in the
// background. Delivery failures are retried by asynq; the booking that
// produced the confirmation is already committed and is never affected.
func InitConfirmationWorker(sender notification.Sender) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(notification.TypeConfirmationSend, handleConfirmationTask(sender))

	go func() {
		log.Println("[ConfirmationWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ConfirmationWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ConfirmationWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleConfirmationTask(sender notification.Sender) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var confirmation models.Confirmation
		if err := json.Unmarshal(task.Payload(), &confirmation); err != nil {
			log.Printf("[ConfirmationWorker] invalid payload: %v", err)
			return err
		}

		invite, err := notification.RenderInvite(confirmation)
		if err != nil {
			log.Printf("[ConfirmationWorker] failed to render invite for %s: %v", confirmation.UID, err)
			return err
		}

		if err := sender.SendConfirmation(ctx, confirmation, invite); err != nil {
			log.Printf("[ConfirmationWorker] delivery failed for %s: %v", confirmation.UID, err)
			return err
		}
		return nil
	}
}
