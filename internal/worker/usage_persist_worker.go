package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"askgpt/internal/model"
	"askgpt/internal/pkg/logger"
	"askgpt/internal/repository"
)

// UsagePersistWorker drains the usage queue: for each billable answer it
// deducts the owner's query credits and writes a UsageRecord. Deduction is
// asynchronous on purpose; the quota gate in the ask flow reads the balance,
// this worker writes it.
type UsagePersistWorker struct {
	conn      *amqp.Connection
	users     *repository.UserRepository
	records   *repository.UsageRecordRepository
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewUsagePersistWorker(
	conn *amqp.Connection,
	users *repository.UserRepository,
	records *repository.UsageRecordRepository,
	queueName string,
) *UsagePersistWorker {
	return &UsagePersistWorker{
		conn:      conn,
		users:     users,
		records:   records,
		queueName: queueName,
	}
}

func (w *UsagePersistWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}

				var event model.UsageEvent
				if err := json.Unmarshal(d.Body, &event); err != nil {
					logger.Log.Error("worker decode usage event failed", zap.Error(err))
					_ = d.Nack(false, false)
					continue
				}

				if err := w.persist(event); err != nil {
					logger.Log.Error("worker persist usage failed",
						zap.Uint("user_id", event.UserID),
						zap.Error(err))
					_ = d.Nack(false, false)
					continue
				}

				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *UsagePersistWorker) persist(event model.UsageEvent) error {
	deducted, err := w.users.DeductQueryCredits(event.UserID, event.Credits)
	if err != nil {
		return err
	}
	if !deducted {
		// Balance already at zero; the answer was served before the gate could
		// see it. Record the usage anyway.
		logger.Log.Warn("usage event with no credits left to deduct",
			zap.Uint("user_id", event.UserID))
	}

	return w.records.Create(&model.UsageRecord{
		UserID:          event.UserID,
		ProjectID:       event.ProjectID,
		ConversationID:  event.ConversationID,
		PromptHistoryID: event.PromptHistoryID,
		Credits:         event.Credits,
	})
}

func (w *UsagePersistWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
