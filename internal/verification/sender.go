package verification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

const (
	TaskDeliver   = "verification:deliver"
	deliveryQueue = "verification"
	taskTimeout   = 30 * time.Second
)

// LogSender simulates delivery by logging the code.
type LogSender struct {
	log *zerolog.Logger
}

func NewLogSender(log *zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Deliver(_ context.Context, challenge Challenge) error {
	s.log.Info().
		Str("label", "verification").
		Str("channel", string(challenge.Channel)).
		Str("target", challenge.Target).
		Str("code", challenge.Code).
		Msg("Verification code sent")

	return nil
}

type deliveryPayload struct {
	Target  string  `json:"target"`
	Channel Channel `json:"channel"`
	Code    string  `json:"code"`
}

func newDeliveryTask(challenge Challenge) (*asynq.Task, error) {
	payload, err := json.Marshal(deliveryPayload{
		Target:  challenge.Target,
		Channel: challenge.Channel,
		Code:    challenge.Code,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(TaskDeliver, payload), nil
}

// AsynqSender queues delivery for the worker. Tasks are never retried.
type AsynqSender struct {
	client *asynq.Client
}

func NewAsynqSender(client *asynq.Client) *AsynqSender {
	return &AsynqSender{client: client}
}

func (s *AsynqSender) Deliver(ctx context.Context, challenge Challenge) error {
	task, err := newDeliveryTask(challenge)
	if err != nil {
		return err
	}

	_, err = s.client.EnqueueContext(ctx, task,
		asynq.MaxRetry(0),
		asynq.Timeout(taskTimeout),
		asynq.Queue(deliveryQueue))

	return err
}

// DeliveryHandler processes queued delivery tasks with the wrapped sender.
func DeliveryHandler(sender Sender) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload deliveryPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("decoding delivery payload: %w: %w", err, asynq.SkipRetry)
		}

		return sender.Deliver(ctx, Challenge{
			Target:  payload.Target,
			Channel: payload.Channel,
			Code:    payload.Code,
		})
	}
}

// Worker consumes the delivery queue.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

func NewWorker(connection asynq.RedisConnOpt, log *zerolog.Logger) *Worker {
	server := asynq.NewServer(connection, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			deliveryQueue: 1,
		},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskDeliver, DeliveryHandler(NewLogSender(log)))

	return &Worker{server: server, mux: mux}
}

func (w *Worker) Start() error {
	return w.server.Start(w.mux)
}

func (w *Worker) Shutdown() {
	w.server.Shutdown()
}
