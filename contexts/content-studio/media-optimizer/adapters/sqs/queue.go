// Package sqsadapter moves optimization jobs through an SQS queue so a separate
// worker process can run them.
package sqsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"contentflow/contexts/content-studio/media-optimizer/domain/entities"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// API is the subset of the SQS client used here.
type API interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

type Dispatcher struct {
	client   API
	queueURL string
}

func NewDispatcher(client API, queueURL string) Dispatcher {
	return Dispatcher{client: client, queueURL: queueURL}
}

func (d Dispatcher) Dispatch(ctx context.Context, job entities.OptimizationJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return err
	}
	_, err = d.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(d.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("enqueue optimization job: %w", err)
	}
	return nil
}

const (
	visibilityMargin = 5 * time.Minute
	// MaxJobTimeout keeps the derived visibility timeout within the SQS ceiling of 12h.
	MaxJobTimeout = 12*time.Hour - visibilityMargin
)

// VisibilityTimeout hides a received message for longer than a job may run, so
// SQS never hands it to a second worker while the first is still optimizing.
func VisibilityTimeout(jobTimeout time.Duration) int32 {
	if jobTimeout <= 0 {
		jobTimeout = 30 * time.Minute
	}
	if jobTimeout > MaxJobTimeout {
		jobTimeout = MaxJobTimeout
	}
	return int32((jobTimeout + visibilityMargin).Seconds())
}

type JobHandler interface {
	Handle(ctx context.Context, job entities.OptimizationJob)
}

// Consumer long-polls the queue. Every received message is deleted after one
// attempt, whatever the outcome; optimization is never retried.
type Consumer struct {
	client      API
	queueURL    string
	handler     JobHandler
	waitSeconds int32
	visibility  int32
	logger      *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewConsumer(parent context.Context, client API, queueURL string, handler JobHandler, jobTimeout time.Duration, logger *slog.Logger) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Consumer{
		client:      client,
		queueURL:    queueURL,
		handler:     handler,
		waitSeconds: 20,
		visibility:  VisibilityTimeout(jobTimeout),
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (c *Consumer) Start() {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.pollLoop()
	}()
}

func (c *Consumer) pollLoop() {
	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		out, err := c.client.ReceiveMessage(c.ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(c.queueURL),
			MaxNumberOfMessages: 1,
			WaitTimeSeconds:     c.waitSeconds,
			VisibilityTimeout:   c.visibility,
		})
		if err != nil {
			if c.ctx.Err() != nil {
				return
			}
			c.logger.Warn("optimization queue receive failed",
				"event", "optimizer_queue_receive_failed",
				"module", "content-studio/media-optimizer",
				"layer", "adapter",
				"error", err.Error(),
			)
			select {
			case <-c.ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		for _, msg := range out.Messages {
			c.handleMessage(msg)
		}
	}
}

func (c *Consumer) handleMessage(msg types.Message) {
	defer c.deleteMessage(msg)

	if msg.Body == nil {
		return
	}
	var job entities.OptimizationJob
	if err := json.Unmarshal([]byte(*msg.Body), &job); err != nil {
		c.logger.Warn("optimization message discarded",
			"event", "optimizer_queue_poison_message",
			"module", "content-studio/media-optimizer",
			"layer", "adapter",
			"message_id", aws.ToString(msg.MessageId),
			"error", err.Error(),
		)
		return
	}
	c.handler.Handle(c.ctx, job)
}

func (c *Consumer) deleteMessage(msg types.Message) {
	_, err := c.client.DeleteMessage(context.WithoutCancel(c.ctx), &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(c.queueURL),
		ReceiptHandle: msg.ReceiptHandle,
	})
	if err != nil {
		c.logger.Warn("optimization message not deleted",
			"event", "optimizer_queue_delete_failed",
			"module", "content-studio/media-optimizer",
			"layer", "adapter",
			"message_id", aws.ToString(msg.MessageId),
			"error", err.Error(),
		)
	}
}

func (c *Consumer) Shutdown(ctx context.Context) error {
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
