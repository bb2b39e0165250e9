package queue

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/malyszg/lms-sub001/internal/domain"
)

// QueuePublisher defines the interface for enqueueing lead delivery messages.
type QueuePublisher interface {
	// PublishLeadMessage enqueues a first-delivery message fanning out to all
	// enabled CDP systems.
	PublishLeadMessage(ctx context.Context, msg domain.CDPLeadMessage) error

	// PublishRetry enqueues a delayed single-system retry message.
	PublishRetry(ctx context.Context, msg domain.CDPLeadMessage, delay time.Duration) error
}

// QueueConsumer defines the interface for consuming messages from a queue.
type QueueConsumer interface {
	ReceiveMessages(ctx context.Context, input *sqs.ReceiveMessageInput) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, input *sqs.DeleteMessageInput) (*sqs.DeleteMessageOutput, error)
	QueueURL() string
}
