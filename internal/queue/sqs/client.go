package sqs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	envConfig "github.com/malyszg/lms-sub001/internal/config"
	"github.com/malyszg/lms-sub001/internal/domain"
)

// SQS caps message delays at 15 minutes.
const maxDelay = 900 * time.Second

// Client represents an SQS client for the CDP delivery queue.
type Client struct {
	client   *sqs.Client
	queueURL string
	log      *zap.Logger
}

// NewClient creates a new SQS client.
func NewClient(ctx context.Context, cfg *envConfig.Config, log *zap.Logger) (*Client, error) {
	configOpts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.SQSRegion),
	}

	var clientOpts []func(*sqs.Options)

	// Configure for local development with ElasticMQ
	if cfg.SQSEndpoint != "" {
		log.Info("Configuring SQS for local development",
			zap.String("endpoint", cfg.SQSEndpoint))
		configOpts = append(configOpts,
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("dummy", "dummy", "")))

		clientOpts = append(clientOpts, func(o *sqs.Options) {
			o.BaseEndpoint = aws.String(cfg.SQSEndpoint)
		})
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	sqsClient := sqs.NewFromConfig(awsCfg, clientOpts...)

	log.Info("SQS client created",
		zap.String("region", cfg.SQSRegion),
		zap.String("queue_url", cfg.SQSQueueURL))

	return &Client{
		client:   sqsClient,
		queueURL: cfg.SQSQueueURL,
		log:      log,
	}, nil
}

// ReceiveMessages receives messages from SQS.
func (c *Client) ReceiveMessages(ctx context.Context, input *sqs.ReceiveMessageInput) (*sqs.ReceiveMessageOutput, error) {
	return c.client.ReceiveMessage(ctx, input)
}

// DeleteMessage deletes a message from SQS.
func (c *Client) DeleteMessage(ctx context.Context, input *sqs.DeleteMessageInput) (*sqs.DeleteMessageOutput, error) {
	return c.client.DeleteMessage(ctx, input)
}

// QueueURL returns the configured queue URL.
func (c *Client) QueueURL() string {
	return c.queueURL
}

// PublishLeadMessage enqueues a first-delivery message for a lead.
func (c *Client) PublishLeadMessage(ctx context.Context, msg domain.CDPLeadMessage) error {
	return c.publish(ctx, msg, 0)
}

// PublishRetry enqueues a delayed single-system retry message. Delays beyond
// the SQS cap are clamped to 900 seconds.
func (c *Client) PublishRetry(ctx context.Context, msg domain.CDPLeadMessage, delay time.Duration) error {
	if delay < 0 {
		delay = 0
	}
	if delay > maxDelay {
		c.log.Warn("Clamping retry delay to SQS maximum",
			zap.Duration("requested", delay),
			zap.String("lead_uuid", msg.LeadUUID))
		delay = maxDelay
	}
	return c.publish(ctx, msg, delay)
}

func (c *Client) publish(ctx context.Context, msg domain.CDPLeadMessage, delay time.Duration) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal lead message: %w", err)
	}

	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(c.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"LeadUUID": {
				DataType:    aws.String("String"),
				StringValue: aws.String(msg.LeadUUID),
			},
		},
	}
	if delay > 0 {
		input.DelaySeconds = int32(delay / time.Second)
	}
	if msg.System != "" {
		input.MessageAttributes["System"] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(msg.System),
		}
	}

	if _, err := c.client.SendMessage(ctx, input); err != nil {
		c.log.Error("Failed to send lead message to SQS",
			zap.String("lead_uuid", msg.LeadUUID),
			zap.String("system", msg.System),
			zap.Error(err))
		return fmt.Errorf("failed to send message to SQS: %w", err)
	}

	c.log.Info("Lead message published to SQS",
		zap.String("lead_uuid", msg.LeadUUID),
		zap.String("system", msg.System),
		zap.Int("retry_count", msg.RetryCount),
		zap.Duration("delay", delay))

	return nil
}
