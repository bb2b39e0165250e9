package dispatcher

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	"github.com/malyszg/lms-sub001/internal/queue"
)

// Dispatcher orchestrates the consumer pipeline: receive from SQS, parse into
// envelopes, dispatch each lead to the CDPs.
type Dispatcher struct {
	receiver *Receiver
	parser   *ParserStage
	handler  *Handler
}

// NewDispatcher wires the pipeline stages.
func NewDispatcher(queueConsumer queue.QueueConsumer, handler *Handler, log *zap.Logger) *Dispatcher {
	receiver := NewReceiver(queueConsumer, ReceiverConfig{
		MaxMessages:     10,
		WaitTimeSeconds: 20,
		BufferSize:      100,
	}, log)

	parser := NewParserStage(queueConsumer, NewJSONMessageParser(), log)

	return &Dispatcher{
		receiver: receiver,
		parser:   parser,
		handler:  handler,
	}
}

// Start runs the pipeline until the context is canceled.
func (d *Dispatcher) Start(ctx context.Context) error {
	messageChan := make(chan types.Message, 100)
	envelopeChan := make(chan *Envelope, 100)

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		d.receiver.Start(ctx, messageChan)
	}()

	go func() {
		defer wg.Done()
		d.parser.Start(ctx, messageChan, envelopeChan)
	}()

	go func() {
		defer wg.Done()
		d.handler.Start(ctx, envelopeChan)
	}()

	wg.Wait()
	return nil
}
