package infrastructure

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/pkg/errors"
	"github.com/rswarup82/order-saga-demo/shared/events"
	"github.com/rswarup82/order-saga-demo/shared/models"
)

const (
	SQSMessageIDKey     = "sqs_message_id"
	SQSReceiptHandleKey = "sqs_receipt_handle"
)

type sqsSubscriberOptions struct {
	workers                    int32
	readers                    int32
	maxNumberOfMessages        int32
	waitTimeSeconds            int32
	visibilityTimeout          int32
	sleepTimeAfterEmptyReceive time.Duration
	sleepTimeAfterError        time.Duration
}

// SQSSubscriberOption customizes the subscriber
type SQSSubscriberOption func(*sqsSubscriberOptions)

// WithWorkers sets the number of handler workers
func WithWorkers(workers int32) SQSSubscriberOption {
	return func(o *sqsSubscriberOptions) {
		o.workers = workers
	}
}

// WithReaders sets the number of polling readers
func WithReaders(readers int32) SQSSubscriberOption {
	return func(o *sqsSubscriberOptions) {
		o.readers = readers
	}
}

// WithVisibilityTimeout sets the message visibility timeout in seconds
func WithVisibilityTimeout(timeout int32) SQSSubscriberOption {
	return func(o *sqsSubscriberOptions) {
		o.visibilityTimeout = timeout
	}
}

// SQSEventSubscriber implements event subscription using AWS SQS. Readers
// long-poll the queue and feed a worker pool; a message is deleted only after
// its handler returns without error, so failed deliveries reappear after the
// visibility timeout.
type SQSEventSubscriber struct {
	client   *sqs.Client
	queueURL string
	options  *sqsSubscriberOptions

	mux      sync.Mutex
	cancel   context.CancelFunc
	running  atomic.Bool
	messages chan types.Message
	wg       sync.WaitGroup
}

// NewSQSEventSubscriber creates a new SQS event subscriber
func NewSQSEventSubscriber(client *sqs.Client, queueURL string, opts ...SQSSubscriberOption) *SQSEventSubscriber {
	options := &sqsSubscriberOptions{
		workers:                    10,
		readers:                    1,
		maxNumberOfMessages:        5,
		waitTimeSeconds:            15,
		visibilityTimeout:          30,
		sleepTimeAfterEmptyReceive: 2 * time.Second,
		sleepTimeAfterError:        10 * time.Second,
	}
	for _, opt := range opts {
		opt(options)
	}

	return &SQSEventSubscriber{
		client:   client,
		queueURL: queueURL,
		options:  options,
	}
}

// Subscribe implements events.Subscriber. It starts the readers and workers
// and blocks until the context is cancelled.
func (s *SQSEventSubscriber) Subscribe(ctx context.Context, handler events.EventHandler) error {
	if s.running.Swap(true) {
		return errors.New("subscriber is already running")
	}

	s.mux.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.messages = make(chan types.Message)
	s.mux.Unlock()

	for i := 0; i < int(s.options.workers); i++ {
		s.wg.Add(1)
		go s.startWorker(ctx, handler)
	}
	for i := 0; i < int(s.options.readers); i++ {
		s.wg.Add(1)
		go s.startReader(ctx)
	}

	<-ctx.Done()
	s.wg.Wait()
	s.running.Store(false)
	return nil
}

// Stop cancels the subscription loop
func (s *SQSEventSubscriber) Stop() {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *SQSEventSubscriber) startReader(ctx context.Context) {
	defer s.wg.Done()

	for {
		if ctx.Err() != nil {
			return
		}

		out, err := s.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:              aws.String(s.queueURL),
			MaxNumberOfMessages:   s.options.maxNumberOfMessages,
			WaitTimeSeconds:       s.options.waitTimeSeconds,
			VisibilityTimeout:     s.options.visibilityTimeout,
			MessageAttributeNames: []string{"All"},
		})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("SQS receive failed: %v", err)
			s.sleep(ctx, s.options.sleepTimeAfterError)
			continue
		}

		if len(out.Messages) == 0 {
			s.sleep(ctx, s.options.sleepTimeAfterEmptyReceive)
			continue
		}

		for _, msg := range out.Messages {
			select {
			case s.messages <- msg:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (s *SQSEventSubscriber) startWorker(ctx context.Context, handler events.EventHandler) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-s.messages:
			event, err := s.decodeMessage(msg)
			if err != nil {
				log.Printf("Dropping undecodable SQS message: %v", err)
				s.deleteMessage(ctx, msg)
				continue
			}

			if err := handler.Handle(ctx, event); err != nil {
				// Leave the message for redelivery after the visibility timeout
				log.Printf("Handler %s failed for event %s: %v", handler.HandlerID(), event.ID, err)
				continue
			}

			s.deleteMessage(ctx, msg)
		}
	}
}

// decodeMessage unwraps the SNS envelope into a domain event
func (s *SQSEventSubscriber) decodeMessage(msg types.Message) (*events.Event, error) {
	if msg.Body == nil {
		return nil, errors.New("empty message body")
	}

	// Messages delivered via an SNS subscription carry the payload nested
	// in the notification envelope
	body := *msg.Body
	var envelope struct {
		Message string `json:"Message"`
	}
	if err := json.Unmarshal([]byte(body), &envelope); err == nil && envelope.Message != "" {
		body = envelope.Message
	}

	var message snsMessage
	if err := json.Unmarshal([]byte(body), &message); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal message")
	}
	if message.EventType == "" {
		return nil, errors.New("message has no event type")
	}

	event := &events.Event{
		ID:            models.ID(message.ID),
		AggregateID:   models.ID(message.AggregateID),
		EventType:     message.EventType,
		Version:       "1.0",
		Data:          message.Payload,
		Metadata:      message.Metadata,
		Timestamp:     message.Timestamp,
		CorrelationID: models.ID(message.CorrelationID),
	}
	if event.Metadata == nil {
		event.Metadata = make(events.Metadata)
	}
	if msg.MessageId != nil {
		event.Metadata.Set(SQSMessageIDKey, *msg.MessageId)
	}
	if msg.ReceiptHandle != nil {
		event.Metadata.Set(SQSReceiptHandleKey, *msg.ReceiptHandle)
	}
	return event, nil
}

func (s *SQSEventSubscriber) deleteMessage(ctx context.Context, msg types.Message) {
	if msg.ReceiptHandle == nil {
		return
	}
	_, err := s.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(s.queueURL),
		ReceiptHandle: msg.ReceiptHandle,
	})
	if err != nil && ctx.Err() == nil {
		log.Printf("Failed to delete SQS message: %v", err)
	}
}

func (s *SQSEventSubscriber) sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
