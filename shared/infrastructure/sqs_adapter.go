package infrastructure

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/pkg/errors"
	"github.com/rswarup82/order-saga-demo/shared/events"
)

// SQSSubscriberAdapter adapts SQSEventSubscriber to the events.Subscriber
// interface, owning the AWS client setup
type SQSSubscriberAdapter struct {
	queueURL   string
	subscriber *SQSEventSubscriber
}

// NewSQSSubscriberAdapter creates a new SQS subscriber adapter
func NewSQSSubscriberAdapter(queueURL string) (*SQSSubscriberAdapter, error) {
	return &SQSSubscriberAdapter{queueURL: queueURL}, nil
}

// Subscribe implements events.Subscriber. It blocks until the context is
// cancelled or Close is called.
func (s *SQSSubscriberAdapter) Subscribe(ctx context.Context, handler events.EventHandler) error {
	if s.subscriber != nil {
		return errors.New("subscriber is already running")
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to load AWS config")
	}

	s.subscriber = NewSQSEventSubscriber(sqs.NewFromConfig(cfg), s.queueURL)
	return s.subscriber.Subscribe(ctx, handler)
}

// Close stops the subscriber
func (s *SQSSubscriberAdapter) Close() error {
	if s.subscriber != nil {
		s.subscriber.Stop()
	}
	return nil
}
