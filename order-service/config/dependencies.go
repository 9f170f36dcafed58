package config

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rswarup82/order-saga-demo/order-service/application"
	"github.com/rswarup82/order-saga-demo/order-service/domain"
	"github.com/rswarup82/order-saga-demo/order-service/handlers"
	"github.com/rswarup82/order-saga-demo/order-service/infrastructure"
	sharedinfra "github.com/rswarup82/order-saga-demo/shared/infrastructure"
	"github.com/rswarup82/order-saga-demo/shared/saga"
)

type Dependencies struct {
	// Database, nil in memory storage mode
	DB *sqlx.DB

	// Storage
	OrderRepository domain.OrderRepository
	CompensationLog saga.Journal

	// Saga engine
	Metrics  *saga.Metrics
	Invoker  *saga.Invoker
	Launcher *saga.Launcher

	// Use Cases
	ProcessOrder *application.ProcessOrder
	SubmitOrder  *application.SubmitOrder
	GetOrder     *application.GetOrder
	ListOrders   *application.ListOrders
	ResumeOrders *application.ResumeOrders

	// HTTP Handlers
	OrderHandlers *handlers.OrderHandlers

	// Event Handlers
	OrderEventHandlers *handlers.OrderEventHandlers

	// Infrastructure
	EventPublisher  *sharedinfra.SNSPublisherAdapter
	EventSubscriber *sharedinfra.SQSSubscriberAdapter
}

func BuildDependencies(config *Config) (*Dependencies, error) {
	deps := &Dependencies{}

	// Initialize storage
	switch config.Storage {
	case "postgres":
		db, err := sqlx.Connect("postgres", config.GetDatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		deps.DB = db
		deps.OrderRepository = infrastructure.NewPostgresOrderRepository(db)
		deps.CompensationLog = infrastructure.NewPostgresCompensationLog(db)
	default:
		deps.OrderRepository = infrastructure.NewMemoryOrderRepository()
		deps.CompensationLog = infrastructure.NewMemoryCompensationLog()
	}

	// Initialize AWS infrastructure
	eventPublisher, err := sharedinfra.NewSNSPublisherAdapter(config.AWS.SNSTopicArn)
	if err != nil {
		return nil, fmt.Errorf("failed to create SNS publisher: %w", err)
	}
	deps.EventPublisher = eventPublisher

	eventSubscriber, err := sharedinfra.NewSQSSubscriberAdapter(config.AWS.SQSQueueURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create SQS subscriber: %w", err)
	}
	deps.EventSubscriber = eventSubscriber

	// Initialize saga engine
	deps.Metrics = saga.NewMetrics(prometheus.DefaultRegisterer)
	deps.Invoker = saga.NewInvoker(saga.InvokerConfig{
		Timeout:           config.Saga.StepTimeout,
		MaxAttempts:       uint(config.Saga.MaxAttempts),
		InitialBackoff:    config.Saga.InitialBackoff,
		MaxBackoff:        config.Saga.MaxBackoff,
		BackoffMultiplier: config.Saga.BackoffMultiplier,
	}, deps.Metrics)

	policy := saga.ReturnExisting
	if config.Saga.RejectDuplicates {
		policy = saga.RejectDuplicate
	}
	deps.Launcher = saga.NewLauncher(config.Saga.MaxConcurrent, policy, deps.Metrics)

	// Initialize simulated resource managers
	simulator := infrastructure.NewSimulator(infrastructure.SimulatorConfig{
		PaymentDeclineRate:  config.Simulator.PaymentDeclineRate,
		InventoryShortRate:  config.Simulator.InventoryShortRate,
		FraudFlagRate:       config.Simulator.FraudFlagRate,
		ShippingUnavailRate: config.Simulator.ShippingUnavailRate,
		MaxLatency:          config.Simulator.MaxLatency,
	})

	// Initialize use cases
	deps.ProcessOrder = application.NewProcessOrder(
		deps.OrderRepository,
		deps.CompensationLog,
		deps.Invoker,
		simulator,
		simulator,
		simulator,
		simulator,
		eventPublisher,
		deps.Metrics,
	)
	deps.SubmitOrder = application.NewSubmitOrder(deps.OrderRepository, deps.Launcher, deps.ProcessOrder)
	deps.GetOrder = application.NewGetOrder(deps.OrderRepository)
	deps.ListOrders = application.NewListOrders(deps.OrderRepository)
	deps.ResumeOrders = application.NewResumeOrders(deps.OrderRepository, deps.Launcher, deps.ProcessOrder)

	// Initialize handlers
	deps.OrderHandlers = handlers.NewOrderHandlers(deps.SubmitOrder, deps.GetOrder, deps.ListOrders)
	deps.OrderEventHandlers = handlers.NewOrderEventHandlers(deps.SubmitOrder)

	return deps, nil
}

// Close closes all dependencies
func (d *Dependencies) Close() error {
	var errs []error

	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if d.EventPublisher != nil {
		if err := d.EventPublisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close event publisher: %w", err))
		}
	}

	if d.EventSubscriber != nil {
		if err := d.EventSubscriber.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close event subscriber: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing dependencies: %v", errs)
	}

	return nil
}
