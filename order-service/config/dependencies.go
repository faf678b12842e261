package config

import (
	"context"
	"fmt"
	"log"

	"github.com/commercekit/order-system/order-service/application"
	"github.com/commercekit/order-system/order-service/handlers"
	"github.com/commercekit/order-system/order-service/infrastructure"
	"github.com/commercekit/order-system/shared/cache"
	sharedinfra "github.com/commercekit/order-system/shared/infrastructure"
	"github.com/commercekit/order-system/shared/telemetry"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Dependencies struct {
	// Database
	DB *sqlx.DB

	// Repositories
	OrderRepository infrastructure.PostgresOrderRepository

	// Gateways
	ValidationGateway *infrastructure.HTTPValidationGateway

	// Use Cases
	CreateOrder          *application.CreateOrderSaga
	GetOrder             *application.GetOrder
	ListOrders           *application.ListOrders
	ListUserOrders       *application.ListUserOrders
	CancelOrder          *application.CancelOrder
	ApplyTransition      *application.ApplyTransition
	ProcessStockResult   *application.ProcessStockResult
	ProcessPaymentResult *application.ProcessPaymentResult

	// HTTP Handlers
	OrderHandlers *handlers.OrderHandlers

	// Event Handlers
	OrderEventHandlers *handlers.OrderEventHandlers

	// Infrastructure
	EventPublisher  *sharedinfra.SNSPublisherAdapter
	EventSubscriber *sharedinfra.SQSSubscriberAdapter

	// Telemetry
	Telemetry         *telemetry.Telemetry
	TelemetryShutdown func()
}

func BuildDependencies(ctx context.Context, config *Config) (*Dependencies, error) {
	deps := &Dependencies{}

	// Initialize telemetry first
	tel, telemetryShutdown, err := telemetry.InitTelemetry(ctx, telemetry.Config{
		ServiceName:    config.ServiceName,
		ServiceVersion: config.Telemetry.ServiceVersion,
		OTLPEndpoint:   config.Telemetry.OTLPEndpoint,
	})
	if err != nil {
		log.Printf("Failed to initialize telemetry: %v", err)
		// Continue without telemetry rather than failing
	} else {
		deps.Telemetry = tel
		deps.TelemetryShutdown = telemetryShutdown
	}

	// Initialize database
	db, err := sqlx.Connect("postgres", config.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	deps.DB = db

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

	// Initialize repositories
	deps.OrderRepository = *infrastructure.NewPostgresOrderRepository(db)

	// Initialize validation gateway
	usersClient := infrastructure.NewResilientClient(
		"users-service", config.Upstream.RequestTimeout, config.Upstream.MaxRequestTries)
	catalogClient := infrastructure.NewResilientClient(
		"catalog-service", config.Upstream.RequestTimeout, config.Upstream.MaxRequestTries)
	productCache := cache.NewRedisCache(config.Redis.Addr, config.ServiceName)

	deps.ValidationGateway = infrastructure.NewHTTPValidationGateway(
		usersClient,
		catalogClient,
		config.Upstream.UsersBaseURL,
		config.Upstream.CatalogBaseURL,
		productCache,
	)

	// Initialize use cases
	deps.ApplyTransition = application.NewApplyTransition(&deps.OrderRepository)
	deps.CreateOrder = application.NewCreateOrderSaga(
		&deps.OrderRepository,
		deps.ValidationGateway,
		eventPublisher,
		config.Validation.Timeout,
	)
	deps.GetOrder = application.NewGetOrder(&deps.OrderRepository)
	deps.ListOrders = application.NewListOrders(&deps.OrderRepository)
	deps.ListUserOrders = application.NewListUserOrders(&deps.OrderRepository)
	deps.CancelOrder = application.NewCancelOrder(deps.ApplyTransition, eventPublisher)
	deps.ProcessStockResult = application.NewProcessStockResult(deps.ApplyTransition)
	deps.ProcessPaymentResult = application.NewProcessPaymentResult(deps.ApplyTransition, eventPublisher)

	// Initialize handlers
	deps.OrderHandlers = handlers.NewOrderHandlers(
		deps.CreateOrder,
		deps.GetOrder,
		deps.ListOrders,
		deps.ListUserOrders,
		deps.CancelOrder,
	)
	deps.OrderEventHandlers = handlers.NewOrderEventHandlers(
		deps.ProcessStockResult,
		deps.ProcessPaymentResult,
	)

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

	if d.TelemetryShutdown != nil {
		d.TelemetryShutdown()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing dependencies: %v", errs)
	}

	return nil
}
