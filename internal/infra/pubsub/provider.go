package pubsub

import (
	"context"
	"log/slog"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/constants"
	"storefront/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// fanoutPublisher always feeds the in-process broker and then, when configured,
// forwards the event to an external transport. Remote failures are returned but the
// local subscribers have already seen the event.
type fanoutPublisher struct {
	broker *Broker
	remote service.EventPublisher
	logger *slog.Logger
}

func (p *fanoutPublisher) PublishInsert(ctx context.Context, event *service.InsertEvent) error {
	if event.RequestID == "" {
		event.RequestID = deliverycontext.GetRequestIDFromContext(ctx)
	}

	p.broker.Dispatch(ctx, event)

	if p.remote == nil {
		return nil
	}

	if err := p.remote.PublishInsert(ctx, event); err != nil {
		return errors.Wrapf(err, "failed to forward %s insert", event.Table)
	}

	return nil
}

func (p *fanoutPublisher) Close() error {
	if p.remote == nil {
		return nil
	}

	return p.remote.Close()
}

// PublisherParams holds dependencies for EventPublisher, injected by Fx
type PublisherParams struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
	Broker *Broker
}

// NewEventPublisher creates an EventPublisher based on configuration
func NewEventPublisher(params PublisherParams) (service.EventPublisher, error) {
	logger := params.Logger
	remote, err := newRemotePublisher(params.Config.PubSub, logger)
	if err != nil {
		return nil, err
	}

	publisher := &fanoutPublisher{
		broker: params.Broker,
		remote: remote,
		logger: logger,
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("Closing EventPublisher")

			return publisher.Close()
		},
	})

	return publisher, nil
}

func newRemotePublisher(cfg *config.PubSubConfig, logger *slog.Logger) (service.EventPublisher, error) {
	if cfg == nil || cfg.Provider == "" || cfg.Provider == constants.PubSubProviderInProcess {
		logger.Info("Insert events stay in-process")

		return nil, nil
	}

	switch cfg.Provider {
	case constants.PubSubProviderLocal:
		if cfg.LocalEndpoint == "" {
			return nil, errors.New("local endpoint is required for local provider")
		}
		logger.Info("Using local HTTP publisher for Pub/Sub",
			slog.String("endpoint", cfg.LocalEndpoint),
		)

		return NewLocalHTTPPublisher(cfg.LocalEndpoint, logger), nil

	case constants.PubSubProviderGoogle:
		if cfg.ProjectID == "" {
			return nil, errors.New("project ID is required for google provider")
		}
		if cfg.TopicID == "" {
			return nil, errors.New("topic ID is required for google provider")
		}
		logger.Info("Using Google Pub/Sub publisher",
			slog.String("project_id", cfg.ProjectID),
			slog.String("topic_id", cfg.TopicID),
		)

		return NewGooglePubSubPublisher(context.Background(), cfg.ProjectID, cfg.TopicID, logger)

	default:
		return nil, errors.Errorf("unknown pubsub provider: %s", cfg.Provider)
	}
}

func newInsertSubscriber(broker *Broker) service.InsertSubscriber {
	return broker
}

// Module provides the Pub/Sub FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(
		NewBroker,
		newInsertSubscriber,
		NewEventPublisher,
	),
)
