package notification

import (
	"context"
	"log/slog"

	"storefront/config"
	"storefront/internal/domain/service"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

type firebaseService struct {
	client *messaging.Client
}

// NewFirebaseService creates a new Firebase notification service instance
func NewFirebaseService(ctx context.Context, projectID, credentialsPath string) (service.NotificationService, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	var fbConfig *firebase.Config
	if projectID != "" {
		fbConfig = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, fbConfig, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize Firebase app")
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get messaging client")
	}

	return &firebaseService{client: client}, nil
}

// SendTopicNotification pushes a notification to every device subscribed to topic.
func (s *firebaseService) SendTopicNotification(ctx context.Context, topic, title, body string, data map[string]string) error {
	message := &messaging.Message{
		Topic: topic,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	if _, err := s.client.Send(ctx, message); err != nil {
		return errors.Wrapf(err, "failed to send notification to topic %s", topic)
	}

	return nil
}

// noopService drops notifications when Firebase is not configured.
type noopService struct {
	logger *slog.Logger
}

func (s *noopService) SendTopicNotification(ctx context.Context, topic, title, _ string, _ map[string]string) error {
	s.logger.DebugContext(ctx, "[NoopPush] Push disabled, skipping",
		slog.String("topic", topic),
		slog.String("title", title),
	)

	return nil
}

// New builds the push service from configuration, falling back to a no-op without Firebase settings.
func New(cfg *config.Config, logger *slog.Logger) (service.NotificationService, error) {
	fb := cfg.Firebase
	if fb == nil || (fb.ProjectID == "" && fb.CredentialsPath == "") {
		logger.Info("Firebase not configured, admin push disabled")

		return &noopService{logger: logger}, nil
	}

	svc, err := NewFirebaseService(context.Background(), fb.ProjectID, fb.CredentialsPath)
	if err != nil {
		return nil, err
	}
	logger.Info("Firebase messaging initialized", slog.String("project_id", fb.ProjectID))

	return svc, nil
}

// IsEnabled reports whether pushes will actually leave the process.
func IsEnabled(svc service.NotificationService) bool {
	_, noop := svc.(*noopService)

	return !noop
}
