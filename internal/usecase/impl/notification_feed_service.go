package impl

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"storefront/config"
	"storefront/internal/domain/constants"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/lifecycle"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// notificationFeedService implements NotificationFeedUsecase in poll or subscribe mode.
type notificationFeedService struct {
	mode         string
	fetchLimit   int
	displayLimit int
	orderRepo    repository.OrderRepository
	contactRepo  repository.ContactRepository
	subscriber   service.InsertSubscriber
	notifier     service.NotificationService
	pushTopic    string // Empty disables the admin push.
	logger       *slog.Logger

	mu           sync.Mutex
	notices      []*entity.Notice // Newest first, subscribe mode only.
	unsubscribes []func()
	pushes       sync.WaitGroup
}

// NotificationFeedParams holds dependencies for the notification feed.
type NotificationFeedParams struct {
	fx.In

	Lc          fx.Lifecycle
	OrderRepo   repository.OrderRepository
	ContactRepo repository.ContactRepository
	Subscriber  service.InsertSubscriber
	Notifier    service.NotificationService
	Config      *config.Config
	Logger      *slog.Logger
}

// NewNotificationFeedService creates the feed. In subscribe mode it follows inserts between start and stop.
func NewNotificationFeedService(params NotificationFeedParams) usecase.NotificationFeedUsecase {
	s := newNotificationFeedService(params)

	if s.mode == constants.NotificationModeSubscribe {
		params.Lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				s.start(ctx)

				return nil
			},
			OnStop: func(context.Context) error {
				s.stop()

				return nil
			},
		})
	}

	return s
}

func newNotificationFeedService(params NotificationFeedParams) *notificationFeedService {
	cfg := params.Config.Notifications
	if cfg == nil {
		cfg = &config.NotificationsConfig{Mode: constants.NotificationModePoll}
	}

	// With an external Pub/Sub transport the worker pushes to FCM instead.
	var pushTopic string
	if params.Config.Firebase != nil &&
		(params.Config.PubSub == nil || params.Config.PubSub.Provider == constants.PubSubProviderInProcess) {
		pushTopic = params.Config.Firebase.AdminTopic
	}

	return &notificationFeedService{
		mode:         cfg.Mode,
		fetchLimit:   cfg.FetchLimit,
		displayLimit: cfg.DisplayLimit,
		orderRepo:    params.OrderRepo,
		contactRepo:  params.ContactRepo,
		subscriber:   params.Subscriber,
		notifier:     params.Notifier,
		pushTopic:    pushTopic,
		logger:       params.Logger,
	}
}

// start seeds the in-memory feed with unseen rows and subscribes to new inserts.
func (s *notificationFeedService) start(ctx context.Context) {
	seed, err := s.fetchUnseen(ctx)
	if err != nil {
		s.logger.Warn("Could not seed notification feed", slog.Any("error", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.notices = seed
	for _, table := range entity.WatchedTables() {
		s.unsubscribes = append(s.unsubscribes, s.subscriber.SubscribeToInserts(table, s.onInsert))
	}

	s.logger.Info("Notification feed subscribed", slog.Int("notices", len(seed)))
}

func (s *notificationFeedService) stop() {
	s.mu.Lock()
	unsubscribes := s.unsubscribes
	s.unsubscribes = nil
	s.mu.Unlock()

	for _, unsubscribe := range unsubscribes {
		unsubscribe()
	}

	s.pushes.Wait()
}

// onInsert runs on the publisher's goroutine, so the push is sent in the background.
func (s *notificationFeedService) onInsert(ctx context.Context, event *service.InsertEvent) {
	noticeType, ok := entity.NoticeTypeForTable(event.Table)
	if !ok {
		return
	}

	id, err := uuid.Parse(event.RecordID)
	if err != nil {
		s.logger.Warn("Ignoring insert event with invalid record id", slog.String("record_id", event.RecordID))

		return
	}

	notice := &entity.Notice{
		Type:      noticeType,
		ID:        id,
		Message:   event.Message,
		CreatedAt: event.OccurredAt,
	}

	if !s.add(notice) {
		return
	}

	if s.pushTopic == "" {
		return
	}

	s.pushes.Add(1)
	go func() {
		defer s.pushes.Done()

		pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lifecycle.DefaultTimeout)
		defer cancel()

		if err := s.notifier.SendTopicNotification(pushCtx, s.pushTopic, noticeType.Title(), notice.Message, map[string]string{
			"type": string(noticeType),
			"id":   id.String(),
		}); err != nil {
			s.logger.Warn("Admin push failed", slog.String("notice", notice.Key()), slog.Any("error", err))
		}
	}()
}

// add prepends notice unless it is already listed and reports whether it was new.
func (s *notificationFeedService) add(notice *entity.Notice) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.ContainsFunc(s.notices, func(n *entity.Notice) bool { return n.Key() == notice.Key() }) {
		return false
	}

	s.notices = append([]*entity.Notice{notice}, s.notices...)
	if len(s.notices) > s.displayLimit {
		s.notices = s.notices[:s.displayLimit]
	}

	return true
}

func (s *notificationFeedService) List(ctx context.Context) ([]*entity.Notice, error) {
	if s.mode == constants.NotificationModeSubscribe {
		s.mu.Lock()
		defer s.mu.Unlock()

		return slices.Clone(s.notices), nil
	}

	return s.fetchUnseen(ctx)
}

func (s *notificationFeedService) Dismiss(ctx context.Context, noticeType entity.NoticeType, id uuid.UUID) error {
	var err error
	switch noticeType {
	case entity.NoticeTypeOrder:
		err = s.orderRepo.MarkSeen(ctx, id)
	case entity.NoticeTypeContact:
		err = s.contactRepo.MarkSeen(ctx, id)
	default:
		return domainerrors.ErrValidationFailed.WithDetails("unknown notice type " + string(noticeType))
	}

	// A row deleted since it was listed only needs to leave the feed.
	if err != nil && !isMissingRow(err) {
		return errors.Wrapf(err, "failed to mark %s %s seen", noticeType, id)
	}

	key := (&entity.Notice{Type: noticeType, ID: id}).Key()

	s.mu.Lock()
	s.notices = slices.DeleteFunc(s.notices, func(n *entity.Notice) bool { return n.Key() == key })
	s.mu.Unlock()

	return nil
}

func (s *notificationFeedService) ClearAll(ctx context.Context) error {
	if err := s.orderRepo.MarkAllSeen(ctx); err != nil {
		return errors.Wrap(err, "failed to mark orders seen")
	}
	if err := s.contactRepo.MarkAllSeen(ctx); err != nil {
		return errors.Wrap(err, "failed to mark contact messages seen")
	}

	s.mu.Lock()
	s.notices = nil
	s.mu.Unlock()

	return nil
}

// fetchUnseen reads the newest unseen rows of both tables, merged newest first and capped.
func (s *notificationFeedService) fetchUnseen(ctx context.Context) ([]*entity.Notice, error) {
	orders, err := s.orderRepo.FindUnseen(ctx, s.fetchLimit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch unseen orders")
	}

	messages, err := s.contactRepo.FindUnseen(ctx, s.fetchLimit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch unseen contact messages")
	}

	notices := make([]*entity.Notice, 0, len(orders)+len(messages))
	for _, order := range orders {
		notices = append(notices, entity.NewOrderNotice(order))
	}
	for _, msg := range messages {
		notices = append(notices, entity.NewContactNotice(msg))
	}

	return mergeNotices(notices, s.displayLimit), nil
}

// mergeNotices sorts newest first, drops repeated (type, id) pairs and keeps at most limit entries.
func mergeNotices(notices []*entity.Notice, limit int) []*entity.Notice {
	slices.SortStableFunc(notices, func(a, b *entity.Notice) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	seen := make(map[string]struct{}, len(notices))
	merged := make([]*entity.Notice, 0, min(len(notices), limit))
	for _, notice := range notices {
		if _, dup := seen[notice.Key()]; dup {
			continue
		}
		seen[notice.Key()] = struct{}{}

		merged = append(merged, notice)
		if len(merged) == limit {
			break
		}
	}

	return merged
}

func isMissingRow(err error) bool {
	return errors.Is(err, repository.ErrOrderNotFound) || errors.Is(err, repository.ErrContactMessageNotFound)
}
