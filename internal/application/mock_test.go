//go:build !integration

package application_test

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"telegram-order-notifier/internal/application"
	"telegram-order-notifier/internal/domain"
	"telegram-order-notifier/internal/domain/model"
	"telegram-order-notifier/internal/domain/ports/adapter"
	"telegram-order-notifier/internal/infra/i18n"
	"telegram-order-notifier/internal/usecase"
)

type sentMessage struct {
	ChatID int64
	Text   string
	Opts   *adapter.SendOptions
}

type memMessenger struct {
	mu   sync.Mutex
	Sent []sentMessage
}

var _ adapter.MessengerAdapter = (*memMessenger)(nil)

func (m *memMessenger) SendMessage(ctx context.Context, chatID int64, text string, opts *adapter.SendOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, sentMessage{ChatID: chatID, Text: text, Opts: opts})
	return nil
}

func (m *memMessenger) SendLocation(ctx context.Context, chatID int64, lat, lon float64) error {
	return nil
}

func (m *memMessenger) SendVideo(ctx context.Context, chatID int64, videoURL, caption string) error {
	return nil
}

func (m *memMessenger) texts(chatID int64) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, s := range m.Sent {
		if s.ChatID == chatID {
			out = append(out, s.Text)
		}
	}
	return out
}

type memSubscriberRepo struct {
	mu   sync.Mutex
	byPh map[string]*model.Subscriber
}

func newMemSubscriberRepo() *memSubscriberRepo {
	return &memSubscriberRepo{byPh: map[string]*model.Subscriber{}}
}

func (m *memSubscriberRepo) Upsert(ctx context.Context, sub *model.Subscriber) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sub
	m.byPh[sub.Phone] = &cp
	return nil
}

func (m *memSubscriberRepo) FindByPhone(ctx context.Context, phone string) (*model.Subscriber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sub, ok := m.byPh[phone]; ok {
		cp := *sub
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memSubscriberRepo) FindByChatID(ctx context.Context, chatID int64) (*model.Subscriber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sub := range m.byPh {
		if sub.ChatID == chatID {
			cp := *sub
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memSubscriberRepo) ListAll(ctx context.Context) ([]*model.Subscriber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Subscriber, 0, len(m.byPh))
	for _, sub := range m.byPh {
		cp := *sub
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memSubscriberRepo) CountAll(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byPh), nil
}

type memFeedbackRepo struct {
	mu     sync.Mutex
	nextID int64
	tasks  []*model.FeedbackTask
}

func (m *memFeedbackRepo) Create(ctx context.Context, task *model.FeedbackTask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	task.ID = m.nextID
	cp := *task
	m.tasks = append(m.tasks, &cp)
	return nil
}

func (m *memFeedbackRepo) DueTasks(ctx context.Context, now time.Time) ([]*model.FeedbackTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.FeedbackTask
	for _, task := range m.tasks {
		if (task.Status == model.FeedbackPending || task.Status == model.FeedbackAskingPickup) &&
			!task.ScheduledFor.After(now) {
			cp := *task
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memFeedbackRepo) LatestForChat(ctx context.Context, chatID int64, statuses []model.FeedbackStatus) (*model.FeedbackTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.tasks) - 1; i >= 0; i-- {
		task := m.tasks[i]
		if task.ChatID != chatID {
			continue
		}
		for _, st := range statuses {
			if task.Status == st {
				cp := *task
				return &cp, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memFeedbackRepo) Update(ctx context.Context, task *model.FeedbackTask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.tasks {
		if existing.ID == task.ID {
			cp := *task
			m.tasks[i] = &cp
			return nil
		}
	}
	return domain.ErrNotFound
}

type memChatState struct {
	mu    sync.Mutex
	armed map[int64]bool
}

func newMemChatState() *memChatState { return &memChatState{armed: map[int64]bool{}} }

func (m *memChatState) ArmEstimate(ctx context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.armed[chatID] = true
	return nil
}

func (m *memChatState) EstimateArmed(ctx context.Context, chatID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.armed[chatID], nil
}

func (m *memChatState) Disarm(ctx context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.armed, chatID)
	return nil
}

type fixedEstimator struct{}

func (fixedEstimator) EstimateTask(ctx context.Context, description string) (adapter.TaskEstimate, error) {
	return adapter.TaskEstimate{Summary: "Ремонт", Minutes: 60}, nil
}

// fixture is a fully wired facade over in-memory infrastructure.
type fixture struct {
	facade *application.BotFacade
	bot    *memMessenger
	subs   *memSubscriberRepo
	state  *memChatState
	tr     *i18n.Translator
}

const (
	adminChat = int64(7)
	mapsURL   = "https://maps.google.com/?cid=42"
)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := zerolog.New(io.Discard)
	tr, err := i18n.NewTranslator(i18n.LocalesFS, "uk")
	if err != nil {
		t.Fatalf("load locale: %v", err)
	}

	bot := &memMessenger{}
	subs := newMemSubscriberRepo()
	tasks := &memFeedbackRepo{}
	state := newMemChatState()
	menus := usecase.NewMenus(tr)
	admins := model.NewAdminSet([]int64{adminChat})
	loc := model.LocationInfo{
		Latitude: 50.45, Longitude: 30.52,
		ScheduleText: "Пн-Пт 10:00-19:00",
		ContactPhone: "+380441234567",
		MapsURL:      mapsURL,
	}

	onboarding := usecase.NewOnboardingUseCase(subs, bot, menus, tr, admins, "https://instagram.com/atelier", &logger)
	location := usecase.NewLocationUseCase(bot, tr, loc, &logger)
	feedback := usecase.NewFeedbackUseCase(tasks, bot, menus, tr, admins, mapsURL, usecase.FeedbackSettings{}, &logger)
	broadcast := usecase.NewBroadcastUseCase(subs, bot, &logger)
	stats := usecase.NewStatsUseCase(subs, &logger)
	estimate := usecase.NewEstimateUseCase(state, subs, fixedEstimator{}, model.DefaultPricingModel(), bot, menus, tr, admins, &logger)

	facade := application.NewBotFacade(application.FacadeDeps{
		Onboarding:      onboarding,
		Location:        location,
		Estimate:        estimate,
		Feedback:        feedback,
		Broadcast:       broadcast,
		Stats:           stats,
		Bot:             bot,
		Menus:           menus,
		Tr:              tr,
		Admins:          admins,
		SupportUsername: "@SupportHero",
		InstagramURL:    "https://instagram.com/atelier",
		ContactPhone:    loc.ContactPhone,
		ScheduleText:    loc.ScheduleText,
		Log:             &logger,
	})

	return &fixture{facade: facade, bot: bot, subs: subs, state: state, tr: tr}
}

func (f *fixture) register(t *testing.T, chatID int64, phone string) {
	t.Helper()
	sub, err := model.NewSubscriber(phone, chatID, "Client")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := f.subs.Upsert(context.Background(), sub); err != nil {
		t.Fatalf("register: %v", err)
	}
}
