//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"telegram-order-notifier/internal/domain"
	"telegram-order-notifier/internal/domain/model"
	"telegram-order-notifier/internal/domain/ports/adapter"
	"telegram-order-notifier/internal/infra/i18n"
	"telegram-order-notifier/internal/usecase"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

func newTestTranslator(t *testing.T) *i18n.Translator {
	t.Helper()
	tr, err := i18n.NewTranslator(i18n.LocalesFS, "uk")
	if err != nil {
		t.Fatalf("load locale: %v", err)
	}
	return tr
}

func newTestMenus(t *testing.T) *usecase.Menus {
	t.Helper()
	return usecase.NewMenus(newTestTranslator(t))
}

// =============================
// Mock MessengerAdapter
// =============================

type sentMessage struct {
	ChatID int64
	Text   string
	Opts   *adapter.SendOptions
}

type MockMessenger struct {
	mu        sync.Mutex
	Sent      []sentMessage
	Locations []int64
	Videos    []int64

	SendMessageFunc func(ctx context.Context, chatID int64, text string, opts *adapter.SendOptions) error
}

var _ adapter.MessengerAdapter = (*MockMessenger)(nil)

func (m *MockMessenger) SendMessage(ctx context.Context, chatID int64, text string, opts *adapter.SendOptions) error {
	if m.SendMessageFunc != nil {
		if err := m.SendMessageFunc(ctx, chatID, text, opts); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, sentMessage{ChatID: chatID, Text: text, Opts: opts})
	return nil
}

func (m *MockMessenger) SendLocation(ctx context.Context, chatID int64, lat, lon float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Locations = append(m.Locations, chatID)
	return nil
}

func (m *MockMessenger) SendVideo(ctx context.Context, chatID int64, videoURL, caption string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Videos = append(m.Videos, chatID)
	return nil
}

func (m *MockMessenger) SentTo(chatID int64) []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sentMessage
	for _, s := range m.Sent {
		if s.ChatID == chatID {
			out = append(out, s)
		}
	}
	return out
}

// =============================
// Mock SubscriberRepository
// =============================

type MockSubscriberRepo struct {
	mu   sync.Mutex
	byPh map[string]*model.Subscriber

	UpsertFunc     func(ctx context.Context, sub *model.Subscriber) error
	FindByPhoneFn  func(ctx context.Context, phone string) (*model.Subscriber, error)
	FindByChatIDFn func(ctx context.Context, chatID int64) (*model.Subscriber, error)
	ListAllFunc    func(ctx context.Context) ([]*model.Subscriber, error)
}

func NewMockSubscriberRepo() *MockSubscriberRepo {
	return &MockSubscriberRepo{byPh: map[string]*model.Subscriber{}}
}

func (m *MockSubscriberRepo) Upsert(ctx context.Context, sub *model.Subscriber) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, sub)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sub
	m.byPh[sub.Phone] = &cp
	return nil
}

func (m *MockSubscriberRepo) FindByPhone(ctx context.Context, phone string) (*model.Subscriber, error) {
	if m.FindByPhoneFn != nil {
		return m.FindByPhoneFn(ctx, phone)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if sub, ok := m.byPh[phone]; ok {
		cp := *sub
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (m *MockSubscriberRepo) FindByChatID(ctx context.Context, chatID int64) (*model.Subscriber, error) {
	if m.FindByChatIDFn != nil {
		return m.FindByChatIDFn(ctx, chatID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var newest *model.Subscriber
	for _, sub := range m.byPh {
		if sub.ChatID != chatID {
			continue
		}
		if newest == nil || sub.RegisteredAt.After(newest.RegisteredAt) {
			newest = sub
		}
	}
	if newest == nil {
		return nil, domain.ErrNotFound
	}
	cp := *newest
	return &cp, nil
}

func (m *MockSubscriberRepo) ListAll(ctx context.Context) ([]*model.Subscriber, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Subscriber, 0, len(m.byPh))
	for _, sub := range m.byPh {
		cp := *sub
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Phone < out[j].Phone })
	return out, nil
}

func (m *MockSubscriberRepo) CountAll(ctx context.Context) (int, error) {
	subs, err := m.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	return len(subs), nil
}

// =============================
// Mock FeedbackTaskRepository
// =============================

type MockFeedbackRepo struct {
	mu     sync.Mutex
	nextID int64
	tasks  []*model.FeedbackTask
}

func NewMockFeedbackRepo() *MockFeedbackRepo {
	return &MockFeedbackRepo{nextID: 1}
}

func (m *MockFeedbackRepo) Create(ctx context.Context, task *model.FeedbackTask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	task.ID = m.nextID
	m.nextID++
	cp := *task
	m.tasks = append(m.tasks, &cp)
	return nil
}

func (m *MockFeedbackRepo) DueTasks(ctx context.Context, now time.Time) ([]*model.FeedbackTask, error) {
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

func (m *MockFeedbackRepo) LatestForChat(ctx context.Context, chatID int64, statuses []model.FeedbackStatus) (*model.FeedbackTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *model.FeedbackTask
	for _, task := range m.tasks {
		if task.ChatID != chatID {
			continue
		}
		match := false
		for _, st := range statuses {
			if task.Status == st {
				match = true
				break
			}
		}
		if !match {
			continue
		}
		if latest == nil || task.CreatedAt.After(latest.CreatedAt) {
			latest = task
		}
	}
	if latest == nil {
		return nil, domain.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (m *MockFeedbackRepo) Update(ctx context.Context, task *model.FeedbackTask) error {
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

func (m *MockFeedbackRepo) Get(id int64) *model.FeedbackTask {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, task := range m.tasks {
		if task.ID == id {
			cp := *task
			return &cp
		}
	}
	return nil
}

// =============================
// Mock ChatStateRepository
// =============================

type MockChatState struct {
	mu    sync.Mutex
	armed map[int64]bool

	ArmFunc func(ctx context.Context, chatID int64) error
}

func NewMockChatState() *MockChatState {
	return &MockChatState{armed: map[int64]bool{}}
}

func (m *MockChatState) ArmEstimate(ctx context.Context, chatID int64) error {
	if m.ArmFunc != nil {
		return m.ArmFunc(ctx, chatID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.armed[chatID] = true
	return nil
}

func (m *MockChatState) EstimateArmed(ctx context.Context, chatID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.armed[chatID], nil
}

func (m *MockChatState) Disarm(ctx context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.armed, chatID)
	return nil
}

// =============================
// Mock EstimateAdapter
// =============================

type MockEstimator struct {
	EstimateFunc func(ctx context.Context, description string) (adapter.TaskEstimate, error)
}

func (m *MockEstimator) EstimateTask(ctx context.Context, description string) (adapter.TaskEstimate, error) {
	if m.EstimateFunc != nil {
		return m.EstimateFunc(ctx, description)
	}
	return adapter.TaskEstimate{Summary: "Вкоротити штани", Minutes: 30}, nil
}
