package commands_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/manifest"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/verification"
	"fulfillment/internal/core/domain/model/webhook"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}
func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}
func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}
func (m *MockOrderRepository) GetBySource(ctx context.Context, channel, sourceNumber string) (*order.Order, error) {
	args := m.Called(ctx, channel, sourceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}
func (m *MockOrderRepository) FindByScanCode(
	ctx context.Context, code string, scanContext order.ScanContext,
) (*order.Order, error) {
	args := m.Called(ctx, code, scanContext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}
func (m *MockOrderRepository) GetAllInStatus(_ context.Context, _ order.Status) ([]*order.Order, error) {
	return nil, errors.New("not implemented in mock")
}

type MockVerificationRepository struct{ mock.Mock }

func (m *MockVerificationRepository) Add(ctx context.Context, a *verification.Attempt) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}
func (m *MockVerificationRepository) Update(ctx context.Context, a *verification.Attempt) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}
func (m *MockVerificationRepository) Get(ctx context.Context, id kernel.UUID) (*verification.Attempt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*verification.Attempt), args.Error(1)
}
func (m *MockVerificationRepository) GetOpenByOrder(ctx context.Context, orderID kernel.UUID) (*verification.Attempt, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*verification.Attempt), args.Error(1)
}
func (m *MockVerificationRepository) GetAllDue(ctx context.Context, now time.Time) ([]*verification.Attempt, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*verification.Attempt), args.Error(1)
}
func (m *MockVerificationRepository) GetAllAwaitingConfirmation(ctx context.Context) ([]*verification.Attempt, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*verification.Attempt), args.Error(1)
}

type MockWebhookRepository struct{ mock.Mock }

func (m *MockWebhookRepository) AddSubscription(_ context.Context, _ *webhook.Subscription) error {
	return errors.New("not implemented in mock")
}
func (m *MockWebhookRepository) UpdateSubscription(_ context.Context, _ *webhook.Subscription) error {
	return errors.New("not implemented in mock")
}
func (m *MockWebhookRepository) GetSubscription(_ context.Context, _ kernel.UUID) (*webhook.Subscription, error) {
	return nil, errors.New("not implemented in mock")
}
func (m *MockWebhookRepository) GetActiveSubscriptions(ctx context.Context) ([]*webhook.Subscription, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*webhook.Subscription), args.Error(1)
}
func (m *MockWebhookRepository) AddDeliveryRecords(ctx context.Context, records []*webhook.DeliveryRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}
func (m *MockWebhookRepository) UpdateDeliveryRecord(ctx context.Context, record *webhook.DeliveryRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}
func (m *MockWebhookRepository) GetDeliveryRecord(ctx context.Context, id kernel.UUID) (*webhook.DeliveryRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*webhook.DeliveryRecord), args.Error(1)
}
func (m *MockWebhookRepository) GetAllDueDeliveries(ctx context.Context, now time.Time) ([]*webhook.DeliveryRecord, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*webhook.DeliveryRecord), args.Error(1)
}
func (m *MockWebhookRepository) GetAllFailedDeliveries(_ context.Context) ([]*webhook.DeliveryRecord, error) {
	return nil, errors.New("not implemented in mock")
}

type MockEventRepository struct{ mock.Mock }

func (m *MockEventRepository) Add(ctx context.Context, events []*event.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}
func (m *MockEventRepository) Get(_ context.Context, _ kernel.UUID) (*event.DomainEvent, error) {
	return nil, errors.New("not implemented in mock")
}
func (m *MockEventRepository) GetAllByEntity(_ context.Context, _ kernel.UUID) ([]*event.DomainEvent, error) {
	return nil, errors.New("not implemented in mock")
}

type MockManifestRepository struct{ mock.Mock }

func (m *MockManifestRepository) AddManifest(ctx context.Context, a *manifest.Manifest) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}
func (m *MockManifestRepository) UpdateManifest(ctx context.Context, a *manifest.Manifest) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}
func (m *MockManifestRepository) GetManifest(ctx context.Context, id kernel.UUID) (*manifest.Manifest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*manifest.Manifest), args.Error(1)
}
func (m *MockManifestRepository) AddRoute(ctx context.Context, a *manifest.Route) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}
func (m *MockManifestRepository) UpdateRoute(_ context.Context, _ *manifest.Route) error {
	return errors.New("not implemented in mock")
}
func (m *MockManifestRepository) GetRoute(_ context.Context, _ kernel.UUID) (*manifest.Route, error) {
	return nil, errors.New("not implemented in mock")
}

// MockUoW satisfies every narrow unit of work interface the handlers use.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}
func (m *MockUoW) VerificationRepository() ports.VerificationRepository {
	args := m.Called()
	return args.Get(0).(ports.VerificationRepository)
}
func (m *MockUoW) WebhookRepository() ports.WebhookRepository {
	args := m.Called()
	return args.Get(0).(ports.WebhookRepository)
}
func (m *MockUoW) EventRepository() ports.EventRepository {
	args := m.Called()
	return args.Get(0).(ports.EventRepository)
}
func (m *MockUoW) ManifestRepository() ports.ManifestRepository {
	args := m.Called()
	return args.Get(0).(ports.ManifestRepository)
}

type MockVerificationUoWFactory struct{ mock.Mock }

func (m *MockVerificationUoWFactory) Create() commands.VerificationUoW {
	args := m.Called()
	return args.Get(0).(commands.VerificationUoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockManifestUoWFactory struct{ mock.Mock }

func (m *MockManifestUoWFactory) Create() commands.ManifestUoW {
	args := m.Called()
	return args.Get(0).(commands.ManifestUoW)
}

type MockWebhookUoWFactory struct{ mock.Mock }

func (m *MockWebhookUoWFactory) Create() commands.WebhookUoW {
	args := m.Called()
	return args.Get(0).(commands.WebhookUoW)
}

// FakePublisher records published events without mock bookkeeping.
type FakePublisher struct {
	published []*event.DomainEvent
}

func (p *FakePublisher) Publish(events ...*event.DomainEvent) {
	p.published = append(p.published, events...)
}

type MockRegistryClient struct{ mock.Mock }

func (m *MockRegistryClient) Lookup(ctx context.Context, shortcode kernel.ShortCode) (ports.RegistryLookup, error) {
	args := m.Called(ctx, shortcode)
	return args.Get(0).(ports.RegistryLookup), args.Error(1)
}

type MockConfirmationMessenger struct{ mock.Mock }

func (m *MockConfirmationMessenger) SendAddressConfirmation(
	ctx context.Context, contact string, shortcode kernel.ShortCode, deadline time.Time,
) error {
	args := m.Called(ctx, contact, shortcode, deadline)
	return args.Error(0)
}

// memoryStore backs the concurrency tests: every unit of work created from
// one store reads and writes the same state under its mutex, the way a
// committed transaction becomes visible to the next one.
type memoryStore struct {
	mu        sync.Mutex
	aggregate *order.Order
	attempts  []*verification.Attempt
	events    []*event.DomainEvent
}

func (s *memoryStore) attemptCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.attempts)
}

func (s *memoryStore) eventCount(t event.Type) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, e := range s.events {
		if e.Type() == t {
			count++
		}
	}
	return count
}

type memoryUoW struct{ store *memoryStore }

func (u *memoryUoW) Begin(context.Context) error    { return nil }
func (u *memoryUoW) Commit(context.Context) error   { return nil }
func (u *memoryUoW) Rollback(context.Context) error { return nil }
func (u *memoryUoW) OrderRepository() ports.OrderRepository {
	return &memoryOrderRepository{store: u.store}
}
func (u *memoryUoW) VerificationRepository() ports.VerificationRepository {
	return &memoryVerificationRepository{store: u.store}
}
func (u *memoryUoW) EventRepository() ports.EventRepository {
	return &memoryEventRepository{store: u.store}
}
func (u *memoryUoW) WebhookRepository() ports.WebhookRepository {
	return &memoryWebhookRepository{}
}

type memoryVerificationUoWFactory struct{ store *memoryStore }

func (f memoryVerificationUoWFactory) Create() commands.VerificationUoW {
	return &memoryUoW{store: f.store}
}

type memoryOrderUoWFactory struct{ store *memoryStore }

func (f memoryOrderUoWFactory) Create() commands.OrderUoW {
	return &memoryUoW{store: f.store}
}

type memoryOrderRepository struct{ store *memoryStore }

func (r *memoryOrderRepository) Add(_ context.Context, o *order.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.aggregate = o
	return nil
}
func (r *memoryOrderRepository) Update(_ context.Context, _ *order.Order) error {
	// The store hands out the aggregate itself, so mutations are already visible.
	return nil
}
func (r *memoryOrderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.aggregate == nil || !r.store.aggregate.ID().IsEqual(id) {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return r.store.aggregate, nil
}
func (r *memoryOrderRepository) GetBySource(_ context.Context, channel, sourceNumber string) (*order.Order, error) {
	return nil, errs.NewObjectNotFoundError("order", channel+"/"+sourceNumber)
}
func (r *memoryOrderRepository) FindByScanCode(
	_ context.Context, code string, _ order.ScanContext,
) (*order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.aggregate == nil {
		return nil, errs.NewObjectNotFoundError("order by scan code", code)
	}
	return r.store.aggregate, nil
}
func (r *memoryOrderRepository) GetAllInStatus(_ context.Context, _ order.Status) ([]*order.Order, error) {
	return nil, nil
}

type memoryVerificationRepository struct{ store *memoryStore }

func (r *memoryVerificationRepository) Add(_ context.Context, a *verification.Attempt) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.attempts = append(r.store.attempts, a)
	return nil
}
func (r *memoryVerificationRepository) Update(_ context.Context, _ *verification.Attempt) error {
	return nil
}
func (r *memoryVerificationRepository) Get(_ context.Context, id kernel.UUID) (*verification.Attempt, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, a := range r.store.attempts {
		if a.ID().IsEqual(id) {
			return a, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("verification attempt", id.String())
}
func (r *memoryVerificationRepository) GetOpenByOrder(
	_ context.Context, orderID kernel.UUID,
) (*verification.Attempt, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, a := range r.store.attempts {
		if a.OrderID().IsEqual(orderID) && !a.Outcome().IsTerminal() {
			return a, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("verification attempt", orderID.String())
}
func (r *memoryVerificationRepository) GetAllDue(_ context.Context, _ time.Time) ([]*verification.Attempt, error) {
	return nil, nil
}
func (r *memoryVerificationRepository) GetAllAwaitingConfirmation(_ context.Context) ([]*verification.Attempt, error) {
	return nil, nil
}

type memoryEventRepository struct{ store *memoryStore }

func (r *memoryEventRepository) Add(_ context.Context, events []*event.DomainEvent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.events = append(r.store.events, events...)
	return nil
}
func (r *memoryEventRepository) Get(_ context.Context, _ kernel.UUID) (*event.DomainEvent, error) {
	return nil, errors.New("not implemented in fake")
}
func (r *memoryEventRepository) GetAllByEntity(_ context.Context, _ kernel.UUID) ([]*event.DomainEvent, error) {
	return nil, errors.New("not implemented in fake")
}

type memoryWebhookRepository struct{}

func (r *memoryWebhookRepository) AddSubscription(_ context.Context, _ *webhook.Subscription) error {
	return errors.New("not implemented in fake")
}
func (r *memoryWebhookRepository) UpdateSubscription(_ context.Context, _ *webhook.Subscription) error {
	return errors.New("not implemented in fake")
}
func (r *memoryWebhookRepository) GetSubscription(_ context.Context, _ kernel.UUID) (*webhook.Subscription, error) {
	return nil, errors.New("not implemented in fake")
}
func (r *memoryWebhookRepository) GetActiveSubscriptions(_ context.Context) ([]*webhook.Subscription, error) {
	return nil, nil
}
func (r *memoryWebhookRepository) AddDeliveryRecords(_ context.Context, _ []*webhook.DeliveryRecord) error {
	return nil
}
func (r *memoryWebhookRepository) UpdateDeliveryRecord(_ context.Context, _ *webhook.DeliveryRecord) error {
	return errors.New("not implemented in fake")
}
func (r *memoryWebhookRepository) GetDeliveryRecord(_ context.Context, _ kernel.UUID) (*webhook.DeliveryRecord, error) {
	return nil, errors.New("not implemented in fake")
}
func (r *memoryWebhookRepository) GetAllDueDeliveries(_ context.Context, _ time.Time) ([]*webhook.DeliveryRecord, error) {
	return nil, errors.New("not implemented in fake")
}
func (r *memoryWebhookRepository) GetAllFailedDeliveries(_ context.Context) ([]*webhook.DeliveryRecord, error) {
	return nil, errors.New("not implemented in fake")
}
