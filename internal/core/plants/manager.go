package plants

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Manager exposes the plant lifecycle entry points: creation from a serial number and
// refresh against the monitoring source.
type Manager struct {
	store          Store
	api            MonitoringAPI
	resolver       *Resolver
	reconciler     *Reconciler
	events         EventPublisher
	publishTimeout time.Duration

	mu   sync.Mutex
	busy map[string]struct{}
	// create admits one plant creation at a time, from duplicate check to insert.
	create chan struct{}

	lg zerolog.Logger
}

type Option func(*Manager)

// WithEvents publishes workflow events through p.
func WithEvents(p EventPublisher, timeout time.Duration) Option {
	return func(m *Manager) {
		m.events = p
		m.publishTimeout = timeout
	}
}

func New(store Store, api MonitoringAPI, validator *SerialValidator, lg zerolog.Logger, opts ...Option) *Manager {
	m := &Manager{
		store:          store,
		api:            api,
		resolver:       NewResolver(store, api, validator, lg),
		reconciler:     NewReconciler(store, lg),
		events:         NopPublisher{},
		publishTimeout: 5 * time.Second,
		busy:           make(map[string]struct{}),
		create:         make(chan struct{}, 1),
		lg:             lg.With().Str("component", "manager").Logger(),
	}
	m.resolver.lockPlant = m.acquire
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreatePlant resolves serial into a new plant and stores it.
func (m *Manager) CreatePlant(ctx context.Context, serial string, dialog DialogHost) (*Plant, error) {
	release, err := m.acquire("serial:" + serial)
	if err != nil {
		return nil, err
	}
	defer release()

	select {
	case m.create <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-m.create }()

	dialog.Freeze(processingMsg)
	defer dialog.Unfreeze()

	p := NewPlant()
	res, err := m.resolver.ResolveAndAssign(ctx, serial, p, dialog)
	if err != nil {
		return nil, err
	}
	if err := m.store.InsertPlant(ctx, p); err != nil {
		return nil, external("insert plant", err)
	}

	m.publish(ctx, Event{Type: EventPlantCreated, Plant: p.Name, PlantID: p.PlantID, Evicted: res.Evicted})
	for _, name := range res.Evicted {
		m.publish(ctx, Event{Type: EventEquipmentMoved, Plant: name})
	}
	return p, nil
}

// Refresh pulls the live snapshot for an existing plant and reconciles against it.
func (m *Manager) Refresh(ctx context.Context, name string, dialog DialogHost) (ChangeSummary, error) {
	release, err := m.acquire(name)
	if err != nil {
		return ChangeSummary{}, err
	}
	defer release()

	dialog.Freeze(processingMsg)
	defer dialog.Unfreeze()

	p, err := m.getPlant(ctx, name)
	if err != nil {
		return ChangeSummary{}, err
	}

	snapshot, err := m.api.ActiveEquipment(ctx, p.PlantID, p.AccountName)
	if err != nil {
		m.lg.Warn().Err(err).Str("plant", name).Msg("fetch active equipment")
		dialog.Msgprint("Error fetching active equipment")
		snapshot = nil
	}

	sum, err := m.reconciler.Reconcile(ctx, p, snapshot)
	if err != nil {
		dialog.Msgprint("Error merging equipment data: " + err.Error())
		return sum, err
	}
	dialog.Msgprint(sum.String())

	if !sum.IsZero() {
		m.publish(ctx, Event{Type: EventPlantReconciled, Plant: p.Name, PlantID: p.PlantID, Summary: &sum})
	}
	return sum, nil
}

func (m *Manager) GetPlant(ctx context.Context, name string) (*Plant, error) {
	return m.getPlant(ctx, name)
}

func (m *Manager) ListPlants(ctx context.Context) ([]Plant, error) {
	out, err := m.store.ListPlants(ctx)
	if err != nil {
		return nil, external("list plants", err)
	}
	return out, nil
}

func (m *Manager) getPlant(ctx context.Context, name string) (*Plant, error) {
	p, err := m.store.GetPlant(ctx, name)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, external("get plant "+name, err)
	}
	return p, err
}

// acquire takes the exclusive busy slot for key.
func (m *Manager) acquire(key string) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, held := m.busy[key]; held {
		return nil, fmt.Errorf("%w: %s", ErrBusy, key)
	}
	m.busy[key] = struct{}{}
	return func() {
		m.mu.Lock()
		delete(m.busy, key)
		m.mu.Unlock()
	}, nil
}

// publish is best effort: the stored state is already committed.
func (m *Manager) publish(ctx context.Context, ev Event) {
	ev.ID = uuid.NewString()
	ev.At = time.Now().UTC()

	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.publishTimeout)
	defer cancel()
	if err := m.events.Publish(pctx, ev); err != nil {
		m.lg.Warn().Err(err).Str("type", ev.Type).Str("plant", ev.Plant).Msg("publish event")
	}
}
