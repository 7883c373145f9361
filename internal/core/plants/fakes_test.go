package plants

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

type memStore struct {
	mu      sync.Mutex
	plants  map[string]*Plant
	serials map[string]string
	items   []Item

	// owners overrides the active-equipment join when set
	owners map[string][]string

	saves   int
	updates []string

	failGet          error
	failUpdate       error
	failInsertSerial error
	failItemCode     error
	failSave         error
}

func newMemStore() *memStore {
	return &memStore{
		plants:  make(map[string]*Plant),
		serials: make(map[string]string),
	}
}

func clonePlant(p *Plant) *Plant {
	c := *p
	c.Active = append([]ActiveEquipment(nil), p.Active...)
	c.History = append([]HistoryEquipment(nil), p.History...)
	return &c
}

func (s *memStore) put(p *Plant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plants[p.Name] = clonePlant(p)
}

func (s *memStore) plant(name string) *Plant {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.plants[name]
	if !ok {
		return nil
	}
	return clonePlant(p)
}

func (s *memStore) GetPlant(_ context.Context, name string) (*Plant, error) {
	if s.failGet != nil {
		return nil, s.failGet
	}
	if p := s.plant(name); p != nil {
		return p, nil
	}
	return nil, fmt.Errorf("%w: plant %s", ErrNotFound, name)
}

func (s *memStore) ListPlants(_ context.Context) ([]Plant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Plant, 0, len(s.plants))
	for _, p := range s.plants {
		out = append(out, *clonePlant(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memStore) FindPlantsByPlantID(_ context.Context, plantID string) ([]Plant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Plant
	for _, p := range s.plants {
		if p.PlantID == plantID {
			out = append(out, Plant{Name: p.Name, PlantID: p.PlantID})
		}
	}
	return out, nil
}

func (s *memStore) InsertPlant(_ context.Context, p *Plant) error {
	s.put(p)
	return nil
}

func (s *memStore) SavePlant(_ context.Context, p *Plant) error {
	if s.failSave != nil {
		return s.failSave
	}
	s.put(p)
	s.mu.Lock()
	s.saves++
	s.mu.Unlock()
	return nil
}

func (s *memStore) UpdatePlantEquipment(_ context.Context, name string, active []ActiveEquipment, history []HistoryEquipment) error {
	if s.failUpdate != nil {
		return s.failUpdate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.plants[name]
	if !ok {
		return fmt.Errorf("%w: plant %s", ErrNotFound, name)
	}
	p.Active = append([]ActiveEquipment(nil), active...)
	p.History = append([]HistoryEquipment(nil), history...)
	s.updates = append(s.updates, name)
	return nil
}

func (s *memStore) SerialItemCode(_ context.Context, serial string) (string, error) {
	if s.failItemCode != nil {
		return "", s.failItemCode
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.serials[serial], nil
}

func (s *memStore) InsertSerialNo(_ context.Context, sn *SerialNo) error {
	if s.failInsertSerial != nil {
		return s.failInsertSerial
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serials[sn.SerialNo] = sn.ItemCode
	return nil
}

func (s *memStore) ItemsByName(_ context.Context, name string) ([]Item, error) {
	var out []Item
	for _, it := range s.items {
		if it.ItemName == name {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *memStore) ActiveSerialOwners(_ context.Context, serial string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.owners != nil {
		return s.owners[serial], nil
	}
	var out []string
	for _, p := range s.plants {
		if p.HasActive(serial) {
			out = append(out, p.Name)
		}
	}
	sort.Strings(out)
	return out, nil
}

type fakeDialog struct {
	mu sync.Mutex

	redirect   bool
	confirmErr error
	mppt       string

	confirmed    []string
	picked       [][]string
	messages     []string
	redirectedTo string
	freezes      int
	unfreezes    int
}

func (d *fakeDialog) Freeze(string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.freezes++
}

func (d *fakeDialog) Unfreeze() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.unfreezes++
}

func (d *fakeDialog) Msgprint(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.messages = append(d.messages, msg)
}

func (d *fakeDialog) ConfirmRedirect(_ context.Context, existing string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.confirmed = append(d.confirmed, existing)
	return d.redirect, d.confirmErr
}

func (d *fakeDialog) PickMPPT(_ context.Context, _ Device, options []string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.picked = append(d.picked, options)
	return d.mppt, nil
}

func (d *fakeDialog) Redirect(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.redirectedTo = name
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

func mustValidator(t *testing.T) *SerialValidator {
	t.Helper()
	v, err := NewSerialValidator("")
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func nopLogger() zerolog.Logger { return zerolog.Nop() }

// plantWith builds a stored-looking plant with row ids assigned.
func plantWith(name, plantID string, active []ActiveEquipment, history []HistoryEquipment) *Plant {
	p := &Plant{Name: name, PlantID: plantID, AccountName: "acct-" + plantID, PlantName: "Plant " + plantID}
	p.AddActive(active...)
	p.AddHistory(history...)
	return p
}

func activeSerials(p *Plant) []string {
	out := make([]string, 0, len(p.Active))
	for _, r := range p.Active {
		out = append(out, r.SerialNumber)
	}
	return out
}

func historySerials(p *Plant) []string {
	out := make([]string, 0, len(p.History))
	for _, r := range p.History {
		out = append(out, r.SerialNumber)
	}
	return out
}
