package plants

import (
	"context"
	"time"
)

//go:generate mockgen -destination=mock_plants.go -package=plants plant-sync/internal/core/plants MonitoringAPI

// Store is the record store holding plants, their child tables and the serial registry.
type Store interface {
	GetPlant(ctx context.Context, name string) (*Plant, error)
	ListPlants(ctx context.Context) ([]Plant, error)
	// FindPlantsByPlantID returns the plants carrying the external plant id, without child rows.
	FindPlantsByPlantID(ctx context.Context, plantID string) ([]Plant, error)
	InsertPlant(ctx context.Context, p *Plant) error
	// SavePlant persists the plant and replaces both child tables in one transaction.
	SavePlant(ctx context.Context, p *Plant) error
	// UpdatePlantEquipment replaces both child tables of an existing plant.
	UpdatePlantEquipment(ctx context.Context, name string, active []ActiveEquipment, history []HistoryEquipment) error

	// SerialItemCode returns the item code registered for serial, or "" when uncatalogued.
	SerialItemCode(ctx context.Context, serial string) (string, error)
	InsertSerialNo(ctx context.Context, sn *SerialNo) error
	ItemsByName(ctx context.Context, name string) ([]Item, error)

	// ActiveSerialOwners joins active-equipment rows matching serial onto their parent plants
	// and returns the plant names.
	ActiveSerialOwners(ctx context.Context, serial string) ([]string, error)
}

// MonitoringAPI is the external monitoring source.
type MonitoringAPI interface {
	DevicesBySerial(ctx context.Context, serial string) ([]Device, error)
	PlantInfo(ctx context.Context, serial string) (PlantInfo, error)
	ActiveEquipment(ctx context.Context, plantID, accountName string) ([]SnapshotEntry, error)
}

// DialogHost is the user-facing side of an operation.
type DialogHost interface {
	Freeze(msg string)
	Unfreeze()
	Msgprint(msg string)
	// ConfirmRedirect asks whether to go to the existing plant; false means cancel.
	ConfirmRedirect(ctx context.Context, existing string) (bool, error)
	// PickMPPT asks which MPPT count the device has; "" means no choice was made.
	PickMPPT(ctx context.Context, device Device, options []string) (string, error)
	Redirect(plantName string)
}

// Event is published after a workflow changed stored plants.
type Event struct {
	ID      string         `json:"id"`
	Type    string         `json:"type"`
	Plant   string         `json:"plant"`
	PlantID string         `json:"plant_id,omitempty"`
	Summary *ChangeSummary `json:"summary,omitempty"`
	Evicted []string       `json:"evicted,omitempty"`
	At      time.Time      `json:"at"`
}

const (
	EventPlantCreated    = "plant.created"
	EventPlantReconciled = "plant.reconciled"
	EventEquipmentMoved  = "plant.equipment_evicted"
)

type EventPublisher interface {
	Publish(ctx context.Context, ev Event) error
}

// NopPublisher drops events.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
