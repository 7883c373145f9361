package plants

import (
	"fmt"
	"strings"
	"time"

	"plant-sync/pkg/rand"
)

// Plant represents one physical solar installation.
// It includes GORM tags for database mapping and JSON tags for API responses.
type Plant struct {
	Name        string             `gorm:"primaryKey;size:32" json:"name" example:"PLANT-EDIVRWCLGGPGCW7M"`
	PlantID     string             `gorm:"uniqueIndex;size:64" json:"plant_id" example:"1187562"`
	AccountName string             `gorm:"size:128" json:"account_name" example:"solar.customer"`
	PlantName   string             `gorm:"size:255" json:"plant_name" example:"Casa Praia"`
	Active      []ActiveEquipment  `gorm:"foreignKey:Parent;references:Name;constraint:OnDelete:CASCADE" json:"active_equipment"`
	History     []HistoryEquipment `gorm:"foreignKey:Parent;references:Name;constraint:OnDelete:CASCADE" json:"history_equipment"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// ActiveEquipment is a row of the plant's currently reporting equipment.
type ActiveEquipment struct {
	Name         string `gorm:"primaryKey;size:32" json:"name" example:"NR4MZ2QKX7T3BWAE"`
	Parent       string `gorm:"index;size:32" json:"parent"`
	Idx          int    `json:"idx"`
	SerialNumber string `gorm:"index;size:64" json:"serial_number" example:"QMB2C4R07D"`
	Model        string `gorm:"size:128" json:"model" example:"MIN 5000TL-X"`
	DataloggerSN string `gorm:"size:64" json:"datalogger_sn"`
	Status       string `gorm:"size:32" json:"status" example:"online"`
}

func (ActiveEquipment) TableName() string { return "plant_active_equipments" }

// HistoryEquipment is equipment that was once active on the plant.
// History rows never carry a status.
type HistoryEquipment struct {
	Name         string `gorm:"primaryKey;size:32" json:"name"`
	Parent       string `gorm:"index;size:32" json:"parent"`
	Idx          int    `json:"idx"`
	SerialNumber string `gorm:"index;size:64" json:"serial_number"`
	Model        string `gorm:"size:128" json:"model"`
	DataloggerSN string `gorm:"size:64" json:"datalogger_sn"`
}

func (HistoryEquipment) TableName() string { return "plant_history_equipments" }

// SerialNo is the serial-number registry entry tying a serial to a catalog item.
type SerialNo struct {
	SerialNo  string    `gorm:"primaryKey;size:64" json:"serial_no"`
	ItemCode  string    `gorm:"index;size:128" json:"item_code"`
	CreatedAt time.Time `json:"created_at"`
}

// Item is a catalog entry. Several items may share a name and differ by MPPT count.
type Item struct {
	ItemCode string `gorm:"primaryKey;size:128" json:"item_code" yaml:"item_code"`
	ItemName string `gorm:"index;size:128" json:"item_name" yaml:"item_name"`
	MPPT     string `gorm:"size:16" json:"mppt" yaml:"mppt"`
}

// Device is one device reported by the monitoring source for a serial number.
type Device struct {
	SerialNumber string `json:"serialNumber"`
	DeviceModel  string `json:"deviceModel"`
	Status       string `json:"status"`
	DeviceType   string `json:"deviceType"`
}

// SnapshotEntry is one entry of the live active-equipment snapshot of a plant.
type SnapshotEntry struct {
	SerialNumber string `json:"serialNumber"`
	DeviceModel  string `json:"deviceModel"`
	Status       string `json:"status"`
}

// PlantInfo is the plant metadata the monitoring source holds for a device.
type PlantInfo struct {
	PlantID     string `json:"plantId"`
	AccountName string `json:"accountName"`
	PlantName   string `json:"plantName"`
}

// Empty reports whether the metadata carries no plant identity.
func (i PlantInfo) Empty() bool { return strings.TrimSpace(i.PlantID) == "" }

// ChangeSummary counts what a reconcile run changed.
type ChangeSummary struct {
	Added               int `json:"added"`
	Updated             int `json:"updated"`
	MovedToHistory      int `json:"moved_to_history"`
	RestoredFromHistory int `json:"restored_from_history"`
}

// IsZero reports a run without changes.
func (s ChangeSummary) IsZero() bool { return s == ChangeSummary{} }

func (s ChangeSummary) String() string {
	if s.IsZero() {
		return "No changes detected in equipment"
	}
	var parts []string
	if s.Added > 0 {
		parts = append(parts, fmt.Sprintf("%d new equipment added", s.Added))
	}
	if s.Updated > 0 {
		parts = append(parts, fmt.Sprintf("%d equipment updated", s.Updated))
	}
	if s.MovedToHistory > 0 {
		parts = append(parts, fmt.Sprintf("%d equipment moved to history", s.MovedToHistory))
	}
	if s.RestoredFromHistory > 0 {
		parts = append(parts, fmt.Sprintf("%d equipment restored from history", s.RestoredFromHistory))
	}
	return "Equipment sync completed: " + strings.Join(parts, ", ")
}

// NewPlant returns an unsaved plant with a fresh record name.
func NewPlant() *Plant {
	return &Plant{Name: rand.Name("PLANT")}
}

// AddActive appends rows to the active equipment table, assigning row ids.
func (p *Plant) AddActive(rows ...ActiveEquipment) {
	for _, r := range rows {
		if r.Name == "" {
			r.Name = rand.ID16()
		}
		r.Parent = p.Name
		p.Active = append(p.Active, r)
	}
	p.renumber()
}

// RemoveActive deletes the active row with the given id.
func (p *Plant) RemoveActive(rowID string) bool {
	for i := range p.Active {
		if p.Active[i].Name == rowID {
			p.Active = append(p.Active[:i], p.Active[i+1:]...)
			p.renumber()
			return true
		}
	}
	return false
}

// AddHistory appends rows to the history table, assigning row ids.
func (p *Plant) AddHistory(rows ...HistoryEquipment) {
	for _, r := range rows {
		if r.Name == "" {
			r.Name = rand.ID16()
		}
		r.Parent = p.Name
		p.History = append(p.History, r)
	}
	p.renumber()
}

// RemoveHistory deletes the history row with the given id.
func (p *Plant) RemoveHistory(rowID string) bool {
	for i := range p.History {
		if p.History[i].Name == rowID {
			p.History = append(p.History[:i], p.History[i+1:]...)
			p.renumber()
			return true
		}
	}
	return false
}

// HasActive reports whether serial is in the active table.
func (p *Plant) HasActive(serial string) bool {
	for _, r := range p.Active {
		if r.SerialNumber == serial {
			return true
		}
	}
	return false
}

// HasHistory reports whether serial is in the history table.
func (p *Plant) HasHistory(serial string) bool {
	for _, r := range p.History {
		if r.SerialNumber == serial {
			return true
		}
	}
	return false
}

// Overlap lists serials present in both the active and the history table.
func (p *Plant) Overlap() []string {
	var out []string
	for _, r := range p.Active {
		if r.SerialNumber != "" && p.HasHistory(r.SerialNumber) {
			out = append(out, r.SerialNumber)
		}
	}
	return out
}

func (p *Plant) renumber() {
	for i := range p.Active {
		p.Active[i].Idx = i + 1
	}
	for i := range p.History {
		p.History[i].Idx = i + 1
	}
}

// toHistory keeps everything but the status.
func toHistory(r ActiveEquipment) HistoryEquipment {
	return HistoryEquipment{
		SerialNumber: r.SerialNumber,
		Model:        r.Model,
		DataloggerSN: r.DataloggerSN,
	}
}
