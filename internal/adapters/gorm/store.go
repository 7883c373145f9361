package gorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"plant-sync/internal/core/plants"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store implements plants.Store on a GORM database.
type Store struct {
	db *gorm.DB
}

var _ plants.Store = (*Store)(nil)

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func byIdx(db *gorm.DB) *gorm.DB { return db.Order("idx") }

func (s *Store) GetPlant(ctx context.Context, name string) (*plants.Plant, error) {
	var p plants.Plant
	err := s.db.WithContext(ctx).
		Preload("Active", byIdx).
		Preload("History", byIdx).
		Where("name = ?", name).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: plant %s", plants.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("get plant %s: %w", name, err)
	}
	return &p, nil
}

func (s *Store) ListPlants(ctx context.Context) ([]plants.Plant, error) {
	var out []plants.Plant
	err := s.db.WithContext(ctx).
		Preload("Active", byIdx).
		Preload("History", byIdx).
		Order("name").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list plants: %w", err)
	}
	return out, nil
}

func (s *Store) FindPlantsByPlantID(ctx context.Context, plantID string) ([]plants.Plant, error) {
	var out []plants.Plant
	err := s.db.WithContext(ctx).
		Select("name", "plant_id").
		Where("plant_id = ?", plantID).
		Order("created_at").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("find plants by plant id %s: %w", plantID, err)
	}
	return out, nil
}

// InsertPlant creates the plant together with its child rows.
func (s *Store) InsertPlant(ctx context.Context, p *plants.Plant) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(p).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("insert plant %s: %w: plant id %s", p.Name, plants.ErrDuplicate, p.PlantID)
			}
			return fmt.Errorf("insert plant %s: %w", p.Name, err)
		}
		return replaceEquipment(tx, p.Name, p.Active, p.History)
	})
}

func (s *Store) SavePlant(ctx context.Context, p *plants.Plant) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(p).Error; err != nil {
			return fmt.Errorf("save plant %s: %w", p.Name, err)
		}
		return replaceEquipment(tx, p.Name, p.Active, p.History)
	})
}

func (s *Store) UpdatePlantEquipment(ctx context.Context, name string, active []plants.ActiveEquipment, history []plants.HistoryEquipment) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&plants.Plant{}).Where("name = ?", name).Update("updated_at", time.Now().UTC())
		if res.Error != nil {
			return fmt.Errorf("touch plant %s: %w", name, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: plant %s", plants.ErrNotFound, name)
		}
		return replaceEquipment(tx, name, active, history)
	})
}

// replaceEquipment rewrites both child tables of one plant.
func replaceEquipment(tx *gorm.DB, name string, active []plants.ActiveEquipment, history []plants.HistoryEquipment) error {
	if err := tx.Where("parent = ?", name).Delete(&plants.ActiveEquipment{}).Error; err != nil {
		return fmt.Errorf("clear active equipment of %s: %w", name, err)
	}
	if err := tx.Where("parent = ?", name).Delete(&plants.HistoryEquipment{}).Error; err != nil {
		return fmt.Errorf("clear history equipment of %s: %w", name, err)
	}

	if len(active) > 0 {
		rows := make([]plants.ActiveEquipment, len(active))
		for i, r := range active {
			r.Parent, r.Idx = name, i+1
			rows[i] = r
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("write active equipment of %s: %w", name, err)
		}
	}
	if len(history) > 0 {
		rows := make([]plants.HistoryEquipment, len(history))
		for i, r := range history {
			r.Parent, r.Idx = name, i+1
			rows[i] = r
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("write history equipment of %s: %w", name, err)
		}
	}
	return nil
}

func (s *Store) SerialItemCode(ctx context.Context, serial string) (string, error) {
	var sn plants.SerialNo
	err := s.db.WithContext(ctx).
		Select("item_code").
		Where("serial_no = ?", serial).
		Limit(1).
		Find(&sn).Error
	if err != nil {
		return "", fmt.Errorf("item code of serial %s: %w", serial, err)
	}
	return sn.ItemCode, nil
}

func (s *Store) InsertSerialNo(ctx context.Context, sn *plants.SerialNo) error {
	if err := s.db.WithContext(ctx).Create(sn).Error; err != nil {
		return fmt.Errorf("insert serial no %s: %w", sn.SerialNo, err)
	}
	return nil
}

func (s *Store) ItemsByName(ctx context.Context, name string) ([]plants.Item, error) {
	var out []plants.Item
	err := s.db.WithContext(ctx).
		Where("item_name = ?", name).
		Order("item_code").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("items named %q: %w", name, err)
	}
	return out, nil
}

// ActiveSerialOwners resolves serial -> active rows -> parent plants in two steps.
func (s *Store) ActiveSerialOwners(ctx context.Context, serial string) ([]string, error) {
	db := s.db.WithContext(ctx)

	var parents []string
	err := db.Model(&plants.ActiveEquipment{}).
		Where("serial_number = ?", serial).
		Distinct("parent").
		Pluck("parent", &parents).Error
	if err != nil {
		return nil, fmt.Errorf("active rows of serial %s: %w", serial, err)
	}
	if len(parents) == 0 {
		return nil, nil
	}

	var names []string
	err = db.Model(&plants.Plant{}).
		Where("name IN ?", parents).
		Order("name").
		Pluck("name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("plants holding serial %s: %w", serial, err)
	}
	return names, nil
}

// SeedItems upserts catalog items.
func (s *Store) SeedItems(ctx context.Context, items []plants.Item) error {
	if len(items) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&items).Error
	if err != nil {
		return fmt.Errorf("seed items: %w", err)
	}
	return nil
}
