package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"repatroom/internal/domain"

	"gorm.io/gorm"
)

type PropertyFilters struct {
	City       string
	Type       string
	Category   string
	MinPrice   float64
	MaxPrice   float64
	Facilities []string
	Limit      int
	Offset     int
}

type PropertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

type propertyModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	OwnerID     int64     `gorm:"column:owner_id;index"`
	Name        string    `gorm:"column:name"`
	Description *string   `gorm:"column:description"`
	Type        string    `gorm:"column:type"`
	Category    *string   `gorm:"column:category"`
	Street      *string   `gorm:"column:street"`
	Area        *string   `gorm:"column:area"`
	City        string    `gorm:"column:city;index"`
	State       *string   `gorm:"column:state"`
	Pincode     *string   `gorm:"column:pincode"`
	Facilities  string    `gorm:"column:facilities;type:text"`
	IsActive    bool      `gorm:"column:is_active"`
	IsVerified  bool      `gorm:"column:is_verified"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (propertyModel) TableName() string { return "properties" }

func toDomainProperty(m propertyModel) (*domain.Property, error) {
	var facilities []string
	if m.Facilities != "" {
		if err := json.Unmarshal([]byte(m.Facilities), &facilities); err != nil {
			return nil, err
		}
	}

	p := &domain.Property{
		ID:         m.ID,
		OwnerID:    m.OwnerID,
		Name:       m.Name,
		Type:       domain.PropertyType(m.Type),
		City:       m.City,
		Facilities: facilities,
		IsActive:   m.IsActive,
		IsVerified: m.IsVerified,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.Description != nil {
		p.Description = *m.Description
	}
	if m.Category != nil {
		p.Category = *m.Category
	}
	if m.Street != nil {
		p.Street = *m.Street
	}
	if m.Area != nil {
		p.Area = *m.Area
	}
	if m.State != nil {
		p.State = *m.State
	}
	if m.Pincode != nil {
		p.Pincode = *m.Pincode
	}
	return p, nil
}

func toPropertyModel(p *domain.Property) (propertyModel, error) {
	facilitiesJSON, err := json.Marshal(p.Facilities)
	if err != nil {
		return propertyModel{}, err
	}

	m := propertyModel{
		ID:         p.ID,
		OwnerID:    p.OwnerID,
		Name:       p.Name,
		Type:       string(p.Type),
		City:       p.City,
		Facilities: string(facilitiesJSON),
		IsActive:   p.IsActive,
		IsVerified: p.IsVerified,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	setOptional := func(dst **string, v string) {
		if v != "" {
			val := v
			*dst = &val
		}
	}
	setOptional(&m.Description, p.Description)
	setOptional(&m.Category, p.Category)
	setOptional(&m.Street, p.Street)
	setOptional(&m.Area, p.Area)
	setOptional(&m.State, p.State)
	setOptional(&m.Pincode, p.Pincode)
	return m, nil
}

// Create persists the property together with its rooms.
func (r *PropertyRepository) Create(ctx context.Context, p *domain.Property) error {
	m, err := toPropertyModel(p)
	if err != nil {
		return err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		for i := range p.Rooms {
			p.Rooms[i].PropertyID = m.ID
			if p.Rooms[i].AvailableBeds == 0 {
				p.Rooms[i].AvailableBeds = p.Rooms[i].TotalBeds
			}
			rm := toRoomModel(&p.Rooms[i])
			if err := tx.Create(&rm).Error; err != nil {
				return err
			}
			p.Rooms[i].ID = rm.ID
		}
		return nil
	})
	if err != nil {
		return err
	}

	p.ID = m.ID
	return nil
}

func (r *PropertyRepository) GetByID(ctx context.Context, id int64) (*domain.Property, error) {
	var m propertyModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}

	p, err := toDomainProperty(m)
	if err != nil {
		return nil, err
	}

	var rooms []roomModel
	if err := r.db.WithContext(ctx).
		Where("property_id = ?", id).
		Order("id").
		Find(&rooms).Error; err != nil {
		return nil, err
	}
	for _, rm := range rooms {
		p.Rooms = append(p.Rooms, *toDomainRoom(rm))
	}
	return p, nil
}

func (r *PropertyRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Property, error) {
	var rows []propertyModel
	tx := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Property, 0, len(rows))
	for _, m := range rows {
		p, err := toDomainProperty(m)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

// Search returns active properties with optional filters. Price filters apply
// to room price_per_bed; facility filters match the serialized list.
func (r *PropertyRepository) Search(ctx context.Context, f PropertyFilters) ([]domain.Property, int64, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	q := r.db.WithContext(ctx).
		Model(&propertyModel{}).
		Where("properties.is_active = ?", true)

	if f.City != "" {
		q = q.Where("LOWER(properties.city) = LOWER(?)", f.City)
	}
	if f.Type != "" {
		q = q.Where("properties.type = ?", f.Type)
	}
	if f.Category != "" {
		q = q.Where("properties.category = ?", f.Category)
	}
	if f.MinPrice > 0 || f.MaxPrice > 0 {
		q = q.Joins("JOIN rooms ON rooms.property_id = properties.id AND rooms.is_active = ?", true).
			Distinct("properties.*")
	}
	if f.MinPrice > 0 {
		q = q.Where("rooms.price_per_bed >= ?", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		q = q.Where("rooms.price_per_bed <= ?", f.MaxPrice)
	}
	for _, fac := range f.Facilities {
		q = q.Where("properties.facilities LIKE ?", "%"+strings.TrimSpace(fac)+"%")
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []propertyModel
	if err := q.
		Order("properties.created_at DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Property, 0, len(rows))
	for _, m := range rows {
		p, err := toDomainProperty(m)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *p)
	}
	return out, total, nil
}
