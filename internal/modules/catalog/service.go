package catalog

import (
	"context"
	"errors"

	"repatroom/internal/domain"
	"repatroom/internal/repository"
)

var (
	ErrForbidden = errors.New("forbidden")
	ErrNotFound  = errors.New("property not found")
)

// Service is the thin property listing layer. It never mutates bed inventory;
// available_beds belongs to the booking lifecycle.
type Service struct {
	properties *repository.PropertyRepository
	rooms      *repository.RoomRepository
}

func NewService(properties *repository.PropertyRepository, rooms *repository.RoomRepository) *Service {
	return &Service{properties: properties, rooms: rooms}
}

func (s *Service) CreateProperty(ctx context.Context, user *domain.User, req CreatePropertyRequest) (*domain.Property, error) {
	if user.Role != domain.RoleOwner {
		return nil, ErrForbidden
	}

	p := &domain.Property{
		OwnerID:     user.ID,
		Name:        req.Name,
		Description: req.Description,
		Type:        domain.PropertyType(req.Type),
		Category:    req.Category,
		Street:      req.Street,
		Area:        req.Area,
		City:        req.City,
		State:       req.State,
		Pincode:     req.Pincode,
		Facilities:  req.Facilities,
		IsActive:    true,
	}
	for _, r := range req.Rooms {
		p.Rooms = append(p.Rooms, domain.Room{
			Name:          r.Name,
			RoomType:      domain.RoomType(r.RoomType),
			TotalBeds:     r.TotalBeds,
			AvailableBeds: r.TotalBeds,
			PricePerBed:   r.PricePerBed,
			IsActive:      true,
		})
	}

	if err := s.properties.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetProperty(ctx context.Context, id int64) (*domain.Property, error) {
	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) ListOwnerProperties(ctx context.Context, ownerID int64) ([]domain.Property, error) {
	return s.properties.ListByOwner(ctx, ownerID)
}

func (s *Service) ListRooms(ctx context.Context, propertyID int64) ([]domain.Room, error) {
	if _, err := s.GetProperty(ctx, propertyID); err != nil {
		return nil, err
	}
	return s.rooms.GetByProperty(ctx, propertyID)
}

// UpdateRoom lets the property owner adjust price, name, or active flag.
// Bed counts are deliberately immutable here: total_beds anchors conflict
// validation and available_beds belongs to the booking lifecycle.
func (s *Service) UpdateRoom(ctx context.Context, ownerID, roomID int64, req UpdateRoomRequest) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	p, err := s.properties.GetByID(ctx, room.PropertyID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != ownerID {
		return nil, ErrForbidden
	}

	if req.Name != nil {
		room.Name = *req.Name
	}
	if req.PricePerBed != nil {
		room.PricePerBed = *req.PricePerBed
	}
	if req.IsActive != nil {
		room.IsActive = *req.IsActive
	}

	if err := s.rooms.Save(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *Service) Search(ctx context.Context, f repository.PropertyFilters) ([]domain.Property, int64, error) {
	return s.properties.Search(ctx, f)
}
