package main

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"repatroom/internal/database"
	"repatroom/internal/domain"
	"repatroom/internal/repository"
)

func main() {
	db, err := database.Connect("repatroom.db")
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM rooms")
	db.Exec("DELETE FROM properties")
	db.Exec("DELETE FROM users")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)

	// ================== USERS ==================
	log.Println("Creating users...")

	admin := mustUser("admin@repatroom.in", "admin123", domain.RoleAdmin, "Admin")
	if err := userRepo.Create(ctx, admin); err != nil {
		log.Fatal(err)
	}
	log.Println("Admin created: admin@repatroom.in / admin123")

	owners := make([]*domain.User, 0, 2)
	for i, email := range []string{"ramesh@sunrisepg.in", "priya@urbannest.in"} {
		owner := mustUser(email, "owner123", domain.RoleOwner, fmt.Sprintf("Owner %d", i+1))
		if err := userRepo.Create(ctx, owner); err != nil {
			log.Fatal(err)
		}
		owners = append(owners, owner)
	}

	for i, email := range []string{"arjun@gmail.com", "sneha@gmail.com", "vikram@gmail.com"} {
		customer := mustUser(email, "customer123", domain.RoleCustomer, fmt.Sprintf("Customer %d", i+1))
		customer.Phone = fmt.Sprintf("+91 98765 432%02d", i+10)
		if err := userRepo.Create(ctx, customer); err != nil {
			log.Fatal(err)
		}
	}

	// ================== PROPERTIES ==================
	log.Println("Creating properties...")

	properties := []*domain.Property{
		{
			OwnerID:     owners[0].ID,
			Name:        "Sunrise PG for Gents",
			Description: "Fully furnished PG near the metro station",
			Type:        domain.PropertyPG,
			Category:    "BOYS",
			Street:      "12th Main Road",
			Area:        "Koramangala",
			City:        "Bengaluru",
			State:       "Karnataka",
			Pincode:     "560034",
			Facilities:  []string{"WIFI", "LAUNDRY", "FOOD", "PARKING"},
			IsActive:    true,
			IsVerified:  true,
			Rooms: []domain.Room{
				{Name: "101", RoomType: domain.RoomSingle, TotalBeds: 1, PricePerBed: 12000, IsActive: true},
				{Name: "102", RoomType: domain.RoomSharing2, TotalBeds: 2, PricePerBed: 8500, IsActive: true},
				{Name: "201", RoomType: domain.RoomSharing4, TotalBeds: 4, PricePerBed: 6000, IsActive: true},
			},
		},
		{
			OwnerID:     owners[1].ID,
			Name:        "Urban Nest Co-Living",
			Description: "Co-living spaces with housekeeping and community events",
			Type:        domain.PropertyCoLiving,
			Category:    "CO_LIVING",
			Street:      "Sector 18",
			Area:        "HSR Layout",
			City:        "Bengaluru",
			State:       "Karnataka",
			Pincode:     "560102",
			Facilities:  []string{"WIFI", "GYM", "HOUSEKEEPING"},
			IsActive:    true,
			IsVerified:  true,
			Rooms: []domain.Room{
				{Name: "A1", RoomType: domain.RoomSharing2, TotalBeds: 2, PricePerBed: 11000, IsActive: true},
				{Name: "A2", RoomType: domain.RoomSharing3, TotalBeds: 3, PricePerBed: 9000, IsActive: true},
			},
		},
	}

	for _, p := range properties {
		if err := propertyRepo.Create(ctx, p); err != nil {
			log.Fatal(err)
		}
		log.Printf("Property created: %s (%d rooms)", p.Name, len(p.Rooms))
	}

	log.Println("Seed completed")
}

func mustUser(email, password string, role domain.UserRole, name string) *domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}
	return &domain.User{
		PublicID:     uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Name:         name,
	}
}
