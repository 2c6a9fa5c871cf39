package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"repatroom/internal/config"
	"repatroom/internal/database"
	"repatroom/internal/modules/booking"
	"repatroom/internal/repository"
)

// Standalone status sweeper. Runs one pass by default so it can be driven by
// cron; -daemon keeps it running on the configured interval.
func main() {
	daemon := flag.Bool("daemon", false, "run continuously instead of a single pass")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	roomRepo := repository.NewRoomRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	service := booking.NewService(
		bookingRepo,
		roomRepo,
		propertyRepo,
		cfg.TaxRate,
		booking.WithCompletionGrace(cfg.CompletionGrace),
	)

	if *daemon {
		booking.NewSweeper(service, cfg.SweepInterval).Run(context.Background())
		return
	}

	applied, err := service.AdvanceStatuses(context.Background(), time.Now())
	if err != nil {
		log.Fatalf("sweep failed: %v", err)
	}
	log.Printf("sweep completed: applied=%d", applied)
}
