package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"repatroom/internal/config"
	"repatroom/internal/database"
	"repatroom/internal/domain"
	"repatroom/internal/middleware"
	"repatroom/internal/modules/auth"
	"repatroom/internal/modules/booking"
	"repatroom/internal/modules/catalog"
	jwtsvc "repatroom/internal/pkg/jwt"
	"repatroom/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(propertyRepo, roomRepo)
	catalogHandler := catalog.NewHandler(catalogService, userRepo)

	bookingService := booking.NewService(
		bookingRepo,
		roomRepo,
		propertyRepo,
		cfg.TaxRate,
		booking.WithCommitRetries(cfg.CommitRetries),
		booking.WithCompletionGrace(cfg.CompletionGrace),
	)
	bookingHandler := booking.NewHandler(bookingService)

	sweeper := booking.NewSweeper(bookingService, cfg.SweepInterval)
	go sweeper.Run(context.Background())

	if cfg.AppEnv == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	healthcheck := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	r.GET("/health", healthcheck)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthcheck)
		// public
		authHandler.RegisterRoutes(v1)
		catalogHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterRoutes(protected)

			owner := protected.Group("/")
			owner.Use(middleware.RequireRole(string(domain.RoleOwner), string(domain.RoleAdmin)))
			{
				catalogHandler.RegisterOwnerRoutes(owner)
			}

			admin := protected.Group("/")
			admin.Use(middleware.RequireRole(string(domain.RoleAdmin)))
			{
				bookingHandler.RegisterAdminRoutes(admin)
			}
		}
	}

	log.Printf("listening on :%s env=%s", cfg.Port, cfg.AppEnv)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
