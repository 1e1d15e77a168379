package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"homeserve/internal/config"
	"homeserve/internal/database"
	"homeserve/internal/domain/auth"
	"homeserve/internal/domain/booking"
	"homeserve/internal/domain/catalog"
	"homeserve/internal/domain/feed"
	"homeserve/internal/middleware"
	jwtsvc "homeserve/internal/pkg/jwt"
	"homeserve/internal/pkg/mq"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is empty")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	if err := db.AutoMigrate(&auth.User{}, &catalog.Service{}, &booking.Booking{}); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	userRepo := auth.NewUserRepository(db)
	catalogRepo := catalog.NewRepository(db)
	bookingRepo := booking.NewRepository(db)

	bus := feed.NewBus()
	defer bus.Close()

	if cfg.RabbitURL != "" {
		pub, err := mq.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			log.Fatal("rabbitmq:", err)
		}
		defer pub.Close()
		bus.SetMirror(pub)
		log.Println("Mirroring feed events to", cfg.RabbitExchange)
	}

	j := jwtsvc.New(cfg.JWTSecret, 24*time.Hour)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	catalogHandler := catalog.NewHandler(catalogRepo)

	bookingService := booking.NewService(bookingRepo, bus)
	bookingHandler := booking.NewHandler(bookingService, userRepo, catalogRepo)

	if cfg.PendingTTL > 0 {
		sweeper := booking.NewSweeper(bookingRepo, bus, cfg.PendingTTL)
		if err := sweeper.Start(); err != nil {
			log.Fatal("sweeper:", err)
		}
		defer sweeper.Stop()
	}

	wsHandler := feed.NewWSHandler(bus, j, bookingService, bookingService, userRepo, cfg.LeadTTL)

	r := gin.Default()
	r.Use(middleware.CORS())

	wsHandler.RegisterRoutes(r)

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)
		catalogHandler.RegisterRoutes(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			bookingHandler.RegisterHelperRoutes(protected)
		}
	}

	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}
