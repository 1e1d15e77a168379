package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"homeserve/internal/database"
	"homeserve/internal/domain/auth"
	"homeserve/internal/domain/booking"
	"homeserve/internal/domain/catalog"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "homeserve.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		&auth.User{},
		&catalog.Service{},
		&booking.Booking{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM services")
	db.Exec("DELETE FROM users")

	// ================== SERVICES ==================
	log.Println("Creating service catalog...")
	services := []catalog.Service{
		{Name: "House Cleaning", Category: "cleaning", Description: "Standard or deep cleaning for homes and apartments", Icon: "broom", PriceRange: "$40-120"},
		{Name: "Plumbing Repair", Category: "repair", Description: "Leaks, clogs, fixture installation", Icon: "wrench", PriceRange: "$60-200"},
		{Name: "Electrical Work", Category: "repair", Description: "Outlets, lighting, small electrical fixes", Icon: "bolt", PriceRange: "$70-250"},
		{Name: "Furniture Assembly", Category: "handywork", Description: "Flat-pack assembly and mounting", Icon: "hammer", PriceRange: "$30-100"},
		{Name: "Garden Care", Category: "outdoor", Description: "Mowing, trimming and seasonal cleanup", Icon: "leaf", PriceRange: "$50-150"},
		{Name: "Appliance Repair", Category: "repair", Description: "Washers, dryers, fridges and ovens", Icon: "gear", PriceRange: "$80-300"},
	}
	for i := range services {
		now := time.Now().UTC()
		services[i].CreatedAt = now
		services[i].UpdatedAt = now
		db.Create(&services[i])
	}

	// ================== USERS ==================
	log.Println("Creating users...")

	customers := make([]auth.User, 0, 3)
	customerEmails := []string{"maria@example.com", "james@example.com", "lena@example.com"}
	for i, email := range customerEmails {
		hash, _ := bcrypt.GenerateFromPassword([]byte("customer123"), bcrypt.DefaultCost)
		u := auth.User{
			Email:        email,
			PasswordHash: string(hash),
			Role:         auth.RoleCustomer,
			Name:         fmt.Sprintf("Customer %d", i+1),
			Phone:        fmt.Sprintf("+1 555 010 10%02d", i+1),
			Address:      fmt.Sprintf("%d Maple Street", 100+i),
		}
		db.Create(&u)
		customers = append(customers, u)
	}

	helpers := make([]auth.User, 0, 3)
	helperEmails := []string{"tom.helper@example.com", "ana.helper@example.com", "raj.helper@example.com"}
	for i, email := range helperEmails {
		hash, _ := bcrypt.GenerateFromPassword([]byte("helper123"), bcrypt.DefaultCost)
		u := auth.User{
			Email:        email,
			PasswordHash: string(hash),
			Role:         auth.RoleHelper,
			Name:         fmt.Sprintf("Helper %d", i+1),
			Phone:        fmt.Sprintf("+1 555 020 20%02d", i+1),
		}
		db.Create(&u)
		helpers = append(helpers, u)
	}

	log.Println("Customers: maria@example.com / customer123 (etc.)")
	log.Println("Helpers:   tom.helper@example.com / helper123 (etc.)")

	// ================== BOOKINGS ==================
	log.Println("Creating bookings...")

	now := time.Now().UTC()
	lat, lng := 40.7421, -73.9911
	eta := 25

	demo := []booking.Booking{
		{
			ID:          uuid.NewString(),
			CustomerID:  customers[0].ID,
			ServiceID:   services[0].ID,
			Address:     customers[0].Address,
			Lat:         &lat,
			Lng:         &lng,
			Status:      booking.StatusPending,
			ScheduledAt: now,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          uuid.NewString(),
			CustomerID:  customers[1].ID,
			ServiceID:   services[1].ID,
			Address:     customers[1].Address,
			Status:      booking.StatusConfirmed,
			HelperID:    &helpers[0].ID,
			HelperName:  &helpers[0].Name,
			HelperPhone: &helpers[0].Phone,
			EtaMinutes:  &eta,
			ScheduledAt: now.Add(2 * time.Hour),
			CreatedAt:   now.Add(-30 * time.Minute),
			UpdatedAt:   now,
		},
		{
			ID:          uuid.NewString(),
			CustomerID:  customers[2].ID,
			ServiceID:   services[3].ID,
			Address:     customers[2].Address,
			Status:      booking.StatusCompleted,
			HelperID:    &helpers[1].ID,
			HelperName:  &helpers[1].Name,
			HelperPhone: &helpers[1].Phone,
			EtaMinutes:  &eta,
			ScheduledAt: now.Add(-48 * time.Hour),
			CreatedAt:   now.Add(-49 * time.Hour),
			UpdatedAt:   now.Add(-46 * time.Hour),
		},
	}
	for i := range demo {
		db.Create(&demo[i])
	}

	log.Println("Seed complete.")
}
