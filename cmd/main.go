package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/lib/pq"
	"github.com/viamonte/tourops-server/cmd/api"
	"github.com/viamonte/tourops-server/cmd/models"
	"github.com/viamonte/tourops-server/db"
	"gorm.io/gorm"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "migrate":
			runMigrations()
			return
		case "clear-db":
			runDatabaseClear()
			return
		case "seed":
			runSeed()
			return
		default:
			log.Fatalf("Unknown command: %s", os.Args[1])
		}
	}

	startServer()
}

func runMigrations() {
	DB, err := db.NewPSQLStorage()
	if err != nil {
		log.Fatalf("Database initialization error: %v", err)
	}
	defer func() {
		sqlDB, _ := DB.DB()
		sqlDB.Close()
		log.Println("Database connection closed")
	}()
	log.Println("Connected to the database for migrations")

	if err := performMigrations(DB); err != nil {
		log.Fatalf("Migration error: %v", err)
	}
	log.Println("Migrations completed successfully")
}

func performMigrations(DB *gorm.DB) error {

	migrations := map[interface{}]string{
		&models.User{}:                "User",
		&models.PasswordResetToken{}:  "PasswordResetToken",
		&models.Guide{}:               "Guide",
		&models.AgendaEntry{}:         "AgendaEntry",
		&models.Vehicle{}:             "Vehicle",
		&models.TourService{}:         "TourService",
		&models.Reservation{}:         "Reservation",
		&models.EmergencyProtocol{}:   "EmergencyProtocol",
		&models.ProtocolActivation{}:  "ProtocolActivation",
		&models.Device{}:              "Device",
		&models.NotificationHistory{}: "NotificationHistory",
	}

	log.Println("Starting database migrations...")
	for model, name := range migrations {
		log.Printf("Migrating %s table...", name)
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("error migrating %s table: %w", name, err)
		}
		log.Printf("%s migration successful", name)
	}

	log.Println("All migrations completed successfully")
	return nil
}

func startServer() {
	DB, err := db.NewPSQLStorage()
	if err != nil {
		log.Fatalf("Database initialization error: %v", err)
	}
	defer func() {
		sqlDB, _ := DB.DB()
		sqlDB.Close()
		log.Println("Database connection closed")
	}()
	log.Println("Connected to the database")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}
	server := api.NewApiServer(":"+port, DB)

	go func() {
		if err := server.Run(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()
	log.Printf("Server running on port %s", port)

	<-quit
	log.Println("Shutting down server...")
}

// runSeed loads a small demo data set so a fresh back office has something
// to show.
func runSeed() {
	DB, err := db.NewPSQLStorage()
	if err != nil {
		log.Fatalf("Database initialization error: %v", err)
	}
	defer func() {
		sqlDB, _ := DB.DB()
		sqlDB.Close()
	}()

	guides := []models.Guide{
		{Name: "Lucía Fernández", Email: "lucia@viamonte.example", Type: models.GuideTypeStaff,
			Languages: pq.StringArray{"es", "en"}, Museums: pq.StringArray{"Museo Nacional", "Casa Histórica"}, Active: true},
		{Name: "Marco Ruiz", Email: "marco@viamonte.example", Type: models.GuideTypeFreelance,
			Languages: pq.StringArray{"es", "it", "fr"}, Museums: pq.StringArray{"Galería Moderna"}, Active: true},
		{Name: "Anna Keller", Email: "anna@viamonte.example", Type: models.GuideTypeFreelance,
			Languages: pq.StringArray{"de", "en"}, Museums: pq.StringArray{"Museo Nacional", "Jardín Botánico", "Fuerte Viejo"}, Active: true},
	}
	for i := range guides {
		if err := DB.Where("email = ?", guides[i].Email).FirstOrCreate(&guides[i]).Error; err != nil {
			log.Fatalf("Error seeding guide %s: %v", guides[i].Name, err)
		}
	}

	vehicles := []models.Vehicle{
		{Plate: "VM-2041", Make: "Mercedes-Benz", VehicleModel: "Sprinter", Seats: 19, Status: models.VehicleStatusActive},
		{Plate: "VM-1187", Make: "Toyota", VehicleModel: "Hiace", Seats: 12, Status: models.VehicleStatusActive},
	}
	for i := range vehicles {
		if err := DB.Where("plate = ?", vehicles[i].Plate).FirstOrCreate(&vehicles[i]).Error; err != nil {
			log.Fatalf("Error seeding vehicle %s: %v", vehicles[i].Plate, err)
		}
	}

	services := []models.TourService{
		{Name: "Old Town Walking Tour", Category: "walking", DurationMinutes: 120, BasePrice: 25,
			Museums: pq.StringArray{}, Active: true},
		{Name: "Museum Highlights", Category: "museum", DurationMinutes: 180, BasePrice: 40,
			Museums: pq.StringArray{"Museo Nacional", "Galería Moderna"}, Active: true},
		{Name: "Coastal Day Trip", Category: "daytrip", DurationMinutes: 480, BasePrice: 95,
			Museums: pq.StringArray{}, Active: true},
	}
	for i := range services {
		if err := DB.Where("name = ?", services[i].Name).FirstOrCreate(&services[i]).Error; err != nil {
			log.Fatalf("Error seeding service %s: %v", services[i].Name, err)
		}
	}

	log.Println("Seed data loaded")
}

func clearDatabase(DB *gorm.DB, tables []interface{}) error {
	if len(tables) == 0 {
		tables = []interface{}{
			&models.ProtocolActivation{},
			&models.EmergencyProtocol{},
			&models.NotificationHistory{},
			&models.Device{},
			&models.Reservation{},
			&models.AgendaEntry{},
			&models.TourService{},
			&models.Vehicle{},
			&models.Guide{},
			&models.PasswordResetToken{},
			&models.User{},
		}
	}

	log.Println("Dropping tables...")

	for _, table := range tables {
		if err := DB.Migrator().DropTable(table); err != nil {
			log.Printf("Warning dropping table %T: %v", table, err)
		} else {
			log.Printf("Table %T dropped", table)
		}
	}

	return nil
}

func runDatabaseClear() {
	DB, err := db.NewPSQLStorage()
	if err != nil {
		log.Fatalf("Database initialization error: %v", err)
	}
	defer func() {
		sqlDB, _ := DB.DB()
		sqlDB.Close()
		log.Println("Database connection closed")
	}()

	log.Println("Preparing to clear database...")

	var confirmation string
	fmt.Print("Are you sure you want to clear the database? (yes/no): ")
	fmt.Scanln(&confirmation)

	if confirmation != "yes" {
		log.Println("Database clearing cancelled.")
		return
	}

	var tableNames string
	fmt.Print("Enter table names to clear (comma separated) or leave blank to clear all: ")
	fmt.Scanln(&tableNames)

	var tables []interface{}
	if tableNames != "" {
		for _, table := range strings.Split(tableNames, ",") {
			switch strings.TrimSpace(table) {
			case "User":
				tables = append(tables, &models.User{})
			case "PasswordResetToken":
				tables = append(tables, &models.PasswordResetToken{})
			case "Guide":
				tables = append(tables, &models.Guide{})
			case "AgendaEntry":
				tables = append(tables, &models.AgendaEntry{})
			case "Vehicle":
				tables = append(tables, &models.Vehicle{})
			case "TourService":
				tables = append(tables, &models.TourService{})
			case "Reservation":
				tables = append(tables, &models.Reservation{})
			case "EmergencyProtocol":
				tables = append(tables, &models.EmergencyProtocol{})
			case "ProtocolActivation":
				tables = append(tables, &models.ProtocolActivation{})
			case "Device":
				tables = append(tables, &models.Device{})
			case "NotificationHistory":
				tables = append(tables, &models.NotificationHistory{})
			default:
				log.Printf("Unknown table: %s", table)
			}
		}
	}

	if err := clearDatabase(DB, tables); err != nil {
		log.Fatalf("Error clearing database: %v", err)
	}

	log.Println("Database cleared successfully")
}
