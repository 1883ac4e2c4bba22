package main

import (
	"log"
	"time"

	"classhub/internal/config"
	"classhub/internal/repository"
	"classhub/internal/services"
	"classhub/pkg/database"
)

// Maintenance entrypoint: migrates the schema, bootstraps the admin account
// and runs one deadline-warning sweep. An external scheduler owns how often
// this runs; there is no in-process timer.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewDatabase(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.CreateDefaultAdmin(cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Printf("Failed to create default admin: %v", err)
	}

	notificationRepo := repository.NewNotificationRepository(db.DB)
	projectRepo := repository.NewProjectRepository(db.DB)
	subjectRepo := repository.NewSubjectRepository(db.DB)
	submissionRepo := repository.NewSubmissionRepository(db.DB)

	notificationService := services.NewNotificationService(notificationRepo, projectRepo, subjectRepo, submissionRepo)

	if err := notificationService.SendDeadlineWarnings(time.Now()); err != nil {
		log.Fatalf("Deadline warning sweep failed: %v", err)
	}
	if err := notificationService.CleanupOld(time.Now().Add(-30 * 24 * time.Hour)); err != nil {
		log.Printf("Notification cleanup failed: %v", err)
	}

	log.Println("Maintenance sweep complete")
}
