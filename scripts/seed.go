package main

import (
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"classhub/internal/models"
)

// Seeds a local database with one account per role, an enrolled subject and
// projects in every review status.
func main() {
	db, err := gorm.Open(sqlite.Open("classhub.db"), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Subject{},
		&models.SubjectStudent{},
		&models.Project{},
		&models.Submission{},
		&models.Notification{},
		&models.Announcement{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	adminID := uuid.New()
	teacherID := uuid.New()
	student1ID := uuid.New()
	student2ID := uuid.New()

	users := []models.User{
		{ID: adminID, Name: "Admin", Email: "admin@classhub.local", PasswordHash: string(hash), Role: models.RoleAdmin, IsActive: true},
		{ID: teacherID, Name: "Grace Obeng", Email: "grace@classhub.local", PasswordHash: string(hash), Role: models.RoleTeacher, IsActive: true},
		{ID: student1ID, Name: "Kofi Mensah", Email: "kofi@classhub.local", PasswordHash: string(hash), Role: models.RoleStudent, IsActive: true},
		{ID: student2ID, Name: "Ama Darko", Email: "ama@classhub.local", PasswordHash: string(hash), Role: models.RoleStudent, IsActive: true},
	}
	for i := range users {
		if err := db.Create(&users[i]).Error; err != nil {
			log.Fatalf("Failed to create user %s: %v", users[i].Email, err)
		}
	}

	subjectID := uuid.New()
	subject := models.Subject{
		ID:        subjectID,
		Name:      "Mathematics",
		Code:      "MATH101",
		TeacherID: &teacherID,
	}
	if err := db.Create(&subject).Error; err != nil {
		log.Fatalf("Failed to create subject: %v", err)
	}

	for _, studentID := range []uuid.UUID{student1ID, student2ID} {
		enrollment := models.SubjectStudent{
			ID:         uuid.New(),
			SubjectID:  subjectID,
			StudentID:  studentID,
			EnrolledAt: time.Now(),
		}
		if err := db.Create(&enrollment).Error; err != nil {
			log.Fatalf("Failed to enroll student: %v", err)
		}
	}

	projects := []models.Project{
		{
			ID:        uuid.New(),
			Title:     "Algebra Quiz",
			SubjectID: subjectID,
			Deadline:  time.Now().Add(10 * 24 * time.Hour),
			MaxScore:  100,
			CreatedBy: teacherID,
			Status:    models.ProjectStatusApproved,
		},
		{
			ID:        uuid.New(),
			Title:     "Geometry Worksheet",
			SubjectID: subjectID,
			Deadline:  time.Now().Add(3 * 24 * time.Hour),
			MaxScore:  50,
			CreatedBy: teacherID,
			Status:    models.ProjectStatusPending,
		},
		{
			ID:        uuid.New(),
			Title:     "Statistics Essay",
			SubjectID: subjectID,
			Deadline:  time.Now().Add(14 * 24 * time.Hour),
			MaxScore:  100,
			CreatedBy: teacherID,
			Status:    models.ProjectStatusRejected,
			AdminNote: "Please narrow the topic before resubmitting.",
		},
	}
	for i := range projects {
		if err := db.Create(&projects[i]).Error; err != nil {
			log.Fatalf("Failed to create project %s: %v", projects[i].Title, err)
		}
	}

	now := time.Now()
	grade := 85
	submissions := []models.Submission{
		{
			ID:          uuid.New(),
			ProjectID:   projects[0].ID,
			StudentID:   student1ID,
			FileURL:     "uploads/algebra-kofi.pdf",
			SubmittedAt: &now,
			Status:      models.SubmissionStatusGraded,
			Grade:       &grade,
			Feedback:    "Good work, revise question 4.",
		},
		{
			ID:        uuid.New(),
			ProjectID: projects[0].ID,
			StudentID: student2ID,
			Status:    models.SubmissionStatusDraft,
		},
	}
	for i := range submissions {
		if err := db.Create(&submissions[i]).Error; err != nil {
			log.Fatalf("Failed to create submission: %v", err)
		}
	}

	log.Println("Seed data created")
}
