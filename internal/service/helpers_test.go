package service

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/lshigami/Margays/config"
	"github.com/lshigami/Margays/internal/model"
	"github.com/lshigami/Margays/internal/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	// One connection so every session sees the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&model.Domain{}, &model.Question{}, &model.Test{}, &model.Attempt{}, &model.Answer{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func mustCreate(t *testing.T, db *gorm.DB, value interface{}) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("seed %T: %v", value, err)
	}
}

func mustSections(sections ...string) datatypes.JSONSlice[string] {
	return datatypes.NewJSONSlice(sections)
}

func testConfig() *config.Config {
	return &config.Config{Exam: config.Exam{DefaultDurationMinutes: 60}}
}

// seedExam creates a domain with two section-A questions and a test over
// [base-1h, base+5h] with a 60 minute exam clock, open to all students.
func seedExam(t *testing.T, db *gorm.DB, base time.Time) (*model.Domain, *model.Test, []model.Question) {
	t.Helper()

	domain := &model.Domain{Name: "Algebra"}
	mustCreate(t, db, domain)

	questions := []model.Question{
		{DomainID: domain.ID, Section: "A", Prompt: "Solve for x: 2x = 10", MaxMark: 5},
		{DomainID: domain.ID, Section: "A", Prompt: "Factor x^2 - 9", MaxMark: 5},
	}
	for i := range questions {
		mustCreate(t, db, &questions[i])
	}

	test := &model.Test{
		Title:           "Midterm",
		Domains:         []model.Domain{*domain},
		StartDate:       base.Add(-time.Hour),
		EndDate:         base.Add(5 * time.Hour),
		DurationMinutes: 60,
		Sections:        datatypes.NewJSONSlice([]string{"A"}),
		Status:          model.TestUpcoming,
	}
	mustCreate(t, db, test)

	return domain, test, questions
}

func newServices(db *gorm.DB) (AdmissionService, SubmissionService, ScoringService, StatusService) {
	testRepo := repository.NewTestRepository(db)
	domainRepo := repository.NewDomainRepository(db)
	attemptRepo := repository.NewAttemptRepository(db)
	answerRepo := repository.NewAnswerRepository(db)
	schedule := NewScheduleService()

	return NewAdmissionService(testRepo, domainRepo, attemptRepo, schedule),
		NewSubmissionService(testConfig(), domainRepo, attemptRepo, answerRepo),
		NewScoringService(answerRepo, attemptRepo),
		NewStatusService(testRepo, attemptRepo, schedule)
}
