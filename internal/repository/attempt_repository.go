package repository

import (
	"time"

	"github.com/lshigami/Margays/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AttemptRepository persists the attempt ledger. Every mutating method is a
// single conditional statement so two concurrent callers resolve through the
// database, not through an application-level check.
type AttemptRepository interface {
	// CreateIfAbsent inserts the attempt unless a row for its
	// (test, student) pair already exists. Returns false when the insert
	// lost to an existing row; the caller then reads the winner back.
	CreateIfAbsent(attempt *model.Attempt) (bool, error)
	FindByTestAndStudent(testID, studentID uint) (*model.Attempt, error)
	FindActiveByStudentAndDomain(studentID, domainID uint) (*model.Attempt, error)
	FindAllByStudent(studentID uint) ([]model.Attempt, error)
	// ExpireIfDue terminally expires a non-terminal attempt whose due time
	// has passed, recording its own due time as the end time.
	ExpireIfDue(id uint, now time.Time) (bool, error)
	// Finish moves a non-terminal attempt into the given terminal status.
	Finish(id uint, status model.AttemptStatus, endTime time.Time) (bool, error)
	SetScore(id uint, score float64) (bool, error)
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

var nonTerminalStatuses = []model.AttemptStatus{model.AttemptPending, model.AttemptInProgress}

func (r *attemptRepository) CreateIfAbsent(attempt *model.Attempt) (bool, error) {
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "test_id"}, {Name: "student_id"}},
		DoNothing: true,
	}).Create(attempt)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *attemptRepository) FindByTestAndStudent(testID, studentID uint) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.db.Where("test_id = ? AND student_id = ?", testID, studentID).First(&attempt).Error
	return &attempt, err
}

func (r *attemptRepository) FindActiveByStudentAndDomain(studentID, domainID uint) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.db.
		Where("student_id = ? AND domain_id = ? AND status = ?", studentID, domainID, model.AttemptInProgress).
		Order("start_time DESC").
		First(&attempt).Error
	return &attempt, err
}

func (r *attemptRepository) FindAllByStudent(studentID uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.db.
		Preload("Test").
		Where("student_id = ?", studentID).
		Order("start_time DESC").
		Find(&attempts).Error
	return attempts, err
}

func (r *attemptRepository) ExpireIfDue(id uint, now time.Time) (bool, error) {
	res := r.db.Model(&model.Attempt{}).
		Where("id = ? AND status IN ? AND due_time < ?", id, nonTerminalStatuses, now).
		Updates(map[string]interface{}{
			"status":   model.AttemptExpired,
			"end_time": gorm.Expr("due_time"),
		})
	return res.RowsAffected > 0, res.Error
}

func (r *attemptRepository) Finish(id uint, status model.AttemptStatus, endTime time.Time) (bool, error) {
	res := r.db.Model(&model.Attempt{}).
		Where("id = ? AND status IN ?", id, nonTerminalStatuses).
		Updates(map[string]interface{}{
			"status":   status,
			"end_time": endTime,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *attemptRepository) SetScore(id uint, score float64) (bool, error) {
	res := r.db.Model(&model.Attempt{}).
		Where("id = ?", id).
		Update("score", score)
	return res.RowsAffected > 0, res.Error
}
