package repository

import (
	"github.com/lshigami/Margays/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnswerRepository interface {
	// Upsert inserts the answer, or fully replaces the content and
	// timestamp fields of the existing row for the same
	// (student, question, domain, section) key. Marks are never touched.
	Upsert(answer *model.Answer) error
	FindByID(id uint) (*model.Answer, error)
	FindByIDWithQuestion(id uint) (*model.Answer, error)
	// SetMarkIfAbsent is the set-if-null half of the marking CAS pair.
	SetMarkIfAbsent(id uint, mark float64) (bool, error)
	// SetMarkIfPresent is the edit half; it only touches existing marks.
	SetMarkIfPresent(id uint, mark float64) (bool, error)
	// SumMarks totals marks for a student within a domain, treating unset
	// marks as zero. attemptID narrows the sum to one attempt's answers.
	SumMarks(studentID, domainID uint, attemptID *uint) (float64, error)
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) Upsert(answer *model.Answer) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "student_id"}, {Name: "question_id"}, {Name: "domain_id"}, {Name: "section"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"attempt_id", "answer_text", "image_url", "submitted_at",
			"exam_start_time", "exam_end_time", "is_submitted", "updated_at",
		}),
	}).Create(answer).Error
}

func (r *answerRepository) FindByID(id uint) (*model.Answer, error) {
	var answer model.Answer
	err := r.db.First(&answer, id).Error
	return &answer, err
}

func (r *answerRepository) FindByIDWithQuestion(id uint) (*model.Answer, error) {
	var answer model.Answer
	err := r.db.Preload("Question").First(&answer, id).Error
	return &answer, err
}

func (r *answerRepository) SetMarkIfAbsent(id uint, mark float64) (bool, error) {
	res := r.db.Model(&model.Answer{}).
		Where("id = ? AND mark IS NULL", id).
		Update("mark", mark)
	return res.RowsAffected > 0, res.Error
}

func (r *answerRepository) SetMarkIfPresent(id uint, mark float64) (bool, error) {
	res := r.db.Model(&model.Answer{}).
		Where("id = ? AND mark IS NOT NULL", id).
		Update("mark", mark)
	return res.RowsAffected > 0, res.Error
}

func (r *answerRepository) SumMarks(studentID, domainID uint, attemptID *uint) (float64, error) {
	query := r.db.Model(&model.Answer{}).
		Where("student_id = ? AND domain_id = ?", studentID, domainID)
	if attemptID != nil {
		query = query.Where("attempt_id = ?", *attemptID)
	}
	var total float64
	err := query.Select("COALESCE(SUM(mark), 0)").Scan(&total).Error
	return total, err
}
