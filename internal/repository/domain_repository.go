package repository

import (
	"github.com/lshigami/Margays/internal/model"
	"gorm.io/gorm"
)

// DomainRepository is the engine's read-only view of the question/domain
// store. Mutation of domains and questions belongs to a different surface.
type DomainRepository interface {
	FindByID(id uint) (*model.Domain, error)
	FindByIDs(ids []uint) ([]model.Domain, error)
	FindQuestion(id uint) (*model.Question, error)
	FindQuestions(domainID uint, section string) ([]model.Question, error)
}

type domainRepository struct {
	db *gorm.DB
}

func NewDomainRepository(db *gorm.DB) DomainRepository {
	return &domainRepository{db: db}
}

func (r *domainRepository) FindByID(id uint) (*model.Domain, error) {
	var domain model.Domain
	err := r.db.First(&domain, id).Error
	return &domain, err
}

func (r *domainRepository) FindByIDs(ids []uint) ([]model.Domain, error) {
	var domains []model.Domain
	err := r.db.Where("id IN ?", ids).Find(&domains).Error
	return domains, err
}

func (r *domainRepository) FindQuestion(id uint) (*model.Question, error) {
	var question model.Question
	err := r.db.First(&question, id).Error
	return &question, err
}

func (r *domainRepository) FindQuestions(domainID uint, section string) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.
		Where("domain_id = ? AND section = ?", domainID, section).
		Order("id ASC").
		Find(&questions).Error
	return questions, err
}
