package repository

import (
	"github.com/lshigami/Margays/internal/model"
	"gorm.io/gorm"
)

type TestRepository interface {
	Create(test *model.Test) error
	FindByID(id uint) (*model.Test, error)
	FindByIDWithDomains(id uint) (*model.Test, error)
	FindAll() ([]model.Test, error)
	TitleExists(title string) (bool, error)
}

type testRepository struct {
	db *gorm.DB
}

func NewTestRepository(db *gorm.DB) TestRepository {
	return &testRepository{db: db}
}

func (r *testRepository) Create(test *model.Test) error {
	// Creates the many2many rows for preloaded Domains as well.
	return r.db.Create(test).Error
}

func (r *testRepository) FindByID(id uint) (*model.Test, error) {
	var test model.Test
	err := r.db.First(&test, id).Error
	return &test, err
}

func (r *testRepository) FindByIDWithDomains(id uint) (*model.Test, error) {
	var test model.Test
	err := r.db.Preload("Domains").First(&test, id).Error
	return &test, err
}

func (r *testRepository) FindAll() ([]model.Test, error) {
	var tests []model.Test
	err := r.db.Preload("Domains").Order("start_date ASC").Find(&tests).Error
	return tests, err
}

func (r *testRepository) TitleExists(title string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Test{}).Where("title = ?", title).Count(&count).Error
	return count > 0, err
}
