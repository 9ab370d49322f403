package repository

import (
	"corpquiz_backend/internal/model"

	"gorm.io/gorm"
)

type CompanyRepository struct {
	DB *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{DB: db}
}

func (r *CompanyRepository) Create(company *model.Company) error {
	return r.DB.Create(company).Error
}

func (r *CompanyRepository) FindByID(id uint) (*model.Company, error) {
	var company model.Company
	err := r.DB.First(&company, id).Error
	return &company, err
}

func (r *CompanyRepository) ListVisible(page, perPage int) ([]model.Company, int64, error) {
	var companies []model.Company
	var total int64
	query := r.DB.Model(&model.Company{}).Where("is_visible = ?", true)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * perPage
	err := query.Order("created_at desc").Offset(offset).Limit(perPage).Find(&companies).Error
	return companies, total, err
}

func (r *CompanyRepository) ListByOwner(ownerID uint, page, perPage int) ([]model.Company, int64, error) {
	var companies []model.Company
	var total int64
	query := r.DB.Model(&model.Company{}).Where("owner_id = ?", ownerID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * perPage
	err := query.Order("created_at desc").Offset(offset).Limit(perPage).Find(&companies).Error
	return companies, total, err
}

func (r *CompanyRepository) Update(company *model.Company) error {
	return r.DB.Save(company).Error
}

// Delete 删除公司并级联清理：测验树（quiz -> question -> option）和全部 Action 记录
func (r *CompanyRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var quizIDs []uint
		if err := tx.Model(&model.Quiz{}).Where("company_id = ?", id).Pluck("id", &quizIDs).Error; err != nil {
			return err
		}
		if len(quizIDs) > 0 {
			var questionIDs []uint
			if err := tx.Model(&model.Question{}).Where("quiz_id IN ?", quizIDs).Pluck("id", &questionIDs).Error; err != nil {
				return err
			}
			if len(questionIDs) > 0 {
				if err := tx.Where("question_id IN ?", questionIDs).Delete(&model.Option{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("quiz_id IN ?", quizIDs).Delete(&model.Question{}).Error; err != nil {
				return err
			}
			if err := tx.Where("company_id = ?", id).Delete(&model.Quiz{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("company_id = ?", id).Delete(&model.Action{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Company{}, id).Error
	})
}
