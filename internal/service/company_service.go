package service

import (
	"corpquiz_backend/internal/model"
	"corpquiz_backend/internal/repository"
	"corpquiz_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type CompanyService struct {
	CompanyRepo *repository.CompanyRepository
}

func NewCompanyService(companyRepo *repository.CompanyRepository) *CompanyService {
	return &CompanyService{CompanyRepo: companyRepo}
}

// CreateCompany 创建公司，当前用户自动成为所有者
func (s *CompanyService) CreateCompany(ownerID uint, company *model.Company) error {
	company.OwnerID = ownerID
	return s.CompanyRepo.Create(company)
}

func (s *CompanyService) GetCompanyByID(id uint) (*model.Company, error) {
	company, err := s.CompanyRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	return company, err
}

func (s *CompanyService) GetVisibleCompanies(page, perPage int) ([]model.Company, int64, error) {
	return s.CompanyRepo.ListVisible(page, perPage)
}

func (s *CompanyService) GetMyCompanies(ownerID uint, page, perPage int) ([]model.Company, int64, error) {
	return s.CompanyRepo.ListByOwner(ownerID, page, perPage)
}

// UpdateCompanyInput 可更新字段，IsVisible 用指针区分"未传"和"置为 false"
type UpdateCompanyInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Site        string `json:"site"`
	City        string `json:"city"`
	Country     string `json:"country"`
	IsVisible   *bool  `json:"isVisible"`
}

// UpdateCompany 仅所有者可修改
func (s *CompanyService) UpdateCompany(actorID, companyID uint, input UpdateCompanyInput) (*model.Company, error) {
	company, err := s.GetCompanyByID(companyID)
	if err != nil {
		return nil, err
	}
	if company.OwnerID != actorID {
		return nil, util.ErrPermissionDenied
	}

	if input.Name != "" {
		company.Name = input.Name
	}
	if input.Description != "" {
		company.Description = input.Description
	}
	if input.Site != "" {
		company.Site = input.Site
	}
	if input.City != "" {
		company.City = input.City
	}
	if input.Country != "" {
		company.Country = input.Country
	}
	if input.IsVisible != nil {
		company.IsVisible = *input.IsVisible
	}

	if err := s.CompanyRepo.Update(company); err != nil {
		return nil, err
	}
	return company, nil
}

// DeleteCompany 仅所有者可删除，连带清理测验树与全部关系记录
func (s *CompanyService) DeleteCompany(actorID, companyID uint) (DeleteResult, error) {
	company, err := s.CompanyRepo.FindByID(companyID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return DeleteResult{Message: "Company not found", ID: -1}, nil
	} else if err != nil {
		return DeleteResult{}, err
	}

	if company.OwnerID != actorID {
		return DeleteResult{}, util.ErrPermissionDenied
	}

	if err := s.CompanyRepo.Delete(companyID); err != nil {
		return DeleteResult{}, err
	}
	return DeleteResult{Message: "Company deleted", ID: int64(companyID)}, nil
}

// IsOwner 判断用户是否为公司所有者
func (s *CompanyService) IsOwner(userID, companyID uint) (bool, error) {
	company, err := s.GetCompanyByID(companyID)
	if err != nil {
		return false, err
	}
	return company.OwnerID == userID, nil
}
