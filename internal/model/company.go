package model

// swagger:model Company
type Company struct {
	BaseModel
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Site        string `gorm:"size:255" json:"site"`
	City        string `gorm:"size:50" json:"city"`
	Country     string `gorm:"size:50" json:"country"`
	IsVisible   bool   `gorm:"default:true" json:"isVisible"`
	OwnerID     uint   `gorm:"index;not null" json:"ownerId"`
}

func (Company) TableName() string {
	return "companies"
}
