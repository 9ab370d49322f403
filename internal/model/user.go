package model

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Username string   `gorm:"size:50;unique;not null" json:"username"`
	Email    string   `gorm:"size:100;unique;not null" json:"email"`
	Password string   `gorm:"size:100;not null" json:"-"`
	City     string   `gorm:"size:50" json:"city"`
	Country  string   `gorm:"size:50" json:"country"`
	Phone    string   `gorm:"size:20" json:"phone"`
	Status   bool     `gorm:"default:true" json:"status"`
	Role     UserRole `gorm:"size:20;default:'user'" json:"role"`
}

func (User) TableName() string {
	return "users"
}
