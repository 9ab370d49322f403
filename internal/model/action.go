package model

type ActionType string

const (
	ActionRequest ActionType = "REQUEST"
	ActionInvite  ActionType = "INVITE"
	ActionMember  ActionType = "MEMBER"
)

type ActionStatus string

const (
	StatusPending   ActionStatus = "PENDING"
	StatusAccepted  ActionStatus = "ACCEPTED"
	StatusRejected  ActionStatus = "REJECTED"
	StatusCancelled ActionStatus = "CANCELLED"
)

// Action 表示用户与公司之间的一条关系记录（加入申请 / 邀请 / 正式成员）。
// 三种关系共用一张表，靠 Type 区分；成员记录为 Type=MEMBER 且 Status=ACCEPTED。
// IsAdmin 仅对成员记录有意义：按 (user, company) 维度授予的管理员能力。
// swagger:model Action
type Action struct {
	BaseModel
	UserID    uint         `gorm:"index:idx_action_pair;not null" json:"userId"`
	CompanyID uint         `gorm:"index:idx_action_pair;not null" json:"companyId"`
	Type      ActionType   `gorm:"size:20;not null" json:"type"`
	Status    ActionStatus `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	IsAdmin   bool         `gorm:"default:false" json:"isAdmin"`
}

func (Action) TableName() string {
	return "actions"
}

// NewJoinRequest 用户主动申请加入公司
func NewJoinRequest(userID, companyID uint) *Action {
	return &Action{
		UserID:    userID,
		CompanyID: companyID,
		Type:      ActionRequest,
		Status:    StatusPending,
	}
}

// NewInvite 公司邀请用户加入
func NewInvite(userID, companyID uint) *Action {
	return &Action{
		UserID:    userID,
		CompanyID: companyID,
		Type:      ActionInvite,
		Status:    StatusPending,
	}
}

func (a *Action) IsMembership() bool {
	return a.Type == ActionMember && a.Status == StatusAccepted
}
