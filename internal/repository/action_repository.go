package repository

import (
	"corpquiz_backend/internal/model"

	"gorm.io/gorm"
)

type ActionRepository struct {
	DB *gorm.DB
}

func NewActionRepository(db *gorm.DB) *ActionRepository {
	return &ActionRepository{DB: db}
}

func (r *ActionRepository) Create(action *model.Action) error {
	return r.DB.Create(action).Error
}

func (r *ActionRepository) FindByID(id uint) (*model.Action, error) {
	var action model.Action
	err := r.DB.First(&action, id).Error
	return &action, err
}

// FindUndecided 返回 (user, company) 之间仍然有效的记录：
// 待处理的申请/邀请，或已确认的成员关系。终态（REJECTED/CANCELLED）不算。
func (r *ActionRepository) FindUndecided(userID, companyID uint) (*model.Action, error) {
	var action model.Action
	err := r.DB.Where("user_id = ? AND company_id = ?", userID, companyID).
		Where("status = ? OR (type = ? AND status = ?)",
			model.StatusPending, model.ActionMember, model.StatusAccepted).
		First(&action).Error
	return &action, err
}

// Resolve 把一条 PENDING 的申请/邀请原子地转成终态或成员关系。
// 整个状态迁移是一条带 WHERE 守卫的 UPDATE：并发的 accept/reject/cancel
// 之中至多一个会生效，其余拿到 false。
func (r *ActionRepository) Resolve(id uint, fromType model.ActionType, toType model.ActionType, toStatus model.ActionStatus) (bool, error) {
	res := r.DB.Model(&model.Action{}).
		Where("id = ? AND type = ? AND status = ?", id, fromType, model.StatusPending).
		Updates(map[string]interface{}{"type": toType, "status": toStatus})
	return res.RowsAffected > 0, res.Error
}

// CancelByInitiator 与 Resolve 相同，但额外校验发起方（用户撤回自己的申请）
func (r *ActionRepository) CancelByInitiator(id uint, fromType model.ActionType, userID uint) (bool, error) {
	res := r.DB.Model(&model.Action{}).
		Where("id = ? AND type = ? AND status = ? AND user_id = ?", id, fromType, model.StatusPending, userID).
		Update("status", model.StatusCancelled)
	return res.RowsAffected > 0, res.Error
}

// DeleteMembership 删除成员记录，非成员时返回 false
func (r *ActionRepository) DeleteMembership(userID, companyID uint) (bool, error) {
	res := r.DB.Where("user_id = ? AND company_id = ? AND type = ? AND status = ?",
		userID, companyID, model.ActionMember, model.StatusAccepted).
		Delete(&model.Action{})
	return res.RowsAffected > 0, res.Error
}

// SetAdmin 在成员记录上开关管理员标记，同样依赖受影响行数判断目标是否为成员
func (r *ActionRepository) SetAdmin(userID, companyID uint, isAdmin bool) (bool, error) {
	res := r.DB.Model(&model.Action{}).
		Where("user_id = ? AND company_id = ? AND type = ? AND status = ?",
			userID, companyID, model.ActionMember, model.StatusAccepted).
		Update("is_admin", isAdmin)
	return res.RowsAffected > 0, res.Error
}

func (r *ActionRepository) IsMember(userID, companyID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Action{}).
		Where("user_id = ? AND company_id = ? AND type = ? AND status = ?",
			userID, companyID, model.ActionMember, model.StatusAccepted).
		Count(&count).Error
	return count > 0, err
}

func (r *ActionRepository) IsAdmin(userID, companyID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Action{}).
		Where("user_id = ? AND company_id = ? AND type = ? AND status = ? AND is_admin = ?",
			userID, companyID, model.ActionMember, model.StatusAccepted, true).
		Count(&count).Error
	return count > 0, err
}

func (r *ActionRepository) ListForUser(userID uint, actionType model.ActionType) ([]model.Action, error) {
	var actions []model.Action
	err := r.DB.Where("user_id = ? AND type = ?", userID, actionType).
		Order("created_at desc").Find(&actions).Error
	return actions, err
}

func (r *ActionRepository) ListForCompany(companyID uint, actionType model.ActionType) ([]model.Action, error) {
	var actions []model.Action
	err := r.DB.Where("company_id = ? AND type = ?", companyID, actionType).
		Order("created_at desc").Find(&actions).Error
	return actions, err
}

// UsersInCompany 分页返回公司成员，通过 Action 表联查
func (r *ActionRepository) UsersInCompany(companyID uint, page, perPage int) ([]model.User, int64, error) {
	base := r.DB.Model(&model.User{}).
		Joins("JOIN actions ON actions.user_id = users.id").
		Where("actions.company_id = ? AND actions.type = ? AND actions.status = ? AND actions.deleted_at IS NULL",
			companyID, model.ActionMember, model.StatusAccepted)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.User
	offset := (page - 1) * perPage
	err := base.Order("users.created_at asc").Offset(offset).Limit(perPage).Find(&users).Error
	return users, total, err
}

// AdminsInCompany 与 UsersInCompany 相同，但仅保留带管理员标记的成员
func (r *ActionRepository) AdminsInCompany(companyID uint, page, perPage int) ([]model.User, int64, error) {
	base := r.DB.Model(&model.User{}).
		Joins("JOIN actions ON actions.user_id = users.id").
		Where("actions.company_id = ? AND actions.type = ? AND actions.status = ? AND actions.is_admin = ? AND actions.deleted_at IS NULL",
			companyID, model.ActionMember, model.StatusAccepted, true)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.User
	offset := (page - 1) * perPage
	err := base.Order("users.created_at asc").Offset(offset).Limit(perPage).Find(&users).Error
	return users, total, err
}

// MemberIDs 返回公司全部成员的用户 ID（通知扇出用）
func (r *ActionRepository) MemberIDs(companyID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.Action{}).
		Where("company_id = ? AND type = ? AND status = ?",
			companyID, model.ActionMember, model.StatusAccepted).
		Pluck("user_id", &ids).Error
	return ids, err
}
