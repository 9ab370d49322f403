package service

import (
	"corpquiz_backend/internal/model"
	"corpquiz_backend/internal/repository"
	"corpquiz_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

// MembershipService 管理用户与公司之间的关系状态机：
// 加入申请、邀请、成员、管理员。所有状态迁移都落在一条带守卫的
// UPDATE 上，并发时至多一方生效。
type MembershipService struct {
	ActionRepo  *repository.ActionRepository
	CompanyRepo *repository.CompanyRepository
	UserRepo    *repository.UserRepository
}

func NewMembershipService(
	actionRepo *repository.ActionRepository,
	companyRepo *repository.CompanyRepository,
	userRepo *repository.UserRepository,
) *MembershipService {
	return &MembershipService{
		ActionRepo:  actionRepo,
		CompanyRepo: companyRepo,
		UserRepo:    userRepo,
	}
}

// ensurePairFree 校验 (user, company) 之间不存在待处理记录或成员关系
func (s *MembershipService) ensurePairFree(userID, companyID uint) error {
	_, err := s.ActionRepo.FindUndecided(userID, companyID)
	if err == nil {
		return util.ErrAlreadyRelated
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

// CreateRequest 用户申请加入公司
func (s *MembershipService) CreateRequest(userID, companyID uint) (*model.Action, error) {
	company, err := s.CompanyRepo.FindByID(companyID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	if company.OwnerID == userID {
		return nil, util.ErrOwnerAsTarget
	}
	if err := s.ensurePairFree(userID, companyID); err != nil {
		return nil, err
	}

	action := model.NewJoinRequest(userID, companyID)
	if err := s.ActionRepo.Create(action); err != nil {
		return nil, err
	}
	return action, nil
}

// CreateInvite 公司方邀请用户加入，调用方的管理权限由控制器校验
func (s *MembershipService) CreateInvite(companyID, targetUserID uint) (*model.Action, error) {
	company, err := s.CompanyRepo.FindByID(companyID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	if company.OwnerID == targetUserID {
		return nil, util.ErrOwnerAsTarget
	}
	if _, err := s.UserRepo.FindByID(targetUserID); errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	} else if err != nil {
		return nil, err
	}
	if err := s.ensurePairFree(targetUserID, companyID); err != nil {
		return nil, err
	}

	action := model.NewInvite(targetUserID, companyID)
	if err := s.ActionRepo.Create(action); err != nil {
		return nil, err
	}
	return action, nil
}

// CancelRequest 用户撤回自己的加入申请
func (s *MembershipService) CancelRequest(actionID, actorID uint) error {
	ok, err := s.ActionRepo.CancelByInitiator(actionID, model.ActionRequest, actorID)
	if err != nil {
		return err
	}
	if !ok {
		return util.ErrNotPending
	}
	return nil
}

// CancelInvite 公司方撤回邀请，管理权限由控制器按 action.CompanyID 校验
func (s *MembershipService) CancelInvite(actionID uint) error {
	ok, err := s.ActionRepo.Resolve(actionID, model.ActionInvite, model.ActionInvite, model.StatusCancelled)
	if err != nil {
		return err
	}
	if !ok {
		return util.ErrNotPending
	}
	return nil
}

// AcceptRequest 公司方接受加入申请，申请原子地转为成员记录
func (s *MembershipService) AcceptRequest(actionID uint) error {
	ok, err := s.ActionRepo.Resolve(actionID, model.ActionRequest, model.ActionMember, model.StatusAccepted)
	if err != nil {
		return err
	}
	if !ok {
		return util.ErrNotPending
	}
	return nil
}

// RejectRequest 公司方拒绝加入申请
func (s *MembershipService) RejectRequest(actionID uint) error {
	ok, err := s.ActionRepo.Resolve(actionID, model.ActionRequest, model.ActionRequest, model.StatusRejected)
	if err != nil {
		return err
	}
	if !ok {
		return util.ErrNotPending
	}
	return nil
}

// AcceptInvite 被邀请的用户接受邀请，actorID 必须是邀请对象本人
func (s *MembershipService) AcceptInvite(actionID, actorID uint) error {
	action, err := s.getAction(actionID)
	if err != nil {
		return err
	}
	if action.UserID != actorID {
		return util.ErrPermissionDenied
	}
	ok, err := s.ActionRepo.Resolve(actionID, model.ActionInvite, model.ActionMember, model.StatusAccepted)
	if err != nil {
		return err
	}
	if !ok {
		return util.ErrNotPending
	}
	return nil
}

// RejectInvite 被邀请的用户拒绝邀请
func (s *MembershipService) RejectInvite(actionID, actorID uint) error {
	action, err := s.getAction(actionID)
	if err != nil {
		return err
	}
	if action.UserID != actorID {
		return util.ErrPermissionDenied
	}
	ok, err := s.ActionRepo.Resolve(actionID, model.ActionInvite, model.ActionInvite, model.StatusRejected)
	if err != nil {
		return err
	}
	if !ok {
		return util.ErrNotPending
	}
	return nil
}

// LeaveCompany 成员退出公司，所有者不能退出自己的公司
func (s *MembershipService) LeaveCompany(userID, companyID uint) error {
	company, err := s.CompanyRepo.FindByID(companyID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrNotFound
	} else if err != nil {
		return err
	}
	if company.OwnerID == userID {
		return util.ErrOwnerCannotLeave
	}

	ok, err := s.ActionRepo.DeleteMembership(userID, companyID)
	if err != nil {
		return err
	}
	if !ok {
		return util.ErrNotMember
	}
	return nil
}

// RemoveUser 公司方移除成员，调用方权限由控制器校验
func (s *MembershipService) RemoveUser(companyID, targetUserID uint) error {
	company, err := s.CompanyRepo.FindByID(companyID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrNotFound
	} else if err != nil {
		return err
	}
	if company.OwnerID == targetUserID {
		return util.ErrOwnerAsTarget
	}

	ok, err := s.ActionRepo.DeleteMembership(targetUserID, companyID)
	if err != nil {
		return err
	}
	if !ok {
		return util.ErrNotMember
	}
	return nil
}

// AddAdmin 在成员记录上授予管理员能力，目标非成员时报错
func (s *MembershipService) AddAdmin(companyID, targetUserID uint) error {
	ok, err := s.ActionRepo.SetAdmin(targetUserID, companyID, true)
	if err != nil {
		return err
	}
	if !ok {
		return util.ErrNotMember
	}
	return nil
}

// RemoveAdmin 撤销管理员能力
func (s *MembershipService) RemoveAdmin(companyID, targetUserID uint) error {
	ok, err := s.ActionRepo.SetAdmin(targetUserID, companyID, false)
	if err != nil {
		return err
	}
	if !ok {
		return util.ErrNotMember
	}
	return nil
}

func (s *MembershipService) getAction(id uint) (*model.Action, error) {
	action, err := s.ActionRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	return action, err
}

// GetAction 供控制器按 CompanyID 做权限判定
func (s *MembershipService) GetAction(id uint) (*model.Action, error) {
	return s.getAction(id)
}

func (s *MembershipService) RequestsForUser(userID uint) ([]model.Action, error) {
	return s.ActionRepo.ListForUser(userID, model.ActionRequest)
}

func (s *MembershipService) InvitesForUser(userID uint) ([]model.Action, error) {
	return s.ActionRepo.ListForUser(userID, model.ActionInvite)
}

func (s *MembershipService) RequestsForCompany(companyID uint) ([]model.Action, error) {
	return s.ActionRepo.ListForCompany(companyID, model.ActionRequest)
}

func (s *MembershipService) InvitesForCompany(companyID uint) ([]model.Action, error) {
	return s.ActionRepo.ListForCompany(companyID, model.ActionInvite)
}

func (s *MembershipService) GetCompanyMembers(companyID uint, page, perPage int) ([]model.User, int64, error) {
	return s.ActionRepo.UsersInCompany(companyID, page, perPage)
}

func (s *MembershipService) GetCompanyAdmins(companyID uint, page, perPage int) ([]model.User, int64, error) {
	return s.ActionRepo.AdminsInCompany(companyID, page, perPage)
}

// IsMember 所有者视同成员
func (s *MembershipService) IsMember(userID, companyID uint) (bool, error) {
	company, err := s.CompanyRepo.FindByID(companyID)
	if err == nil && company.OwnerID == userID {
		return true, nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	return s.ActionRepo.IsMember(userID, companyID)
}

// CanManage 所有者或管理员成员可以管理公司的成员与测验
func (s *MembershipService) CanManage(userID, companyID uint) (bool, error) {
	company, err := s.CompanyRepo.FindByID(companyID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, util.ErrNotFound
	} else if err != nil {
		return false, err
	}
	if company.OwnerID == userID {
		return true, nil
	}
	return s.ActionRepo.IsAdmin(userID, companyID)
}
