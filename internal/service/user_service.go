package service

import (
	"corpquiz_backend/internal/model"
	"corpquiz_backend/internal/repository"
	"corpquiz_backend/internal/util"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DeleteResult 删除操作的统一返回：成功时带被删除记录的 ID，
// 目标不存在时 ID 为 -1
type DeleteResult struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

func (s *UserService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	return user, err
}

func (s *UserService) GetUserByUsername(username string) (*model.User, error) {
	user, err := s.UserRepo.FindByUsername(username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	return user, err
}

func (s *UserService) GetUsers(page, perPage int) ([]model.User, int64, error) {
	return s.UserRepo.List(page, perPage)
}

// UpdateUserInput 可更新的字段，密码给出时重新散列
type UpdateUserInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	City     string `json:"city"`
	Country  string `json:"country"`
	Phone    string `json:"phone"`
}

// UpdateUser 只允许本人修改自己的资料
func (s *UserService) UpdateUser(actorID, targetID uint, input UpdateUserInput) (*model.User, error) {
	if actorID != targetID {
		return nil, util.ErrPermissionDenied
	}

	user, err := s.UserRepo.FindByID(targetID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	} else if err != nil {
		return nil, err
	}

	if input.Username != "" && input.Username != user.Username {
		if _, err := s.UserRepo.FindByUsername(input.Username); err == nil {
			return nil, util.ErrUsernameRegistered
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Username = input.Username
	}
	if input.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}
	if input.City != "" {
		user.City = input.City
	}
	if input.Country != "" {
		user.Country = input.Country
	}
	if input.Phone != "" {
		user.Phone = input.Phone
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser 只允许本人注销，连带清理关系与通知
func (s *UserService) DeleteUser(actorID, targetID uint) (DeleteResult, error) {
	if actorID != targetID {
		return DeleteResult{}, util.ErrPermissionDenied
	}

	if _, err := s.UserRepo.FindByID(targetID); errors.Is(err, gorm.ErrRecordNotFound) {
		return DeleteResult{Message: "User not found", ID: -1}, nil
	} else if err != nil {
		return DeleteResult{}, err
	}

	if err := s.UserRepo.Delete(targetID); err != nil {
		return DeleteResult{}, err
	}
	return DeleteResult{Message: "User deleted", ID: int64(targetID)}, nil
}
