package util

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailRegistered     = errors.New("email already registered")
	ErrUsernameRegistered  = errors.New("username already registered")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrNotFound            = errors.New("not found")
	ErrNotPending          = errors.New("action is not pending")
	ErrNotMember           = errors.New("user is not a member of this company")
	ErrAlreadyRelated      = errors.New("an active request, invite or membership already exists")
	ErrOwnerCannotLeave    = errors.New("company owner cannot leave their own company")
	ErrOwnerAsTarget       = errors.New("company owner cannot be invited or requested")
	ErrTooFewQuestions     = errors.New("quiz must have at least 2 questions")
	ErrTooFewOptions       = errors.New("question must have at least 2 options")
	ErrInvalidExportFormat = errors.New("invalid export format")
	ErrNoResults           = errors.New("no results found")
)
