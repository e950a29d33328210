package util

import "errors"

var (
	ErrEmailRegistered     = errors.New("该邮箱已被注册")
	ErrNotVerified         = errors.New("account is not verified yet")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrDocumentNotFound    = errors.New("document with this name was not found")
	ErrDocumentExists      = errors.New("document with this name already exists")
	ErrInvalidDocumentName = errors.New("document name contains forbidden characters")
	ErrBadExtension        = errors.New("file has an unsupported extension")
	ErrQuestionAnswered    = errors.New("question does not exist or already answered")
	ErrInteractionNotFound = errors.New("interaction record not found")
	ErrRequestExists       = errors.New("registration request already sent")
	ErrRequestNotFound     = errors.New("registration request not found")
	ErrUpstream            = errors.New("LLM service request failed")
)
