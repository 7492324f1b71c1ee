package service

import "errors"

var (
	ErrValidation         = errors.New("invalid input")
	ErrDuplicateEmail     = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrFileTooLarge       = errors.New("file exceeds the plan upload limit")
	ErrUploadInProgress   = errors.New("another upload is already in progress")
)
