package service

import (
	"context"

	"fileshare/internal/model"
)

type UserService interface {
	Register(name, email, password string) (*model.User, error)
	Login(email, password string) (string, *model.User, error)
	Logout(ctx context.Context, token string) error
	GetUserByID(id uint) (*model.User, error)
	UpgradeAccount(userID uint) (*model.User, error)
	UpdatePreferences(userID uint, sortBy, view string) (*model.User, error)
}

type FileService interface {
	ListFiles(userID uint, sortBy SortKey) ([]model.FileRecord, error)
	StorageUsed(userID uint) (int64, error)
	DeleteFile(ctx context.Context, userID uint, id string) error
	ShareFile(ctx context.Context, userID uint, id string, expiresInDays int) (*ShareLink, error)
	ResolveShare(ctx context.Context, token string) (*SharedFile, error)
	DownloadURL(ctx context.Context, rec *model.FileRecord) (string, error)
}
