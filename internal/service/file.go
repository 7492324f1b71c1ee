package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"time"

	"fileshare/internal/model"
	"fileshare/internal/repository"
)

const (
	defaultShareDays = 7

	// 9 random bytes -> 12 URL-safe chars, 72 bits of entropy.
	shareTokenBytes = 9
)

const downloadLinkLifetime = 15 * time.Minute

type ShareLink struct {
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SharedFile struct {
	File    model.FileRecord `json:"file"`
	Expired bool             `json:"expired"`
}

type fileService struct {
	fileRepo repository.FileRepository
	storage  repository.StorageRepository
	shares   repository.ShareCacheRepository // optional, nil without redis
	baseURL  string
	now      func() time.Time
}

func NewFileService(fileRepo repository.FileRepository, storage repository.StorageRepository, shares repository.ShareCacheRepository, baseURL string) FileService {
	return &fileService{
		fileRepo: fileRepo,
		storage:  storage,
		shares:   shares,
		baseURL:  baseURL,
		now:      time.Now,
	}
}

// ListFiles returns the user's records ordered by the given sort key.
// The underlying records are never mutated; sorting happens on a copy.
func (s *fileService) ListFiles(userID uint, sortBy SortKey) ([]model.FileRecord, error) {
	files, err := s.fileRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	return SortFiles(files, sortBy), nil
}

func (s *fileService) StorageUsed(userID uint) (int64, error) {
	files, err := s.fileRepo.FindByUser(userID)
	if err != nil {
		return 0, err
	}

	var used int64
	for _, f := range files {
		used += f.Size
	}
	return used, nil
}

func (s *fileService) DeleteFile(ctx context.Context, userID uint, id string) error {
	rec, err := s.fileRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil // deleting an absent file is a no-op
		}
		return err
	}
	if rec.UserID != userID {
		// Foreign files are indistinguishable from absent ones.
		return repository.ErrNotFound
	}

	if rec.ShareToken != nil && s.shares != nil {
		if err := s.shares.DeleteToken(ctx, *rec.ShareToken); err != nil {
			log.Printf("failed to drop share token from cache: %v", err)
		}
	}

	if err := s.storage.Delete(ctx, rec.StorageKey); err != nil {
		log.Printf("failed to delete %s from storage: %v", rec.StorageKey, err)
	}

	return s.fileRepo.Delete(id)
}

// ShareFile issues a share link for the file. Re-sharing replaces the
// previous token and expiration outright; the old token stops
// resolving.
func (s *fileService) ShareFile(ctx context.Context, userID uint, id string, expiresInDays int) (*ShareLink, error) {
	rec, err := s.fileRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if rec.UserID != userID {
		return nil, repository.ErrNotFound
	}

	if expiresInDays <= 0 {
		expiresInDays = defaultShareDays
	}

	if rec.ShareToken != nil && s.shares != nil {
		if err := s.shares.DeleteToken(ctx, *rec.ShareToken); err != nil {
			log.Printf("failed to drop stale share token: %v", err)
		}
	}

	token, err := s.newShareToken()
	if err != nil {
		return nil, err
	}

	expiresAt := s.now().AddDate(0, 0, expiresInDays)
	rec.SetShare(token, expiresAt)

	if err := s.fileRepo.Update(rec); err != nil {
		return nil, err
	}

	if s.shares != nil {
		if err := s.shares.SaveToken(ctx, token, rec.ID); err != nil {
			log.Printf("failed to cache share token: %v", err)
		}
	}

	return &ShareLink{
		Token:     token,
		URL:       s.baseURL + "/share/" + token,
		ExpiresAt: expiresAt,
	}, nil
}

// ResolveShare looks a token up. The record is returned even when the
// link is past its expiration; Expired tells the caller to withhold the
// download.
func (s *fileService) ResolveShare(ctx context.Context, token string) (*SharedFile, error) {
	if token == "" {
		return nil, repository.ErrNotFound
	}

	rec := s.resolveFromCache(ctx, token)
	if rec == nil {
		var err error
		rec, err = s.fileRepo.FindByShareToken(token)
		if err != nil {
			return nil, err
		}
	}

	return &SharedFile{
		File:    *rec,
		Expired: rec.ShareExpired(s.now()),
	}, nil
}

func (s *fileService) DownloadURL(ctx context.Context, rec *model.FileRecord) (string, error) {
	return s.storage.PresignDownload(ctx, rec.StorageKey, downloadLinkLifetime)
}

// resolveFromCache consults the redis look-aside cache. A hit is only
// trusted when the record still carries the same token; re-sharing can
// leave a stale entry behind for a moment.
func (s *fileService) resolveFromCache(ctx context.Context, token string) *model.FileRecord {
	if s.shares == nil {
		return nil
	}

	fileID, err := s.shares.GetFileID(ctx, token)
	if err != nil {
		return nil
	}

	rec, err := s.fileRepo.FindByID(fileID)
	if err != nil {
		return nil
	}
	if rec.ShareToken == nil || *rec.ShareToken != token {
		return nil
	}
	return rec
}

// newShareToken generates a fresh token distinct from every token
// currently active in the store.
func (s *fileService) newShareToken() (string, error) {
	for {
		buf := make([]byte, shareTokenBytes)
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to generate share token: %w", err)
		}
		token := base64.RawURLEncoding.EncodeToString(buf)

		exists, err := s.fileRepo.TokenExists(token)
		if err != nil {
			return "", err
		}
		if !exists {
			return token, nil
		}
	}
}
