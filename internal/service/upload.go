package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"fileshare/internal/model"
	"fileshare/internal/repository"

	"github.com/google/uuid"
)

type UploadState string

const (
	UploadIdle       UploadState = "idle"
	UploadValidating UploadState = "validating"
	UploadUploading  UploadState = "uploading"
	UploadCommitted  UploadState = "committed"
	UploadRejected   UploadState = "rejected"
)

type UploadStatus struct {
	State    UploadState `json:"state"`
	Progress int         `json:"progress"`
	FileName string      `json:"file_name,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// ProgressNotifier receives upload status updates as they happen.
type ProgressNotifier interface {
	NotifyProgress(userID uint, status UploadStatus)
}

// UploadManager runs file uploads against the storage backend and
// commits a FileRecord on success. At most one upload is in flight per
// user; a second upload while one is running is rejected with
// ErrUploadInProgress rather than queued.
//
// Progress is derived from bytes actually copied, never decreases, and
// reads 100 strictly before the committed record becomes observable.
type UploadManager struct {
	fileRepo repository.FileRepository
	storage  repository.StorageRepository
	notifier ProgressNotifier // optional
	now      func() time.Time

	mu     sync.Mutex
	active map[uint]*UploadStatus
	last   map[uint]UploadStatus
}

func NewUploadManager(fileRepo repository.FileRepository, storage repository.StorageRepository, notifier ProgressNotifier) *UploadManager {
	return &UploadManager{
		fileRepo: fileRepo,
		storage:  storage,
		notifier: notifier,
		now:      time.Now,
		active:   make(map[uint]*UploadStatus),
		last:     make(map[uint]UploadStatus),
	}
}

func (m *UploadManager) Upload(ctx context.Context, user *model.User, name, contentType string, size int64, body io.Reader) (*model.FileRecord, error) {
	if user == nil {
		return nil, fmt.Errorf("%w: no authenticated user", ErrValidation)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: file name is required", ErrValidation)
	}

	m.mu.Lock()
	if _, busy := m.active[user.ID]; busy {
		m.mu.Unlock()
		return nil, ErrUploadInProgress
	}
	st := &UploadStatus{State: UploadValidating, FileName: name}
	m.active[user.ID] = st
	m.mu.Unlock()
	m.notify(user.ID, *st)

	if limit := model.MaxUploadSize(user.Plan); size > limit {
		m.finish(user.ID, UploadStatus{State: UploadRejected, FileName: name, Error: ErrFileTooLarge.Error()})
		return nil, ErrFileTooLarge
	}

	m.setProgress(user.ID, 0)

	key := uuid.New().String()
	reader := &progressReader{
		r:     body,
		total: size,
		report: func(p int) {
			m.setProgress(user.ID, p)
		},
	}

	locator, err := m.storage.Upload(ctx, key, reader, size, contentType)
	if err != nil {
		m.finish(user.ID, UploadStatus{State: UploadRejected, FileName: name, Error: "upload failed"})
		return nil, fmt.Errorf("failed to upload %s: %w", name, err)
	}

	// Transfer done: progress must read 100 before the record lands.
	m.setProgress(user.ID, 100)

	rec := &model.FileRecord{
		ID:          key,
		UserID:      user.ID,
		Name:        name,
		Size:        size,
		ContentType: contentType,
		StorageKey:  key,
		URL:         locator,
		CreatedAt:   m.now(),
		Shared:      false,
	}

	if err := m.fileRepo.Create(rec); err != nil {
		if rbErr := m.storage.Delete(ctx, key); rbErr != nil {
			log.Printf("failed to delete orphaned object %s from storage: %v", key, rbErr)
		}
		m.finish(user.ID, UploadStatus{State: UploadRejected, FileName: name, Error: "failed to save file"})
		return nil, fmt.Errorf("failed to save metadata for %s: %w", name, err)
	}

	m.finish(user.ID, UploadStatus{State: UploadCommitted, Progress: 100, FileName: name})
	log.Printf("file uploaded: %s (%s)", name, model.FormatSize(size))

	return rec, nil
}

// Progress reports the user's in-flight upload, or the last terminal
// status when nothing is running.
func (m *UploadManager) Progress(userID uint) UploadStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	if st, ok := m.active[userID]; ok {
		return *st
	}
	if st, ok := m.last[userID]; ok {
		return st
	}
	return UploadStatus{State: UploadIdle}
}

func (m *UploadManager) setProgress(userID uint, progress int) {
	m.mu.Lock()
	st, ok := m.active[userID]
	if !ok {
		m.mu.Unlock()
		return
	}
	st.State = UploadUploading
	if progress > st.Progress {
		st.Progress = progress
	}
	snapshot := *st
	m.mu.Unlock()

	m.notify(userID, snapshot)
}

func (m *UploadManager) finish(userID uint, status UploadStatus) {
	m.mu.Lock()
	delete(m.active, userID)
	m.last[userID] = status
	m.mu.Unlock()

	m.notify(userID, status)
}

func (m *UploadManager) notify(userID uint, status UploadStatus) {
	if m.notifier != nil {
		m.notifier.NotifyProgress(userID, status)
	}
}

// progressReader reports copy progress as a percentage. It caps at 99
// while bytes are still flowing; the manager sets 100 itself once the
// storage backend has confirmed the object.
type progressReader struct {
	r      io.Reader
	total  int64
	read   int64
	report func(int)
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	pr.read += int64(n)

	progress := 99
	if pr.total > 0 {
		progress = int(pr.read * 100 / pr.total)
		if progress > 99 {
			progress = 99
		}
	}
	pr.report(progress)

	return n, err
}
