package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"fileshare/internal/model"
	"fileshare/internal/repository"
)

type recordingNotifier struct {
	mu       sync.Mutex
	statuses []UploadStatus
}

func (n *recordingNotifier) NotifyProgress(userID uint, status UploadStatus) {
	n.mu.Lock()
	n.statuses = append(n.statuses, status)
	n.mu.Unlock()
}

func (n *recordingNotifier) all() []UploadStatus {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]UploadStatus, len(n.statuses))
	copy(out, n.statuses)
	return out
}

func freeUser() *model.User {
	u := &model.User{Email: "user@example.com", Name: "Demo User", Plan: model.PlanFree}
	u.ID = 1
	return u
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	fileRepo := repository.NewMemoryFileRepository()
	storage := repository.NewMemoryStorageRepository()
	notifier := &recordingNotifier{}
	m := NewUploadManager(fileRepo, storage, notifier)

	// 250 MiB against a 200 MiB quota: rejected during validation,
	// without reading a single byte of content.
	size := int64(250 * 1024 * 1024)
	_, err := m.Upload(context.Background(), freeUser(), "big.bin", "application/octet-stream", size, strings.NewReader("unread"))
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("err = %v, want ErrFileTooLarge", err)
	}

	files, _ := fileRepo.FindByUser(1)
	if len(files) != 0 {
		t.Errorf("rejected upload created %d records", len(files))
	}
	for _, st := range notifier.all() {
		if st.State == UploadUploading {
			t.Error("rejected upload reported transfer progress")
		}
	}
	if st := m.Progress(1); st.State != UploadRejected {
		t.Errorf("final state = %s, want rejected", st.State)
	}
}

func TestUploadCommitsWithinQuota(t *testing.T) {
	fileRepo := repository.NewMemoryFileRepository()
	storage := repository.NewMemoryStorageRepository()
	notifier := &recordingNotifier{}
	m := NewUploadManager(fileRepo, storage, notifier)

	content := strings.Repeat("x", 4096)
	rec, err := m.Upload(context.Background(), freeUser(), "report.pdf", "application/pdf", int64(len(content)), strings.NewReader(content))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if rec.Shared {
		t.Error("fresh upload marked shared")
	}
	if rec.Size != int64(len(content)) {
		t.Errorf("rec.Size = %d, want %d", rec.Size, len(content))
	}

	files, _ := fileRepo.FindByUser(1)
	if len(files) != 1 || files[0].ID != rec.ID {
		t.Fatalf("record not committed to the store")
	}

	// Progress must be monotonic and end at exactly 100 on commit.
	last := -1
	for _, st := range notifier.all() {
		if st.Progress < last {
			t.Fatalf("progress went backwards: %d after %d", st.Progress, last)
		}
		last = st.Progress
	}
	statuses := notifier.all()
	final := statuses[len(statuses)-1]
	if final.State != UploadCommitted || final.Progress != 100 {
		t.Errorf("final status = %s/%d, want committed/100", final.State, final.Progress)
	}

	if st := m.Progress(1); st.State != UploadCommitted || st.Progress != 100 {
		t.Errorf("Progress() = %s/%d, want committed/100", st.State, st.Progress)
	}
}

// blockingStorage parks the first Upload call until released, so a
// second upload can be attempted while the first is provably in flight.
// Later uploads pass straight through.
type blockingStorage struct {
	once    sync.Once
	started chan struct{}
	release chan struct{}
}

func (s *blockingStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	s.once.Do(func() {
		close(s.started)
		<-s.release
	})
	return "blocked://" + key, nil
}

func (s *blockingStorage) PresignDownload(ctx context.Context, key string, expires time.Duration) (string, error) {
	return "blocked://" + key, nil
}

func (s *blockingStorage) Delete(ctx context.Context, key string) error { return nil }

func TestUploadRejectsConcurrentUpload(t *testing.T) {
	fileRepo := repository.NewMemoryFileRepository()
	storage := &blockingStorage{started: make(chan struct{}), release: make(chan struct{})}
	m := NewUploadManager(fileRepo, storage, nil)

	user := freeUser()
	done := make(chan error, 1)
	go func() {
		_, err := m.Upload(context.Background(), user, "first.bin", "application/octet-stream", 4, strings.NewReader("data"))
		done <- err
	}()

	<-storage.started

	_, err := m.Upload(context.Background(), user, "second.bin", "application/octet-stream", 4, strings.NewReader("data"))
	if !errors.Is(err, ErrUploadInProgress) {
		t.Errorf("concurrent upload err = %v, want ErrUploadInProgress", err)
	}

	close(storage.release)
	if err := <-done; err != nil {
		t.Fatalf("first upload failed: %v", err)
	}

	// The slot frees up once the first upload commits.
	rec, err := m.Upload(context.Background(), user, "third.bin", "application/octet-stream", 4, strings.NewReader("data"))
	if err != nil {
		t.Fatalf("follow-up upload failed: %v", err)
	}
	if rec == nil {
		t.Fatal("follow-up upload returned no record")
	}
}

type failingStorage struct{}

func (failingStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	return "", fmt.Errorf("bucket unavailable")
}

func (failingStorage) PresignDownload(ctx context.Context, key string, expires time.Duration) (string, error) {
	return "", fmt.Errorf("bucket unavailable")
}

func (failingStorage) Delete(ctx context.Context, key string) error { return nil }

func TestUploadStorageFailureLeavesNoRecord(t *testing.T) {
	fileRepo := repository.NewMemoryFileRepository()
	m := NewUploadManager(fileRepo, failingStorage{}, nil)

	_, err := m.Upload(context.Background(), freeUser(), "doomed.bin", "application/octet-stream", 4, strings.NewReader("data"))
	if err == nil {
		t.Fatal("expected error from failing storage")
	}

	files, _ := fileRepo.FindByUser(1)
	if len(files) != 0 {
		t.Errorf("failed upload left %d records behind", len(files))
	}
	if st := m.Progress(1); st.State != UploadRejected {
		t.Errorf("state after failure = %s, want rejected", st.State)
	}

	// The failed attempt must not hold the slot.
	content := "retry"
	if _, err := m.Upload(context.Background(), freeUser(), "retry.bin", "application/octet-stream", int64(len(content)), strings.NewReader(content)); err == nil {
		t.Error("second attempt against failing storage unexpectedly succeeded")
	}
}

func TestUploadProProceedsWhereFreeIsRejected(t *testing.T) {
	fileRepo := repository.NewMemoryFileRepository()
	storage := repository.NewMemoryStorageRepository()
	m := NewUploadManager(fileRepo, storage, nil)

	pro := &model.User{Email: "pro@example.com", Name: "Pro User", Plan: model.PlanPro}
	pro.ID = 2

	// 250 MiB declared size, but only a few bytes of actual content;
	// validation looks at the declared size alone.
	size := int64(250 * 1024 * 1024)
	if _, err := m.Upload(context.Background(), freeUser(), "big.bin", "application/octet-stream", size, strings.NewReader("x")); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("free user err = %v, want ErrFileTooLarge", err)
	}
	if _, err := m.Upload(context.Background(), pro, "big.bin", "application/octet-stream", size, strings.NewReader("x")); err != nil {
		t.Errorf("pro user err = %v, want nil", err)
	}
}

func TestUploadIdleWithoutHistory(t *testing.T) {
	m := NewUploadManager(repository.NewMemoryFileRepository(), repository.NewMemoryStorageRepository(), nil)

	if st := m.Progress(99); st.State != UploadIdle {
		t.Errorf("state = %s, want idle", st.State)
	}
}
