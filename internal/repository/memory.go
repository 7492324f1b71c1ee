package repository

import (
	"fmt"
	"sync"

	"fileshare/internal/model"
)

// In-memory implementations backing demo mode and tests. They satisfy
// the same contracts as the gorm-backed repositories.

type memoryUserRepository struct {
	mu      sync.RWMutex
	nextID  uint
	users   map[uint]model.User
	byEmail map[string]uint
}

func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		users:   make(map[uint]model.User),
		byEmail: make(map[string]uint),
	}
}

func (r *memoryUserRepository) Create(user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return fmt.Errorf("user with email %s already exists", user.Email)
	}

	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *memoryUserRepository) FindByID(id uint) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (r *memoryUserRepository) FindByEmail(email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	user := r.users[id]
	return &user, nil
}

func (r *memoryUserRepository) Update(user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.users[user.ID]
	if !ok {
		return ErrNotFound
	}
	if old.Email != user.Email {
		delete(r.byEmail, old.Email)
		r.byEmail[user.Email] = user.ID
	}
	r.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepository) EmailExists(email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byEmail[email]
	return ok, nil
}

type memoryFileRepository struct {
	mu      sync.RWMutex
	nextSeq uint
	order   []string // insertion order of record ids
	records map[string]model.FileRecord
	byToken map[string]string // share token -> record id
}

func NewMemoryFileRepository() FileRepository {
	return &memoryFileRepository{
		records: make(map[string]model.FileRecord),
		byToken: make(map[string]string),
	}
}

func (r *memoryFileRepository) Create(rec *model.FileRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[rec.ID]; exists {
		return fmt.Errorf("file %s already exists", rec.ID)
	}

	r.nextSeq++
	rec.Seq = r.nextSeq
	r.records[rec.ID] = *rec
	r.order = append(r.order, rec.ID)
	if rec.ShareToken != nil {
		r.byToken[*rec.ShareToken] = rec.ID
	}
	return nil
}

func (r *memoryFileRepository) FindByUser(userID uint) ([]model.FileRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]model.FileRecord, 0)
	for _, id := range r.order {
		rec := r.records[id]
		if rec.UserID == userID {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (r *memoryFileRepository) FindByID(id string) (*model.FileRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

func (r *memoryFileRepository) FindByShareToken(token string) (*model.FileRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byToken[token]
	if !ok {
		return nil, ErrNotFound
	}
	rec := r.records[id]
	return &rec, nil
}

func (r *memoryFileRepository) TokenExists(token string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byToken[token]
	return ok, nil
}

func (r *memoryFileRepository) Update(rec *model.FileRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.records[rec.ID]
	if !ok {
		return ErrNotFound
	}
	if old.ShareToken != nil {
		delete(r.byToken, *old.ShareToken)
	}
	rec.Seq = old.Seq
	r.records[rec.ID] = *rec
	if rec.ShareToken != nil {
		r.byToken[*rec.ShareToken] = rec.ID
	}
	return nil
}

func (r *memoryFileRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		return nil
	}
	if rec.ShareToken != nil {
		delete(r.byToken, *rec.ShareToken)
	}
	delete(r.records, id)
	for i, recID := range r.order {
		if recID == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
