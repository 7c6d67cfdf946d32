package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/spec-kit/filedrop/internal/domain"
	"github.com/spec-kit/filedrop/internal/repository"
)

// fakeTicketStore implements the repository with the same per-key atomic
// conditional semantics a real store provides: Consume checks and flips the
// state under one lock acquisition.
type fakeTicketStore struct {
	mu      sync.Mutex
	tickets map[string]*domain.Ticket
	creates int

	failCreate  error
	failConsume error
}

func newFakeTicketStore() *fakeTicketStore {
	return &fakeTicketStore{tickets: make(map[string]*domain.Ticket)}
}

func (f *fakeTicketStore) Create(ctx context.Context, ticket *domain.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate != nil {
		return f.failCreate
	}
	if _, exists := f.tickets[ticket.ID]; exists {
		return repository.ErrTicketExists
	}
	ticket.CreatedAt = time.Now().UTC()
	stored := *ticket
	f.tickets[ticket.ID] = &stored
	f.creates++
	return nil
}

func (f *fakeTicketStore) Consume(ctx context.Context, id string) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failConsume != nil {
		return nil, f.failConsume
	}
	ticket, exists := f.tickets[id]
	if !exists || ticket.State != domain.TicketStateActive {
		return nil, repository.ErrTicketUnavailable
	}
	now := time.Now().UTC()
	ticket.State = domain.TicketStateConsumed
	ticket.ConsumedAt = &now
	snapshot := *ticket
	return &snapshot, nil
}

func (f *fakeTicketStore) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ticket, exists := f.tickets[id]
	if !exists {
		return nil, repository.ErrTicketNotFound
	}
	snapshot := *ticket
	return &snapshot, nil
}

func (f *fakeTicketStore) createCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creates
}

// fakePresigner records presign arguments and returns deterministic URLs.
type fakePresigner struct {
	mu sync.Mutex

	uploadKeys       []string
	downloadKey      string
	downloadFilename string
	downloadType     string

	failUpload   error
	failDownload error
}

func (f *fakePresigner) PresignUpload(ctx context.Context, key string, size int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpload != nil {
		return "", f.failUpload
	}
	f.uploadKeys = append(f.uploadKeys, key)
	return "https://storage.example/upload/" + key, nil
}

func (f *fakePresigner) PresignDownload(ctx context.Context, key, filename, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDownload != nil {
		return "", f.failDownload
	}
	f.downloadKey = key
	f.downloadFilename = filename
	f.downloadType = contentType
	return "https://storage.example/download/" + key, nil
}

var errStoreDown = errors.New("store unavailable")
