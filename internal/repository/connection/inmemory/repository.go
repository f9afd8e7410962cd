package inmemory

import (
	"errors"
	"sync"

	"github.com/partywave/server/internal/domain"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

type repo struct {
	clients map[domain.ConnectionId]*domain.Client
	mu      sync.RWMutex
}

func NewRepo() *repo {
	return &repo{
		clients: make(map[domain.ConnectionId]*domain.Client),
	}
}

// Add registers a client under its connection id. Re-adding the same client
// is a no-op; a different client under an existing id is rejected.
func (r *repo) Add(client *domain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.clients[client.Id]; ok && existing != client {
		return ErrAlreadyExists
	}

	r.clients[client.Id] = client
	return nil
}

func (r *repo) Remove(connId domain.ConnectionId) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	client, ok := r.clients[connId]
	if !ok {
		return nil, ErrNotFound
	}

	delete(r.clients, connId)
	return client, nil
}

func (r *repo) GetClient(connId domain.ConnectionId) (*domain.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	client, ok := r.clients[connId]
	if !ok {
		return nil, ErrNotFound
	}

	return client, nil
}

func (r *repo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.clients)
}
