package bot

import "sync"

// AccessStore tracks which private-chat users have supplied the shared
// secret. It lives for the process lifetime and is owned by the command
// interface; the mail pipeline never touches it.
type AccessStore struct {
	mu       sync.Mutex
	approved map[int64]struct{}
}

// NewAccessStore creates an empty store.
func NewAccessStore() *AccessStore {
	return &AccessStore{approved: make(map[int64]struct{})}
}

// Approve records that the user supplied the correct secret.
func (s *AccessStore) Approve(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.approved[userID] = struct{}{}
}

// IsApproved reports whether the user has been approved this process
// lifetime.
func (s *AccessStore) IsApproved(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.approved[userID]
	return ok
}
