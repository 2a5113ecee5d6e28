package service

import (
	"time"

	"github.com/Ssathosi/catatanqu/internal/cache"

	"github.com/google/uuid"
)

// PendingOperation is a parsed-but-unconfirmed transaction held between the
// preview turn and the confirm turn. It is keyed by a one-time token and
// expires on its own instead of living in ambient session state.
type PendingOperation struct {
	UserID    uuid.UUID
	Parsed    ParsedTransaction
	WalletID  *uuid.UUID
	CreatedAt time.Time
}

type PendingStore struct {
	cache *cache.LRUCache[PendingOperation]
}

func NewPendingStore(ttl time.Duration) *PendingStore {
	return &PendingStore{
		cache: cache.NewLRUCache[PendingOperation](1024, ttl),
	}
}

// Put stores an operation and returns its confirmation token.
func (s *PendingStore) Put(op PendingOperation) string {
	token := uuid.NewString()
	s.cache.Set(token, op)
	return token
}

// Take retrieves and consumes a pending operation. A token is single-use,
// which makes an accidental double confirm a no-op instead of a double
// debit.
func (s *PendingStore) Take(token string) (PendingOperation, bool) {
	op, ok := s.cache.Get(token)
	if ok {
		s.cache.Delete(token)
	}
	return op, ok
}
