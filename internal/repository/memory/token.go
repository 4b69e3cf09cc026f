package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/sessionkeeper/internal/model"
)

var _ model.TokenStore = (*TokenRepository)(nil)

// TokenRepository keeps issued tokens in process memory. It is used for tests
// and for single-process deployments without a database.
type TokenRepository struct {
	records map[uuid.UUID]model.TokenRecord
	lock    sync.RWMutex

	keys sync.Map // lock key -> *sync.Mutex
}

func NewTokenRepository() *TokenRepository {
	return &TokenRepository{
		records: make(map[uuid.UUID]model.TokenRecord),
	}
}

func (r *TokenRepository) FindActive(_ context.Context, userID uuid.UUID, tokenType model.TokenType, value string) (model.TokenRecord, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	for _, rec := range r.records {
		if rec.Active && rec.UserID == userID && rec.Type == tokenType && rec.Value == value {
			return rec, nil
		}
	}
	return model.TokenRecord{}, model.ErrNotFound
}

func (r *TokenRepository) FindByValue(_ context.Context, tokenType model.TokenType, value string) (model.TokenRecord, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	var (
		found model.TokenRecord
		ok    bool
	)
	for _, rec := range r.records {
		if rec.Type != tokenType || rec.Value != value {
			continue
		}
		if rec.Active {
			return rec, nil
		}
		found, ok = rec, true
	}
	if !ok {
		return model.TokenRecord{}, model.ErrNotFound
	}
	return found, nil
}

func (r *TokenRepository) ListActive(_ context.Context, userID uuid.UUID, tokenType model.TokenType) ([]model.TokenRecord, error) {
	return r.filter(func(rec model.TokenRecord) bool {
		return rec.Active && rec.UserID == userID && rec.Type == tokenType
	}), nil
}

func (r *TokenRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]model.TokenRecord, error) {
	return r.filter(func(rec model.TokenRecord) bool {
		return rec.UserID == userID
	}), nil
}

func (r *TokenRepository) FindRecyclable(_ context.Context, userID uuid.UUID, tokenType model.TokenType) (model.TokenRecord, error) {
	inactive := r.filter(func(rec model.TokenRecord) bool {
		return !rec.Active && rec.UserID == userID && rec.Type == tokenType
	})
	if len(inactive) == 0 {
		return model.TokenRecord{}, model.ErrNotFound
	}
	return inactive[0], nil
}

func (r *TokenRepository) Upsert(_ context.Context, record model.TokenRecord) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	record.Payload = copyPayload(record.Payload)
	r.records[record.ID] = record
	return nil
}

func (r *TokenRepository) SetActive(_ context.Context, id uuid.UUID, active bool) (bool, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	rec, ok := r.records[id]
	if !ok || rec.Active == active {
		return false, nil
	}
	rec.Active = active
	r.records[id] = rec
	return true, nil
}

func (r *TokenRepository) CompareAndSetActive(_ context.Context, id uuid.UUID, value string, active bool) (bool, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	rec, ok := r.records[id]
	if !ok || rec.Value != value || rec.Active == active {
		return false, nil
	}
	rec.Active = active
	r.records[id] = rec
	return true, nil
}

func (r *TokenRepository) PurgeOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	var n int64
	for id, rec := range r.records {
		if rec.CreatedAt.Before(cutoff) {
			delete(r.records, id)
			n++
		}
	}
	return n, nil
}

// Atomic serializes fn against other Atomic calls for the same user and type.
func (r *TokenRepository) Atomic(ctx context.Context, userID uuid.UUID, tokenType model.TokenType, fn func(ctx context.Context, store model.TokenStore) error) error {
	key := userID.String() + ":" + string(tokenType)
	mu, _ := r.keys.LoadOrStore(key, &sync.Mutex{})
	mu.(*sync.Mutex).Lock()
	defer mu.(*sync.Mutex).Unlock()

	return fn(ctx, lockedTokenRepository{r})
}

func (r *TokenRepository) filter(match func(model.TokenRecord) bool) []model.TokenRecord {
	r.lock.RLock()
	defer r.lock.RUnlock()

	var out []model.TokenRecord
	for _, rec := range r.records {
		if match(rec) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// lockedTokenRepository is handed to Atomic callbacks; the key lock is already
// held, so nested Atomic calls run fn directly.
type lockedTokenRepository struct {
	*TokenRepository
}

func (r lockedTokenRepository) Atomic(ctx context.Context, _ uuid.UUID, _ model.TokenType, fn func(ctx context.Context, store model.TokenStore) error) error {
	return fn(ctx, r)
}

func copyPayload(p map[string]string) map[string]string {
	if p == nil {
		return nil
	}
	out := make(map[string]string, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
