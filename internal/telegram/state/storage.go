package state

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/EdnondDantes/golosStroyki/internal/form"
	"github.com/patrickmn/go-cache"
)

// UserStateCurrentVersion is bumped when UserState changes incompatibly.
const UserStateCurrentVersion = 1

// UserState is everything kept about one user between updates. Each concern
// is nil when the user is not in that flow.
type UserState struct {
	Version   int             `json:"version"`
	UserID    int64           `json:"user_id"`
	Form      *form.Session   `json:"form,omitempty"`
	Search    *SearchState    `json:"search,omitempty"`
	Complaint *ComplaintState `json:"complaint,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Empty reports whether no concern is active.
func (s *UserState) Empty() bool {
	return s.Form == nil && s.Search == nil && s.Complaint == nil
}

type SearchStep int

const (
	SearchStepCity SearchStep = iota + 1
	SearchStepWorkType
	SearchStepResults
)

// SearchState tracks the contractor search dialog.
type SearchState struct {
	Step            SearchStep `json:"step"`
	City            string     `json:"city,omitempty"`
	WorkType        string     `json:"work_type,omitempty"`
	Offset          int        `json:"offset,omitempty"`
	PromptMessageID int        `json:"prompt_message_id,omitempty"`
}

// ComplaintState tracks a complaint being written.
type ComplaintState struct {
	RecordID        string `json:"record_id,omitempty"`
	PromptMessageID int    `json:"prompt_message_id,omitempty"`
}

// Storage persists UserState. Get returns entity.ErrSessionNotFound when
// nothing is stored for the user.
type Storage interface {
	Get(ctx context.Context, userID int64) (*UserState, error)
	Set(ctx context.Context, st *UserState) error
	Delete(ctx context.Context, userID int64) error
}

// MemoryStorage keeps states in process memory and drops them after ttl of
// inactivity. Values are stored encoded so callers never share pointers.
type MemoryStorage struct {
	cache *cache.Cache
}

var _ Storage = &MemoryStorage{}

func NewMemoryStorage(ttl, cleanupInterval time.Duration) *MemoryStorage {
	return &MemoryStorage{
		cache: cache.New(ttl, cleanupInterval),
	}
}

func (s *MemoryStorage) Get(_ context.Context, userID int64) (*UserState, error) {
	raw, ok := s.cache.Get(memoryKey(userID))
	if !ok {
		return nil, entity.ErrSessionNotFound
	}

	var st UserState
	if err := json.Unmarshal(raw.([]byte), &st); err != nil {
		return nil, fmt.Errorf("unmarshal user state: %w", err)
	}
	return &st, nil
}

func (s *MemoryStorage) Set(_ context.Context, st *UserState) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal user state: %w", err)
	}

	s.cache.SetDefault(memoryKey(st.UserID), raw)
	return nil
}

func (s *MemoryStorage) Delete(_ context.Context, userID int64) error {
	s.cache.Delete(memoryKey(userID))
	return nil
}

// Len is the number of stored states, expired ones included until cleanup.
func (s *MemoryStorage) Len() int {
	return s.cache.ItemCount()
}

func memoryKey(userID int64) string {
	return fmt.Sprintf("user:%d", userID)
}
