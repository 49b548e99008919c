package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/EdnondDantes/golosStroyki/internal/form"
)

const lockStripes = 256

type contextKey string

const userStateKey contextKey = "user_state"

// UserStateFromContext retrieves the state loaded earlier in this update.
func UserStateFromContext(ctx context.Context) (*UserState, bool) {
	st, ok := ctx.Value(userStateKey).(*UserState)
	return st, ok
}

// ContextWithUserState caches the user's state for the rest of the update.
func ContextWithUserState(ctx context.Context, st *UserState) context.Context {
	return context.WithValue(ctx, userStateKey, st)
}

// Manager owns every per-user concern (form, search, complaint) and
// serializes updates of the same user.
type Manager struct {
	storage Storage
	locks   [lockStripes]sync.Mutex
	now     func() time.Time
}

func NewManager(storage Storage) *Manager {
	return &Manager{
		storage: storage,
		now:     time.Now,
	}
}

// Lock blocks until no other update of the user is being handled. Users
// sharing a stripe also wait for each other.
func (m *Manager) Lock(userID int64) (unlock func()) {
	mu := &m.locks[uint64(userID)%lockStripes]
	mu.Lock()
	return mu.Unlock
}

// Load returns the user's state, or a fresh empty one.
func (m *Manager) Load(ctx context.Context, userID int64) (*UserState, error) {
	if st, ok := UserStateFromContext(ctx); ok && st.UserID == userID {
		return st, nil
	}

	st, err := m.storage.Get(ctx, userID)
	if errors.Is(err, entity.ErrSessionNotFound) {
		return &UserState{Version: UserStateCurrentVersion, UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user state from storage: %w", err)
	}

	if st.Version == 0 {
		st.Version = UserStateCurrentVersion
	}
	return st, nil
}

// Save writes the state back, removing it entirely once no concern is left.
func (m *Manager) Save(ctx context.Context, st *UserState) error {
	if st.Empty() {
		if err := m.storage.Delete(ctx, st.UserID); err != nil {
			return fmt.Errorf("delete user state from storage: %w", err)
		}
		return nil
	}

	st.Version = UserStateCurrentVersion
	st.UpdatedAt = m.now()
	if err := m.storage.Set(ctx, st); err != nil {
		return fmt.Errorf("save user state to storage: %w", err)
	}
	return nil
}

// GetForm returns entity.ErrSessionNotFound when the user has no form open.
func (m *Manager) GetForm(ctx context.Context, userID int64) (*form.Session, error) {
	st, err := m.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if st.Form == nil {
		return nil, entity.ErrSessionNotFound
	}
	return st.Form, nil
}

func (m *Manager) SetForm(ctx context.Context, session *form.Session) error {
	return m.update(ctx, session.UserID, func(st *UserState) {
		st.Form = session
	})
}

func (m *Manager) DeleteForm(ctx context.Context, userID int64) error {
	return m.update(ctx, userID, func(st *UserState) {
		st.Form = nil
	})
}

func (m *Manager) GetSearch(ctx context.Context, userID int64) (*SearchState, error) {
	st, err := m.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if st.Search == nil {
		return nil, entity.ErrSessionNotFound
	}
	return st.Search, nil
}

func (m *Manager) SetSearch(ctx context.Context, userID int64, search *SearchState) error {
	return m.update(ctx, userID, func(st *UserState) {
		st.Search = search
	})
}

func (m *Manager) DeleteSearch(ctx context.Context, userID int64) error {
	return m.update(ctx, userID, func(st *UserState) {
		st.Search = nil
	})
}

func (m *Manager) GetComplaint(ctx context.Context, userID int64) (*ComplaintState, error) {
	st, err := m.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if st.Complaint == nil {
		return nil, entity.ErrSessionNotFound
	}
	return st.Complaint, nil
}

func (m *Manager) SetComplaint(ctx context.Context, userID int64, complaint *ComplaintState) error {
	return m.update(ctx, userID, func(st *UserState) {
		st.Complaint = complaint
	})
}

func (m *Manager) DeleteComplaint(ctx context.Context, userID int64) error {
	return m.update(ctx, userID, func(st *UserState) {
		st.Complaint = nil
	})
}

// Clear drops every concern of the user.
func (m *Manager) Clear(ctx context.Context, userID int64) error {
	return m.update(ctx, userID, func(st *UserState) {
		st.Form = nil
		st.Search = nil
		st.Complaint = nil
	})
}

func (m *Manager) update(ctx context.Context, userID int64, apply func(*UserState)) error {
	st, err := m.Load(ctx, userID)
	if err != nil {
		return err
	}

	apply(st)
	return m.Save(ctx, st)
}
