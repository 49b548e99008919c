package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/EdnondDantes/golosStroyki/internal/telegram/state"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ state.Storage = &TelegramStatePostgres{}

// TelegramStatePostgres persists per-user bot state as JSON. Rows idle for
// longer than ttl are treated as absent.
type TelegramStatePostgres struct {
	db  *pgxpool.Pool
	ttl time.Duration
}

func NewTelegramStatePostgres(db *pgxpool.Pool, ttl time.Duration) *TelegramStatePostgres {
	return &TelegramStatePostgres{
		db:  db,
		ttl: ttl,
	}
}

func (r *TelegramStatePostgres) Get(ctx context.Context, userID int64) (*state.UserState, error) {
	var raw []byte
	err := r.db.QueryRow(ctx,
		"SELECT state_data FROM telegram_state WHERE user_id = $1 AND updated_at > $2",
		userID, time.Now().Add(-r.ttl),
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrSessionNotFound
		}
		return nil, fmt.Errorf("query telegram state: %w", err)
	}

	var st state.UserState
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("unmarshal telegram state: %w", err)
	}
	st.UserID = userID

	return &st, nil
}

func (r *TelegramStatePostgres) Set(ctx context.Context, st *state.UserState) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal telegram state: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO telegram_state (user_id, state_data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO UPDATE
		SET state_data = EXCLUDED.state_data, updated_at = EXCLUDED.updated_at`,
		st.UserID, raw,
	)
	if err != nil {
		return fmt.Errorf("upsert telegram state: %w", err)
	}

	return nil
}

func (r *TelegramStatePostgres) Delete(ctx context.Context, userID int64) error {
	if _, err := r.db.Exec(ctx, "DELETE FROM telegram_state WHERE user_id = $1", userID); err != nil {
		return fmt.Errorf("delete telegram state: %w", err)
	}
	return nil
}

// PurgeExpired removes rows idle for longer than ttl and reports how many.
func (r *TelegramStatePostgres) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM telegram_state WHERE updated_at <= $1", time.Now().Add(-r.ttl))
	if err != nil {
		return 0, fmt.Errorf("purge telegram state: %w", err)
	}
	return tag.RowsAffected(), nil
}
