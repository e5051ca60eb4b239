// Package draftstore persists in-progress parent flows (registration
// selection drafts, onboarding wizard sessions) in Redis so an abandoned
// browser tab can be resumed later from anywhere.
package draftstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/sunridge-camp/portal-api/internal/booking"
	"github.com/sunridge-camp/portal-api/internal/config"
	"github.com/sunridge-camp/portal-api/internal/onboarding"
)

var (
	ErrDraftNotFound  = errors.New("selection draft not found")
	ErrWizardNotFound = errors.New("wizard session not found")
)

const (
	selectionTTL = 30 * 24 * time.Hour
	wizardTTL    = 14 * 24 * time.Hour
)

func OpenRedis(conf *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping -> %w", err)
	}

	return client, nil
}

type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

func selectionKey(parentID uint) string {
	return fmt.Sprintf("draft:selection:%d", parentID)
}

func wizardKey(id string) string {
	return "onboarding:wizard:" + id
}

func (s *Store) SaveSelection(ctx context.Context, parentID uint, sel booking.Selection) error {
	payload, err := json.Marshal(sel)
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}

	if err := s.client.Set(ctx, selectionKey(parentID), payload, selectionTTL).Err(); err != nil {
		return fmt.Errorf("redis set -> %w", err)
	}

	return nil
}

func (s *Store) LoadSelection(ctx context.Context, parentID uint) (booking.Selection, error) {
	payload, err := s.client.Get(ctx, selectionKey(parentID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("redis get -> %w", err)
	}

	sel := booking.NewSelection()
	if err := json.Unmarshal(payload, &sel); err != nil {
		return nil, fmt.Errorf("json.Unmarshal -> %w", err)
	}

	return sel, nil
}

func (s *Store) DeleteSelection(ctx context.Context, parentID uint) error {
	if err := s.client.Del(ctx, selectionKey(parentID)).Err(); err != nil {
		return fmt.Errorf("redis del -> %w", err)
	}
	return nil
}

func (s *Store) SaveWizard(ctx context.Context, state *onboarding.State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}

	if err := s.client.Set(ctx, wizardKey(state.ID), payload, wizardTTL).Err(); err != nil {
		return fmt.Errorf("redis set -> %w", err)
	}

	return nil
}

func (s *Store) LoadWizard(ctx context.Context, id string) (*onboarding.State, error) {
	payload, err := s.client.Get(ctx, wizardKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrWizardNotFound
		}
		return nil, fmt.Errorf("redis get -> %w", err)
	}

	state := &onboarding.State{}
	if err := json.Unmarshal(payload, state); err != nil {
		return nil, fmt.Errorf("json.Unmarshal -> %w", err)
	}

	return state, nil
}

func (s *Store) DeleteWizard(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, wizardKey(id)).Err(); err != nil {
		return fmt.Errorf("redis del -> %w", err)
	}
	return nil
}
