package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"quoting-service/internal/models"

	"github.com/redis/go-redis/v9"
)

// FormStateRepository persists serialized wizard FormData so a session
// survives a reload. It is a convenience cache, not a system of record:
// callers treat writes as best-effort.
type FormStateRepository interface {
	Save(ctx context.Context, sessionID string, form *models.FormData) error
	// LoadInto unmarshals the stored record over the passed form, so fields
	// the stored JSON does not carry keep their current values. Returns
	// false when nothing is stored for the session.
	LoadInto(ctx context.Context, sessionID string, form *models.FormData) (bool, error)
	Delete(ctx context.Context, sessionID string) error
}

type formStateRepository struct {
	client     *redis.Client
	expiration time.Duration
}

func NewFormStateRepository(client *redis.Client) FormStateRepository {
	return &formStateRepository{
		client:     client,
		expiration: 24 * time.Hour,
	}
}

func (r *formStateRepository) Save(ctx context.Context, sessionID string, form *models.FormData) error {
	if sessionID == "" {
		return fmt.Errorf("session ID cannot be empty")
	}

	data, err := json.Marshal(form)
	if err != nil {
		return fmt.Errorf("failed to marshal form data: %w", err)
	}

	if err := r.client.Set(ctx, r.formKey(sessionID), data, r.expiration).Err(); err != nil {
		return fmt.Errorf("failed to store form data: %w", err)
	}
	return nil
}

func (r *formStateRepository) LoadInto(ctx context.Context, sessionID string, form *models.FormData) (bool, error) {
	if sessionID == "" {
		return false, fmt.Errorf("session ID cannot be empty")
	}

	data, err := r.client.Get(ctx, r.formKey(sessionID)).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get form data: %w", err)
	}

	if err := json.Unmarshal([]byte(data), form); err != nil {
		return false, fmt.Errorf("failed to unmarshal form data: %w", err)
	}
	return true, nil
}

func (r *formStateRepository) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID cannot be empty")
	}
	if err := r.client.Del(ctx, r.formKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete form data: %w", err)
	}
	return nil
}

func (r *formStateRepository) formKey(sessionID string) string {
	return fmt.Sprintf("simulator:form:%s", sessionID)
}
