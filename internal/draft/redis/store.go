// Package redis keeps wizard drafts in Redis with a sliding TTL and announces
// newly assigned application numbers over pub/sub.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"patentdesk/internal/config"
	"patentdesk/internal/domain"
	"patentdesk/internal/port"
)

type store struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewClient opens a Redis client and verifies the connection.
func NewClient(ctx context.Context, cfg *config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return client, nil
}

// NewDraftStore creates a Redis-backed DraftStore.
func NewDraftStore(client *goredis.Client, ttl time.Duration) port.DraftStore {
	return &store{client: client, ttl: ttl}
}

func draftKey(sessionID string) string {
	return "draft:" + sessionID
}

func applicationNoChannel(sessionID string) string {
	return "draft:" + sessionID + ":appno"
}

func (s *store) Get(ctx context.Context, sessionID string) (*domain.Draft, error) {
	data, err := s.client.Get(ctx, draftKey(sessionID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return &domain.Draft{SessionID: sessionID, Step: 1, Form: domain.FormData{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("draftStore.Get: %w", err)
	}

	var draft domain.Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("draftStore.Get decode: %w", err)
	}
	if draft.Form == nil {
		draft.Form = domain.FormData{}
	}
	return &draft, nil
}

func (s *store) Save(ctx context.Context, draft *domain.Draft) error {
	draft.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("draftStore.Save encode: %w", err)
	}
	if err := s.client.Set(ctx, draftKey(draft.SessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("draftStore.Save: %w", err)
	}
	return nil
}

func (s *store) SetApplicationNo(ctx context.Context, sessionID, applicationNo string) error {
	draft, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	draft.ApplicationNo = applicationNo
	if err := s.Save(ctx, draft); err != nil {
		return err
	}
	if err := s.client.Publish(ctx, applicationNoChannel(sessionID), applicationNo).Err(); err != nil {
		return fmt.Errorf("draftStore.SetApplicationNo publish: %w", err)
	}
	return nil
}

func (s *store) WatchApplicationNo(ctx context.Context, sessionID string) (<-chan string, error) {
	sub := s.client.Subscribe(ctx, applicationNoChannel(sessionID))
	// Wait for the subscription confirmation so no publish is missed.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("draftStore.WatchApplicationNo: %w", err)
	}

	out := make(chan string, 1)
	go func() {
		defer close(out)
		defer func() {
			if err := sub.Close(); err != nil {
				zap.L().Debug("closing draft subscription", zap.Error(err))
			}
		}()

		messages := sub.Channel()
		select {
		case <-ctx.Done():
		case msg, ok := <-messages:
			if ok {
				out <- msg.Payload
			}
		}
	}()
	return out, nil
}

func (s *store) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, draftKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("draftStore.Clear: %w", err)
	}
	return nil
}
