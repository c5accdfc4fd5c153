// Package testutil provides in-memory fakes and database helpers for tests.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"portfolioAPI/internal/notification"
	"portfolioAPI/internal/progress"
	"portfolioAPI/internal/types/contact"
)

// FakeActivityRepository is an in-memory activity store.
type FakeActivityRepository struct {
	mu      sync.Mutex
	Records []progress.ActivityRecord
	Err     error
}

func (f *FakeActivityRepository) ListActivities(ctx context.Context) ([]progress.ActivityRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}
	out := make([]progress.ActivityRecord, len(f.Records))
	copy(out, f.Records)
	return out, nil
}

func (f *FakeActivityRepository) InsertActivity(ctx context.Context, rec progress.ActivityRecord) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return "", f.Err
	}
	f.Records = append(f.Records, rec)
	return fmt.Sprintf("rec-%d", len(f.Records)), nil
}

// FakeContactRepository is an in-memory contact inbox.
type FakeContactRepository struct {
	mu        sync.Mutex
	Messages  []*contact.Message
	LastLimit int
	Err       error
}

func (f *FakeContactRepository) InsertMessage(ctx context.Context, msg *contact.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return f.Err
	}
	f.Messages = append(f.Messages, msg)
	return nil
}

func (f *FakeContactRepository) ListMessages(ctx context.Context, limit int) ([]*contact.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.LastLimit = limit
	if f.Err != nil {
		return nil, f.Err
	}

	out := make([]*contact.Message, len(f.Messages))
	copy(out, f.Messages)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// FakePushProvider records every push it is asked to send.
type FakePushProvider struct {
	mu     sync.Mutex
	pushes []notification.Push
	tokens [][]string
	Err    error
}

func (f *FakePushProvider) SendPush(ctx context.Context, tokens []string, p notification.Push) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.pushes = append(f.pushes, p)
	f.tokens = append(f.tokens, tokens)
	return f.Err
}

func (f *FakePushProvider) Pushes() []notification.Push {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]notification.Push, len(f.pushes))
	copy(out, f.pushes)
	return out
}

func (f *FakePushProvider) Tokens() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([][]string, len(f.tokens))
	copy(out, f.tokens)
	return out
}
