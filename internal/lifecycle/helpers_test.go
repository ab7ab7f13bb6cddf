package lifecycle

import (
	"context"
	"sync"
)

type fakeSettings map[string]int

func (s fakeSettings) GetInt(category, name string) int {
	return s[category+"."+name]
}

type notifyRecord struct {
	UserID  int64
	Message string
}

type fakeNotifier struct {
	mu      sync.Mutex
	records []notifyRecord
	fail    bool
}

func (f *fakeNotifier) Notify(ctx context.Context, userID int64, message string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, notifyRecord{UserID: userID, Message: message})
	return !f.fail
}

func (f *fakeNotifier) sent() []notifyRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]notifyRecord, len(f.records))
	copy(out, f.records)
	return out
}

type fakeBroadcaster struct {
	mu       sync.Mutex
	subjects []string
}

func (f *fakeBroadcaster) Broadcast(ctx context.Context, subject, message string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subjects = append(f.subjects, subject)
	return 1
}

func (f *fakeBroadcaster) broadcasts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.subjects))
	copy(out, f.subjects)
	return out
}
