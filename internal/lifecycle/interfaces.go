// Package lifecycle contains the periodic watchers that advance sales and
// orders through their state machines and the low-stock watcher. Each
// scheduler runs one goroutine with non-overlapping ticks and cooperative
// stop: an in-flight tick always runs to completion.
package lifecycle

import "context"

// Notifier persists an in-app notification and best-effort emails it.
type Notifier interface {
	Notify(ctx context.Context, userID int64, message string) bool
}

// Broadcaster delivers a message to every user with an email address.
type Broadcaster interface {
	Broadcast(ctx context.Context, subject, message string) int
}

// Settings reads runtime configuration values.
type Settings interface {
	GetInt(category, name string) int
}

// Publisher is the event bus publish surface.
type Publisher interface {
	Publish(topic string, args ...interface{})
}
