package pubsub

import (
	"context"
	"encoding/json"
)

// Event represents a pub/sub event
type Event struct {
	Topic   string          `json:"topic"`   // Subscription topic (e.g., "build_status", "usage_graph")
	Type    string          `json:"type"`    // Event type (e.g., "rebuilding", "build_complete", "graph_updated")
	Data    json.RawMessage `json:"data"`    // Event payload
	Version int             `json:"version"` // Version number for ordering
}

// Subscription represents a client subscription to a topic
type Subscription interface {
	// Topic returns the subscription topic
	Topic() string

	// Events returns a channel for receiving events
	Events() <-chan Event

	// Close closes the subscription
	Close() error
}

// Publisher manages pub/sub subscriptions and event publishing
type Publisher interface {
	// Subscribe creates a new subscription to a topic
	// Context cancellation will close the subscription
	Subscribe(ctx context.Context, topic string) (Subscription, error)

	// Publish sends an event to all subscribers of a topic
	Publish(topic string, eventType string, data interface{}) error

	// Close shuts down the publisher and all subscriptions
	Close() error
}

// Topics published by the rebuild loop.
const (
	TopicBuildStatus = "build_status"
	TopicUsageGraph  = "usage_graph"
)

// BuildStatus represents the rebuild loop's state
type BuildStatus struct {
	State     string   `json:"state"`   // idle, rebuilding, ready, failed
	Message   string   `json:"message"` // Human-readable status message
	BuildID   string   `json:"build_id,omitempty"`
	NeedsEmit []string `json:"needs_emit,omitempty"`
}

// UsageGraphData represents the snapshot's usage graph counts
type UsageGraphData struct {
	SymbolsCount int  `json:"symbols_count"`
	EdgesCount   int  `json:"edges_count"`
	Complete     bool `json:"complete"` // True when all data is loaded
}
