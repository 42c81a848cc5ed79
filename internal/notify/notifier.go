// Package notify is the notification port: workflows publish moderation and
// membership events here, and deployments pick a delivery implementation.
package notify

import (
	"context"
	"time"
)

const (
	TypeFlagSubmitted     = "flag.submitted"
	TypeFlagReviewed      = "flag.reviewed"
	TypeClubApproved      = "club.approved"
	TypeClubRejected      = "club.rejected"
	TypeMembershipDecided = "membership.decided"
	TypeEventRegistration = "event.registered"
)

type Event struct {
	Type       string    `json:"type"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	ActorID    string    `json:"actor_id"`
	Detail     string    `json:"detail,omitempty"`
	At         time.Time `json:"at"`
}

type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

type Noop struct{}

func (Noop) Notify(context.Context, Event) error { return nil }
