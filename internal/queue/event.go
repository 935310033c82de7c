// Package queue defines message payloads exchanged over the message broker.
package queue

// Event names published to the auth.events queue.
const (
    EventSignedUp  = "signed_up"
    EventSignedIn  = "signed_in"
    EventSignedOut = "signed_out"
)

// AuthEvent is published when a user signs up, signs in or signs out.
// It contains enough information for downstream consumers to log or
// trigger analytics without querying the primary database.  Publishing
// is best-effort: a broker outage never fails the originating request.
type AuthEvent struct {
    Event  string `json:"event"`   // one of the Event* constants
    UserID uint64 `json:"user_id"`
    Email  string `json:"email"`
    At     string `json:"at"` // RFC 3339 UTC timestamp
}
