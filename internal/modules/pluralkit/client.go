// Package pluralkit is a supplemented built-in module (spec.md §9): the
// smallest possible illustration of the event-subscriber and task
// handler families, grounded in
// original_source/handler/src/modules/pk.rs. The real PluralKit HTTP API
// is an external collaborator out of this core's scope (spec.md
// Non-goals), so it's stubbed behind the small Client interface below
// rather than implemented.
package pluralkit

import "context"

// Fronter is a single member currently "fronting" a PluralKit system.
type Fronter struct {
	MemberID    string
	DisplayName string
}

// Client is the subset of the PluralKit v2 REST API the fronters
// refresh task needs. A real implementation would call
// https://api.pluralkit.me/v2; none is wired here since that surface is
// out of scope.
type Client interface {
	// Fronters returns the current fronters of the system identified by
	// systemID.
	Fronters(ctx context.Context, systemID string) ([]Fronter, error)
}

// NoopClient is a Client that reports no fronters, used where no real
// PluralKit API credentials are configured.
type NoopClient struct{}

func (NoopClient) Fronters(ctx context.Context, systemID string) ([]Fronter, error) {
	return nil, nil
}
