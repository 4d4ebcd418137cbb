package tenancy

import (
	"context"

	"theater-portal/prometheus"
)

// Identity is the authenticated caller as supplied by the identity provider
type Identity struct {
	UserID uint
	Email  string
}

// Profile runs the current-user read path: accept a pending invite, then resolve
type Profile struct {
	invites  *Invites
	resolver *Resolver
}

// NewProfile creates the profile read path
func NewProfile(invites *Invites, resolver *Resolver) *Profile {
	return &Profile{invites: invites, resolver: resolver}
}

// Load accepts at most one pending invite for the identity and then resolves
// the active theater, so a freshly converted invite is already visible.
func (p *Profile) Load(ctx context.Context, id Identity) (*Resolution, AcceptOutcome) {
	outcome := p.invites.AcceptPending(ctx, id.UserID, id.Email)
	prometheus.RecordInviteAcceptance(string(outcome))

	return p.resolver.Resolve(ctx, id.UserID), outcome
}
