package tenancy

import "errors"

// Sentinel errors shared by the tenancy services and the stores that back them.
// Handlers map them to status codes with errors.Is.
var (
	// ErrForbidden is returned by SetActive when the user is not a member of the theater
	ErrForbidden = errors.New("user is not a member of the requested theater")
	// ErrLimitReached is returned when memberships plus pending invites hit the capacity ceiling
	ErrLimitReached = errors.New("theater member limit reached")

	ErrDuplicateMembership = errors.New("user is already a member of this theater")
	ErrDuplicateInvite     = errors.New("an invite for this email already exists")
	ErrMembershipNotFound  = errors.New("membership not found")
	ErrInviteNotFound      = errors.New("invite not found")
	ErrPreferenceNotFound  = errors.New("active theater preference not found")
	ErrTheaterNotFound     = errors.New("theater not found")

	ErrInvalidInput = errors.New("invalid input")
	ErrNotOwner     = errors.New("operation requires theater ownership")
	ErrOwnerRemoval = errors.New("theater owners cannot be removed")
)
