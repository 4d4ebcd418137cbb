package tenancy

import (
	"cmp"
	"slices"

	"theater-portal/internal/model"
)

// EarliestFirst orders memberships by creation time, oldest first, breaking
// ties by id. The first membership under this order is the fallback active theater.
func EarliestFirst(a, b model.Membership) int {
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// SortEarliestFirst sorts memberships in place using EarliestFirst
func SortEarliestFirst(memberships []model.Membership) {
	slices.SortStableFunc(memberships, EarliestFirst)
}
