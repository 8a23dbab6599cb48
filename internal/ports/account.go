package ports

import "context"

// AccountPort updates player account profiles. Onboarding uses it to hand
// new players their generated friendly display name.
type AccountPort interface {
	// UpdateProfile applies the username and display name to the given
	// player account.
	UpdateProfile(ctx context.Context, userID, username, displayName string) error
}
