package services

import (
	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
	"github.com/custodia-labs/docgpt-cli/internal/core/ports/driving"
)

// Ensure Guard implements the interface.
var _ driving.NavigationGuard = Guard{}

// Guard is the stateless navigation reconciler.
type Guard struct{}

// Resolve implements driving.NavigationGuard.
func (Guard) Resolve(state domain.GuardState, loc domain.Location) domain.Location {
	return ResolveLocation(state, loc)
}

// ResolveLocation returns the location the user should see.
//
// The rules are evaluated together and every result is a fixed point:
//   - signed out: landing
//   - unrecognised location: landing
//   - no document on chat or documents: upload
//   - document indexed on upload: chat
func ResolveLocation(state domain.GuardState, loc domain.Location) domain.Location {
	if !state.SignedIn {
		return domain.LocationLanding
	}
	if !loc.IsKnown() {
		return domain.LocationLanding
	}
	if !state.Indexed && loc.RequiresDocument() {
		return domain.LocationUpload
	}
	if state.Indexed && loc == domain.LocationUpload {
		return domain.LocationChat
	}
	return loc
}

// EntryLocation is where a signed-in user lands after initialisation.
func EntryLocation(state domain.GuardState) domain.Location {
	if state.Indexed {
		return ResolveLocation(state, domain.LocationChat)
	}
	return ResolveLocation(state, domain.LocationUpload)
}
