package domain

import "strings"

// Location is a navigable view of the client.
type Location string

// Known locations.
const (
	LocationLanding   Location = "/"
	LocationUpload    Location = "/upload"
	LocationChat      Location = "/chat"
	LocationDocuments Location = "/documents"
)

// ParseLocation normalises a user-supplied path.
func ParseLocation(s string) Location {
	s = strings.TrimSpace(s)
	if s == "" {
		return LocationLanding
	}
	if !strings.HasPrefix(s, "/") {
		s = "/" + s
	}
	if len(s) > 1 {
		s = strings.TrimRight(s, "/")
		if s == "" {
			s = "/"
		}
	}
	return Location(strings.ToLower(s))
}

// IsKnown returns true for locations the client can render.
func (l Location) IsKnown() bool {
	switch l {
	case LocationLanding, LocationUpload, LocationChat, LocationDocuments:
		return true
	default:
		return false
	}
}

// RequiresDocument returns true for views that need an indexed document.
func (l Location) RequiresDocument() bool {
	return l == LocationChat || l == LocationDocuments
}

// String returns the string representation.
func (l Location) String() string {
	return string(l)
}

// GuardState is the derived session state navigation depends on.
type GuardState struct {
	SignedIn bool
	Indexed  bool
}
