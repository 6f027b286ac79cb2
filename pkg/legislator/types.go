// Package legislator defines the identity model for members of the Brazilian
// Congress and the name-normalization helpers shared by every resolution
// source.
package legislator

// Role distinguishes the two houses.
type Role string

const (
	RoleDeputy  Role = "deputy"
	RoleSenator Role = "senator"
)

// Valid reports whether the role is one of the known houses.
func (r Role) Valid() bool {
	return r == RoleDeputy || r == RoleSenator
}

// Keyword returns the Portuguese role word used in search queries.
func (r Role) Keyword() string {
	switch r {
	case RoleDeputy:
		return "deputado federal"
	case RoleSenator:
		return "senador"
	default:
		return ""
	}
}

// Platform identifies a social network.
type Platform string

const (
	PlatformTwitter   Platform = "twitter"
	PlatformInstagram Platform = "instagram"
	PlatformFacebook  Platform = "facebook"
	PlatformYouTube   Platform = "youtube"
	PlatformTikTok    Platform = "tiktok"
)

// Valid reports whether the platform is supported.
func (p Platform) Valid() bool {
	switch p {
	case PlatformTwitter, PlatformInstagram, PlatformFacebook, PlatformYouTube, PlatformTikTok:
		return true
	}
	return false
}

// Identity is everything the resolution chain knows about a legislator
// before any source is consulted.
type Identity struct {
	// ID is the legislator's numeric id in their house's open-data API.
	ID int64

	// CivilName is the full registered name (e.g. "Maria da Silva Santos").
	CivilName string

	// ParliamentaryName is the shorter campaign name used publicly.
	ParliamentaryName string

	Party string
	State string
	Role  Role
}

// DisplayName returns the parliamentary name, falling back to the civil name.
func (id Identity) DisplayName() string {
	if id.ParliamentaryName != "" {
		return id.ParliamentaryName
	}
	return id.CivilName
}
