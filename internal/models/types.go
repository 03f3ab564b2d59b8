package models

// MediaKind represents the kind of media (movie or tv show)
type MediaKind string

const (
	MediaKindMovie MediaKind = "movie"
	MediaKindTV    MediaKind = "tv"
)

// Tier represents a subscription level
type Tier string

const (
	TierFree    Tier = "FREE"
	TierPremium Tier = "PREMIUM"
	TierPro     Tier = "PRO"
)

// ValidTier reports whether t is a known subscription tier
func ValidTier(t Tier) bool {
	switch t {
	case TierFree, TierPremium, TierPro:
		return true
	}
	return false
}

// TMDB genre identifiers used for the curated discover rows
const (
	GenreAction      = 28
	GenreComedy      = 35
	GenreHorror      = 27
	GenreDocumentary = 99
	GenreRomance     = 10749
	GenreSciFi       = 878
)
