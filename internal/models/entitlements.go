package models

// Plan describes what a subscription tier entitles the user to
type Plan struct {
	Tier            Tier
	DownloadQuota   int
	DownloadQuality string
	Devices         int
}

// PlanFor is the single source of truth for tier entitlements. Every
// eligibility check (streaming, download quota, recorded quality) derives
// from this table.
func PlanFor(tier Tier) Plan {
	switch tier {
	case TierPremium:
		return Plan{Tier: TierPremium, DownloadQuota: 10, DownloadQuality: "1080p", Devices: 2}
	case TierPro:
		return Plan{Tier: TierPro, DownloadQuota: 50, DownloadQuality: "4K", Devices: 4}
	default:
		return Plan{Tier: TierFree, DownloadQuota: 0, DownloadQuality: "480p", Devices: 1}
	}
}

// CanStream reports whether the tier allows playback
func CanStream(tier Tier) bool {
	return tier != TierFree
}

// CanDownload reports whether the tier has any download allowance at all
func (p Plan) CanDownload() bool {
	return p.DownloadQuota > 0
}
