package search

import (
	"net/url"
	"strings"
)

// AuthorityTier classifies how authoritative a cited source is. The tier feeds
// the confidence estimate for a finding: primary sources carry more weight
// than blogs.
type AuthorityTier int

const (
	TierUnknown   AuthorityTier = 0
	TierPrimary   AuthorityTier = 1 // Regulators, statistics offices, filings, academic
	TierSecondary AuthorityTier = 2 // Major financial press, encyclopedias
	TierTertiary  AuthorityTier = 3 // Blogs, aggregators, everything else
)

func (t AuthorityTier) String() string {
	switch t {
	case TierPrimary:
		return "primary"
	case TierSecondary:
		return "secondary"
	case TierTertiary:
		return "tertiary"
	default:
		return "unknown"
	}
}

var primaryDomains = map[string]bool{
	"sec.gov":            true,
	"federalreserve.gov": true,
	"imf.org":            true,
	"worldbank.org":      true,
	"oecd.org":           true,
	"ecb.europa.eu":      true,
	"bis.org":            true,
	"doi.org":            true,
	"amfiindia.com":      true,
	"sebi.gov.in":        true,
	"rbi.org.in":         true,
}

var secondaryDomains = map[string]bool{
	"reuters.com":      true,
	"bloomberg.com":    true,
	"ft.com":           true,
	"wsj.com":          true,
	"economist.com":    true,
	"morningstar.com":  true,
	"spglobal.com":     true,
	"moodys.com":       true,
	"fitchratings.com": true,
	"statista.com":     true,
	"wikipedia.org":    true,
}

// ClassifySource classifies a source URL into an authority tier
func ClassifySource(rawURL string) AuthorityTier {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return TierTertiary
	}

	host := parsed.Host
	if idx := strings.Index(host, ":"); idx > 0 {
		host = host[:idx]
	}
	host = strings.TrimPrefix(host, "www.")

	// Exact match, then parent-domain match for subdomains
	if primaryDomains[host] {
		return TierPrimary
	}
	if secondaryDomains[host] {
		return TierSecondary
	}
	for domain := range primaryDomains {
		if strings.HasSuffix(host, "."+domain) {
			return TierPrimary
		}
	}
	for domain := range secondaryDomains {
		if strings.HasSuffix(host, "."+domain) {
			return TierSecondary
		}
	}

	// Government and academic hosts default to primary
	if strings.HasSuffix(host, ".gov") || strings.HasSuffix(host, ".edu") ||
		strings.Contains(host, ".gov.") || strings.Contains(host, ".ac.") {
		return TierPrimary
	}

	return TierTertiary
}
