package search

import "testing"

func TestClassifySource(t *testing.T) {
	cases := []struct {
		url  string
		want AuthorityTier
	}{
		{"https://www.sec.gov/Archives/edgar/data/123", TierPrimary},
		{"https://sebi.gov.in/reports/annual", TierPrimary},
		{"https://www.amfiindia.com/research-information", TierPrimary},
		{"https://efts.sec.gov/LATEST/search", TierPrimary},
		{"https://data.worldbank.org/indicator", TierPrimary},
		{"https://www.census.gov/data", TierPrimary},
		{"https://www.cam.ac.uk/research", TierPrimary},
		{"https://www.reuters.com/markets/asia", TierSecondary},
		{"https://en.wikipedia.org/wiki/Mutual_fund", TierSecondary},
		{"https://www.bloomberg.com/news", TierSecondary},
		{"https://randomblog.example.com/post", TierTertiary},
		{"not a url", TierTertiary},
	}

	for _, tc := range cases {
		if got := ClassifySource(tc.url); got != tc.want {
			t.Errorf("ClassifySource(%q) = %s, want %s", tc.url, got, tc.want)
		}
	}
}

func TestAuthorityTier_String(t *testing.T) {
	cases := []struct {
		tier AuthorityTier
		want string
	}{
		{TierPrimary, "primary"},
		{TierSecondary, "secondary"},
		{TierTertiary, "tertiary"},
		{TierUnknown, "unknown"},
	}
	for _, tc := range cases {
		if got := tc.tier.String(); got != tc.want {
			t.Errorf("Tier %d String() = %q, want %q", tc.tier, got, tc.want)
		}
	}
}
