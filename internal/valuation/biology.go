package valuation

import "strings"

// BioValues resolves the credit value of a scanned species.
type BioValues interface {
	Value(genus, species string) (int64, bool)
}

// TableBioValues looks species up first and falls back to a per-genus value.
type TableBioValues struct {
	Species map[string]int64
	Genus   map[string]int64
}

// Value implements BioValues. Lookups ignore case.
func (t TableBioValues) Value(genus, species string) (int64, bool) {
	if v, ok := t.Species[strings.ToLower(species)]; ok {
		return v, true
	}
	if v, ok := t.Genus[strings.ToLower(genus)]; ok {
		return v, true
	}
	return 0, false
}

// DefaultBioValues carries representative payouts for common species and the
// lowest payout of each genus as a fallback.
var DefaultBioValues = TableBioValues{
	Species: map[string]int64{
		"bacterium aurasus":      1000000,
		"bacterium vesicula":     1000000,
		"bacterium cerbrus":      1689800,
		"tussock pennata":        5853800,
		"stratum tectonicas":     19010800,
		"concha biconcavis":      16777215,
		"fonticulua segmentatus": 19010800,
		"osseus discus":          12934900,
		"frutexa acus":           7774700,
		"fungoida stabitis":      2680300,
		"clypeus speculumi":      16202800,
	},
	Genus: map[string]int64{
		"aleoida":    3330300,
		"bacterium":  1000000,
		"cactoida":   1685000,
		"clypeus":    8418000,
		"concha":     1566300,
		"electricae": 6284600,
		"fonticulua": 1000000,
		"frutexa":    1000000,
		"fumerola":   6284600,
		"fungoida":   1670100,
		"osseus":     1483000,
		"recepta":    3685400,
		"stratum":    1362000,
		"tubus":      3252500,
		"tussock":    1766600,
	},
}
