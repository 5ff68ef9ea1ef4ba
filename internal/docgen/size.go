package docgen

import (
	"strings"

	"github.com/meddata-hub/meddata-cli/internal/config"
)

// Size categories used in the dataset card front matter.
const (
	SizeUnknown = "unknown"
	SizeTiny    = "n<10K"
	SizeSmall   = "10K<n<100K"
	SizeMedium  = "100K<n<1M"
	SizeLarge   = "1M<n<10M"
)

// sizeLabels are the stat labels that describe the dataset size.
var sizeLabels = map[string]bool{"articles": true, "items": true, "entries": true}

// SizeStat returns the last stat whose label names the dataset size.
func SizeStat(stats []config.Stat) (config.StatValue, bool) {
	var (
		value config.StatValue
		found bool
	)
	for _, s := range stats {
		if sizeLabels[strings.ToLower(s.Label)] {
			value, found = s.Value, true
		}
	}
	return value, found
}

// SizeCategory maps a stat value to a Hugging Face size category.
//
// Text values are matched on markers: "100k+" first, then "k+" or
// "thousand", then "m+" or "million". Integer values fall into the first
// bucket whose bound they are below; anything from one million up is
// reported as 1M<n<10M.
func SizeCategory(v config.StatValue) string {
	if n, ok := v.Int(); ok {
		switch {
		case n < 10_000:
			return SizeTiny
		case n < 100_000:
			return SizeSmall
		case n < 1_000_000:
			return SizeMedium
		default:
			return SizeLarge
		}
	}

	s := strings.ToLower(v.Raw)
	switch {
	case strings.Contains(s, "100k+"):
		return SizeMedium
	case strings.Contains(s, "k+"), strings.Contains(s, "thousand"):
		return SizeSmall
	case strings.Contains(s, "m+"), strings.Contains(s, "million"):
		return SizeLarge
	}
	return SizeUnknown
}
