package model

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var (
	ringNameRe = regexp.MustCompile(`^.+ [A-Z] Ring$`)
	folder     = cases.Fold()
)

// NormalizeName trims and NFC-normalises a display name before storage.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// NameKey returns the case-folded lookup key for a system or body name.
func NameKey(name string) string {
	return folder.String(NormalizeName(name))
}

// IsRingName reports whether a body name identifies a planetary ring.
// Rings only ever appear in signal events and never receive a Scan of their own.
func IsRingName(name string) bool {
	return ringNameRe.MatchString(strings.TrimSpace(name))
}

// IsBeltName reports whether a body name identifies an asteroid belt cluster.
func IsBeltName(name string) bool {
	return strings.Contains(name, "Belt Cluster")
}
