// Package version implements stability classification and deterministic
// ordering for Maven version strings.
//
// Maven versions are not semver: qualifiers like "32.1.3-jre",
// "5.0.0.RELEASE", or "1.0-m1" are common, and upstream metadata contains
// arbitrary malformed strings. Both [IsPrerelease] and [Compare] are total
// functions; they never fail, no matter how odd the input.
package version

import (
	"regexp"
	"slices"
	"strings"
)

// Pre-release detection. SNAPSHOT counts anywhere in the string; the other
// qualifiers only count as separator-delimited tokens so that stable
// markers like "Final" are not excluded by their letters alone ("final"
// must not match the milestone shorthand "m").
var (
	snapshotPattern = regexp.MustCompile(`(?i)snapshot`)

	// alpha/beta/rc/cr/milestone/preview/ea with optional trailing digits,
	// delimited by '.', '-', '_' or string boundaries (e.g. "1.0-rc1").
	qualifierPattern = regexp.MustCompile(`(?i)(^|[._-])(alpha|beta|rc|cr|milestone|preview|ea)\d*($|[._-])`)

	// Milestone shorthand: the single letter 'm' followed by one or more
	// digits, delimited by separators or boundaries (e.g. "-m1", ".M3").
	milestonePattern = regexp.MustCompile(`(?i)(^|[._-])m\d+($|[._-])`)
)

// IsPrerelease reports whether the version string carries a pre-release
// marker. Detection is case-insensitive and conservative: only well-known
// qualifiers and the m<digits> milestone shorthand trigger a pre-release
// classification. Stable markers (RELEASE, Final, GA) never do.
func IsPrerelease(version string) bool {
	s := strings.TrimSpace(version)
	if snapshotPattern.MatchString(s) {
		return true
	}
	if qualifierPattern.MatchString(s) {
		return true
	}
	return milestonePattern.MatchString(s)
}

// IsStable reports whether the version should be treated as a stable
// release. Stable is defined as not pre-release per [IsPrerelease].
func IsStable(version string) bool {
	return !IsPrerelease(version)
}

var separatorPattern = regexp.MustCompile(`[._-]+`)

// tokenize splits a version into components on '.', '-', and '_'. A
// leading 'v' before a digit is dropped ("v2.0" orders like "2.0").
func tokenize(version string) []string {
	s := strings.TrimSpace(version)
	if len(s) > 1 && (s[0] == 'v' || s[0] == 'V') && s[1] >= '0' && s[1] <= '9' {
		s = s[1:]
	}
	parts := separatorPattern.Split(s, -1)
	components := parts[:0]
	for _, p := range parts {
		if p != "" {
			components = append(components, p)
		}
	}
	return components
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// compareNumeric compares two digit strings as unbounded integers.
func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// Compare orders two version strings. It returns a negative value if
// a < b, zero if they are equal, and a positive value if a > b.
//
// Components are compared pairwise: numerically when both are numeric,
// case-insensitively otherwise. A numeric component outranks a non-numeric
// one at the same position ("1.0.1" > "1.0.rc"). Missing trailing
// components are treated as zero, so "1.2" and "1.2.0" compare equal
// while remaining distinguishable by their raw strings.
//
// Compare never fails; arbitrary malformed input degrades to
// case-insensitive lexical comparison of the affected components.
func Compare(a, b string) int {
	ta := tokenize(a)
	tb := tokenize(b)

	for i, n := 0, max(len(ta), len(tb)); i < n; i++ {
		ca, cb := "0", "0"
		if i < len(ta) {
			ca = ta[i]
		}
		if i < len(tb) {
			cb = tb[i]
		}

		na, nb := isNumeric(ca), isNumeric(cb)
		switch {
		case na && nb:
			if c := compareNumeric(ca, cb); c != 0 {
				return c
			}
		case na:
			// Numeric outranks qualifier at the same position.
			return 1
		case nb:
			return -1
		default:
			if c := strings.Compare(strings.ToLower(ca), strings.ToLower(cb)); c != 0 {
				return c
			}
		}
	}
	return 0
}

// Sort orders versions ascending in place using [Compare]. Versions that
// compare equal are tie-broken by their raw strings so the result is
// deterministic for any input.
func Sort(versions []string) {
	slices.SortStableFunc(versions, func(a, b string) int {
		if c := Compare(a, b); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
}

// Latest returns the comparator-maximum of versions. Versions that compare
// equal (e.g. "1.2" and "1.2.0") are tie-broken by picking the lexically
// greater raw string, keeping the selection deterministic.
// Returns false if versions is empty.
func Latest(versions []string) (string, bool) {
	if len(versions) == 0 {
		return "", false
	}
	best := versions[0]
	for _, v := range versions[1:] {
		switch c := Compare(v, best); {
		case c > 0:
			best = v
		case c == 0 && strings.Compare(v, best) > 0:
			best = v
		}
	}
	return best, true
}

// FilterStable returns the versions classified stable by [IsStable],
// preserving order. The input slice is not modified.
func FilterStable(versions []string) []string {
	stable := make([]string, 0, len(versions))
	for _, v := range versions {
		if IsStable(v) {
			stable = append(stable, v)
		}
	}
	return stable
}
