// Package imageref splits container image descriptors such as
// "registry:5000/team/svc:2025.06.1.0" and classifies their tags.
package imageref

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Kind classifies an image tag
type Kind string

const (
	KindNone   Kind = "none"   // No tag
	KindSemver Kind = "semver" // Semantic version, e.g. 1.4.2 or v1.0
	KindCalver Kind = "calver" // Calendar version YYYY.MM.minor.fix, e.g. 2025.06.0.1
	KindOther  Kind = "other"  // Anything else, e.g. latest
)

var calverPattern = regexp.MustCompile(`^v?(\d{4})\.(\d{2})\.(\d+)\.(\d+)$`)

// Ref is a parsed image descriptor
type Ref struct {
	Repository string
	Tag        string
	Digest     string
}

// Parse splits s into repository, tag and digest. A colon only starts a tag
// when it follows the last slash, so registry ports stay in the repository.
func Parse(s string) Ref {
	s = strings.TrimSpace(s)
	var ref Ref

	if i := strings.Index(s, "@"); i >= 0 {
		ref.Digest = s[i+1:]
		s = s[:i]
	}

	slash := strings.LastIndex(s, "/")
	if colon := strings.LastIndex(s, ":"); colon > slash {
		ref.Tag = s[colon+1:]
		s = s[:colon]
	}
	ref.Repository = s
	return ref
}

// Kind classifies the tag. Calendar versions take precedence over semver.
func (r Ref) Kind() Kind {
	if r.Tag == "" {
		return KindNone
	}
	if isCalver(r.Tag) {
		return KindCalver
	}
	if _, err := semver.NewVersion(r.Tag); err == nil {
		return KindSemver
	}
	return KindOther
}

// Semver returns the tag as a semantic version when it is one.
func (r Ref) Semver() (*semver.Version, bool) {
	if r.Kind() != KindSemver {
		return nil, false
	}
	v, err := semver.NewVersion(r.Tag)
	if err != nil {
		return nil, false
	}
	return v, true
}

func (r Ref) String() string {
	s := r.Repository
	if r.Tag != "" {
		s += ":" + r.Tag
	}
	if r.Digest != "" {
		s += "@" + r.Digest
	}
	return s
}

func isCalver(tag string) bool {
	m := calverPattern.FindStringSubmatch(tag)
	if m == nil {
		return false
	}
	month, err := strconv.Atoi(m[2])
	if err != nil {
		return false
	}
	return month >= 1 && month <= 12
}
