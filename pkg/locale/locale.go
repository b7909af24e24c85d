// Package locale holds the fixed user-facing texts that end up inside a
// generated payload.
package locale

import (
	"fmt"
	"sort"
	"strings"
)

// Messages are the texts placed into the payload when the real content
// cannot be produced.
type Messages struct {
	// NotesNotFound replaces the release notes when the notes file is missing.
	NotesNotFound string `yaml:"notes_not_found,omitempty" toml:"notes_not_found,omitempty" json:"notes_not_found,omitempty"`
	// NotesUnreadable replaces the release notes when the notes file cannot be read.
	NotesUnreadable string `yaml:"notes_unreadable,omitempty" toml:"notes_unreadable,omitempty" json:"notes_unreadable,omitempty"`
	// Fallback is the text of the message emitted when no payload can be generated.
	Fallback string `yaml:"fallback,omitempty" toml:"fallback,omitempty" json:"fallback,omitempty"`
}

const DefaultLocale = "en"

var catalogs = map[string]Messages{
	"en": {
		NotesNotFound:   "release notes not found",
		NotesUnreadable: "release notes unreadable",
		Fallback:        "cannot generate message",
	},
	"ko": {
		NotesNotFound:   "릴리즈 노트를 찾을 수 없습니다.",
		NotesUnreadable: "릴리즈 노트를 읽을 수 없습니다.",
		Fallback:        "Teams 메시지를 생성할 수 없습니다.",
	},
}

// Default returns the catalog of DefaultLocale.
func Default() Messages {
	return catalogs[DefaultLocale]
}

// Lookup returns the catalog for name. Region suffixes are ignored, so
// "ko_KR.UTF-8" and "ko-KR" both select "ko".
func Lookup(name string) (Messages, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return Default(), nil
	}
	if i := strings.IndexAny(key, "_-."); i > 0 {
		key = key[:i]
	}
	msgs, ok := catalogs[key]
	if !ok {
		return Messages{}, fmt.Errorf("unknown locale %q (available: %s)", name, strings.Join(Available(), ", "))
	}
	return msgs, nil
}

// Available lists the known locale names.
func Available() []string {
	names := make([]string, 0, len(catalogs))
	for name := range catalogs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merge returns m with every non-empty field of overrides applied on top.
func (m Messages) Merge(overrides Messages) Messages {
	if overrides.NotesNotFound != "" {
		m.NotesNotFound = overrides.NotesNotFound
	}
	if overrides.NotesUnreadable != "" {
		m.NotesUnreadable = overrides.NotesUnreadable
	}
	if overrides.Fallback != "" {
		m.Fallback = overrides.Fallback
	}
	return m
}
