// Package notes loads release notes and adapts their markdown for chat cards.
package notes

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/grovetools/notify-template/pkg/locale"
	"github.com/sirupsen/logrus"
)

// One level-2 markdown header per line
var headerPattern = regexp.MustCompile(`(?m)^## (.*)$`)

// Loader reads release notes files. A Loader never fails: problems are
// logged and reported through placeholder texts.
type Loader struct {
	messages locale.Messages
	logger   *logrus.Entry
}

// NewLoader creates a Loader that answers with the placeholders in msgs.
func NewLoader(msgs locale.Messages, logger *logrus.Entry) *Loader {
	return &Loader{
		messages: msgs,
		logger:   logger,
	}
}

// Load returns the converted, trimmed content of the file at path.
// A missing file yields the not-found placeholder and any other read or
// decoding problem yields the unreadable placeholder.
func (l *Loader) Load(path string) string {
	if path == "" {
		l.logger.Debug("No release notes file given")
		return l.messages.NotesNotFound
	}

	content, err := readFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			l.logger.WithField("path", path).Debug("Release notes file does not exist")
			return l.messages.NotesNotFound
		}
		l.logger.WithError(err).Warn("Failed to read release notes")
		return l.messages.NotesUnreadable
	}

	return Convert(content)
}

// Convert turns "## Title" lines into "**Title**" and trims the result.
func Convert(text string) string {
	return strings.TrimSpace(headerPattern.ReplaceAllString(text, "**$1**"))
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("release notes %s are not valid UTF-8", path)
	}
	return string(data), nil
}
