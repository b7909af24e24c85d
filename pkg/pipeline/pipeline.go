// Package pipeline renders a message template into the final webhook payload:
// load the template and release notes, substitute the variables, serialize,
// and emit the result.
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/grovetools/notify-template/pkg/imageref"
	"github.com/grovetools/notify-template/pkg/locale"
	"github.com/grovetools/notify-template/pkg/logging"
	"github.com/grovetools/notify-template/pkg/notes"
	"github.com/grovetools/notify-template/pkg/payload"
	"github.com/sirupsen/logrus"
)

// Names of the variables available to templates.
const (
	VarImageInfo    = "IMAGE_INFO"
	VarRepoInfo     = "REPO_INFO"
	VarReleaseNotes = "RELEASE_NOTES"
)

// Request describes one rendering run.
type Request struct {
	TemplatePath string // JSON template, required
	ImageInfo    string // e.g. audio-engine-server:2025.06.0.0
	RepoInfo     string // e.g. org/repo
	NotesPath    string // Release notes markdown; missing files are tolerated
	OutputPath   string // Destination file; stdout when empty
}

// Options configures a Pipeline
type Options struct {
	Stdout   io.Writer       // Receives the payload when no output path is given
	Logger   *logrus.Logger  // Diagnostics; discarded when nil
	Messages locale.Messages // Placeholder and fallback texts
}

// Pipeline turns templates into payloads.
type Pipeline struct {
	stdout io.Writer
	logger *logrus.Entry
	notes  *notes.Loader
}

// New creates a Pipeline
func New(opts Options) *Pipeline {
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	base := opts.Logger
	if base == nil {
		base = logging.Discard()
	}

	return &Pipeline{
		stdout: stdout,
		logger: logging.NewLogger(base, "pipeline"),
		notes:  notes.NewLoader(opts.Messages, logging.NewLogger(base, "notes")),
	}
}

// Variables builds the variable set for req with the already loaded release notes.
func Variables(req Request, releaseNotes string) *payload.Variables {
	return payload.NewVariables().
		Set(VarImageInfo, req.ImageInfo).
		Set(VarRepoInfo, req.RepoInfo).
		Set(VarReleaseNotes, releaseNotes)
}

// Run renders req and writes the payload. It writes nothing to stdout when
// it fails; callers decide whether to emit the fallback.
func (p *Pipeline) Run(req Request) error {
	// 1. Load the template
	template, err := loadTemplate(req.TemplatePath)
	if err != nil {
		return err
	}

	// 2. Load the release notes
	releaseNotes := p.notes.Load(req.NotesPath)

	// 3. Build the variables
	vars := Variables(req, releaseNotes)
	p.logger.WithFields(logrus.Fields{
		"image_info":          req.ImageInfo,
		"repo_info":           req.RepoInfo,
		"release_notes_chars": utf8.RuneCountInString(releaseNotes),
	}).Info("Substituting template variables")

	p.logImageRef(req.ImageInfo)

	// 4. Substitute and serialize
	doc, err := payload.Marshal(payload.Substitute(template, vars))
	if err != nil {
		return fmt.Errorf("failed to serialize payload: %w", err)
	}

	// 5. Emit
	if err := p.emit(doc, req.OutputPath); err != nil {
		return err
	}
	p.logger.Info("Message payload generated")
	return nil
}

func (p *Pipeline) logImageRef(imageInfo string) {
	ref := imageref.Parse(imageInfo)
	fields := logrus.Fields{
		"image":      ref.String(),
		"repository": ref.Repository,
		"tag":        ref.Tag,
		"tag_kind":   ref.Kind(),
	}
	if ref.Digest != "" {
		fields["digest"] = ref.Digest
	}
	if v, ok := ref.Semver(); ok {
		fields["semver_major"] = v.Major()
	}
	p.logger.WithFields(fields).Debug("Parsed image reference")
}

func loadTemplate(path string) (payload.Node, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no template path given", ErrTemplateNotFound)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, path)
		}
		return nil, fmt.Errorf("%w: failed to open template: %w", ErrIO, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read template %s: %w", ErrIO, path, err)
	}

	node, err := payload.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", path, err)
	}
	return node, nil
}
