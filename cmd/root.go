package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/grovetools/notify-template/pkg/config"
	"github.com/grovetools/notify-template/pkg/locale"
	"github.com/grovetools/notify-template/pkg/logging"
	"github.com/grovetools/notify-template/pkg/pipeline"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// renderOptions holds the root command's flag values
type renderOptions struct {
	imageInfo        string
	repoInfo         string
	releaseNotesFile string
	output           string
	configPath       string
	locale           string
	logFormat        string
	verbose          bool
}

// runState carries what the failure handler needs to know about a run that
// got partway through: the texts to answer with and the logger to report on.
type runState struct {
	messages locale.Messages
	logger   *logrus.Logger
}

// renderFlags are the required render flags. A command line carrying any of
// them is a render, even when the template path reads "schema" or "version".
var renderFlags = []string{"image-info", "repo-info", "release-notes-file"}

func newRootCmd(stdout, stderr io.Writer, state *runState, subcommands bool) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "notify-template <template_file>",
		Short: "Render a chat webhook message template into single-line JSON",
		Long: `Reads a JSON message template, replaces the ${IMAGE_INFO}, ${REPO_INFO} and
${RELEASE_NOTES} tokens in its string values and prints the result as one
line of JSON, ready to be posted to a chat webhook.

Level-2 markdown headers ("## Title") in the release notes become bold lines
("**Title**"). Diagnostics go to stderr; stdout only ever carries JSON. If
anything fails, a fallback message is printed instead and the exit status is 1.

A template named like a subcommand ("schema", "version") is rendered when the
render flags are given; "./version" works as well.

Examples:
  notify-template teams.json --image-info svc:2025.06.0.0 --repo-info org/repo \
    --release-notes-file RELEASE_NOTES.md
  notify-template teams.json --image-info svc:1.0 --repo-info org/repo \
    --release-notes-file RELEASE_NOTES.md --output payload.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, opts, state, args[0])
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	addRenderFlags(cmd.Flags(), opts)
	for _, name := range renderFlags {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}

	if subcommands {
		cmd.AddCommand(newSchemaCmd())
		cmd.AddCommand(newVersionCmd())
	}

	return cmd
}

func addRenderFlags(fs *pflag.FlagSet, opts *renderOptions) {
	fs.StringVar(&opts.imageInfo, "image-info", "", "Image descriptor (e.g. audio-engine-server:2025.06.0.0)")
	fs.StringVar(&opts.repoInfo, "repo-info", "", "Repository descriptor (e.g. org/repo)")
	fs.StringVar(&opts.releaseNotesFile, "release-notes-file", "", "Release notes markdown file (e.g. RELEASE_NOTES.md)")
	fs.StringVarP(&opts.output, "output", "o", "", "Write the payload to this file instead of stdout")
	fs.StringVar(&opts.configPath, "config", "", fmt.Sprintf("Config file (.yml, .yaml or .toml); defaults to $%s", config.EnvConfigPath))
	fs.StringVar(&opts.locale, "locale", "", fmt.Sprintf("Message catalog for placeholder and fallback texts (%v)", locale.Available()))
	fs.StringVar(&opts.logFormat, "log-format", "", "Diagnostic log format: text or json")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
}

func runRender(cmd *cobra.Command, opts *renderOptions, state *runState, templatePath string) error {
	cfg, err := config.Load(config.ResolvePath(opts.configPath))
	if err != nil {
		return err
	}
	if opts.locale != "" {
		cfg.Locale = opts.locale
	}
	if opts.logFormat != "" {
		cfg.Log.Format = opts.logFormat
	}

	msgs, err := cfg.ResolveMessages()
	if err != nil {
		return err
	}
	state.messages = msgs

	logger, err := logging.New(logging.Options{
		Output:  cmd.ErrOrStderr(),
		Format:  cfg.Log.Format,
		Level:   cfg.Log.Level,
		Verbose: opts.verbose,
	})
	if err != nil {
		return err
	}
	state.logger = logger

	p := pipeline.New(pipeline.Options{
		Stdout:   cmd.OutOrStdout(),
		Logger:   logger,
		Messages: msgs,
	})
	return p.Run(pipeline.Request{
		TemplatePath: templatePath,
		ImageInfo:    opts.imageInfo,
		RepoInfo:     opts.repoInfo,
		NotesPath:    opts.releaseNotesFile,
		OutputPath:   opts.output,
	})
}

// Execute runs the command line in os.Args and returns the process exit code.
func Execute() int {
	return ExecuteArgs(os.Args[1:], os.Stdout, os.Stderr)
}

// ExecuteArgs runs the command line args. Every failure, including bad
// flags and panics, ends with the fallback message on stdout and exit code 1.
func ExecuteArgs(args []string, stdout, stderr io.Writer) (code int) {
	state := &runState{messages: locale.Default()}

	defer func() {
		if r := recover(); r != nil {
			code = fail(stdout, stderr, state, fmt.Errorf("unexpected error: %v", r))
		}
	}()

	cmd := newRootCmd(stdout, stderr, state, !hasRenderFlags(args))
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		return fail(stdout, stderr, state, err)
	}
	return 0
}

func hasRenderFlags(args []string) bool {
	for _, arg := range args {
		if arg == "--" {
			return false
		}
		for _, name := range renderFlags {
			if arg == "--"+name || strings.HasPrefix(arg, "--"+name+"=") {
				return true
			}
		}
	}
	return false
}

func fail(stdout, stderr io.Writer, state *runState, err error) int {
	logger := state.logger
	if logger == nil {
		logger, _ = logging.New(logging.Options{Output: stderr})
	}
	logging.NewLogger(logger, "cli").WithError(err).Error("Failed to generate message payload")

	if werr := pipeline.WriteFallback(stdout, state.messages); werr != nil {
		logger.WithError(werr).Error("Failed to write fallback message")
	}
	return 1
}
