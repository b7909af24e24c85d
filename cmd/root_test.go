package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fallbackLine = `{"type":"message","text":"cannot generate message"}` + "\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("NOTIFY_TEMPLATE_CONFIG", "")
	var stdout, stderr bytes.Buffer
	code := ExecuteArgs(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestExecute_Render(t *testing.T) {
	dir := t.TempDir()
	template := writeFile(t, dir, "teams.json", `{"text":"Image: ${IMAGE_INFO}, Repo: ${REPO_INFO}\nNotes: ${RELEASE_NOTES}"}`)
	notes := writeFile(t, dir, "RELEASE_NOTES.md", "## Fixed bug")

	t.Run("Stdout", func(t *testing.T) {
		code, stdout, stderr := execute(t, template,
			"--image-info", "svc:1.0",
			"--repo-info", "org/repo",
			"--release-notes-file", notes)

		assert.Equal(t, 0, code)
		assert.Equal(t, `{"text":"Image: svc:1.0, Repo: org/repo\nNotes: **Fixed bug**"}`+"\n", stdout)
		assert.Contains(t, stderr, "release_notes_chars=13")
		assert.Contains(t, stderr, "Message payload generated")
	})

	t.Run("OutputFile", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "payload.json")
		code, stdout, _ := execute(t, template,
			"--image-info=svc:1.0",
			"--repo-info=org/repo",
			"--release-notes-file="+notes,
			"-o", out)

		assert.Equal(t, 0, code)
		assert.Empty(t, stdout)

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Equal(t, `{"text":"Image: svc:1.0, Repo: org/repo\nNotes: **Fixed bug**"}`, string(data))
	})

	t.Run("MissingNotes", func(t *testing.T) {
		code, stdout, _ := execute(t, template,
			"--image-info", "svc:1.0",
			"--repo-info", "org/repo",
			"--release-notes-file", filepath.Join(dir, "missing.md"))

		assert.Equal(t, 0, code)
		assert.Equal(t, `{"text":"Image: svc:1.0, Repo: org/repo\nNotes: release notes not found"}`+"\n", stdout)
	})

	t.Run("JSONLogs", func(t *testing.T) {
		code, _, stderr := execute(t, template,
			"--image-info", "svc:1.0",
			"--repo-info", "org/repo",
			"--release-notes-file", notes,
			"--log-format", "json")

		assert.Equal(t, 0, code)
		lines := bytes.Split(bytes.TrimSpace([]byte(stderr)), []byte("\n"))
		require.NotEmpty(t, lines)
		for _, line := range lines {
			assert.True(t, json.Valid(line), "log line should be JSON: %s", line)
		}
	})
}

func TestExecute_Failures(t *testing.T) {
	dir := t.TempDir()
	notes := writeFile(t, dir, "RELEASE_NOTES.md", "## Fixed bug")

	tests := []struct {
		name string
		args []string
	}{
		{
			name: "Template not found",
			args: []string{filepath.Join(dir, "missing.json"), "--image-info", "a", "--repo-info", "b", "--release-notes-file", notes},
		},
		{
			name: "Malformed template",
			args: []string{writeFile(t, dir, "bad.json", `{"text":`), "--image-info", "a", "--repo-info", "b", "--release-notes-file", notes},
		},
		{
			name: "Missing required flag",
			args: []string{writeFile(t, dir, "ok.json", `{}`), "--image-info", "a", "--release-notes-file", notes},
		},
		{
			name: "Missing template argument",
			args: []string{"--image-info", "a", "--repo-info", "b", "--release-notes-file", notes},
		},
		{
			name: "Unknown flag",
			args: []string{writeFile(t, dir, "ok2.json", `{}`), "--image-info", "a", "--repo-info", "b", "--release-notes-file", notes, "--webhook", "x"},
		},
		{
			name: "Output directory missing",
			args: []string{writeFile(t, dir, "ok3.json", `{}`), "--image-info", "a", "--repo-info", "b", "--release-notes-file", notes, "--output", filepath.Join(dir, "nope", "out.json")},
		},
		{
			name: "Unknown locale",
			args: []string{writeFile(t, dir, "ok4.json", `{}`), "--image-info", "a", "--repo-info", "b", "--release-notes-file", notes, "--locale", "fr"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := execute(t, tt.args...)

			assert.Equal(t, 1, code)
			assert.Equal(t, fallbackLine, stdout)
			assert.Contains(t, stderr, "Failed to generate message payload")
		})
	}
}

func TestExecute_Locale(t *testing.T) {
	dir := t.TempDir()
	template := writeFile(t, dir, "teams.json", `{"text":"${RELEASE_NOTES}"}`)

	t.Run("Flag", func(t *testing.T) {
		code, stdout, _ := execute(t, template,
			"--image-info", "a", "--repo-info", "b",
			"--release-notes-file", filepath.Join(dir, "missing.md"),
			"--locale", "ko")

		assert.Equal(t, 0, code)
		assert.Equal(t, `{"text":"릴리즈 노트를 찾을 수 없습니다."}`+"\n", stdout)
	})

	t.Run("ConfigFallback", func(t *testing.T) {
		cfg := writeFile(t, dir, "notify.yml", "locale: ko\nmessages:\n  fallback: \"배포 알림을 만들 수 없습니다.\"\n")
		code, stdout, _ := execute(t, filepath.Join(dir, "missing.json"),
			"--image-info", "a", "--repo-info", "b",
			"--release-notes-file", filepath.Join(dir, "missing.md"),
			"--config", cfg)

		assert.Equal(t, 1, code)
		assert.Equal(t, `{"type":"message","text":"배포 알림을 만들 수 없습니다."}`+"\n", stdout)
	})

	t.Run("ConfigFromEnvironment", func(t *testing.T) {
		cfg := writeFile(t, dir, "notify.toml", "locale = \"ko\"\n")
		var stdout, stderr bytes.Buffer
		t.Setenv("NOTIFY_TEMPLATE_CONFIG", cfg)

		code := ExecuteArgs([]string{template,
			"--image-info", "a", "--repo-info", "b",
			"--release-notes-file", ""}, &stdout, &stderr)

		assert.Equal(t, 0, code)
		assert.Equal(t, `{"text":"릴리즈 노트를 찾을 수 없습니다."}`+"\n", stdout.String())
	})
}

func TestExecute_Subcommands(t *testing.T) {
	t.Run("Schema", func(t *testing.T) {
		code, stdout, _ := execute(t, "schema")

		assert.Equal(t, 0, code)
		var schema map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(stdout), &schema))
		assert.Equal(t, "notify-template configuration", schema["title"])
	})

	t.Run("Version", func(t *testing.T) {
		code, stdout, _ := execute(t, "version")

		assert.Equal(t, 0, code)
		assert.Equal(t, "notify-template dev\n", stdout)
	})
}

func TestExecute_TemplateNamedLikeSubcommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "version", `{"text":"${IMAGE_INFO}"}`)
	writeFile(t, dir, "schema", `{"text":"${REPO_INFO}"}`)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{
			name:     "Version",
			args:     []string{"version", "--image-info", "svc:1.0", "--repo-info", "org/repo", "--release-notes-file", "missing.md"},
			expected: `{"text":"svc:1.0"}`,
		},
		{
			name:     "Schema with inline flag values",
			args:     []string{"schema", "--image-info=svc:1.0", "--repo-info=org/repo", "--release-notes-file=missing.md"},
			expected: `{"text":"org/repo"}`,
		},
		{
			name:     "Relative path",
			args:     []string{"./version", "--image-info", "svc:2.0", "--repo-info", "org/repo", "--release-notes-file", "missing.md"},
			expected: `{"text":"svc:2.0"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, _ := execute(t, tt.args...)

			assert.Equal(t, 0, code)
			assert.Equal(t, tt.expected+"\n", stdout)
		})
	}
}
