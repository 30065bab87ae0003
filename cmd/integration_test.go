package cmd

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag to its default so state does not leak between runs.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCmd is a helper to execute the root command with args and capture stdout.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := tryCmd(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v\n%s", args, err, out)
	}
	return out
}

func tryCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{"RESUMEKIT_STORE_BACKEND", "RESUMEKIT_DATA_DIR", "RESUMEKIT_MISTRAL_API_KEY", "RESUMEKIT_GEMINI_API_KEY"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Cleanup(func() { cfg = nil })
	return home
}

var uuidRe = regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

func firstID(t *testing.T, out string) string {
	t.Helper()
	id := uuidRe.FindString(out)
	require.NotEmpty(t, id, "no id in %q", out)
	return id
}

func TestCLI_ResumeLifecycle(t *testing.T) {
	home := isolateHome(t)

	out := runCmd(t, "resume", "new", "--name", "Jane Doe")
	assert.Contains(t, out, "✓ Created resume 'Jane Doe'")
	id := firstID(t, out)

	out = runCmd(t, "resume", "list")
	assert.Contains(t, out, id)
	assert.Contains(t, out, "4 sections")

	runCmd(t, "resume", "section", "content", id[:8], "4", "Go, Rust")
	runCmd(t, "resume", "section", "title", id, "1", "Summary")
	runCmd(t, "resume", "section", "add", id, "--title", "Projects", "--content", "resumekit")
	runCmd(t, "resume", "section", "remove", id, "2")

	out = runCmd(t, "resume", "show", id, "--markdown")
	assert.Equal(t, "# Jane Doe\n\n## Summary\n\n\n\n## Education\n\n\n\n## Skills\n\nGo, Rust\n\n## Projects\n\nresumekit\n\n", out)

	runCmd(t, "resume", "rename", id, "Jane Q. Doe")
	outDir := filepath.Join(home, "out")
	out = runCmd(t, "resume", "export", id, "--out", outDir)
	assert.Contains(t, out, "Jane_Q._Doe.md")
	b, err := os.ReadFile(filepath.Join(outDir, "Jane_Q._Doe.md"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "# Jane Q. Doe\n\n## Summary"))

	runCmd(t, "resume", "delete", id)
	runCmd(t, "resume", "delete", id)
	assert.Contains(t, runCmd(t, "resume", "list"), "(no resumes)")
}

func TestCLI_ImportExport(t *testing.T) {
	home := isolateHome(t)

	md := filepath.Join(home, "cv.md")
	require.NoError(t, os.WriteFile(md, []byte("## Skills\n\nGo\n"), 0o644))
	out := runCmd(t, "resume", "import", md)
	assert.Contains(t, out, "Imported 'cv'")
	mdID := firstID(t, out)
	assert.Equal(t, "# cv\n\n## Skills\n\nGo\n\n", runCmd(t, "resume", "export", mdID, "--stdout"))

	pdf := filepath.Join(home, "My CV.pdf")
	raw := []byte("%PDF-1.4 binary")
	require.NoError(t, os.WriteFile(pdf, raw, 0o644))
	pdfID := firstID(t, runCmd(t, "resume", "import", pdf))

	outDir := filepath.Join(home, "out")
	runCmd(t, "resume", "export", pdfID, "--out", outDir)
	got, err := os.ReadFile(filepath.Join(outDir, "My_CV.pdf"))
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	text := runCmd(t, "resume", "export", pdfID, "--format", "md", "--stdout")
	assert.Equal(t, "# My CV\n\n## Imported Content\n\nImported from My CV.pdf\n\n", text)

	_, err = tryCmd(t, "resume", "export", mdID, "--format", "docx")
	assert.Error(t, err)

	bad := filepath.Join(home, "cv.rtf")
	require.NoError(t, os.WriteFile(bad, []byte("x"), 0o644))
	_, err = tryCmd(t, "resume", "import", bad)
	assert.ErrorContains(t, err, "unsupported")
}

func TestCLI_AIConfigAndAnalyze(t *testing.T) {
	home := isolateHome(t)

	id := firstID(t, runCmd(t, "resume", "new", "--name", "Jane"))
	_, err := tryCmd(t, "ai", "analyze", id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Please configure your Mistral AI API key first")

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "Bearer sk-123456789", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{
				"content": `{"strengths":["concise"],"weaknesses":["thin"],"suggestions":["add detail"],"recommendations":[],"score":85,"detailedFeedback":"Good."}`,
			}}},
		})
	}))
	defer srv.Close()

	runCmd(t, "ai", "set", "mistral", "--key", "sk-123456789", "--endpoint", srv.URL, "--mode", "advanced")
	out := runCmd(t, "ai", "show")
	assert.Contains(t, out, "active: mistral")
	assert.Contains(t, out, "sk-****789")
	assert.NotContains(t, out, "sk-123456789")
	assert.Contains(t, out, "mode: advanced")

	out = runCmd(t, "ai", "analyze", id)
	assert.Contains(t, out, "Score: 85/100 (strong)")
	assert.Contains(t, out, "  - concise")
	assert.Equal(t, 1, calls)

	out = runCmd(t, "ai", "analyze", id, "--json")
	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 85.0, res["score"])

	runCmd(t, "ai", "use", "gemini")
	assert.Contains(t, runCmd(t, "ai", "show"), "active: gemini")
	_, err = tryCmd(t, "ai", "analyze", id)
	assert.ErrorContains(t, err, "Google Gemini")

	_, err = tryCmd(t, "ai", "use", "openai")
	assert.Error(t, err)

	file := filepath.Join(home, "cv.txt")
	require.NoError(t, os.WriteFile(file, []byte("# Jane\n"), 0o644))
	runCmd(t, "ai", "use", "mistral")
	assert.Contains(t, runCmd(t, "ai", "analyze", "--file", file), "Score: 85/100")
}

func TestCLI_Jobs(t *testing.T) {
	isolateHome(t)

	id := firstID(t, runCmd(t, "job", "add", "--company", "Acme", "--position", "Engineer", "--date", "2024-03-01", "--industry", "Tech"))
	runCmd(t, "job", "add", "--company", "Globex", "--position", "SRE", "--date", "2024-03-02", "--industry", "Finance", "--status", "rejected")

	out := runCmd(t, "job", "list")
	assert.Contains(t, out, "Applied (1)")
	assert.Contains(t, out, "Rejected (1)")

	out = runCmd(t, "job", "move", id, "backward")
	assert.Contains(t, out, "stays Applied")
	out = runCmd(t, "job", "move", id, "forward")
	assert.Contains(t, out, "Applied → Interviewing")

	out = runCmd(t, "job", "stats")
	assert.Contains(t, out, "Total Applications: 2")
	assert.Contains(t, out, "Interviewing: 1")
	assert.Contains(t, out, "Rejection Rate: 50%")

	out = runCmd(t, "job", "stats", "--industry", "Tech")
	assert.Contains(t, out, "Total Applications: 1")
	assert.Contains(t, out, "Rejection Rate: 0%")

	_, err := tryCmd(t, "job", "add", "--company", "Initech", "--position", "Dev", "--date", "03/01/2024")
	assert.Error(t, err)

	runCmd(t, "job", "delete", id)
	assert.NotContains(t, runCmd(t, "job", "list"), id)
}

func TestCLI_ConfigSetShow(t *testing.T) {
	home := isolateHome(t)

	runCmd(t, "config", "set", "http_timeout_sec", "15")
	runCmd(t, "config", "set", "data_dir", filepath.Join(home, "store"))
	out := runCmd(t, "config", "show")
	assert.Contains(t, out, "http_timeout_sec: 15")
	assert.Contains(t, out, "store_backend: file")

	runCmd(t, "resume", "new")
	_, err := os.Stat(filepath.Join(home, "store", "resumes"))
	assert.NoError(t, err)

	_, err = tryCmd(t, "config", "set", "store_backend", "sqlite")
	assert.Error(t, err)
	_, err = tryCmd(t, "config", "set", "nope", "1")
	assert.Error(t, err)
}

func TestCLI_AnalyzeDocxImportUsesOriginalText(t *testing.T) {
	home := isolateHome(t)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, _ = w.Write([]byte(`<w:document><w:body><w:p><w:r><w:t>Kubernetes operator author</w:t></w:r></w:p></w:body></w:document>`))
	require.NoError(t, zw.Close())
	docx := filepath.Join(home, "cv.docx")
	require.NoError(t, os.WriteFile(docx, buf.Bytes(), 0o644))
	id := firstID(t, runCmd(t, "resume", "import", docx))

	var prompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if len(req.Messages) > 0 {
			prompt = req.Messages[0].Content
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{
				"content": `{"strengths":[],"weaknesses":[],"suggestions":[],"score":40,"detailedFeedback":""}`,
			}}},
		})
	}))
	defer srv.Close()

	runCmd(t, "ai", "set", "mistral", "--key", "k", "--endpoint", srv.URL)
	out := runCmd(t, "ai", "analyze", id)
	assert.Contains(t, out, "Score: 40/100 (weak)")
	assert.Contains(t, prompt, "Kubernetes operator author")
	assert.NotContains(t, prompt, "Imported from")
}
