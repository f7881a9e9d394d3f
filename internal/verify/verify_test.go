package verify

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const goodDoc = `<!DOCTYPE html>
<html lang="en">
<head><title>ok</title></head>
<body><p>hello</p></body>
</html>
`

func TestVerifyReader_WellFormed(t *testing.T) {
	findings, err := VerifyReader("good.html", strings.NewReader(goodDoc))
	require.NoError(t, err)
	require.Empty(t, findings)
}

func TestVerifyReader_Problems(t *testing.T) {
	tests := []struct {
		name    string
		content string
		problem string
	}{
		{"missing doctype", "<html><body>x</body></html>", "missing doctype declaration"},
		{"missing html", "<!DOCTYPE html>\n<body>x</body>", "missing opening html tag"},
		{"missing closing body", "<!DOCTYPE html>\n<html><body>x</html>", "missing closing body tag"},
		{"leftover template syntax", "<!DOCTYPE html>\n<html><body>{{.Title}}</body></html>", "unprocessed template syntax ({{) in output"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings, err := VerifyReader("f.html", strings.NewReader(tt.content))
			require.NoError(t, err)

			problems := make([]string, 0, len(findings))
			for _, f := range findings {
				problems = append(problems, f.Problem)
			}
			require.Contains(t, problems, tt.problem)
		})
	}
}

func TestVerifyDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.html"), []byte(goodDoc), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.html"), []byte("<p>fragment</p>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "style.css"), []byte("body{}"), 0o644))

	findings, err := VerifyDir(dir)
	require.NoError(t, err)
	require.NotEmpty(t, findings)
	for _, f := range findings {
		require.Equal(t, "bad.html", f.File)
	}
}

func TestVerifyDir_Empty(t *testing.T) {
	findings, err := VerifyDir(t.TempDir())
	require.NoError(t, err)
	require.Empty(t, findings)
}
