package components

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/felixbrock/ponygp/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Index().Render(context.Background(), &buf))

	html := buf.String()
	assert.Contains(t, strings.ToLower(html), `<!doctype html>`)
	assert.Contains(t, html, `action="/upload"`)
	assert.Contains(t, html, `enctype="multipart/form-data"`)
	assert.Contains(t, html, `name="uploaded_file"`)
}

func TestPonyGP(t *testing.T) {
	summary := &domain.DatasetSummary{
		Path:    "uploads/data.csv",
		Header:  []string{"x0", "<y>"},
		Columns: 2,
		Rows:    10,
	}

	var buf bytes.Buffer
	require.NoError(t, PonyGP("uploads/data.csv", summary).Render(context.Background(), &buf))

	html := buf.String()
	assert.Contains(t, html, `<code>uploads/data.csv</code>`)
	assert.Contains(t, html, `<td>10</td>`)
	assert.Contains(t, html, `x0, &lt;y&gt;`)
	assert.Contains(t, html, `<canvas id="performance"`)
	assert.Contains(t, html, `goSetFitnesses('performance')`)
	assert.Contains(t, html, `/static/ponygp.wasm`)
}

func TestPonyGPWithoutSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PonyGP("uploads/data.csv", nil).Render(context.Background(), &buf))

	assert.NotContains(t, buf.String(), `class="dataset"`)
	assert.Contains(t, buf.String(), `<canvas id="performance"`)
}

func TestErrorEscapes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Error(404, "Not found", "<script>").Render(context.Background(), &buf))

	assert.Contains(t, buf.String(), `<p class="code">404</p>`)
	assert.Contains(t, buf.String(), `&lt;script&gt;`)
	assert.NotContains(t, buf.String(), `<p><script></p>`)
}

func TestRenderToPlainWriter(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, Error(500, "Internal server error", "try again").Render(context.Background(), &sb))

	assert.Contains(t, sb.String(), `<h1>Internal server error</h1>`)
	assert.True(t, strings.HasSuffix(sb.String(), `</html>`))
}
