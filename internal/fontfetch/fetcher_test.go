package fontfetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func fontBytes() []byte {
	b := make([]byte, 0, 1024)
	for i := 0; i < 1024; i++ {
		b = append(b, byte(i*7+3))
	}
	return b
}

func newOptions(t *testing.T, url string) Options {
	t.Helper()
	return Options{
		URL:          url,
		OutputPath:   filepath.Join(t.TempDir(), "assets", "amiri_font.js"),
		VariableName: "amiriFontBase64",
		Banner:       "Amiri Regular Font Base64",
		Timeout:      5 * time.Second,
	}
}

func TestRunRoundTrip(t *testing.T) {
	font := fontBytes()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "font/ttf")
		w.Write(font) //nolint:errcheck
	}))
	defer srv.Close()

	opts := newOptions(t, srv.URL+"/Amiri-Regular.ttf")
	result, err := New(opts, srv.Client(), nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, opts.OutputPath, result.OutputPath)
	assert.Equal(t, len(font), result.FontBytes)

	content, err := os.ReadFile(opts.OutputPath)
	require.NoError(t, err)

	decoded, err := ExtractLiteral(string(content))
	require.NoError(t, err)
	assert.Equal(t, font, decoded)
	assert.Contains(t, string(content), "// Amiri Regular Font Base64\nconst amiriFontBase64 = \"")
	assert.Equal(t, result.Base64Len, len(content)-len("// Amiri Regular Font Base64\nconst amiriFontBase64 = \"\";\n"))
}

func TestRunEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	opts := newOptions(t, srv.URL)
	result, err := New(opts, srv.Client(), nil).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Base64Len)

	content, err := os.ReadFile(opts.OutputPath)
	require.NoError(t, err)
	decoded, err := ExtractLiteral(string(content))
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestRunErrorStatusWritesNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	opts := newOptions(t, srv.URL)
	_, err := New(opts, srv.Client(), nil).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadStatus)
	assert.Contains(t, err.Error(), "404")

	_, statErr := os.Stat(opts.OutputPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestDownloadHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(newOptions(t, srv.URL), srv.Client(), nil).Download(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunLogsOutputPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("font")) //nolint:errcheck
	}))
	defer srv.Close()

	core, observed := observer.New(zap.InfoLevel)
	opts := newOptions(t, srv.URL)
	_, err := New(opts, srv.Client(), zap.New(core)).Run(context.Background())
	require.NoError(t, err)

	written := observed.FilterMessage("font fragment written").All()
	require.Len(t, written, 1)
	assert.Equal(t, opts.OutputPath, written[0].ContextMap()["path"])
}

func TestRender(t *testing.T) {
	got := Render("Banner", "fontVar", "QUJD")
	assert.Equal(t, "// Banner\nconst fontVar = \"QUJD\";\n", got)
}

func TestExtractLiteral(t *testing.T) {
	data, err := ExtractLiteral("// x\nconst a = \"QUJD\";\n")
	require.NoError(t, err)
	assert.Equal(t, []byte("ABC"), data)

	_, err = ExtractLiteral("nothing here")
	assert.ErrorIs(t, err, ErrNoLiteral)

	_, err = ExtractLiteral("const a = \"QUJ\";")
	assert.Error(t, err)
}
