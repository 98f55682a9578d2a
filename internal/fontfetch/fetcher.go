// =============================================================================
// Dashboard Tools - Font Fetcher
// =============================================================================
//
// This module downloads a font file and embeds it, base64-encoded, in a
// script fragment the dashboard's PDF exporter loads:
//
//   // Amiri Regular Font Base64
//   const amiriFontBase64 = "AAEAAAAPAIAAAwBwR0RFRg...";
//
// The font bytes are never interpreted. Decoding the embedded literal
// reproduces the downloaded bytes exactly.
//
// =============================================================================

package fontfetch

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/orangedata/dashtools/pkg/utils"
)

// ErrBadStatus is returned when the server answers with an error status.
var ErrBadStatus = errors.New("unexpected HTTP status")

// ErrNoLiteral is returned when a fragment holds no embedded literal.
var ErrNoLiteral = errors.New("no base64 literal found")

// =============================================================================
// FETCHER
// =============================================================================

// Options configures a Fetcher.
type Options struct {
	URL          string
	OutputPath   string
	VariableName string
	Banner       string
	Timeout      time.Duration
}

// Result describes a completed fetch.
type Result struct {
	OutputPath string
	FontBytes  int
	Base64Len  int
}

// Fetcher downloads the font and writes the fragment.
type Fetcher struct {
	opts   Options
	client *http.Client
	logger *zap.Logger
}

// New creates a Fetcher. A nil client gets a default client bounded by
// opts.Timeout; a nil logger discards log output.
func New(opts Options, client *http.Client, logger *zap.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{opts: opts, client: client, logger: logger}
}

// Run downloads the font, renders the fragment and writes it to disk.
func (f *Fetcher) Run(ctx context.Context) (*Result, error) {
	f.logger.Info("downloading font", zap.String("url", f.opts.URL))

	body, err := f.Download(ctx)
	if err != nil {
		return nil, err
	}

	encoded := base64.StdEncoding.EncodeToString(body)
	fragment := Render(f.opts.Banner, f.opts.VariableName, encoded)

	if err := utils.WriteFile(f.opts.OutputPath, []byte(fragment)); err != nil {
		return nil, err
	}

	f.logger.Info("font fragment written",
		zap.String("path", f.opts.OutputPath),
		zap.Int("font_bytes", len(body)),
		zap.Int("base64_chars", len(encoded)),
	)

	return &Result{
		OutputPath: f.opts.OutputPath,
		FontBytes:  len(body),
		Base64Len:  len(encoded),
	}, nil
}

// Download fetches the configured URL and returns the response body.
//
// RETURNS:
//   - The body bytes.
//   - ErrBadStatus (wrapped) when the status code is 400 or above.
func (f *Fetcher) Download(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.opts.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", f.opts.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: %s for url: %s", ErrBadStatus, resp.Status, f.opts.URL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	f.logger.Debug("font downloaded",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
	)
	return body, nil
}

// =============================================================================
// FRAGMENT RENDERING
// =============================================================================

// Render builds the script fragment embedding the encoded font.
func Render(banner, variable, encoded string) string {
	var b strings.Builder
	b.WriteString("// ")
	b.WriteString(banner)
	b.WriteString("\n")
	b.WriteString("const ")
	b.WriteString(variable)
	b.WriteString(" = \"")
	b.WriteString(encoded)
	b.WriteString("\";\n")
	return b.String()
}

var literalPattern = regexp.MustCompile(`const\s+[A-Za-z_$][A-Za-z0-9_$]*\s*=\s*"([A-Za-z0-9+/=]*)"`)

// ExtractLiteral decodes the base64 literal embedded in a fragment.
func ExtractLiteral(fragment string) ([]byte, error) {
	m := literalPattern.FindStringSubmatch(fragment)
	if m == nil {
		return nil, ErrNoLiteral
	}
	data, err := base64.StdEncoding.DecodeString(m[1])
	if err != nil {
		return nil, fmt.Errorf("failed to decode literal: %w", err)
	}
	return data, nil
}
