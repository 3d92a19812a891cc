package share

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/nao1215/auditflow/internal/model"
)

const (
	// DefaultBaseURL is the host links point at when no base is configured.
	DefaultBaseURL = "https://auditflow.app"

	// PreviewLength is the number of token characters shown in a preview.
	PreviewLength = 12

	// reportPath is the path segment between the base URL and the token.
	reportPath = "/report/"
)

var (
	// ErrInvalidToken is returned when a token is not valid base64.
	ErrInvalidToken = errors.New("invalid share token")

	// ErrInvalidLink is returned when a link has no report token.
	ErrInvalidLink = errors.New("invalid share link")
)

// Token returns the share token for url.
func Token(url string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(url))
}

// Decode recovers the URL from a token. Standard padded base64 tokens are
// accepted as well.
func Decode(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("%w: empty token", ErrInvalidToken)
	}

	encodings := []*base64.Encoding{
		base64.RawURLEncoding,
		base64.URLEncoding,
		base64.RawStdEncoding,
		base64.StdEncoding,
	}
	for _, enc := range encodings {
		if data, err := enc.DecodeString(token); err == nil {
			return string(data), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidToken, token)
}

// Link returns the share link for report under base.
// An empty base uses DefaultBaseURL.
func Link(base string, report *model.AuditReport) string {
	return normalizeBase(base) + reportPath + Token(report.URL)
}

// Preview shortens a link for display: the token is cut to PreviewLength
// characters and followed by "...".
func Preview(link string) string {
	idx := strings.LastIndex(link, reportPath)
	if idx < 0 {
		return link
	}
	prefix := link[:idx+len(reportPath)]
	token := link[idx+len(reportPath):]
	if len(token) > PreviewLength {
		token = token[:PreviewLength]
	}
	return prefix + token + "..."
}

// Resolve extracts and decodes the token of a share link.
func Resolve(link string) (string, error) {
	idx := strings.LastIndex(link, reportPath)
	if idx < 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidLink, link)
	}
	token := strings.TrimSuffix(link[idx+len(reportPath):], "/")
	if token == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidLink, link)
	}
	return Decode(token)
}

// normalizeBase trims trailing slashes and applies the default.
func normalizeBase(base string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return DefaultBaseURL
	}
	return base
}
