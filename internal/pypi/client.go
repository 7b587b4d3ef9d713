// Package pypi fetches published package metadata from the PyPI JSON API and
// maps it into the snapshot consumed by the classifier.
package pypi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/pipscout/pipscout/internal/models"
)

// DefaultBaseURL is the public index endpoint
const DefaultBaseURL = "https://pypi.org"

// Client queries the JSON API of a package index
type Client struct {
	baseURL    string
	httpClient *http.Client
	attempts   uint
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at a different index (mirrors, tests)
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithAttempts sets how many times transient failures are retried
func WithAttempts(n uint) Option {
	return func(c *Client) {
		c.attempts = n
	}
}

// NewClient creates a Client for the public index
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		attempts:   3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// response mirrors the JSON API shape we consume
type response struct {
	Info struct {
		Name              string            `json:"name"`
		Version           string            `json:"version"`
		Summary           string            `json:"summary"`
		Keywords          string            `json:"keywords"`
		Classifiers       []string          `json:"classifiers"`
		License           string            `json:"license"`
		LicenseExpression string            `json:"license_expression"`
		HomePage          string            `json:"home_page"`
		ProjectURLs       map[string]string `json:"project_urls"`
		RequiresDist      []string          `json:"requires_dist"`
	} `json:"info"`
	URLs []struct {
		Filename    string `json:"filename"`
		PackageType string `json:"packagetype"`
		Size        int64  `json:"size"`
		URL         string `json:"url"`
		Digests     struct {
			SHA256 string `json:"sha256"`
		} `json:"digests"`
	} `json:"urls"`
}

// Fetch retrieves the metadata snapshot for a package. An empty version
// resolves to the latest published release. Missing packages or versions
// surface as a MetadataUnavailable error wrapping models.ErrNotFound; they
// are never silently defaulted.
func (c *Client) Fetch(ctx context.Context, name, version string) (*models.PackageMetadata, error) {
	if name == "" {
		return nil, &models.PipscoutError{
			Type: models.ErrMalformedMetadata,
			Err:  models.ErrMissingName,
		}
	}

	url := fmt.Sprintf("%s/pypi/%s/json", c.baseURL, name)
	if version != "" {
		url = fmt.Sprintf("%s/pypi/%s/%s/json", c.baseURL, name, version)
	}
	logrus.Debugf("Fetching metadata: %s", url)

	var body []byte
	err := retry.Do(
		func() error {
			data, err := c.get(ctx, url)
			if err != nil {
				return err
			}
			body = data
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(isRetryable),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logrus.Debugf("Retrying metadata fetch (attempt %d): %v", n+1, err)
		}),
	)
	if err != nil {
		if models.IsNotFound(err) {
			return nil, &models.PipscoutError{
				Type:    models.ErrMetadataUnavailable,
				Package: name,
				Err:     models.ErrNotFound,
			}
		}
		return nil, &models.PipscoutError{
			Type:    models.ErrMetadataUnavailable,
			Package: name,
			Err:     err,
		}
	}

	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &models.PipscoutError{
			Type:    models.ErrMalformedMetadata,
			Package: name,
			Err:     errors.Wrap(err, "failed to decode index response"),
		}
	}

	meta := mapResponse(&resp)
	if err := meta.Validate(); err != nil {
		return nil, err
	}
	return meta, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return io.ReadAll(resp.Body)
	case resp.StatusCode == http.StatusNotFound:
		return nil, models.ErrNotFound
	default:
		return nil, &statusError{code: resp.StatusCode}
	}
}

// statusError carries a non-2xx index response for retry classification
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("index returned %d", e.code)
}

func (e *statusError) retryable() bool {
	return e.code >= 500 || e.code == http.StatusTooManyRequests
}

// isRetryable keeps 404s and other client errors out of the retry loop;
// transport errors and server-side failures are worth another attempt.
func isRetryable(err error) bool {
	if models.IsNotFound(err) {
		return false
	}
	var status *statusError
	if errors.As(err, &status) {
		return status.retryable()
	}
	return true
}

// mapResponse converts the raw API shape into a PackageMetadata snapshot
func mapResponse(resp *response) *models.PackageMetadata {
	meta := &models.PackageMetadata{
		Name:              resp.Info.Name,
		Version:           resp.Info.Version,
		Summary:           resp.Info.Summary,
		Keywords:          splitKeywords(resp.Info.Keywords),
		Classifiers:       resp.Info.Classifiers,
		License:           resp.Info.License,
		LicenseExpression: resp.Info.LicenseExpression,
		HomePage:          resp.Info.HomePage,
		ProjectURLs:       resp.Info.ProjectURLs,
	}

	for _, req := range resp.Info.RequiresDist {
		if dep, ok := parseRequirement(req); ok {
			meta.Dependencies = append(meta.Dependencies, dep)
		}
	}

	for _, u := range resp.URLs {
		artifact := models.Artifact{
			Filename:  u.Filename,
			Size:      u.Size,
			URL:       u.URL,
			SHA256Sum: u.Digests.SHA256,
		}
		switch u.PackageType {
		case "sdist":
			artifact.Kind = models.KindSdist
		case "bdist_wheel":
			artifact.Kind = models.KindWheel
			artifact.PlatformTag = wheelPlatformTag(u.Filename)
		default:
			artifact.Kind = models.KindUnknown
		}
		meta.Artifacts = append(meta.Artifacts, artifact)
	}

	return meta
}

// splitKeywords handles both comma- and space-separated keyword strings
func splitKeywords(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	sep := " "
	if strings.Contains(raw, ",") {
		sep = ","
	}
	var keywords []string
	for _, kw := range strings.Split(raw, sep) {
		kw = strings.TrimSpace(kw)
		if kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

// parseRequirement splits a requires_dist entry into name and constraint.
// Environment-marker-only entries (e.g. extras) still carry their name.
func parseRequirement(raw string) (models.Dependency, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.Dependency{}, false
	}

	// Strip environment markers
	if idx := strings.Index(raw, ";"); idx >= 0 {
		raw = strings.TrimSpace(raw[:idx])
	}
	if raw == "" {
		return models.Dependency{}, false
	}

	// Name ends at the first specifier, extras bracket or space
	nameEnd := len(raw)
	for i, r := range raw {
		if strings.ContainsRune("><=!~([ ", r) {
			nameEnd = i
			break
		}
	}

	name := strings.TrimSpace(raw[:nameEnd])
	if name == "" {
		return models.Dependency{}, false
	}
	constraint := strings.TrimSpace(raw[nameEnd:])
	constraint = strings.TrimPrefix(constraint, "(")
	constraint = strings.TrimSuffix(constraint, ")")

	return models.Dependency{Name: name, Constraint: constraint}, true
}

// wheelPlatformTag extracts the platform tag from a wheel filename:
// name-version(-build)?-python-abi-platform.whl. Unparseable names yield an
// empty tag, which counts as neither universal nor platform-specific.
func wheelPlatformTag(filename string) string {
	base := strings.TrimSuffix(filename, ".whl")
	if base == filename {
		return ""
	}
	parts := strings.Split(base, "-")
	if len(parts) < 5 {
		return ""
	}
	return parts[len(parts)-1]
}
