package requirements

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultRawBaseURL serves the vLLM repository files by tag
const DefaultRawBaseURL = "https://raw.githubusercontent.com/vllm-project/vllm"

// Variant names a hardware target and the files that define its build
type Variant struct {
	Requirements []string
	Dockerfiles  []string
}

// Variants maps the supported hardware targets to their file sets
var Variants = map[string]Variant{
	"rocm": {
		Requirements: []string{"common.txt", "rocm.txt", "rocm-build.txt"},
		Dockerfiles:  []string{"docker/Dockerfile.rocm", "docker/Dockerfile.rocm_base"},
	},
	"cuda": {
		Requirements: []string{"common.txt", "cuda.txt"},
		Dockerfiles:  []string{"docker/Dockerfile"},
	},
	"cpu": {
		Requirements: []string{"common.txt", "cpu.txt", "cpu-build.txt"},
		Dockerfiles:  []string{"docker/Dockerfile.cpu"},
	},
	"tpu": {
		Requirements: []string{"common.txt", "tpu.txt"},
		Dockerfiles:  []string{"docker/Dockerfile.tpu"},
	},
	"xpu": {
		Requirements: []string{"common.txt", "xpu.txt"},
		Dockerfiles:  []string{"docker/Dockerfile.xpu"},
	},
}

// IsDockerfile reports whether a file path is compared as a Dockerfile
func IsDockerfile(name string) bool {
	return strings.HasPrefix(name, "docker/")
}

// Fetcher retrieves requirements files and Dockerfiles for release tags
type Fetcher struct {
	baseURL    string
	httpClient *http.Client
}

// NewFetcher creates a Fetcher against the public repository
func NewFetcher() *Fetcher {
	return NewFetcherWithBaseURL(DefaultRawBaseURL)
}

// NewFetcherWithBaseURL creates a Fetcher against a custom file host
func NewFetcherWithBaseURL(baseURL string) *Fetcher {
	return &Fetcher{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchFile retrieves one file for a release tag and splits it into lines.
// Dockerfiles live at their repository path; requirements files under
// requirements/.
func (f *Fetcher) FetchFile(ctx context.Context, tag, name string) ([]string, error) {
	var url string
	if IsDockerfile(name) {
		url = fmt.Sprintf("%s/%s/%s", f.baseURL, tag, name)
	} else {
		url = fmt.Sprintf("%s/%s/requirements/%s", f.baseURL, tag, name)
	}
	logrus.Debugf("Fetching %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch %s", name)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("%s@%s: status %d", name, tag, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", name)
	}
	return strings.Split(string(body), "\n"), nil
}
