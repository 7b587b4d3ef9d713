package pypi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipscout/pipscout/internal/models"
)

const fixtureJSON = `{
  "info": {
    "name": "cryptish",
    "version": "42.0.1",
    "summary": "Cryptographic recipes with Rust bindings",
    "keywords": "crypto,security",
    "classifiers": [
      "Programming Language :: Rust",
      "License :: OSI Approved :: Apache Software License"
    ],
    "license": "Apache-2.0",
    "license_expression": "",
    "home_page": "https://github.com/example/cryptish",
    "project_urls": {"Source": "https://github.com/example/cryptish"},
    "requires_dist": [
      "cffi>=1.12; platform_python_implementation != \"PyPy\"",
      "typing-extensions",
      "nox[uv]>=2024 ; extra == \"nox\"",
      ""
    ]
  },
  "urls": [
    {
      "filename": "cryptish-42.0.1.tar.gz",
      "packagetype": "sdist",
      "size": 100,
      "url": "https://files.example/cryptish-42.0.1.tar.gz",
      "digests": {"sha256": "aa"}
    },
    {
      "filename": "cryptish-42.0.1-cp312-abi3-manylinux_2_28_x86_64.whl",
      "packagetype": "bdist_wheel",
      "size": 200,
      "url": "https://files.example/cryptish.whl",
      "digests": {"sha256": "bb"}
    },
    {
      "filename": "cryptish-42.0.1-py3-none-any.whl",
      "packagetype": "bdist_wheel",
      "size": 300,
      "url": "https://files.example/cryptish-any.whl",
      "digests": {"sha256": "cc"}
    },
    {
      "filename": "cryptish-42.0.1.egg",
      "packagetype": "bdist_egg",
      "size": 400,
      "url": "https://files.example/cryptish.egg",
      "digests": {"sha256": "dd"}
    }
  ]
}`

func TestFetchMapsMetadata(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pypi/cryptish/json", r.URL.Path)
		w.Write([]byte(fixtureJSON))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	meta, err := client.Fetch(context.Background(), "cryptish", "")
	require.NoError(t, err)

	assert.Equal(t, "cryptish", meta.Name)
	assert.Equal(t, "42.0.1", meta.Version)
	assert.Equal(t, []string{"crypto", "security"}, meta.Keywords)
	assert.Equal(t, "Apache-2.0", meta.License)

	// Empty requires_dist entries drop; markers strip; names survive
	require.Len(t, meta.Dependencies, 3)
	assert.Equal(t, "cffi", meta.Dependencies[0].Name)
	assert.Equal(t, ">=1.12", meta.Dependencies[0].Constraint)
	assert.Equal(t, "typing-extensions", meta.Dependencies[1].Name)
	assert.Equal(t, "nox", meta.Dependencies[2].Name)

	require.Len(t, meta.Artifacts, 4)
	assert.Equal(t, models.KindSdist, meta.Artifacts[0].Kind)
	assert.Equal(t, models.KindWheel, meta.Artifacts[1].Kind)
	assert.Equal(t, "manylinux_2_28_x86_64", meta.Artifacts[1].PlatformTag)
	assert.True(t, meta.Artifacts[2].Universal())
	assert.Equal(t, models.KindUnknown, meta.Artifacts[3].Kind)

	assert.True(t, meta.HasSdist())
	assert.True(t, meta.HasUniversalArtifact())
}

func TestFetchVersionedURL(t *testing.T) {
	var path atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path.Store(r.URL.Path)
		w.Write([]byte(fixtureJSON))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	_, err := client.Fetch(context.Background(), "cryptish", "42.0.1")
	require.NoError(t, err)
	assert.Equal(t, "/pypi/cryptish/42.0.1/json", path.Load())
}

func TestFetchNotFound(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	_, err := client.Fetch(context.Background(), "does-not-exist", "")
	require.Error(t, err)
	assert.True(t, models.IsNotFound(err))

	var perr *models.PipscoutError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, models.ErrMetadataUnavailable, perr.Type)

	// 404 must not be retried
	assert.Equal(t, int32(1), hits.Load())
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(fixtureJSON))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithAttempts(3))
	meta, err := client.Fetch(context.Background(), "cryptish", "")
	require.NoError(t, err)
	assert.Equal(t, "cryptish", meta.Name)
	assert.Equal(t, int32(3), hits.Load())
}

func TestFetchClientErrorNotRetried(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithAttempts(3))
	_, err := client.Fetch(context.Background(), "cryptish", "")
	require.Error(t, err)
	assert.False(t, models.IsNotFound(err))
	assert.Contains(t, err.Error(), "403")

	// Non-404 client errors are permanent, no second attempt
	assert.Equal(t, int32(1), hits.Load())
}

func TestFetchExhaustedRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithAttempts(2))
	_, err := client.Fetch(context.Background(), "cryptish", "")
	require.Error(t, err)
	assert.False(t, models.IsNotFound(err))

	var perr *models.PipscoutError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, models.ErrMetadataUnavailable, perr.Type)
}

func TestFetchMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	_, err := client.Fetch(context.Background(), "cryptish", "")
	require.Error(t, err)

	var perr *models.PipscoutError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, models.ErrMalformedMetadata, perr.Type)
}

func TestFetchEmptyName(t *testing.T) {
	client := NewClient()
	_, err := client.Fetch(context.Background(), "", "")
	require.Error(t, err)

	var perr *models.PipscoutError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, models.ErrMalformedMetadata, perr.Type)
}

func TestWheelPlatformTag(t *testing.T) {
	cases := map[string]string{
		"pkg-1.0-py3-none-any.whl":                      "any",
		"pkg-1.0-cp312-cp312-manylinux_2_17_x86_64.whl": "manylinux_2_17_x86_64",
		"pkg-1.0-1-py3-none-win_amd64.whl":              "win_amd64",
		"pkg-1.0.tar.gz":                                "",
		"garbage.whl":                                   "",
	}
	for filename, expected := range cases {
		assert.Equal(t, expected, wheelPlatformTag(filename), filename)
	}
}
