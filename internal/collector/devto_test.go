package collector

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techhubafrica/tech-news-tips/internal/category"
)

const devToFixture = `<html><body>
<div class="crayons-story">
  <h2 class="crayons-story__title"><a href="/ama/fresh-eyes-1a2b">Debugging with fresh eyes</a></h2>
  <div class="crayons-story__meta"><a href="/ama">ama</a><a href="/t/debugging">#debugging</a></div>
  <div class="crayons-story__snippet">Step away from the desk.</div>
</div>
<div class="crayons-story">
  <h2 class="crayons-story__title"><a href="https://elsewhere.example/post">Absolute link post</a></h2>
  <div class="crayons-story__meta"><a href="/kofi">kofi</a></div>
  <div class="crayons-story__snippet">Already absolute.</div>
</div>
<div class="crayons-story">
  <h2 class="crayons-story__title">No link here</h2>
  <div class="crayons-story__snippet">Should be skipped.</div>
</div>
</body></html>`

func TestDevToSourceFetchExtractsStories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only the tag page exists; the search page fails, which the
		// adapter must tolerate.
		if r.URL.Path != "/t/ghana" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(devToFixture))
	}))
	defer srv.Close()

	src, err := NewDevToSource(srv.URL, "TechTipsBot/1.0", nil)
	require.NoError(t, err)

	tips, err := src.Fetch(category.Ghana)
	require.NoError(t, err)

	// The block without a resolvable link is excluded.
	require.Len(t, tips, 2)

	first := tips[0]
	assert.Equal(t, "Debugging with fresh eyes", first.Title)
	assert.Equal(t, "Step away from the desk.", first.Content)
	assert.Equal(t, "ama", first.Author)
	assert.Equal(t, srv.URL+"/ama/fresh-eyes-1a2b", first.URL)
	assert.Equal(t, devToSourceName, first.Source)
	assert.Equal(t, category.Ghana, first.Category)

	assert.Equal(t, "https://elsewhere.example/post", tips[1].URL)
}

func TestDevToSourceFetchAllPagesFailing(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	src, err := NewDevToSource(srv.URL, "TechTipsBot/1.0", nil)
	require.NoError(t, err)

	tips, err := src.Fetch(category.World)
	assert.Error(t, err)
	assert.Empty(t, tips)
}

func TestDevToSourceResolveLink(t *testing.T) {
	src, err := NewDevToSource("https://dev.to", "TechTipsBot/1.0", nil)
	require.NoError(t, err)

	assert.Equal(t, "https://dev.to/x/y", src.resolveLink("/x/y"))
	assert.Equal(t, "https://other.example/z", src.resolveLink("https://other.example/z"))
	assert.Equal(t, "", src.resolveLink(""))
	assert.Equal(t, "", src.resolveLink("   "))
}

func TestDevToSourceUnknownCategory(t *testing.T) {
	src, err := NewDevToSource("https://dev.to", "TechTipsBot/1.0", nil)
	require.NoError(t, err)

	_, err = src.Fetch("mars")
	assert.Error(t, err)
}
