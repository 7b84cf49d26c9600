package authority_test

import (
	"testing"

	"github.com/hyperifyio/searxquery/internal/authority"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want authority.Tier
	}{
		{"edu", "https://example.edu/paper", authority.Authoritative},
		{"gov", "https://www.cdc.gov/flu", authority.Authoritative},
		{"org", "https://en.wikipedia.org/wiki/Go", authority.Authoritative},
		{"uppercase host", "HTTPS://MIT.EDU/", authority.Authoritative},
		{"trailing dot", "https://nasa.gov./missions", authority.Authoritative},
		{"with port", "http://data.gov:8080/x", authority.Authoritative},
		{"allow-listed", "https://www.reuters.com/world/", authority.Authoritative},
		{"allow-listed subdomain", "https://news.bbc.co.uk/a", authority.Authoritative},
		{"commercial", "https://example.com/post", authority.Standard},
		{"suffix lookalike", "https://notreuters.com/", authority.Standard},
		{"edu in path only", "https://example.com/site.edu", authority.Standard},
		{"bare suffix", "https://.org/", authority.Standard},
		{"empty", "", authority.Standard},
		{"garbage", "::not a url::", authority.Standard},
		{"no host", "/relative/path.gov", authority.Standard},
		{"bare edu domain", "mit.edu/paper", authority.Authoritative},
		{"bare domain only", "www.nasa.gov", authority.Authoritative},
		{"bare allow-listed", "reuters.com/world", authority.Authoritative},
		{"bare commercial", "example.com/site.edu", authority.Standard},
		{"mailto", "mailto:someone@mit.edu", authority.Standard},
		{"control chars", "http://exa\x7fmple.edu", authority.Standard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, authority.Classify(tt.url))
		})
	}
}

func TestClassifier_CustomAllowlist(t *testing.T) {
	t.Parallel()

	c := authority.New([]string{" Example.COM ", "*.docs.rs", ""})

	assert.Equal(t, authority.Authoritative, c.Classify("https://example.com/a"))
	assert.Equal(t, authority.Authoritative, c.Classify("https://sub.docs.rs/tokio"))
	assert.Equal(t, authority.Standard, c.Classify("https://reuters.com/"), "default list is replaced, not merged")
	assert.Equal(t, authority.Authoritative, c.Classify("https://stanford.edu/"), "suffix rule applies regardless of list")
	assert.Equal(t, []string{"example.com", "docs.rs"}, c.Domains())
}

func TestClassifier_ZeroValue(t *testing.T) {
	t.Parallel()

	var c authority.Classifier
	assert.Equal(t, authority.Authoritative, c.Classify("https://ietf.org/rfc"))
	assert.Equal(t, authority.Standard, c.Classify("https://reuters.com/"))

	var nilClassifier *authority.Classifier
	assert.Equal(t, authority.Standard, nilClassifier.Classify("https://example.com"))
}

func TestClassify_Deterministic(t *testing.T) {
	t.Parallel()

	for _, u := range []string{"https://example.edu/x", "https://example.com/x", "%%%"} {
		first := authority.Classify(u)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, authority.Classify(u))
		}
	}
}

func TestTier_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "AUTHORITATIVE", authority.Authoritative.String())
	assert.Equal(t, "STANDARD", authority.Standard.String())
}
