package handler

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func contextFor(req *http.Request) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	return c
}

func TestBaseURI(t *testing.T) {
	cases := []struct {
		name    string
		headers map[string]string
		tls     bool
		want    string
	}{
		{
			name: "direct",
			want: "http://api.local:8080/rest",
		},
		{
			name: "direct over tls",
			tls:  true,
			want: "https://api.local:8080/rest",
		},
		{
			name: "forwarded with prefix",
			headers: map[string]string{
				"X-Forwarded-Host":   "faculty.acme.com",
				"X-Forwarded-Proto":  "https",
				"X-Forwarded-Prefix": "/api/",
			},
			want: "https://faculty.acme.com/api/rest",
		},
		{
			name: "forwarded uses default prefix",
			headers: map[string]string{
				"X-Forwarded-Host":  "faculty.acme.com, internal:80",
				"X-Forwarded-Proto": "https",
			},
			want: "https://faculty.acme.com/faculty/rest",
		},
		{
			name:    "forwarded without proto keeps request scheme",
			headers: map[string]string{"X-Forwarded-Host": "faculty.acme.com"},
			want:    "http://faculty.acme.com/faculty/rest",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "http://api.local:8080/rest", nil)
			if tc.tls {
				req.TLS = &tls.ConnectionState{}
			}
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tc.want, BaseURI(contextFor(req), "/rest", "/faculty"))
		})
	}
}

func TestParseETag(t *testing.T) {
	for in, want := range map[string]int{`"3"`: 3, `3`: 3, ` W/"12" `: 12, `"0"`: 0} {
		got, err := ParseETag(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{`"abc"`, `""`, `"-1"`, `*`} {
		_, err := ParseETag(in)
		assert.Error(t, err, in)
	}
}

func TestETagMatches(t *testing.T) {
	assert.True(t, etagMatches(`"1"`, ETag(1)))
	assert.True(t, etagMatches(`"0", W/"1"`, ETag(1)))
	assert.True(t, etagMatches(`*`, ETag(4)))
	assert.False(t, etagMatches(`"0"`, ETag(1)))
	assert.False(t, etagMatches(``, ETag(1)))
}
