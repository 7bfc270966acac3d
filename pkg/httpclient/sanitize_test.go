package httpclient

import (
	"net/url"
	"strings"
	"testing"
)

func TestSanitizeURL(t *testing.T) {
	tests := []struct {
		name     string
		rawURL   string
		want     []string // substrings that must appear
		redacted []string // values that must not appear
	}{
		{
			name:     "redacts access_token",
			rawURL:   "https://api.github.com/user/repos?access_token=ghp_secret123&per_page=30",
			want:     []string{"access_token=%5BREDACTED%5D", "per_page=30"},
			redacted: []string{"ghp_secret123"},
		},
		{
			name:     "redacts client_secret",
			rawURL:   "https://github.com/login/oauth/access_token?client_secret=abc",
			want:     []string{"%5BREDACTED%5D"},
			redacted: []string{"abc"},
		},
		{
			name:   "leaves normal params",
			rawURL: "https://api.github.com/repos/o/r/issues?state=open&labels=bug",
			want:   []string{"state=open", "labels=bug"},
		},
		{
			name:     "case insensitive match",
			rawURL:   "https://example.com/?TOKEN=topsecret",
			redacted: []string{"topsecret"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.rawURL)
			if err != nil {
				t.Fatalf("failed to parse URL: %v", err)
			}

			got := sanitizeURL(u)

			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("sanitizeURL() = %q, missing %q", got, w)
				}
			}
			for _, r := range tt.redacted {
				if strings.Contains(got, r) {
					t.Errorf("sanitizeURL() = %q, leaked %q", got, r)
				}
			}
		})
	}
}

func TestSanitizeURL_Nil(t *testing.T) {
	if got := sanitizeURL(nil); got != "" {
		t.Errorf("sanitizeURL(nil) = %q, want empty", got)
	}
}
