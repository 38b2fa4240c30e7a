package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func realIPSeen(t *testing.T, trusted []string, remoteAddr string, headers map[string]string) string {
	t.Helper()
	var seen string
	h := TrustedRealIP(trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.RemoteAddr
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	h.ServeHTTP(httptest.NewRecorder(), req)
	return seen
}

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name       string
		trusted    []string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "real ip honored from trusted proxy",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "10.1.2.3:4567",
			headers:    map[string]string{"X-Real-IP": "203.0.113.7"},
			want:       "203.0.113.7",
		},
		{
			name:       "headers ignored from untrusted source",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "192.0.2.9:4567",
			headers:    map[string]string{"X-Real-IP": "203.0.113.7"},
			want:       "192.0.2.9:4567",
		},
		{
			name:       "forwarded chain uses first hop",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "10.1.2.3:4567",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7, 10.1.2.3"},
			want:       "203.0.113.7",
		},
		{
			name:       "single address entry trusts that host only",
			trusted:    []string{"127.0.0.1"},
			remoteAddr: "127.0.0.1:9999",
			headers:    map[string]string{"X-Real-IP": "203.0.113.7"},
			want:       "203.0.113.7",
		},
		{
			name:       "no trusted ranges keeps remote addr",
			trusted:    nil,
			remoteAddr: "10.1.2.3:4567",
			headers:    map[string]string{"X-Real-IP": "203.0.113.7"},
			want:       "10.1.2.3:4567",
		},
		{
			name:       "unparseable header value keeps remote addr",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "10.1.2.3:4567",
			headers:    map[string]string{"X-Real-IP": "not-an-ip"},
			want:       "10.1.2.3:4567",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := realIPSeen(t, tt.trusted, tt.remoteAddr, tt.headers)
			if got != tt.want {
				t.Errorf("RemoteAddr = %q, want %q", got, tt.want)
			}
		})
	}
}
