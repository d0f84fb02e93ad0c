package utils

import (
	"net/http/httptest"
	"testing"
)

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"10.0.0.0/8", " 192.168.1.7 ", "not-an-ip", "", "2001:db8::/32"})

	if m.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", m.Len())
	}

	tests := []struct {
		ip   string
		want bool
	}{
		{"10.1.2.3", true},
		{"192.168.1.7", true},
		{"192.168.1.8", false},
		{"::ffff:10.9.9.9", true},
		{"2001:db8::1", true},
		{"garbage", false},
	}
	for _, tt := range tests {
		if got := m.Allow(tt.ip); got != tt.want {
			t.Errorf("Allow(%q) = %v, want %v", tt.ip, got, tt.want)
		}
	}

	if !NewIPMatcher(nil).IsEmpty() {
		t.Error("nil list should give an empty matcher")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remote     string
		trustProxy bool
		want       string
	}{
		{
			name:   "remote addr",
			remote: "203.0.113.5:4321",
			want:   "203.0.113.5",
		},
		{
			name:    "proxy headers ignored when untrusted",
			remote:  "127.0.0.1:1",
			headers: map[string]string{"X-Forwarded-For": "198.51.100.1"},
			want:    "127.0.0.1",
		},
		{
			name:       "first forwarded for",
			remote:     "127.0.0.1:1",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.1"},
			trustProxy: true,
			want:       "198.51.100.1",
		},
		{
			name:       "cloudflare header wins",
			remote:     "127.0.0.1:1",
			headers:    map[string]string{"CF-Connecting-IP": "198.51.100.9", "X-Real-IP": "198.51.100.2"},
			trustProxy: true,
			want:       "198.51.100.9",
		},
		{
			name:       "real ip fallback",
			remote:     "127.0.0.1:1",
			headers:    map[string]string{"X-Real-IP": "198.51.100.2"},
			trustProxy: true,
			want:       "198.51.100.2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
