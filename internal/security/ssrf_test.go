package security

import (
	"errors"
	"net"
	"testing"

	"search-mcp/internal/domain"
)

func TestValidateURLSchemes(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"https allowed", "https://example.com/img.png", false},
		{"http allowed", "http://example.com/img.png", false},
		{"ftp blocked", "ftp://example.com/file", true},
		{"file blocked", "file:///etc/passwd", true},
		{"missing scheme", "example.com/img.png", true},
		{"empty host", "http://", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) err = %v, wantErr = %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURLPrivateIPs(t *testing.T) {
	blocked := []string{
		"http://127.0.0.1/img.png",
		"http://10.0.0.5/img.png",
		"http://192.168.1.1/img.png",
		"http://172.16.0.1/img.png",
		"http://169.254.169.254/latest/meta-data",
		"http://[::1]/img.png",
	}
	for _, u := range blocked {
		err := ValidateURL(u)
		if err == nil {
			t.Errorf("ValidateURL(%q) = nil, want SSRF block", u)
			continue
		}
		if !errors.Is(err, domain.ErrSSRFBlocked) {
			t.Errorf("ValidateURL(%q) = %v, want ErrSSRFBlocked", u, err)
		}
	}
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip   string
		want bool
	}{
		{"127.0.0.1", true},
		{"10.1.2.3", true},
		{"172.16.5.5", true},
		{"172.32.0.1", false},
		{"192.168.0.1", true},
		{"169.254.1.1", true},
		{"8.8.8.8", false},
		{"1.1.1.1", false},
		{"::1", true},
		{"fc00::1", true},
		{"2606:4700:4700::1111", false},
		{"::ffff:127.0.0.1", true}, // IPv4-mapped IPv6
	}
	for _, tt := range tests {
		ip := net.ParseIP(tt.ip)
		if ip == nil {
			t.Fatalf("bad test IP %q", tt.ip)
		}
		if got := IsPrivateIP(ip); got != tt.want {
			t.Errorf("IsPrivateIP(%s) = %v, want %v", tt.ip, got, tt.want)
		}
	}
}

func TestNewSafeTransport(t *testing.T) {
	tr := NewSafeTransport()
	if tr.DialContext == nil {
		t.Fatal("expected custom DialContext")
	}
}
