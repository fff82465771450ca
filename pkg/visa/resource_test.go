package visa

import (
	"errors"
	"testing"
)

func TestParseResource(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Resource
	}{
		{
			name:  "full VISA form",
			input: "TCPIP0::192.168.1.50::5025::SOCKET",
			want:  Resource{Board: 0, Host: "192.168.1.50", Port: 5025},
		},
		{
			name:  "board number",
			input: "TCPIP2::pm100.lab.local::5025::SOCKET",
			want:  Resource{Board: 2, Host: "pm100.lab.local", Port: 5025},
		},
		{
			name:  "no board digits",
			input: "TCPIP::10.0.0.9::5000::SOCKET",
			want:  Resource{Board: 0, Host: "10.0.0.9", Port: 5000},
		},
		{
			name:  "port omitted",
			input: "TCPIP0::10.0.0.9::SOCKET",
			want:  Resource{Board: 0, Host: "10.0.0.9", Port: DefaultPort},
		},
		{
			name:  "lowercase socket",
			input: "tcpip0::10.0.0.9::5025::socket",
			want:  Resource{Board: 0, Host: "10.0.0.9", Port: 5025},
		},
		{
			name:  "bare dial address",
			input: "192.168.1.50:5025",
			want:  Resource{Board: 0, Host: "192.168.1.50", Port: 5025},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseResource(tt.input)
			if err != nil {
				t.Fatalf("ParseResource(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseResource(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseResourceInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "no port in bare form", input: "192.168.1.50"},
		{name: "not a socket resource", input: "TCPIP0::10.0.0.9::INSTR"},
		{name: "unsupported interface", input: "USB0::0x1313::0x8078::SOCKET"},
		{name: "empty host", input: "TCPIP0::::5025::SOCKET"},
		{name: "bad port", input: "TCPIP0::10.0.0.9::notaport::SOCKET"},
		{name: "too many fields", input: "TCPIP0::a::b::c::SOCKET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResource(tt.input)
			if !errors.Is(err, ErrInvalidResource) {
				t.Errorf("ParseResource(%q) error = %v, want ErrInvalidResource", tt.input, err)
			}
		})
	}
}

func TestResourceString(t *testing.T) {
	r := Resource{Board: 1, Host: "10.0.0.9", Port: 5025}
	want := "TCPIP1::10.0.0.9::5025::SOCKET"
	if got := r.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	// String output must parse back to the same resource.
	parsed, err := ParseResource(r.String())
	if err != nil {
		t.Fatalf("ParseResource(String()) error = %v", err)
	}
	if parsed != r {
		t.Errorf("round trip = %+v, want %+v", parsed, r)
	}
}

func TestResourceAddr(t *testing.T) {
	r := Resource{Host: "fe80::1", Port: 5025}
	if got, want := r.Addr(), "[fe80::1]:5025"; got != want {
		t.Errorf("Addr() = %q, want %q", got, want)
	}
}
