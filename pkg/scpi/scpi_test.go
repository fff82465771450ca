package scpi

import (
	"errors"
	"testing"
)

func TestOnOff(t *testing.T) {
	if got := OnOff(true); got != "ON" {
		t.Errorf("OnOff(true) = %q, want ON", got)
	}
	if got := OnOff(false); got != "OFF" {
		t.Errorf("OnOff(false) = %q, want OFF", got)
	}
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"1.234500E-03", 1.2345e-3},
		{"+9.910000E+01", 99.1},
		{"0", 0},
		{"  -3.5 \r", -3.5},
	}
	for _, tt := range tests {
		got, err := ParseFloat(tt.input)
		if err != nil {
			t.Errorf("ParseFloat(%q) error = %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFloat(%q) = %g, want %g", tt.input, got, tt.want)
		}
	}

	if _, err := ParseFloat("watts"); !errors.Is(err, ErrBadResponse) {
		t.Errorf("ParseFloat(watts) error = %v, want ErrBadResponse", err)
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"100", 100},
		{"+1.00000000E+02", 100},
		{"1", 1},
	}
	for _, tt := range tests {
		got, err := ParseInt(tt.input)
		if err != nil {
			t.Errorf("ParseInt(%q) error = %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseInt(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestParseBool(t *testing.T) {
	truthy := []string{"1", "ON", "on", " 1 "}
	for _, s := range truthy {
		got, err := ParseBool(s)
		if err != nil || !got {
			t.Errorf("ParseBool(%q) = %v, %v, want true", s, got, err)
		}
	}
	falsy := []string{"0", "OFF", "off"}
	for _, s := range falsy {
		got, err := ParseBool(s)
		if err != nil || got {
			t.Errorf("ParseBool(%q) = %v, %v, want false", s, got, err)
		}
	}
	if _, err := ParseBool("2"); !errors.Is(err, ErrBadResponse) {
		t.Errorf("ParseBool(2) error = %v, want ErrBadResponse", err)
	}
}

func TestParseError(t *testing.T) {
	e, err := ParseError(`-113,"Undefined header"`)
	if err != nil {
		t.Fatalf("ParseError failed: %v", err)
	}
	if e.Code != -113 || e.Message != "Undefined header" {
		t.Errorf("ParseError = %+v", e)
	}
	if e.IsNoError() {
		t.Error("IsNoError() = true for code -113")
	}

	noErr, err := ParseError(`0,"No error"`)
	if err != nil {
		t.Fatalf("ParseError failed: %v", err)
	}
	if !noErr.IsNoError() {
		t.Error("IsNoError() = false for code 0")
	}

	if _, err := ParseError("garbage"); !errors.Is(err, ErrBadResponse) {
		t.Errorf("ParseError(garbage) error = %v, want ErrBadResponse", err)
	}
}
