// Package scpi provides helpers for formatting SCPI parameters and
// parsing instrument responses.
package scpi

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadResponse indicates an instrument response that could not be parsed.
var ErrBadResponse = errors.New("bad instrument response")

// OnOff formats a boolean as the SCPI "ON"/"OFF" parameter form.
func OnOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}

// ParseFloat parses a numeric instrument response.
func ParseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrBadResponse, s)
	}
	return v, nil
}

// ParseInt parses an integer instrument response. Instruments commonly
// report integers in exponent form (e.g. "+1.00000000E+02"), so the
// value is parsed as a float and truncated.
func ParseInt(s string) (int, error) {
	v, err := ParseFloat(s)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// ParseBool parses a boolean instrument response. Accepts the numeric
// form ("0"/"1") and the keyword form ("ON"/"OFF") in any case.
func ParseBool(s string) (bool, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "1", "ON":
		return true, nil
	case "0", "OFF":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q is not a boolean", ErrBadResponse, s)
	}
}

// Error is one record from the instrument error queue (SYST:ERR?).
type Error struct {
	// Code is the SCPI error code; 0 means "No error".
	Code int

	// Message is the quoted error description.
	Message string
}

// Error implements the error interface.
func (e Error) Error() string {
	return fmt.Sprintf("instrument error %d: %s", e.Code, e.Message)
}

// IsNoError reports whether the record is the "No error" sentinel.
func (e Error) IsNoError() bool {
	return e.Code == 0
}

// ParseError parses a SYST:ERR? response of the form
//
//	-113,"Undefined header"
func ParseError(s string) (Error, error) {
	code, msg, found := strings.Cut(strings.TrimSpace(s), ",")
	if !found {
		return Error{}, fmt.Errorf("%w: %q is not an error record", ErrBadResponse, s)
	}
	n, err := strconv.Atoi(strings.TrimSpace(code))
	if err != nil {
		return Error{}, fmt.Errorf("%w: bad error code in %q", ErrBadResponse, s)
	}
	return Error{
		Code:    n,
		Message: strings.Trim(strings.TrimSpace(msg), `"`),
	}, nil
}
