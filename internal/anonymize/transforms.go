package anonymize

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	apperrors "github.com/plantwatch/privacy/internal/errors"
)

// hashPrefixLen is the number of keyed-hash hex characters kept in
// pseudonymized tokens.
const hashPrefixLen = 8

// emailTransform replaces the local part with a keyed-hash token and keeps the
// domain unchanged: "alice@example.com" becomes "user_1a2b3c4d@example.com".
func emailTransform(hasher Hasher) func(string) (string, error) {
	return func(value string) (string, error) {
		parts := strings.SplitN(value, "@", 2)
		token := "user_" + hasher.KeyedHash(parts[0])[:hashPrefixLen]
		if len(parts) == 1 {
			return token, nil
		}
		return token + "@" + parts[1], nil
	}
}

// phoneTransform strips non-digits; numbers with at least 10 digits keep the
// first and last 3 digits with the middle masked, shorter numbers are masked
// entirely.
func phoneTransform(value string) (string, error) {
	var digits strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	d := digits.String()
	if len(d) >= 10 {
		return d[:3] + strings.Repeat("*", len(d)-6) + d[len(d)-3:], nil
	}
	return strings.Repeat("*", len(d)), nil
}

// nameTransform replaces the whole value with a keyed-hash token.
func nameTransform(hasher Hasher) func(string) (string, error) {
	return func(value string) (string, error) {
		return "Person_" + hasher.KeyedHash(value)[:hashPrefixLen], nil
	}
}

// ipAddressTransform zeroes the host half of an IPv4 address, generalizing it
// to its /16 network: "203.0.113.7" becomes "203.0.0.0".
func ipAddressTransform(value string) (string, error) {
	octets := strings.Split(value, ".")
	if len(octets) != 4 {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "not an IPv4 address")
	}
	for _, octet := range octets {
		n, err := strconv.Atoi(octet)
		if err != nil || n < 0 || n > 255 {
			return "", apperrors.Wrap(apperrors.ErrInvalidInput, "not an IPv4 address")
		}
	}
	return octets[0] + "." + octets[1] + ".0.0", nil
}

// locationNoise is the maximum coordinate perturbation in degrees (~100 m).
const locationNoise = 0.001

// locationTransform parses a "lat,lon" pair and adds independent uniform noise
// to each coordinate. The original precision is discarded; output coordinates
// carry exactly six decimal places.
func locationTransform(value string) (string, error) {
	parts := strings.SplitN(value, ",", 2)
	if len(parts) != 2 {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "not a lat,lon pair")
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "invalid latitude")
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "invalid longitude")
	}

	lat += (rand.Float64()*2 - 1) * locationNoise
	lon += (rand.Float64()*2 - 1) * locationNoise

	return fmt.Sprintf("%.6f,%.6f", lat, lon), nil
}
