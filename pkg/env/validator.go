package env

import (
	"net/url"
	"regexp"
)

var (
	privateKeyPattern = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)
	portPattern       = regexp.MustCompile(`^(102[4-9]|10[3-9][0-9]|1[1-9][0-9]{2}|[2-9][0-9]{3}|[1-5][0-9]{4}|6[0-4][0-9]{3}|65[0-4][0-9]{2}|655[0-2][0-9]|6553[0-5])$`)
)

// ECDSA Private Key, hex without 0x
func IsValidPrivateKey(privateKey string) bool {
	return privateKeyPattern.MatchString(privateKey)
}

// Port number in the unprivileged range
func IsValidPort(port string) bool {
	return portPattern.MatchString(port)
}

// IsValidURL accepts absolute http(s) URLs with a host.
func IsValidURL(rawURL string) bool {
	if rawURL == "" {
		return false
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return parsed.Host != ""
}
