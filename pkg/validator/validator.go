package validator

import (
	"net/url"
	"path/filepath"
	"strings"
)

// ValidateURL reports whether videoURL is an absolute http(s) URL whose host
// is in allowedDomains. An empty allow list accepts any host.
func ValidateURL(videoURL string, allowedDomains []string) bool {
	u, err := url.Parse(strings.TrimSpace(videoURL))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}
	host = strings.TrimPrefix(host, "www.")

	active := 0
	for _, domain := range allowedDomains {
		cleanDomain := strings.ToLower(strings.TrimSpace(domain))
		if cleanDomain == "" {
			continue
		}
		active++

		if host == cleanDomain || strings.HasSuffix(host, "."+cleanDomain) {
			return true
		}
	}

	return active == 0
}

// ValidateFormatID validates a format selector token
func ValidateFormatID(formatID string, maxLen int) bool {
	if strings.TrimSpace(formatID) == "" {
		return false
	}
	if maxLen > 0 && len(formatID) > maxLen {
		return false
	}
	return !strings.ContainsAny(formatID, "\x00\n\r")
}

// IsSafeFilename reports whether name refers to an entry directly inside a
// directory, without separators or parent references.
func IsSafeFilename(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return false
	}
	return filepath.Base(name) == name
}
