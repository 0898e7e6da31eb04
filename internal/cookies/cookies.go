// Package cookies loads a pre-supplied Netscape-format cookie file into an
// http.CookieJar. The engine never manages logins; the jar is consumed
// verbatim for every catalog request.
package cookies

import (
	"bufio"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

// NewJar returns an empty cookie jar suitable for an anonymous session.
func NewJar() (http.CookieJar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return jar, nil
}

// Load parses a Netscape cookie file and returns a jar populated with its
// cookies. A missing file surfaces as the underlying os error so callers can
// fall back to an anonymous session.
func Load(path string) (http.CookieJar, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	jar, err := NewJar()
	if err != nil {
		return nil, err
	}

	byDomain := make(map[string][]*http.Cookie)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		// Browser exports prefix HttpOnly cookies with a pseudo-comment.
		line = strings.TrimPrefix(line, "#HttpOnly_")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) < 7 {
			continue
		}
		domain := strings.TrimPrefix(parts[0], ".")
		cookie := &http.Cookie{
			Name:   parts[5],
			Value:  parts[6],
			Path:   parts[2],
			Domain: domain,
			Secure: strings.EqualFold(parts[3], "TRUE"),
		}
		if expires, err := strconv.ParseInt(parts[4], 10, 64); err == nil && expires > 0 {
			cookie.Expires = time.Unix(expires, 0)
		}
		byDomain[domain] = append(byDomain[domain], cookie)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read cookie file: %w", err)
	}

	for domain, cks := range byDomain {
		jar.SetCookies(&url.URL{Scheme: "https", Host: domain}, cks)
	}
	return jar, nil
}
