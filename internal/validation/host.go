// Package validation holds input checks shared by services and handlers.
package validation

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// RegistrableDomain returns the eTLD+1 of host, or the bare host when it has
// none (IP addresses, localhost, single-label names).
func RegistrableDomain(host string) string {
	host = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(host)), ".")
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if host == "" || net.ParseIP(host) != nil {
		return host
	}
	etld1, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return etld1
}

// SameRegistrableDomain reports whether rawURL's host shares a registrable
// domain with allowedHost. An empty allowedHost allows everything.
func SameRegistrableDomain(rawURL, allowedHost string) bool {
	if strings.TrimSpace(allowedHost) == "" {
		return true
	}
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return false
	}
	return RegistrableDomain(u.Hostname()) == RegistrableDomain(allowedHost)
}
