package utils

import "net/url"

// IsValidURL reports whether raw is an absolute http(s) URL with a host
func IsValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
