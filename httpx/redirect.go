package httpx

import "strings"

// redirectMethod decides whether a 3xx reply to method is followed and with
// which verb. 302 keeps the verb, 303 switches to GET and 307 is followed
// only for verbs other than GET. Every other code is left to the caller.
func redirectMethod(code int, method string) (string, bool) {
	switch code {
	case 302:
		return method, true
	case 303:
		return "GET", true
	case 307:
		if method != "GET" {
			return method, true
		}
	}
	return "", false
}

// resolveLocation turns a Location value into an absolute URL. Anything not
// starting with an http scheme is taken as a path on base's origin.
func resolveLocation(base *URL, loc string) string {
	if hasPrefixFold(loc, "http:") || hasPrefixFold(loc, "https:") {
		return loc
	}
	if !strings.HasPrefix(loc, "/") {
		loc = "/" + loc
	}
	return base.Origin() + loc
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
