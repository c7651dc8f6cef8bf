package httpx

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultPort is used when a URL names no port, whatever its scheme.
const DefaultPort = 80

// URL is the decomposed form of an absolute http URL. Nothing is
// percent-decoded and IPv6 literals are not recognised.
type URL struct {
	Scheme   string
	User     string
	Password string
	Host     string
	Port     int
	Path     string
}

// ParseURL splits raw into scheme, optional credentials, host, port and
// path. The path is everything from the first '/' after the authority and
// defaults to "/".
func ParseURL(raw string) (*URL, error) {
	i := strings.Index(raw, "://")
	if i <= 0 {
		return nil, fmt.Errorf("%w: %q has no scheme", ErrBadURL, raw)
	}
	u := &URL{Scheme: raw[:i], Port: DefaultPort, Path: "/"}
	rest := raw[i+3:]

	authority := rest
	if j := strings.IndexByte(rest, '/'); j >= 0 {
		authority = rest[:j]
		if p := rest[j:]; len(p) > 1 {
			u.Path = p
		}
	}
	if at := strings.LastIndexByte(authority, '@'); at >= 0 {
		cred := authority[:at]
		authority = authority[at+1:]
		if c := strings.IndexByte(cred, ':'); c >= 0 {
			u.User, u.Password = cred[:c], cred[c+1:]
		} else {
			u.User = cred
		}
	}
	if c := strings.IndexByte(authority, ':'); c >= 0 {
		port, err := strconv.Atoi(authority[c+1:])
		if err != nil || port <= 0 || port > 65535 {
			return nil, fmt.Errorf("%w: bad port in %q", ErrBadURL, raw)
		}
		u.Port = port
		authority = authority[:c]
	}
	if authority == "" {
		return nil, fmt.Errorf("%w: %q has no host", ErrBadURL, raw)
	}
	u.Host = authority
	return u, nil
}

// HostHeader is the value sent in the Host field: the bare host on the
// default port, host:port otherwise.
func (u *URL) HostHeader() string {
	if u.Port == DefaultPort {
		return u.Host
	}
	return u.Host + ":" + strconv.Itoa(u.Port)
}

// Origin is scheme://host:port with the port always present. Relative
// redirect locations are resolved against it.
func (u *URL) Origin() string {
	return u.Scheme + "://" + u.Host + ":" + strconv.Itoa(u.Port)
}

// String rebuilds the URL without credentials. It is also the request
// target sent to a proxy.
func (u *URL) String() string {
	return u.Scheme + "://" + u.HostHeader() + u.Path
}

func (u *URL) sameEndpoint(o *URL) bool {
	return strings.EqualFold(u.Host, o.Host) && u.Port == o.Port
}
