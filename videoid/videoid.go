// Package videoid extracts YouTube video identifiers from pasted URLs.
package videoid

import (
	"errors"
	"net/url"
	"strings"
)

var ErrNotFound = errors.New("video id not found")

// Parse recognizes watch?v=ID, youtu.be/ID and /embed/ID links.
func Parse(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", ErrNotFound
	}

	if id := u.Query().Get("v"); id != "" {
		return id, nil
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	path := strings.Trim(u.Path, "/")

	if host == "youtu.be" {
		if id := firstSegment(path); id != "" {
			return id, nil
		}
		return "", ErrNotFound
	}

	if rest, ok := strings.CutPrefix(path, "embed/"); ok {
		if id := firstSegment(rest); id != "" {
			return id, nil
		}
	}

	return "", ErrNotFound
}

func firstSegment(p string) string {
	id, _, _ := strings.Cut(p, "/")
	return id
}
