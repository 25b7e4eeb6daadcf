package adapter

import (
	"net/url"

	"github.com/google/uuid"
)

// looksLikeURL reports whether s parses as an absolute URL with a host, or
// as an opaque URI such as "androidapp://" or "mailto:".
func looksLikeURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return false
	}
	return u.Host != "" || u.Opaque != ""
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneUUID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
