package remote

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Kind identifies a record collection. Each kind is served from its own base
// URL.
type Kind string

const (
	KindUsers         Kind = "users"
	KindUserDetails   Kind = "user_details"
	KindMentors       Kind = "mentors"
	KindQuestions     Kind = "questions"
	KindJobs          Kind = "jobs"
	KindAnnouncements Kind = "announcements"
)

// Kinds lists every record kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindUsers, KindUserDetails, KindMentors, KindQuestions, KindJobs, KindAnnouncements}
}

// ErrUnknownKind is returned for kinds without a configured base URL.
var ErrUnknownKind = errors.New("remote: unknown record kind")

// ErrInvalidSegment is returned for path segments that are empty or would
// be resolved as dot segments.
var ErrInvalidSegment = errors.New("remote: invalid path segment")

// Endpoints holds one base URL per record kind. It replaces module-level
// URL constants: each client is handed its own copy.
type Endpoints struct {
	Users         string `yaml:"users" json:"users"`
	UserDetails   string `yaml:"user_details" json:"user_details"`
	Mentors       string `yaml:"mentors" json:"mentors"`
	Questions     string `yaml:"questions" json:"questions"`
	Jobs          string `yaml:"jobs" json:"jobs"`
	Announcements string `yaml:"announcements" json:"announcements"`
}

// DefaultEndpoints returns the hosted backends the console was built against.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Users:         "https://learnowback.onrender.com",
		UserDetails:   "https://learnowbackend2.onrender.com",
		Mentors:       "https://learnowback.onrender.com",
		Questions:     "https://learnowback.onrender.com",
		Jobs:          "https://learnowbackmongo.onrender.com",
		Announcements: "https://learnowback.onrender.com",
	}
}

// BaseURL returns the base URL configured for kind.
func (e Endpoints) BaseURL(kind Kind) (string, error) {
	var base string
	switch kind {
	case KindUsers:
		base = e.Users
	case KindUserDetails:
		base = e.UserDetails
	case KindMentors:
		base = e.Mentors
	case KindQuestions:
		base = e.Questions
	case KindJobs:
		base = e.Jobs
	case KindAnnouncements:
		base = e.Announcements
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	base = strings.TrimSpace(base)
	if base == "" {
		return "", fmt.Errorf("remote: no base url configured for %q", kind)
	}
	return base, nil
}

// Set overrides the base URL for kind.
func (e *Endpoints) Set(kind Kind, base string) error {
	switch kind {
	case KindUsers:
		e.Users = base
	case KindUserDetails:
		e.UserDetails = base
	case KindMentors:
		e.Mentors = base
	case KindQuestions:
		e.Questions = base
	case KindJobs:
		e.Jobs = base
	case KindAnnouncements:
		e.Announcements = base
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return nil
}

// URL joins the kind's base URL with path segments. Segments are escaped,
// so ids containing slashes stay a single segment. Empty, "." and ".."
// segments are rejected.
func (e Endpoints) URL(kind Kind, segments ...string) (string, error) {
	base, err := e.BaseURL(kind)
	if err != nil {
		return "", err
	}
	escaped := make([]string, 0, len(segments))
	for _, segment := range segments {
		switch segment {
		case "", ".", "..":
			return "", fmt.Errorf("%w: %q", ErrInvalidSegment, segment)
		}
		escaped = append(escaped, url.PathEscape(segment))
	}
	joined, err := url.JoinPath(base, escaped...)
	if err != nil {
		return "", fmt.Errorf("remote: join %q: %w", base, err)
	}
	return joined, nil
}

// Validate checks every base URL is an absolute http(s) URL.
func (e Endpoints) Validate() error {
	for _, kind := range Kinds() {
		base, err := e.BaseURL(kind)
		if err != nil {
			return err
		}
		u, err := url.Parse(base)
		if err != nil {
			return fmt.Errorf("remote: %s base url: %w", kind, err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("remote: %s base url %q must be an absolute http(s) url", kind, base)
		}
	}
	return nil
}
