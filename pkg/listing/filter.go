package listing

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/goliatone/go-formadmin/pkg/records"
)

// MentorSort selects the mentor ordering.
type MentorSort string

const (
	SortByExperience  MentorSort = "experience"
	SortByJoiningDate MentorSort = "joining_date"
)

// ParseMentorSort validates a sort key. Empty means SortByExperience.
func ParseMentorSort(raw string) (MentorSort, error) {
	switch MentorSort(strings.TrimSpace(raw)) {
	case "", SortByExperience:
		return SortByExperience, nil
	case SortByJoiningDate:
		return SortByJoiningDate, nil
	default:
		return "", fmt.Errorf("listing: unknown mentor sort %q", raw)
	}
}

// FilterMentors keeps mentors whose name, username or expertise contains
// query, case-insensitively. A blank query keeps everything.
func FilterMentors(mentors []records.Mentor, query string) []records.Mentor {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return slices.Clone(mentors)
	}
	return lo.Filter(mentors, func(m records.Mentor, _ int) bool {
		return containsFold(m.Name, q) || containsFold(m.Username, q) || containsFold(m.Expertise, q)
	})
}

// SortMentors returns a sorted copy, most experienced or most recently
// joined first. Unparseable values sort as zero.
func SortMentors(mentors []records.Mentor, by MentorSort) []records.Mentor {
	out := slices.Clone(mentors)
	switch by {
	case SortByJoiningDate:
		slices.SortStableFunc(out, func(a, b records.Mentor) int {
			return parseDate(b.JoiningDate).Compare(parseDate(a.JoiningDate))
		})
	default:
		slices.SortStableFunc(out, func(a, b records.Mentor) int {
			switch {
			case b.Experience > a.Experience:
				return 1
			case b.Experience < a.Experience:
				return -1
			default:
				return 0
			}
		})
	}
	return out
}

// FilterJobs keeps jobs whose id contains query, case-insensitively.
func FilterJobs(jobs []records.Job, query string) []records.Job {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return slices.Clone(jobs)
	}
	return lo.Filter(jobs, func(j records.Job, _ int) bool {
		return containsFold(j.ID, q)
	})
}

func containsFold(value records.Text, lowered string) bool {
	return strings.Contains(strings.ToLower(string(value)), lowered)
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

func parseDate(value records.Text) time.Time {
	raw := strings.TrimSpace(string(value))
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// FormatDate renders an ISO timestamp as "2 Jan 2025", or returns the input
// unchanged when it does not parse.
func FormatDate(value string) string {
	t := parseDate(records.Text(value))
	if t.IsZero() {
		return value
	}
	return t.Format("2 Jan 2006")
}
