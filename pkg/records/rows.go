package records

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formadmin/pkg/remote"
)

// Collection describes one read endpoint.
type Collection struct {
	Name  string
	Title string
	Kind  remote.Kind
	Path  string
	// Single marks endpoints that may answer with one object instead of a
	// list.
	Single bool
}

// Collection names.
const (
	CollectionUsers         = "users"
	CollectionUserDetails   = "user-details"
	CollectionMentors       = "mentors"
	CollectionQuestions     = "questions"
	CollectionJobs          = "jobs"
	CollectionAnnouncements = "announcements"
)

// ErrUnknownCollection is returned by LookupCollection.
var ErrUnknownCollection = errors.New("records: unknown collection")

// Collections lists the read endpoints in menu order.
func Collections() []Collection {
	return []Collection{
		{Name: CollectionUsers, Title: "Users", Kind: remote.KindUsers, Path: "users"},
		{Name: CollectionUserDetails, Title: "User details", Kind: remote.KindUserDetails, Path: "user-details", Single: true},
		{Name: CollectionMentors, Title: "Mentors", Kind: remote.KindMentors, Path: "mentors-details"},
		{Name: CollectionQuestions, Title: "Coding questions", Kind: remote.KindQuestions, Path: "coding-questions"},
		{Name: CollectionJobs, Title: "Jobs", Kind: remote.KindJobs, Path: "jobs"},
		{Name: CollectionAnnouncements, Title: "Announcements", Kind: remote.KindAnnouncements, Path: "announcements"},
	}
}

// LookupCollection finds a collection by name.
func LookupCollection(name string) (Collection, error) {
	for _, c := range Collections() {
		if c.Name == name {
			return c, nil
		}
	}
	return Collection{}, fmt.Errorf("%w: %q", ErrUnknownCollection, name)
}

// URL resolves the collection against endpoints.
func (c Collection) URL(endpoints remote.Endpoints) (string, error) {
	return endpoints.URL(c.Kind, c.Path)
}

// Text accepts JSON strings and numbers, so ids stored either way decode the
// same.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	*t = Text(string(data))
	return nil
}

func (t Text) String() string { return string(t) }

// Number accepts JSON numbers and numeric strings. Anything else decodes to
// zero instead of failing the whole row.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	val, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = Number(val)
	return nil
}

// User is a row of GET /users.
type User struct {
	Username       Text `json:"username"`
	Password       Text `json:"password"`
	MentorUsername Text `json:"mentor_username"`
	Photo          Text `json:"photo"`
}

// UserDetails is a row of GET /user-details.
type UserDetails struct {
	Username       Text `json:"username"`
	FullName       Text `json:"full_name"`
	Address        Text `json:"address"`
	Phone          Text `json:"phone"`
	Photo          Text `json:"photo"`
	HighestStudy   Text `json:"highest_study"`
	College        Text `json:"college"`
	GraduationYear Text `json:"graduation_year"`
	Expertise      Text `json:"expertise"`
	JoinedDate     Text `json:"joined_date"`
}

// Mentor is a row of GET /mentors-details.
type Mentor struct {
	Username    Text   `json:"username"`
	Name        Text   `json:"name"`
	Phone       Text   `json:"phone"`
	Photo       Text   `json:"Photo"`
	Expertise   Text   `json:"expertise"`
	Experience  Number `json:"experience"`
	Bio         Text   `json:"bio"`
	LinkedIn    Text   `json:"linkedIn"`
	JoiningDate Text   `json:"joining_date"`
}

// Question is a row of GET /coding-questions.
type Question struct {
	ID         Text `json:"id"`
	Name       Text `json:"name"`
	Difficulty Text `json:"difficulty"`
	Link       Text `json:"link"`
}

// Job is a row of GET /jobs.
type Job struct {
	ID           Text `json:"id"`
	Company      Text `json:"company"`
	Role         Text `json:"role"`
	Link         Text `json:"link"`
	CTC          Text `json:"ctc"`
	Description  Text `json:"description"`
	Technologies Text `json:"technologies"`
	Location     Text `json:"location"`
	LastDate     Text `json:"last_date"`
}

// Announcement is a row of GET /announcements.
type Announcement struct {
	ID          Text `json:"id"`
	Title       Text `json:"title"`
	Description Text `json:"description"`
	Date        Text `json:"date"`
	Time        Text `json:"time"`
	Duration    Text `json:"duration"`
	Link        Text `json:"link"`
}
