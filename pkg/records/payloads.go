package records

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formadmin/pkg/model"
	"github.com/goliatone/go-formadmin/pkg/validation"
)

// ErrInvalidPayload is returned when values cannot be coerced into a wire
// payload.
var ErrInvalidPayload = errors.New("records: invalid payload")

// UserPayload is the body of POST /add-users.
type UserPayload struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	MentorUsername string `json:"mentor_username"`
}

// UserDetailsPayload is the body of POST /update-user-details.
type UserDetailsPayload struct {
	Username       string `json:"username"`
	FullName       string `json:"full_name"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`
	Photo          string `json:"photo"`
	HighestStudy   string `json:"highest_study"`
	College        string `json:"college"`
	GraduationYear string `json:"graduation_year"`
	Expertise      string `json:"expertise"`
}

// MentorPayload is the body of POST /add-mentor. Experience travels as a
// JSON number.
type MentorPayload struct {
	Username   string  `json:"username"`
	Name       string  `json:"name"`
	Phone      string  `json:"phone"`
	Photo      string  `json:"Photo"`
	Expertise  string  `json:"expertise"`
	Experience float64 `json:"experience"`
	Bio        string  `json:"bio"`
	LinkedIn   string  `json:"linkedIn"`
}

// QuestionPayload is the body of POST /add-coding-question.
type QuestionPayload struct {
	Name       string `json:"name"`
	Difficulty string `json:"difficulty"`
	Link       string `json:"link"`
}

// JobPayload is the body of POST /add-jobs.
type JobPayload struct {
	ID           string `json:"id"`
	Company      string `json:"company"`
	Role         string `json:"role"`
	Link         string `json:"link"`
	CTC          string `json:"ctc"`
	Description  string `json:"description"`
	Technologies string `json:"technologies"`
	Location     string `json:"location"`
	LastDate     string `json:"last_date"`
}

// AnnouncementPayload is the body of POST /add-announcements.
type AnnouncementPayload struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Duration    string `json:"duration"`
	Link        string `json:"link"`
}

// SerializeUser maps add-user values onto UserPayload.
func SerializeUser(values model.Values) (any, error) {
	return UserPayload{
		Username:       field(values, "username"),
		Password:       field(values, "password"),
		MentorUsername: field(values, "mentorUsername"),
	}, nil
}

// SerializeUserDetails maps update-user-details values onto
// UserDetailsPayload.
func SerializeUserDetails(values model.Values) (any, error) {
	return UserDetailsPayload{
		Username:       field(values, "username"),
		FullName:       field(values, "full_name"),
		Address:        field(values, "address"),
		Phone:          field(values, "phone"),
		Photo:          field(values, "photo"),
		HighestStudy:   field(values, "highest_study"),
		College:        field(values, "college"),
		GraduationYear: field(values, "graduation_year"),
		Expertise:      field(values, "expertise"),
	}, nil
}

// SerializeMentor maps add-mentor values onto MentorPayload, coercing
// experience to a number.
func SerializeMentor(values model.Values) (any, error) {
	experience, ok := validation.ParseNumber(field(values, "experience"))
	if !ok || experience < 0 {
		return nil, fmt.Errorf("%w: experience %q is not a non-negative number", ErrInvalidPayload, values["experience"])
	}
	return MentorPayload{
		Username:   field(values, "username"),
		Name:       field(values, "name"),
		Phone:      field(values, "phone"),
		Photo:      field(values, "Photo"),
		Expertise:  field(values, "expertise"),
		Experience: experience,
		Bio:        field(values, "bio"),
		LinkedIn:   field(values, "linkedIn"),
	}, nil
}

// SerializeQuestion maps add-question values onto QuestionPayload.
func SerializeQuestion(values model.Values) (any, error) {
	return QuestionPayload{
		Name:       field(values, "name"),
		Difficulty: field(values, "difficulty"),
		Link:       field(values, "link"),
	}, nil
}

// SerializeJob maps add-job values onto JobPayload.
func SerializeJob(values model.Values) (any, error) {
	return JobPayload{
		ID:           field(values, "id"),
		Company:      field(values, "company"),
		Role:         field(values, "role"),
		Link:         field(values, "link"),
		CTC:          field(values, "ctc"),
		Description:  field(values, "description"),
		Technologies: field(values, "technologies"),
		Location:     field(values, "location"),
		LastDate:     field(values, "last_date"),
	}, nil
}

// SerializeAnnouncement maps add-announcement values onto
// AnnouncementPayload.
func SerializeAnnouncement(values model.Values) (any, error) {
	if _, ok := validation.ParseNumber(field(values, "id")); !ok {
		return nil, fmt.Errorf("%w: announcement id %q is not a number", ErrInvalidPayload, values["id"])
	}
	return AnnouncementPayload{
		ID:          field(values, "id"),
		Title:       field(values, "title"),
		Description: field(values, "description"),
		Date:        field(values, "date"),
		Time:        field(values, "time"),
		Duration:    field(values, "duration"),
		Link:        field(values, "link"),
	}, nil
}

func field(values model.Values, name string) string {
	return strings.TrimSpace(values[name])
}
