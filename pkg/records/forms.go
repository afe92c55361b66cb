package records

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/goliatone/go-formadmin/pkg/model"
	"github.com/goliatone/go-formadmin/pkg/remote"
	"github.com/goliatone/go-formadmin/pkg/submission"
)

// ErrUnknownForm is returned by Lookup for names outside the catalogue.
var ErrUnknownForm = errors.New("records: unknown form")

// Catalogue binds every form to a set of endpoints.
type Catalogue struct {
	endpoints remote.Endpoints
	forms     []submission.Definition
}

// NewCatalogue builds the form catalogue against endpoints.
func NewCatalogue(endpoints remote.Endpoints) *Catalogue {
	c := &Catalogue{endpoints: endpoints}
	c.forms = []submission.Definition{
		{
			Name:           FormAddUser,
			Title:          "Add user",
			Flow:           submission.FlowCreate,
			Spec:           AddUserSpec(),
			Method:         http.MethodPost,
			Endpoint:       c.path(remote.KindUsers, "add-users"),
			Serialize:      SerializeUser,
			SuccessMessage: fixed("User added successfully!"),
			FailurePrefix:  "Error: ",
		},
		{
			Name:           FormUpdateUserDetails,
			Title:          "Update user details",
			Flow:           submission.FlowUpdate,
			Spec:           UpdateUserDetailsSpec(),
			Method:         http.MethodPost,
			Endpoint:       c.path(remote.KindUserDetails, "update-user-details"),
			Serialize:      SerializeUserDetails,
			SuccessMessage: fixed("Updated successfully."),
			FailurePrefix:  "Update failed: ",
		},
		{
			Name:           FormAddMentor,
			Title:          "Add mentor",
			Flow:           submission.FlowCreate,
			Spec:           AddMentorSpec(),
			Method:         http.MethodPost,
			Endpoint:       c.path(remote.KindMentors, "add-mentor"),
			Serialize:      SerializeMentor,
			SuccessMessage: fixed("Mentor added successfully"),
			FailurePrefix:  "Error: ",
		},
		{
			Name:           FormAddQuestion,
			Title:          "Add coding question",
			Flow:           submission.FlowCreate,
			Spec:           AddQuestionSpec(),
			Method:         http.MethodPost,
			Endpoint:       c.path(remote.KindQuestions, "add-coding-question"),
			Serialize:      SerializeQuestion,
			SuccessMessage: fixed("Question added"),
			FailurePrefix:  "Failed to add question: ",
		},
		{
			Name:           FormAddJob,
			Title:          "Add job",
			Flow:           submission.FlowCreate,
			Spec:           AddJobSpec(),
			Method:         http.MethodPost,
			Endpoint:       c.path(remote.KindJobs, "add-jobs"),
			Serialize:      SerializeJob,
			SuccessMessage: fixed("Job added successfully"),
			FailurePrefix:  "Failed to add job: ",
		},
		{
			Name:           FormAddAnnouncement,
			Title:          "Add announcement",
			Flow:           submission.FlowCreate,
			Spec:           AddAnnouncementSpec(),
			Method:         http.MethodPost,
			Endpoint:       c.path(remote.KindAnnouncements, "add-announcements"),
			Serialize:      SerializeAnnouncement,
			SuccessMessage: fixed("Announcement added successfully!"),
			FailurePrefix:  "Failed to add announcement: ",
		},
		{
			Name:     FormDeleteJob,
			Title:    "Delete job",
			Flow:     submission.FlowDelete,
			Spec:     DeleteJobSpec(),
			Method:   http.MethodDelete,
			Endpoint: c.idPath(remote.KindJobs, "delete-jobs"),
			SuccessMessage: func(values model.Values) string {
				return fmt.Sprintf("Deleted job %s", field(values, "id"))
			},
			FailurePrefix: "Failed to delete job: ",
			ConfirmMessage: func(values model.Values) string {
				return fmt.Sprintf("Permanently delete job with ID %q?", field(values, "id"))
			},
		},
		{
			Name:     FormDeleteAnnouncement,
			Title:    "Delete announcement",
			Flow:     submission.FlowDelete,
			Spec:     DeleteAnnouncementSpec(),
			Method:   http.MethodDelete,
			Endpoint: c.idPath(remote.KindAnnouncements, "delete-announcements"),
			SuccessMessage: func(values model.Values) string {
				return fmt.Sprintf("Announcement with ID %s deleted successfully.", field(values, "id"))
			},
			FailurePrefix: "Failed to delete announcement: ",
			ConfirmMessage: func(values model.Values) string {
				return fmt.Sprintf("Permanently delete announcement with ID %q?", field(values, "id"))
			},
		},
	}
	return c
}

// Forms returns every definition in catalogue order.
func (c *Catalogue) Forms() []submission.Definition {
	out := make([]submission.Definition, len(c.forms))
	copy(out, c.forms)
	return out
}

// Lookup returns the definition named name.
func (c *Catalogue) Lookup(name string) (submission.Definition, error) {
	for _, def := range c.forms {
		if def.Name == name {
			return def, nil
		}
	}
	return submission.Definition{}, fmt.Errorf("%w: %q", ErrUnknownForm, name)
}

// Endpoints returns the endpoints the catalogue was built with.
func (c *Catalogue) Endpoints() remote.Endpoints {
	return c.endpoints
}

func (c *Catalogue) path(kind remote.Kind, segment string) submission.EndpointFunc {
	return func(model.Values) (string, error) {
		return c.endpoints.URL(kind, segment)
	}
}

func (c *Catalogue) idPath(kind remote.Kind, segment string) submission.EndpointFunc {
	return func(values model.Values) (string, error) {
		id := field(values, "id")
		if id == "" {
			return "", fmt.Errorf("%w: id is required", ErrInvalidPayload)
		}
		return c.endpoints.URL(kind, segment, id)
	}
}

func fixed(msg string) submission.MessageFunc {
	return func(model.Values) string { return msg }
}
