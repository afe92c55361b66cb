package records

import (
	"strconv"

	"github.com/goliatone/go-formadmin/pkg/model"
)

// Form names.
const (
	FormAddUser            = "add-user"
	FormUpdateUserDetails  = "update-user-details"
	FormAddMentor          = "add-mentor"
	FormAddQuestion        = "add-question"
	FormAddJob             = "add-job"
	FormAddAnnouncement    = "add-announcement"
	FormDeleteJob          = "delete-job"
	FormDeleteAnnouncement = "delete-announcement"
)

// Difficulties are the accepted question difficulty levels.
var Difficulties = []string{"Easy", "Medium", "Hard"}

func required(name, label string, kind model.FieldKind, message string) model.Field {
	return model.Field{
		Name:            name,
		Label:           label,
		Kind:            kind,
		Required:        true,
		RequiredMessage: message,
	}
}

func minLength(field model.Field, n int, message string) model.Field {
	field.Validations = append(field.Validations, model.ValidationRule{
		Kind:   model.ValidationRuleMinLength,
		Params: map[string]string{"value": strconv.Itoa(n), "message": message},
	})
	return field
}

// pathID marks a field whose value becomes a URL path segment. Values made
// only of dots are rejected.
func pathID(field model.Field, message string) model.Field {
	field.Validations = append(field.Validations, model.ValidationRule{
		Kind:   model.ValidationRulePattern,
		Params: map[string]string{"pattern": `[^.]`, "message": message},
	})
	return field
}

func invalid(field model.Field, message string) model.Field {
	field.InvalidMessage = message
	return field
}

// AddUserSpec is the form for creating a platform user.
func AddUserSpec() model.FormSpec {
	password := minLength(required("password", "Password", model.FieldKindText, "Password is required."), 6,
		"Password must be at least 6 characters.")
	password.Secret = true
	return model.FormSpec{
		Name: FormAddUser,
		Fields: []model.Field{
			minLength(required("username", "Username", model.FieldKindText, "Username is required."), 3,
				"Username must be at least 3 characters."),
			password,
			required("mentorUsername", "Mentor username", model.FieldKindText, "Mentor username is required."),
		},
	}
}

// UpdateUserDetailsSpec is the profile form for an existing user.
func UpdateUserDetailsSpec() model.FormSpec {
	year := required("graduation_year", "Graduation year", model.FieldKindText, "Graduation year is required.")
	year.Placeholder = "2025"
	year.Validations = []model.ValidationRule{{
		Kind:   model.ValidationRulePattern,
		Params: map[string]string{"pattern": `^\d{4}$`, "message": "Enter a 4-digit year (e.g. 2025)."},
	}}
	return model.FormSpec{
		Name: FormUpdateUserDetails,
		Fields: []model.Field{
			required("username", "Username", model.FieldKindText, "Username is required."),
			required("full_name", "Full name", model.FieldKindText, "Full name is required."),
			required("address", "Address", model.FieldKindText, "Address is required."),
			required("phone", "Phone", model.FieldKindPhone, "Phone is required."),
			invalid(required("photo", "Photo URL", model.FieldKindURL, "Photo URL is required."),
				"Enter a valid URL for the photo."),
			required("highest_study", "Highest study", model.FieldKindText, "Highest study is required."),
			required("college", "College", model.FieldKindText, "College is required."),
			year,
			required("expertise", "Expertise", model.FieldKindText, "Expertise is required."),
		},
	}
}

// AddMentorSpec is the form for onboarding a mentor.
func AddMentorSpec() model.FormSpec {
	experience := required("experience", "Experience (years)", model.FieldKindNumber, "Experience (years) is required.")
	experience.Validations = []model.ValidationRule{{Kind: model.ValidationRuleMin, Params: map[string]string{"value": "0"}}}
	bio := required("bio", "Bio", model.FieldKindText, "Bio is required.")
	bio.Multiline = true
	return model.FormSpec{
		Name: FormAddMentor,
		Fields: []model.Field{
			required("username", "Username", model.FieldKindText, "Username is required."),
			required("name", "Name", model.FieldKindText, "Name is required."),
			required("phone", "Phone", model.FieldKindPhone, "Phone is required."),
			invalid(required("Photo", "Photo URL", model.FieldKindURL, "Photo URL is required."),
				"Photo must be a valid URL (http/https)."),
			required("expertise", "Expertise", model.FieldKindText, "Expertise is required."),
			experience,
			bio,
			invalid(required("linkedIn", "LinkedIn URL", model.FieldKindURL, "LinkedIn URL is required."),
				"LinkedIn must be a valid URL (http/https)."),
		},
	}
}

// AddQuestionSpec is the form for adding a coding question.
func AddQuestionSpec() model.FormSpec {
	difficulty := invalid(required("difficulty", "Difficulty", model.FieldKindEnum, "Choose a difficulty."),
		"Choose a difficulty.")
	difficulty.Options = Difficulties
	difficulty.Default = "Easy"
	return model.FormSpec{
		Name: FormAddQuestion,
		Fields: []model.Field{
			required("name", "Question name", model.FieldKindText, "Question name is required."),
			difficulty,
			required("link", "Link", model.FieldKindURL, "Link is required."),
		},
	}
}

// AddJobSpec is the job posting form. Every field is required.
func AddJobSpec() model.FormSpec {
	const msg = "This field is required."
	description := required("description", "Description", model.FieldKindText, msg)
	description.Multiline = true
	return model.FormSpec{
		Name: FormAddJob,
		Fields: []model.Field{
			required("id", "Job ID", model.FieldKindText, msg),
			required("company", "Company", model.FieldKindText, msg),
			required("role", "Role", model.FieldKindText, msg),
			required("link", "Apply link", model.FieldKindText, msg),
			required("ctc", "CTC", model.FieldKindText, msg),
			description,
			required("technologies", "Technologies", model.FieldKindText, msg),
			required("location", "Location", model.FieldKindText, msg),
			required("last_date", "Last date", model.FieldKindDate, msg),
		},
	}
}

// AddAnnouncementSpec is the announcement form. The link is optional.
func AddAnnouncementSpec() model.FormSpec {
	const msg = "Please fill in all required fields (*)"
	description := required("description", "Description", model.FieldKindText, msg)
	description.Multiline = true
	return model.FormSpec{
		Name: FormAddAnnouncement,
		Fields: []model.Field{
			required("id", "ID", model.FieldKindNumber, msg),
			required("title", "Title", model.FieldKindText, msg),
			description,
			required("date", "Date", model.FieldKindDate, msg),
			required("time", "Time", model.FieldKindTime, msg),
			required("duration", "Duration", model.FieldKindText, msg),
			{Name: "link", Label: "Link", Kind: model.FieldKindURL},
		},
	}
}

// DeleteJobSpec holds the single id field of the delete-job form.
func DeleteJobSpec() model.FormSpec {
	return model.FormSpec{
		Name: FormDeleteJob,
		Fields: []model.Field{pathID(required("id", "Job ID", model.FieldKindText, "Please enter a job ID."),
			"Please enter a valid job ID.")},
	}
}

// DeleteAnnouncementSpec holds the single id field of the
// delete-announcement form.
func DeleteAnnouncementSpec() model.FormSpec {
	return model.FormSpec{
		Name: FormDeleteAnnouncement,
		Fields: []model.Field{pathID(required("id", "Announcement ID", model.FieldKindText, "Please enter an announcement ID."),
			"Please enter a valid announcement ID.")},
	}
}
