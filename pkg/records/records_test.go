package records_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formadmin/pkg/model"
	"github.com/goliatone/go-formadmin/pkg/records"
	"github.com/goliatone/go-formadmin/pkg/remote"
	"github.com/goliatone/go-formadmin/pkg/submission"
	"github.com/goliatone/go-formadmin/pkg/validation"
)

func TestAddQuestionSpec_InitialValues(t *testing.T) {
	got := records.AddQuestionSpec().InitialValues()
	want := model.Values{"name": "", "difficulty": "Easy", "link": ""}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("initial values mismatch (-want +got):\n%s", diff)
	}
}

func TestSpecs_FieldMessages(t *testing.T) {
	errs := validation.Validate(records.AddUserSpec(), model.Values{
		"username":       "ab",
		"password":       "",
		"mentorUsername": "  ",
	})
	want := model.FieldErrors{
		"username":       "Username must be at least 3 characters.",
		"password":       "Password is required.",
		"mentorUsername": "Mentor username is required.",
	}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Fatalf("add-user errors mismatch (-want +got):\n%s", diff)
	}

	errs = validation.Validate(records.AddMentorSpec(), model.Values{
		"username":   "mentor1",
		"name":       "Ravi",
		"phone":      "+91 9652530489",
		"Photo":      "photo.png",
		"expertise":  "Go",
		"experience": "-2",
		"bio":        "Backend engineer",
		"linkedIn":   "https://linkedin.com/in/ravi",
	})
	want = model.FieldErrors{
		"Photo":      "Photo must be a valid URL (http/https).",
		"experience": "Enter a valid non-negative number.",
	}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Fatalf("add-mentor errors mismatch (-want +got):\n%s", diff)
	}
}

func TestAddAnnouncementSpec_LinkOptional(t *testing.T) {
	values := model.Values{
		"id":          "7",
		"title":       "Mock interviews",
		"description": "Weekly slots",
		"date":        "2025-01-10",
		"time":        "18:00",
		"duration":    "1h",
	}
	if errs := validation.Validate(records.AddAnnouncementSpec(), values); !errs.Empty() {
		t.Fatalf("expected no errors, got %v", errs)
	}
	values["link"] = "meet.example.com"
	errs := validation.Validate(records.AddAnnouncementSpec(), values)
	if errs["link"] == "" {
		t.Fatalf("expected link error for non-http value, got %v", errs)
	}
}

func TestSerializeUser_RenamesMentorUsername(t *testing.T) {
	payload, err := records.SerializeUser(model.Values{"username": " alice ", "password": "secret1", "mentorUsername": "bob"})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"username":"alice","password":"secret1","mentor_username":"bob"}`
	if string(raw) != want {
		t.Fatalf("payload = %s, want %s", raw, want)
	}
}

func TestSerializeMentor_ExperienceIsNumber(t *testing.T) {
	payload, err := records.SerializeMentor(model.Values{"experience": "4.5", "Photo": "https://x.com/p.png"})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	raw, _ := json.Marshal(payload)
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["experience"] != 4.5 {
		t.Fatalf("experience = %#v, want number 4.5", decoded["experience"])
	}
	if decoded["Photo"] != "https://x.com/p.png" {
		t.Fatalf("Photo = %#v", decoded["Photo"])
	}

	if _, err := records.SerializeMentor(model.Values{"experience": "many"}); !errors.Is(err, records.ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
}

func TestCatalogue_LookupAndEndpoints(t *testing.T) {
	endpoints := remote.DefaultEndpoints()
	if err := endpoints.Set(remote.KindJobs, "https://jobs.test"); err != nil {
		t.Fatalf("set: %v", err)
	}
	catalogue := records.NewCatalogue(endpoints)

	if got := len(catalogue.Forms()); got != 8 {
		t.Fatalf("expected 8 forms, got %d", got)
	}

	def, err := catalogue.Lookup(records.FormDeleteJob)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if def.Flow != submission.FlowDelete || def.ConfirmMessage == nil {
		t.Fatalf("delete-job should be a confirmed delete flow: %+v", def)
	}
	url, err := def.Endpoint(model.Values{"id": " 42 "})
	if err != nil {
		t.Fatalf("endpoint: %v", err)
	}
	if url != "https://jobs.test/delete-jobs/42" {
		t.Fatalf("url = %q", url)
	}
	if got := def.SuccessMessage(model.Values{"id": "42"}); got != "Deleted job 42" {
		t.Fatalf("success message = %q", got)
	}

	if _, err := catalogue.Lookup("add-course"); !errors.Is(err, records.ErrUnknownForm) {
		t.Fatalf("expected ErrUnknownForm, got %v", err)
	}
}

func TestDeleteForms_RejectDotIDs(t *testing.T) {
	catalogue := records.NewCatalogue(remote.DefaultEndpoints())

	for _, name := range []string{records.FormDeleteJob, records.FormDeleteAnnouncement} {
		def, err := catalogue.Lookup(name)
		if err != nil {
			t.Fatalf("lookup %s: %v", name, err)
		}
		for _, id := range []string{".", ".."} {
			if errs := validation.Validate(def.Spec, model.Values{"id": id}); errs["id"] == "" {
				t.Fatalf("%s: expected id %q to be rejected", name, id)
			}
			if _, err := def.Endpoint(model.Values{"id": id}); !errors.Is(err, remote.ErrInvalidSegment) {
				t.Fatalf("%s: expected ErrInvalidSegment for %q, got %v", name, id, err)
			}
		}
	}

	def, _ := catalogue.Lookup(records.FormDeleteJob)
	if errs := validation.Validate(def.Spec, model.Values{"id": ".."}); errs["id"] != "Please enter a valid job ID." {
		t.Fatalf("unexpected message %q", errs["id"])
	}
}

func TestRows_TolerantDecoding(t *testing.T) {
	var mentors []records.Mentor
	body := `[{"name":"A","experience":"7"},{"name":"B","experience":3},{"name":"C","experience":"n/a"}]`
	if err := json.Unmarshal([]byte(body), &mentors); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got := []records.Number{mentors[0].Experience, mentors[1].Experience, mentors[2].Experience}
	if diff := cmp.Diff([]records.Number{7, 3, 0}, got); diff != "" {
		t.Fatalf("experience mismatch (-want +got):\n%s", diff)
	}

	var jobs []records.Job
	if err := json.Unmarshal([]byte(`[{"id":101,"company":"Acme"},{"id":"J-7"}]`), &jobs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if jobs[0].ID != "101" || jobs[1].ID != "J-7" {
		t.Fatalf("ids = %q, %q", jobs[0].ID, jobs[1].ID)
	}
}

func TestLookupCollection(t *testing.T) {
	c, err := records.LookupCollection(records.CollectionMentors)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	url, err := c.URL(remote.DefaultEndpoints())
	if err != nil {
		t.Fatalf("url: %v", err)
	}
	if url != "https://learnowback.onrender.com/mentors-details" {
		t.Fatalf("url = %q", url)
	}
	if _, err := records.LookupCollection("courses"); !errors.Is(err, records.ErrUnknownCollection) {
		t.Fatalf("expected ErrUnknownCollection, got %v", err)
	}
}
