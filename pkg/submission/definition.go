package submission

import (
	"errors"
	"net/http"
	"strings"

	"github.com/goliatone/go-formadmin/pkg/model"
	"github.com/goliatone/go-formadmin/pkg/remote"
)

// Flow selects how a successful submission treats the form afterwards.
type Flow string

const (
	// FlowCreate resets the form after success.
	FlowCreate Flow = "create"
	// FlowUpdate keeps the submitted values on screen after success.
	FlowUpdate Flow = "update"
	// FlowDelete resets the form after success and requires confirmation.
	FlowDelete Flow = "delete"
)

// ResetsOnSuccess reports whether the form returns to its initial values
// after a successful submission.
func (f Flow) ResetsOnSuccess() bool {
	return f != FlowUpdate
}

// EndpointFunc resolves the target URL from the validated values.
type EndpointFunc func(values model.Values) (string, error)

// SerializeFunc turns validated values into the wire payload. Returning a nil
// payload sends no body.
type SerializeFunc func(values model.Values) (any, error)

// MessageFunc derives an operator-facing message from the submitted values.
type MessageFunc func(values model.Values) string

// Definition binds a FormSpec to its endpoint and wire shape.
type Definition struct {
	Name   string
	Title  string
	Flow   Flow
	Spec   model.FormSpec
	Method string

	Endpoint  EndpointFunc
	Serialize SerializeFunc

	// SuccessMessage is used when the response body carries no "message".
	SuccessMessage MessageFunc
	// FailurePrefix is prepended to failure notifications, for example
	// "Failed to add question: ".
	FailurePrefix string
	// ConfirmMessage, when set, gates the request behind Prompter.Confirm.
	ConfirmMessage MessageFunc
}

var (
	errDefinitionName     = errors.New("submission: definition name is required")
	errDefinitionEndpoint = errors.New("submission: definition endpoint is required")
)

func (d Definition) validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return errDefinitionName
	}
	if d.Endpoint == nil {
		return errDefinitionEndpoint
	}
	return nil
}

// RequestMethod is the HTTP method used, defaulting to DELETE for delete flows
// and POST otherwise.
func (d Definition) RequestMethod() string {
	if method := strings.ToUpper(strings.TrimSpace(d.Method)); method != "" {
		return method
	}
	if d.Flow == FlowDelete {
		return http.MethodDelete
	}
	return http.MethodPost
}

func (d Definition) successMessage(values model.Values, res remote.Result) string {
	fallback := "Saved."
	if d.SuccessMessage != nil {
		if msg := strings.TrimSpace(d.SuccessMessage(values)); msg != "" {
			fallback = msg
		}
	}
	return res.MessageOr(fallback)
}
