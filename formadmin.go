// Package formadmin is the library entry point of the admin console. It binds
// the form catalogue to a remote sender so callers can submit forms and read
// collections without wiring the packages by hand.
package formadmin

import (
	"context"
	"errors"
	"io/fs"

	"github.com/goliatone/go-formadmin/pkg/formstate"
	"github.com/goliatone/go-formadmin/pkg/listing"
	"github.com/goliatone/go-formadmin/pkg/model"
	"github.com/goliatone/go-formadmin/pkg/records"
	"github.com/goliatone/go-formadmin/pkg/remote"
	tpl "github.com/goliatone/go-formadmin/pkg/render/template"
	"github.com/goliatone/go-formadmin/pkg/submission"
)

// Attempt aliases submission.Attempt for callers of the root package.
type Attempt = submission.Attempt

// Endpoints aliases remote.Endpoints.
type Endpoints = remote.Endpoints

// Console submits forms and loads collections against one set of endpoints.
type Console struct {
	catalogue *records.Catalogue
	sender    remote.Sender
}

// NewConsole builds a Console. A nil sender uses a default remote.Client.
func NewConsole(endpoints Endpoints, sender remote.Sender) (*Console, error) {
	if err := endpoints.Validate(); err != nil {
		return nil, err
	}
	if sender == nil {
		sender = remote.New()
	}
	return &Console{catalogue: records.NewCatalogue(endpoints), sender: sender}, nil
}

// Catalogue returns the form catalogue.
func (c *Console) Catalogue() *records.Catalogue {
	return c.catalogue
}

// Controller returns a controller for the named form, prefilled with values.
func (c *Console) Controller(form string, values model.Values, options ...submission.Option) (*submission.Controller, error) {
	def, err := c.catalogue.Lookup(form)
	if err != nil {
		return nil, err
	}
	store := formstate.NewWithValues(def.Spec, values)
	return submission.New(def, c.sender, append([]submission.Option{submission.WithStore(store)}, options...)...)
}

// Submit runs one attempt of the named form. Confirmation gated forms are
// declined unless options carry a prompter that accepts them.
func (c *Console) Submit(ctx context.Context, form string, values model.Values, options ...submission.Option) (Attempt, error) {
	ctrl, err := c.Controller(form, values, options...)
	if err != nil {
		return Attempt{}, err
	}
	return ctrl.Submit(ctx)
}

// ErrListFailed wraps the failure message of a collection read.
var ErrListFailed = errors.New("formadmin: list failed")

// List fetches the rows of collection decoded as T.
func List[T any](ctx context.Context, c *Console, collection string) ([]T, error) {
	col, err := records.LookupCollection(collection)
	if err != nil {
		return nil, err
	}
	view, err := listing.NewView[T](c.sender, col, c.catalogue.Endpoints())
	if err != nil {
		return nil, err
	}
	defer view.Close()

	state, err := view.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	if state.Failure != nil {
		return nil, errors.Join(ErrListFailed, state.Failure)
	}
	return state.Rows, nil
}

// EmbeddedTemplates exposes the built-in view templates so callers can reuse
// or extend them.
func EmbeddedTemplates() fs.FS {
	return tpl.EmbeddedTemplates()
}
