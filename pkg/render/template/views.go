package template

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/goliatone/go-formadmin/pkg/formstate"
	"github.com/goliatone/go-formadmin/pkg/listing"
	"github.com/goliatone/go-formadmin/pkg/records"
	"github.com/goliatone/go-formadmin/pkg/submission"
)

//go:embed templates/*.tpl
var embedded embed.FS

// EmbeddedTemplates exposes the built-in templates.
func EmbeddedTemplates() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

const maskedValue = "********"

// Views renders the console's text output.
type Views struct {
	renderer TemplateRenderer
}

// NewViews builds Views on the embedded templates. Options are applied after
// the defaults, so WithBaseDir can shadow individual templates.
func NewViews(options ...Option) (*Views, error) {
	opts := append([]Option{WithFS(EmbeddedTemplates())}, options...)
	engine, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := engine.RegisterFilter("display_date", displayDate); err != nil {
		return nil, fmt.Errorf("template: register display_date: %w", err)
	}
	return &Views{renderer: engine}, nil
}

// NewViewsWithRenderer wraps an existing renderer. The renderer must know the
// list_*, summary and forms templates.
func NewViewsWithRenderer(renderer TemplateRenderer) *Views {
	return &Views{renderer: renderer}
}

// RenderList writes rows of the given collection.
func (v *Views) RenderList(w io.Writer, collection records.Collection, rows any) error {
	return v.render(w, "list_"+collection.Name, map[string]any{
		"title": collection.Title,
		"rows":  rows,
	})
}

// RenderSummary writes the state of a form. Secret values are masked.
func (v *Views) RenderSummary(w io.Writer, def submission.Definition, snap formstate.Snapshot) error {
	fields := make([]map[string]any, 0, len(def.Spec.Fields))
	for _, field := range def.Spec.Fields {
		value := snap.Values[field.Name]
		if field.Secret && value != "" {
			value = maskedValue
		}
		fields = append(fields, map[string]any{
			"label": field.DisplayLabel(),
			"value": value,
			"error": snap.Errors[field.Name],
		})
	}
	title := def.Title
	if title == "" {
		title = def.Name
	}
	return v.render(w, "summary", map[string]any{
		"title":          title,
		"status":         snap.Status.String(),
		"fields":         fields,
		"reason":         snap.Reason,
		"server_message": snap.ServerMessage,
	})
}

// RenderForms writes the catalogue of forms and their fields.
func (v *Views) RenderForms(w io.Writer, forms []submission.Definition) error {
	items := make([]map[string]any, 0, len(forms))
	for _, def := range forms {
		fields := make([]map[string]any, 0, len(def.Spec.Fields))
		for _, field := range def.Spec.Fields {
			fields = append(fields, map[string]any{
				"name":     field.Name,
				"kind":     string(field.Kind),
				"required": field.Required,
				"options":  field.Options,
			})
		}
		items = append(items, map[string]any{
			"name":   def.Name,
			"title":  def.Title,
			"method": def.RequestMethod(),
			"fields": fields,
		})
	}
	return v.render(w, "forms", map[string]any{"forms": items})
}

func (v *Views) render(w io.Writer, name string, data map[string]any) error {
	out, err := v.renderer.RenderTemplate(name, data)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, compact(out))
	return err
}

// compact drops blank lines left behind by template tags.
func compact(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, strings.TrimRight(line, " \t"))
	}
	if len(kept) == 0 {
		return ""
	}
	return strings.Join(kept, "\n") + "\n"
}

func displayDate(input any, _ any) (any, error) {
	value, _ := input.(string)
	return listing.FormatDate(value), nil
}
