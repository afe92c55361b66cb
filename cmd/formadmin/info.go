package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formadmin/internal/config"
	"github.com/goliatone/go-formadmin/pkg/model"
	"github.com/goliatone/go-formadmin/pkg/submission"
)

// formDoc is the YAML shape of one catalogue entry.
type formDoc struct {
	Name   string          `yaml:"name"`
	Title  string          `yaml:"title"`
	Flow   submission.Flow `yaml:"flow"`
	Method string          `yaml:"method"`
	URL    string          `yaml:"url,omitempty"`
	Fields []model.Field   `yaml:"fields"`
}

func newFormsCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "forms",
		Short: "Show the available forms and their fields",
		Args:  cobra.NoArgs,
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			forms := a.catalogue.Forms()
			switch strings.ToLower(format) {
			case "", formatText:
				return a.views.RenderForms(cmd.OutOrStdout(), forms)
			case formatYAML:
				docs := make([]formDoc, 0, len(forms))
				for _, def := range forms {
					doc := formDoc{
						Name:   def.Name,
						Title:  def.Title,
						Flow:   def.Flow,
						Method: def.RequestMethod(),
						Fields: def.Spec.Fields,
					}
					// id-addressed endpoints need values; list only fixed ones
					if url, err := def.Endpoint(model.Values{}); err == nil && def.Flow != submission.FlowDelete {
						doc.URL = url
					}
					docs = append(docs, doc)
				}
				return writeYAML(cmd.OutOrStdout(), docs)
			default:
				return fmt.Errorf("unknown format %q, expected text or yaml", format)
			}
		}),
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text or yaml")
	return cmd
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Describe the environment variables and print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			desc, err := config.Describe()
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintln(out, desc); err != nil {
				return err
			}
			if _, err := fmt.Fprintln(out, "\nEffective configuration:"); err != nil {
				return err
			}
			effective := *a.cfg
			if effective.Redis.Password != "" {
				effective.Redis.Password = "********"
			}
			return writeYAML(out, effective)
		}),
	}
}
