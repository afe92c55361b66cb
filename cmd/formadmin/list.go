package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formadmin"
	"github.com/goliatone/go-formadmin/pkg/listing"
	"github.com/goliatone/go-formadmin/pkg/records"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

type listFlags struct {
	query  string
	sort   string
	format string
}

func newListCmd(a *app) *cobra.Command {
	flags := &listFlags{}
	names := make([]string, 0, len(records.Collections()))
	for _, c := range records.Collections() {
		names = append(names, c.Name)
	}

	cmd := &cobra.Command{
		Use:       fmt.Sprintf("list <%s>", strings.Join(names, "|")),
		Short:     "List the records of a collection",
		Args:      cobra.ExactArgs(1),
		ValidArgs: names,
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			collection, err := records.LookupCollection(args[0])
			if err != nil {
				return err
			}
			rows, err := a.listRows(cmd.Context(), collection, flags)
			if err != nil {
				return err
			}
			return a.writeRows(cmd.OutOrStdout(), collection, rows, flags.format)
		}),
	}
	cmd.Flags().StringVarP(&flags.query, "query", "q", "", "filter mentors by name, username or expertise, or jobs by id")
	cmd.Flags().StringVar(&flags.sort, "sort", "", "mentor order: experience or joining_date")
	cmd.Flags().StringVarP(&flags.format, "format", "f", formatText, "output format: text, json or yaml")
	return cmd
}

func (a *app) listRows(ctx context.Context, collection records.Collection, flags *listFlags) (any, error) {
	if flags.query != "" && collection.Name != records.CollectionMentors && collection.Name != records.CollectionJobs {
		return nil, fmt.Errorf("--query is only supported for %s and %s", records.CollectionMentors, records.CollectionJobs)
	}
	if flags.sort != "" && collection.Name != records.CollectionMentors {
		return nil, fmt.Errorf("--sort is only supported for %s", records.CollectionMentors)
	}

	switch collection.Name {
	case records.CollectionUsers:
		return fetch[records.User](ctx, a, collection)
	case records.CollectionUserDetails:
		return fetch[records.UserDetails](ctx, a, collection)
	case records.CollectionMentors:
		by, err := listing.ParseMentorSort(flags.sort)
		if err != nil {
			return nil, err
		}
		mentors, err := fetch[records.Mentor](ctx, a, collection)
		if err != nil {
			return nil, err
		}
		return listing.SortMentors(listing.FilterMentors(mentors, flags.query), by), nil
	case records.CollectionQuestions:
		return fetch[records.Question](ctx, a, collection)
	case records.CollectionJobs:
		jobs, err := fetch[records.Job](ctx, a, collection)
		if err != nil {
			return nil, err
		}
		return listing.FilterJobs(jobs, flags.query), nil
	case records.CollectionAnnouncements:
		return fetch[records.Announcement](ctx, a, collection)
	default:
		return nil, fmt.Errorf("%w: %q", records.ErrUnknownCollection, collection.Name)
	}
}

func fetch[T any](ctx context.Context, a *app, collection records.Collection) ([]T, error) {
	rows, err := formadmin.List[T](ctx, a.console, collection.Name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", strings.ToLower(collection.Title), err)
	}
	return rows, nil
}

func (a *app) writeRows(w io.Writer, collection records.Collection, rows any, format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", formatText:
		return a.views.RenderList(w, collection, rows)
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case formatYAML:
		// rows only carry json tags; go through JSON so keys match the wire
		raw, err := json.Marshal(rows)
		if err != nil {
			return err
		}
		var generic []map[string]any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return err
		}
		return writeYAML(w, generic)
	default:
		return fmt.Errorf("unknown format %q, expected text, json or yaml", format)
	}
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
