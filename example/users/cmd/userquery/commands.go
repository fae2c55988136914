package main

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/dynamic-filter-repository-go/repository/postgresengine"
)

// filterFlags holds the flags describing a property filter.
type filterFlags struct {
	props  string
	values []string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.props, "props", "p", "", `comma separated properties with operator suffix, e.g. "level=,email.address+"`)
	cmd.Flags().StringSliceVarP(&f.values, "values", "V", nil, "one value per property, quote with '' to force a string")
}

// pageFlags holds the pagination and sorting flags of multi-result commands.
type pageFlags struct {
	offset int
	limit  int
	sort   string
}

func (p *pageFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.offset, "offset", 0, "number of rows to skip")
	cmd.Flags().IntVar(&p.limit, "limit", 0, "maximum number of rows, 0 means no limit")
	cmd.Flags().StringVar(&p.sort, "sort", "", "property to sort ascending by")
}

func newFindCommand(root *rootOptions) *cobra.Command {
	var filter filterFlags
	var page pageFlags

	cmd := &cobra.Command{
		Use:   "find",
		Short: "List users matching all filter predicates",
		Long: `List users matching all filter predicates.

Without --props all users within the pagination window are listed.

Example:
  userquery find --props "level=,login+" --values admin,a% --sort login --limit 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return root.withRepository(cmd, func(ctx context.Context, repo *userRepository, out io.Writer) error {
				if filter.props == "" {
					users, err := repo.List(ctx, page.offset, page.limit, page.sort)
					if err != nil {
						return err
					}

					return writeJSON(out, users)
				}

				users, err := repo.FindByProperties(ctx, page.offset, page.limit, page.sort, filter.props, parseLiterals(filter.values)...)
				if err != nil {
					return err
				}

				return writeJSON(out, users)
			})
		},
	}

	filter.register(cmd)
	page.register(cmd)

	return cmd
}

func newGetCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Look up a user by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id %q: %w", args[0], err)
			}

			return root.withRepository(cmd, func(ctx context.Context, repo *userRepository, out io.Writer) error {
				user, found, findErr := repo.FindByID(ctx, id)
				if findErr != nil {
					return findErr
				}

				return writeLookup(out, user, found)
			})
		},
	}
}

func newOneCommand(root *rootOptions) *cobra.Command {
	var filter filterFlags

	cmd := &cobra.Command{
		Use:   "one",
		Short: "Look up the single user matching all filter predicates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return root.withRepository(cmd, func(ctx context.Context, repo *userRepository, out io.Writer) error {
				user, found, err := repo.FindOneByProperties(ctx, filter.props, parseLiterals(filter.values)...)
				if err != nil {
					return err
				}

				return writeLookup(out, user, found)
			})
		},
	}

	filter.register(cmd)
	_ = cmd.MarkFlagRequired("props")

	return cmd
}

func newFieldCommand(root *rootOptions) *cobra.Command {
	var filter filterFlags
	var page pageFlags
	var single bool

	cmd := &cobra.Command{
		Use:   "field <property>",
		Short: "Print one property of the users matching all filter predicates",
		Long: `Print one property of the users matching all filter predicates.

Example:
  userquery field email.address --props "level!=" --values guest --sort email.address
  userquery field level --props login --values alice --single`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			field := args[0]

			return root.withRepository(cmd, func(ctx context.Context, repo *userRepository, out io.Writer) error {
				values := parseLiterals(filter.values)

				if single {
					value, found, err := postgresengine.FindFieldByProperties[any](ctx, repo, field, filter.props, values...)
					if err != nil {
						return err
					}

					return writeLookup(out, displayValue(value), found)
				}

				fieldValues, err := postgresengine.FindFieldsByProperties[any](
					ctx, repo, page.offset, page.limit, page.sort, field, filter.props, values...,
				)
				if err != nil {
					return err
				}

				for i, v := range fieldValues {
					fieldValues[i] = displayValue(v)
				}

				return writeJSON(out, fieldValues)
			})
		},
	}

	filter.register(cmd)
	page.register(cmd)
	cmd.Flags().BoolVar(&single, "single", false, "expect exactly one match")

	return cmd
}

func writeLookup(out io.Writer, value any, found bool) error {
	if !found {
		return writeJSON(out, lookupResult{Found: false})
	}

	return writeJSON(out, lookupResult{Found: true, Value: value})
}

// displayValue turns raw column bytes into text, some drivers return text columns as []byte.
func displayValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}

	return v
}
