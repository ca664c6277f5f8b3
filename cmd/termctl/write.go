package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/glossary-backend/pkg/ctxutil"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the dictionary with a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			incoming, err := readDictionary(args[0])
			if err != nil {
				return err
			}
			svc, err := opts.openGlossary(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			report, err := svc.Import(ctxutil.WithUserID(cmd.Context(), user), incoming)
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringVarP(&user, "user", "u", "termctl", "author recorded for the changes")
	return cmd
}

func newMergeCmd(opts *rootOptions) *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "merge <file>",
		Short: "Merge another dictionary file and print the report",
		Long: `Merge another dictionary file and print the report.

Newer terms win, missing terms are added. Terms with equal timestamps and
different content are reported as conflicting and left untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			other, err := readDictionary(args[0])
			if err != nil {
				return err
			}
			svc, err := opts.openGlossary(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			report, err := svc.Merge(ctxutil.WithUserID(cmd.Context(), user), other)
			if err != nil {
				return fmt.Errorf("merge %s: %w", args[0], err)
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringVarP(&user, "user", "u", "termctl", "author recorded for the changes")
	return cmd
}
