package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/heartmarshall/glossary-backend/internal/adapter/jsonfile"
	"github.com/heartmarshall/glossary-backend/internal/domain"
)

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var (
		q    domain.SearchQuery
		lang string
	)
	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Search terms by text and filters",
		Long: `Search terms by text and filters.

Examples:
  termctl search "ברז"
  termctl search --lang ru --synonyms "труба"
  termctl search --category plumbing --tag water ""`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Text = args[0]
			q.Lang = domain.Language(lang)
			if !q.Lang.IsValid() {
				return fmt.Errorf("--lang must be he or ru, got %q", lang)
			}
			svc, err := opts.openGlossary(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), svc.Search(cmd.Context(), q))
		},
	}
	cmd.Flags().StringVarP(&lang, "lang", "l", string(domain.LanguageHebrew), "language of the query text (he or ru)")
	cmd.Flags().BoolVarP(&q.IncludeSynonyms, "synonyms", "s", false, "match synonyms as well")
	cmd.Flags().BoolVarP(&q.ExactMatch, "exact", "e", false, "require an exact match")
	cmd.Flags().StringSliceVar(&q.Categories, "category", nil, "restrict to categories")
	cmd.Flags().StringSliceVar(&q.Contexts, "context", nil, "restrict to contexts")
	cmd.Flags().StringSliceVar(&q.Tags, "tag", nil, "require every tag")
	return cmd
}

func newGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <hebrew>",
		Short: "Print one term",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.openGlossary(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			t, err := svc.GetTerm(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), t)
		},
	}
}

func newTranslateCmd(opts *rootOptions) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "translate <text>...",
		Short: "Replace known terms in text with their counterparts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, dst := domain.Language(from), domain.Language(to)
			if !src.IsValid() || !dst.IsValid() {
				return fmt.Errorf("--from and --to must be he or ru")
			}
			svc, err := opts.openGlossary(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), svc.Translate(cmd.Context(), strings.Join(args, " "), src, dst))
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", string(domain.LanguageHebrew), "source language")
	cmd.Flags().StringVar(&to, "to", string(domain.LanguageRussian), "target language")
	return cmd
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole dictionary to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := opts.openGlossary(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			terms, _ := svc.Snapshot(cmd.Context())
			switch format {
			case "json":
				return jsonfile.Encode(cmd.OutOrStdout(), terms)
			case "yaml":
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(terms); err != nil {
					return err
				}
				return enc.Close()
			default:
				return fmt.Errorf("--format must be json or yaml, got %q", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format (json or yaml)")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
