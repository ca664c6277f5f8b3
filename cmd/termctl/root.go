package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/heartmarshall/glossary-backend/internal/adapter/jsonfile"
	"github.com/heartmarshall/glossary-backend/internal/adapter/memory/activity"
	"github.com/heartmarshall/glossary-backend/internal/adapter/memory/changelog"
	"github.com/heartmarshall/glossary-backend/internal/adapter/memory/editlock"
	"github.com/heartmarshall/glossary-backend/internal/adapter/memory/term"
	"github.com/heartmarshall/glossary-backend/internal/domain"
	"github.com/heartmarshall/glossary-backend/internal/service/glossary"
)

const defaultDataFile = "./data/technical_dictionary.json"

type rootOptions struct {
	dataFile string
	verbose  bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "termctl",
		Short:        "Operate on the technical dictionary file",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.dataFile, "data", "d", envOr("STORE_DATA_FILE", defaultDataFile), "path to the dictionary file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log service activity to stderr")

	cmd.AddCommand(
		newSearchCmd(opts),
		newGetCmd(opts),
		newTranslateCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newMergeCmd(opts),
		newTokenCmd(),
	)
	return cmd
}

// openGlossary loads the dictionary file into a fresh glossary service that
// writes back to the same file.
func (o *rootOptions) openGlossary(ctx context.Context, stderr io.Writer) (*glossary.Service, error) {
	store := jsonfile.New(o.dataFile)
	terms, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", o.dataFile, err)
	}

	clock := clockwork.NewRealClock()
	index := term.New(clock)
	index.Replace(terms)
	translator, err := term.NewTranslator(index, 0)
	if err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	return glossary.NewService(logger, glossary.Deps{
		Index:      index,
		Translator: translator,
		Ledger:     changelog.New(),
		Locks:      editlock.New(clock, 0),
		Activity:   activity.New(clock, activity.Options{}),
		Store:      store,
		Clock:      clock,
	}), nil
}

// readDictionary reads a JSON or YAML dictionary, chosen by file extension.
func readDictionary(path string) (map[string]domain.TechnicalTerm, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		raw := make(map[string]domain.TechnicalTerm)
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		out := make(map[string]domain.TechnicalTerm, len(raw))
		for key, t := range raw {
			if t.Hebrew == "" {
				t.Hebrew = key
			}
			t.Normalize()
			if t.Hebrew != "" {
				out[t.Hebrew] = t
			}
		}
		return out, nil
	default:
		return jsonfile.ReadFile(path)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
