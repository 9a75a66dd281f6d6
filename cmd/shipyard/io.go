package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kompox/shipyard/domain/model"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// ExitCodeError propagates the exit status of a command run inside a pod.
type ExitCodeError struct{ Code int }

func (e ExitCodeError) Error() string { return fmt.Sprintf("exit status %d", e.Code) }

// exitCode maps error kinds to process exit codes.
func exitCode(err error) int {
	var ece ExitCodeError
	switch {
	case errors.As(err, &ece):
		return ece.Code
	case errors.Is(err, model.ErrValidation):
		return 2
	case errors.Is(err, model.ErrNotFound):
		return 3
	case errors.Is(err, model.ErrClusterAPI):
		return 4
	default:
		return 1
	}
}

// commandContext bounds ctx with the --timeout flag.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	d := time.Minute
	if f := findFlag(cmd, "timeout"); f != nil {
		if v, err := time.ParseDuration(f.Value.String()); err == nil && v > 0 {
			d = v
		}
	}
	return context.WithTimeout(cmd.Context(), d)
}

// readSpec decodes a YAML spec file, or stdin when path is "-".
func readSpec[T any](cmd *cobra.Command, path string) (*T, error) {
	if path == "" {
		return nil, errors.New("spec file required (-f)")
	}
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var spec T
	if err := yaml.Unmarshal(b, &spec); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &spec, nil
}

// printJSON writes v as indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printLines writes each item as one compact JSON line.
func printLines[T any](cmd *cobra.Command, items []T) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	for _, it := range items {
		if err := enc.Encode(it); err != nil {
			return err
		}
	}
	return nil
}

func groupCmd(use, short string, aliases ...string) *cobra.Command {
	return &cobra.Command{
		Use:                use,
		Aliases:            aliases,
		Short:              short,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
}
