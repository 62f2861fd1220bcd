package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bevzzz/cody/internal/items"
	"github.com/bevzzz/cody/internal/resolve"
)

var contextInputFlag string

// ContextResult is the payload of the context command.
type ContextResult struct {
	Items    []items.ContextItemWithContent `json:"items" yaml:"items"`
	Warnings []string                       `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

var contextCmd = &cobra.Command{
	Use:   "context <file[:start-end]>...",
	Short: "Resolve file references into prompt-ready content",
	Long: `Resolves one or more file references into content with exact token counts.
A reference is a workspace-relative path, optionally with a one-based
inclusive line selection, e.g. src/main.go:10-25.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()

		refs := make([]resolve.Reference, 0, len(args))
		for _, arg := range args {
			ref, err := parseReference(arg)
			if err != nil {
				return err
			}
			refs = append(refs, ref)
		}
		batch, err := e.normalizer.FromReferences(ctx, refs)
		if err != nil {
			return err
		}

		batch = e.filter.Apply(ctx, batch)
		resolved, warnings := e.resolver.Resolve(ctx, contextInputFlag, batch)

		result := &ContextResult{Items: resolved}
		for _, w := range warnings {
			result.Warnings = append(result.Warnings, w.String())
		}
		return printResult(result)
	},
}

// parseReference splits path[:start-end] into a normalization reference.
// User-facing line numbers are one-based and inclusive; the normalizer owns
// the conversion to canonical form.
func parseReference(arg string) (resolve.Reference, error) {
	ref := resolve.Reference{URI: arg, Source: items.SourceUser}

	idx := strings.LastIndex(arg, ":")
	if idx <= 0 {
		return ref, nil
	}
	spec := arg[idx+1:]
	start, end, ok := parseLineSpan(spec)
	if !ok {
		return ref, nil
	}

	ref.URI = arg[:idx]
	ref.HasRange = true
	ref.StartLine = start - 1
	ref.EndLine = end - 1
	return ref, nil
}

func parseLineSpan(spec string) (start, end int, ok bool) {
	parts := strings.SplitN(spec, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	start, err1 := strconv.Atoi(parts[0])
	end, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || start < 1 || end < start {
		return 0, 0, false
	}
	return start, end, true
}

func init() {
	contextCmd.Flags().StringVar(&contextInputFlag, "input", "", "Original user input, passed to context providers")
	rootCmd.AddCommand(contextCmd)
}
