package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// OutputFormat selects how command payloads are rendered.
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatHuman OutputFormat = "human"
	FormatYAML  OutputFormat = "yaml"
)

// printResult renders a payload to stdout in the format selected by the
// global --format flag.
func printResult(resp interface{}) error {
	out, err := FormatResponse(resp, OutputFormat(formatFlag))
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

// FormatResponse formats a response according to the specified format.
func FormatResponse(resp interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatYAML:
		return formatYAML(resp)
	case FormatHuman:
		return formatHuman(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func formatJSON(resp interface{}) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

func formatYAML(resp interface{}) (string, error) {
	data, err := yaml.Marshal(resp)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

func formatHuman(resp interface{}) (string, error) {
	switch v := resp.(type) {
	case *SearchResult:
		return formatSearchHuman(v), nil
	case *ContextResult:
		return formatContextHuman(v), nil
	case *RemoteReposResult:
		return formatReposHuman(v), nil
	default:
		// Unknown payloads fall back to JSON.
		return formatJSON(resp)
	}
}

func formatSearchHuman(r *SearchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Results for %q (%d)\n", r.Query, len(r.Items))
	for _, it := range r.Items {
		marker := " "
		if it.IsIgnored {
			marker = "!"
		}
		switch {
		case it.SymbolName != "":
			fmt.Fprintf(&b, "%s %-9s %s  (%s)\n", marker, it.Kind, it.SymbolName, it.URI)
		default:
			fmt.Fprintf(&b, "%s %s", marker, it.URI)
			if it.Size != nil {
				fmt.Fprintf(&b, "  ~%d tokens", *it.Size)
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatContextHuman(r *ContextResult) string {
	var b strings.Builder
	for i, it := range r.Items {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "=== %s", it.URI)
		if it.Size != nil {
			fmt.Fprintf(&b, " (%d tokens)", *it.Size)
		}
		b.WriteString(" ===\n")
		b.WriteString(it.Content)
		b.WriteString("\n")
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(&b, "warning: %s\n", w)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatReposHuman(r *RemoteReposResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d repositories)\n", r.Server, len(r.Repositories))
	for _, repo := range r.Repositories {
		fmt.Fprintf(&b, "  %s\n", repo)
	}
	return strings.TrimRight(b.String(), "\n")
}
