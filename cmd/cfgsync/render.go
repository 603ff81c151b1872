package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/standardbeagle/cfgsync/internal/migrate"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	addColor      = color.New(color.FgGreen)
	identityColor = color.New(color.FgHiBlack)
	conflictColor = color.New(color.FgYellow, color.Bold)
	errorColor    = color.New(color.FgRed)
	headingColor  = color.New(color.Bold)
)

// renderData writes v as JSON or YAML. It returns false for text output so
// the caller can print its own layout.
func (a *app) renderData(v any) (bool, error) {
	switch a.format {
	case formatJSON:
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return true, enc.Encode(v)
	case formatYAML:
		return true, renderYAML(a.stdout, v)
	default:
		return false, nil
	}
}

// renderYAML goes through JSON so documents keep their key order and
// custom JSON encodings.
func renderYAML(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return err
	}
	clearStyle(&node)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(&node)
}

// clearStyle drops the flow and quoting styles the JSON input produced.
func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		clearStyle(c)
	}
}

func compactJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	return string(data)
}

func (a *app) printPlan(plan *migrate.MergePlan) {
	w := a.stdout
	headingColor.Fprintf(w, "%s -> %s\n", sideLabel(plan.Source), sideLabel(plan.Destination))
	if !plan.Destination.Exists {
		identityColor.Fprintf(w, "  destination does not exist yet; it will be created\n")
	}

	for _, key := range plan.Additions {
		addColor.Fprintf(w, "  + %s\n", key)
	}
	for _, key := range plan.Identical {
		identityColor.Fprintf(w, "  = %s\n", key)
	}
	for _, c := range plan.Conflicts {
		conflictColor.Fprintf(w, "  ! %s\n", c.Key)
		fmt.Fprintf(w, "      source:      %s\n", compactJSON(c.SourceValue))
		fmt.Fprintf(w, "      destination: %s\n", compactJSON(c.DestinationValue))
		if c.Resolution != "" {
			fmt.Fprintf(w, "      resolution:  %s\n", c.Resolution)
		}
	}
	fmt.Fprintf(w, "%d to add, %d identical, %d in conflict\n",
		len(plan.Additions), len(plan.Identical), len(plan.Conflicts))
}

func sideLabel(s migrate.Side) string {
	label := fmt.Sprintf("%s (%s", s.Endpoint, s.Path)
	if s.Root != "" {
		label += " @ " + s.Root
	}
	return label + ")"
}

func (a *app) printDiff(diff string) {
	if diff == "" {
		identityColor.Fprintln(a.stdout, "no changes")
		return
	}
	for _, line := range strings.Split(strings.TrimSuffix(diff, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
			headingColor.Fprintln(a.stdout, line)
		case strings.HasPrefix(line, "@@"):
			identityColor.Fprintln(a.stdout, line)
		case strings.HasPrefix(line, "+"):
			addColor.Fprintln(a.stdout, line)
		case strings.HasPrefix(line, "-"):
			errorColor.Fprintln(a.stdout, line)
		default:
			fmt.Fprintln(a.stdout, line)
		}
	}
}
