package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/edna-platform/ednavalidate/internal/cli/shared"
	clierrors "github.com/edna-platform/ednavalidate/internal/errors"
	"github.com/edna-platform/ednavalidate/internal/formatspec"
)

var schemaCmd = &cobra.Command{
	Use:   "schema [role|filename]",
	Short: "Show the expected format of submission files",
	Long: `Show the columns, types, ranges and enumerations each submission file
must follow. With no argument all five files are shown.`,
	Example: `  # All files
  ednavalidate schema

  # One file, by role or filename
  ednavalidate schema tax_table
  ednavalidate schema sequences.fasta

  # Machine-readable
  ednavalidate schema metadata --format json`,
	GroupID: GroupValidation,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runSchema,
}

func init() {
	addSchemaFlags(schemaCmd)
}

func addSchemaFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", "text", "Output format: text, json or yaml")
}

// columnView is the serialized form of a column declaration.
type columnView struct {
	Name        string   `json:"name" yaml:"name"`
	Type        string   `json:"type" yaml:"type"`
	Unique      bool     `json:"unique,omitempty" yaml:"unique,omitempty"`
	AllowEmpty  bool     `json:"allow_empty,omitempty" yaml:"allow_empty,omitempty"`
	Range       string   `json:"range,omitempty" yaml:"range,omitempty"`
	Enum        []string `json:"enum,omitempty" yaml:"enum,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// specView is the serialized form of a FormatSpec.
type specView struct {
	Role        string       `json:"role" yaml:"role"`
	Filename    string       `json:"filename" yaml:"filename"`
	Format      string       `json:"format" yaml:"format"`
	Description string       `json:"description" yaml:"description"`
	Required    []columnView `json:"required,omitempty" yaml:"required,omitempty"`
	Optional    []columnView `json:"optional,omitempty" yaml:"optional,omitempty"`
	Dynamic     *columnView  `json:"dynamic,omitempty" yaml:"dynamic,omitempty"`
	KeyAliases  []string     `json:"key_aliases,omitempty" yaml:"key_aliases,omitempty"`
}

func runSchema(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	format, _ := cmd.Flags().GetString("format")

	roles := formatspec.Roles()
	if len(args) == 1 {
		role, err := resolveRole(args[0])
		if err != nil {
			return err
		}
		roles = []formatspec.Role{role}
	}

	views := make([]specView, 0, len(roles))
	for _, role := range roles {
		views = append(views, newSpecView(formatspec.MustSpecFor(role)))
	}

	switch strings.ToLower(format) {
	case "text":
		writeSchemaText(out, views, shared.ColorEnabled(out))
		return nil
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	case "yaml", "yml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(views); err != nil {
			return fmt.Errorf("encoding schema: %w", err)
		}
		return enc.Close()
	default:
		return clierrors.InvalidOutputFormat(format, []string{"text", "json", "yaml"})
	}
}

// resolveRole accepts a role name or a submission filename.
func resolveRole(arg string) (formatspec.Role, error) {
	if role, err := formatspec.ParseRole(arg); err == nil {
		return role, nil
	}
	if role, err := formatspec.RoleForFilename(arg); err == nil {
		return role, nil
	}
	valid := append(formatspec.ValidRoles(), formatspec.Filenames()...)
	return "", clierrors.UnknownArtifact(arg, valid)
}

func newSpecView(spec *formatspec.FormatSpec) specView {
	v := specView{
		Role:        string(spec.Role),
		Filename:    spec.Filename,
		Format:      string(spec.Format),
		Description: spec.Description,
	}
	for _, c := range spec.Required {
		v.Required = append(v.Required, newColumnView(c))
	}
	for _, c := range spec.Optional {
		v.Optional = append(v.Optional, newColumnView(c))
	}
	if spec.Dynamic != nil {
		d := newColumnView(*spec.Dynamic)
		v.Dynamic = &d
	}
	if spec.PositionalKey {
		v.KeyAliases = spec.KeyAliases
	}
	return v
}

func newColumnView(c formatspec.Column) columnView {
	v := columnView{
		Name:        c.Name,
		Type:        string(c.Type),
		Unique:      c.Unique,
		AllowEmpty:  c.AllowEmpty,
		Enum:        c.Enum,
		Description: c.Description,
	}
	if c.Range != nil {
		v.Range = c.Range.String()
	}
	return v
}

func writeSchemaText(w io.Writer, views []specView, useColor bool) {
	c := shared.NewColors()
	bold := func(s string) string {
		if useColor {
			return c.Cyan(s)
		}
		return s
	}

	for i, v := range views {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%s, %s)\n", bold(v.Filename), v.Role, v.Format)
		fmt.Fprintf(w, "  %s\n", v.Description)
		writeColumns(w, "Required columns", v.Required)
		writeColumns(w, "Optional columns", v.Optional)
		if v.Dynamic != nil {
			writeColumns(w, "Remaining columns", []columnView{*v.Dynamic})
		}
		if len(v.KeyAliases) > 0 {
			quoted := make([]string, len(v.KeyAliases))
			for j, a := range v.KeyAliases {
				quoted[j] = fmt.Sprintf("%q", a)
			}
			fmt.Fprintf(w, "  First column is matched by position; header may be %s\n", strings.Join(quoted, " or "))
		}
	}
}

func writeColumns(w io.Writer, title string, cols []columnView) {
	if len(cols) == 0 {
		return
	}
	nameWidth := 0
	for _, col := range cols {
		nameWidth = max(nameWidth, runewidth.StringWidth(col.Name))
	}

	fmt.Fprintf(w, "  %s:\n", title)
	for _, col := range cols {
		fmt.Fprintf(w, "    %s  %-9s %s\n", runewidth.FillRight(col.Name, nameWidth), col.Type, constraints(col))
	}
}

func constraints(col columnView) string {
	var parts []string
	if col.Unique {
		parts = append(parts, "unique")
	}
	if col.AllowEmpty {
		parts = append(parts, "may be empty")
	}
	if col.Range != "" {
		parts = append(parts, "range "+col.Range)
	}
	if len(col.Enum) > 0 {
		parts = append(parts, "one of "+strings.Join(col.Enum, "|"))
	}
	if col.Description != "" {
		parts = append(parts, col.Description)
	}
	return strings.Join(parts, "; ")
}
