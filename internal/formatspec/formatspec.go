// Package formatspec declares the expected structure of every file in an
// eDNA project submission: columns, their semantic types, numeric ranges,
// enumerations, and uniqueness constraints.
package formatspec

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Role identifies one of the five logical artifacts of a submission.
type Role string

const (
	// RoleMetadata is the sampling-site table (metadata.txt).
	RoleMetadata Role = "metadata"
	// RoleOTUTable is the sample x OTU abundance matrix (otu_table.txt).
	RoleOTUTable Role = "otu_table"
	// RoleTaxTable is the OTU taxonomy table (tax_table.txt).
	RoleTaxTable Role = "tax_table"
	// RoleTaxaMetadata is the per-species conservation table (taxa_metadata.txt).
	RoleTaxaMetadata Role = "taxa_metadata"
	// RoleSequences is the OTU reference sequence file (sequences.fasta).
	RoleSequences Role = "sequences"
)

// FileFormat distinguishes delimited tables from FASTA.
type FileFormat string

const (
	FormatTabular FileFormat = "tsv"
	FormatFASTA   FileFormat = "fasta"
)

// ColumnType is the semantic type a column value must coerce to.
type ColumnType string

const (
	TypeString    ColumnType = "string"
	TypeFloat     ColumnType = "float"
	TypeInteger   ColumnType = "integer"
	TypeTimestamp ColumnType = "timestamp"
)

// Range bounds a numeric column. Nil bounds are open.
type Range struct {
	Min *float64
	Max *float64
}

// Contains reports whether v lies within the range, bounds inclusive.
func (r *Range) Contains(v float64) bool {
	if r == nil {
		return true
	}
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// String renders the range, e.g. "[-90, 90]" or "[0, +inf)".
func (r *Range) String() string {
	if r == nil {
		return "(-inf, +inf)"
	}
	lo, hi := "(-inf", "+inf)"
	if r.Min != nil {
		lo = fmt.Sprintf("[%g", *r.Min)
	}
	if r.Max != nil {
		hi = fmt.Sprintf("%g]", *r.Max)
	}
	return lo + ", " + hi
}

// Column declares one column of a tabular file.
type Column struct {
	Name        string
	Type        ColumnType
	Unique      bool     // values must not repeat within the file
	AllowEmpty  bool     // empty cells are accepted and skip coercion
	Range       *Range   // numeric bounds (float and integer only)
	Enum        []string // accepted values, compared case-insensitively
	Description string
}

// AllowsValue reports whether an enumerated column accepts v.
func (c Column) AllowsValue(v string) bool {
	if len(c.Enum) == 0 {
		return true
	}
	for _, allowed := range c.Enum {
		if strings.EqualFold(allowed, v) {
			return true
		}
	}
	return false
}

// FormatSpec is the declarative schema for one file role.
type FormatSpec struct {
	Role        Role
	Filename    string
	Format      FileFormat
	Description string
	Required    []Column
	Optional    []Column

	// PositionalKey names a column matched by position (index 0) instead of
	// header name. KeyAliases lists the header values accepted for it.
	PositionalKey bool
	KeyAliases    []string

	// Dynamic describes the columns after the positional key when they are
	// data-driven (OTU IDs in the abundance matrix). Nil for fixed layouts.
	Dynamic *Column

	// ExtraColumnNote is appended to UnexpectedColumn messages.
	ExtraColumnNote string
}

// PrimaryKey returns the names of the columns declared unique.
func (s *FormatSpec) PrimaryKey() []string {
	var keys []string
	for _, c := range s.Required {
		if c.Unique {
			keys = append(keys, c.Name)
		}
	}
	for _, c := range s.Optional {
		if c.Unique {
			keys = append(keys, c.Name)
		}
	}
	return keys
}

// Lookup returns the declared column with the given name.
func (s *FormatSpec) Lookup(name string) (Column, bool) {
	for _, c := range s.Required {
		if c.Name == name {
			return c, true
		}
	}
	for _, c := range s.Optional {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// UnknownRoleError is returned for a role outside the fixed five. Reaching
// it means a caller passed an unchecked value.
type UnknownRoleError struct {
	Role string
}

func (e *UnknownRoleError) Error() string {
	return fmt.Sprintf("unknown file role: %q (valid roles: %s)", e.Role, strings.Join(ValidRoles(), ", "))
}

// Roles returns the five roles in report order.
func Roles() []Role {
	return []Role{RoleMetadata, RoleOTUTable, RoleTaxTable, RoleTaxaMetadata, RoleSequences}
}

// ValidRoles returns the role names as strings.
func ValidRoles() []string {
	roles := Roles()
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

// SpecFor returns the FormatSpec for a role.
func SpecFor(role Role) (*FormatSpec, error) {
	switch role {
	case RoleMetadata:
		return &MetadataSpec, nil
	case RoleOTUTable:
		return &OTUTableSpec, nil
	case RoleTaxTable:
		return &TaxTableSpec, nil
	case RoleTaxaMetadata:
		return &TaxaMetadataSpec, nil
	case RoleSequences:
		return &SequencesSpec, nil
	default:
		return nil, &UnknownRoleError{Role: string(role)}
	}
}

// MustSpecFor is SpecFor for roles known to be valid, such as those
// returned by Roles.
func MustSpecFor(role Role) *FormatSpec {
	spec, err := SpecFor(role)
	if err != nil {
		panic(err)
	}
	return spec
}

// ParseRole parses a role name.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles() {
		if string(r) == s {
			return r, nil
		}
	}
	return "", &UnknownRoleError{Role: s}
}

// RoleForFilename infers the role from a submission filename.
func RoleForFilename(name string) (Role, error) {
	base := filepath.Base(name)
	for _, r := range Roles() {
		if MustSpecFor(r).Filename == base {
			return r, nil
		}
	}
	return "", fmt.Errorf("unrecognized submission filename: %s (expected one of: %s)", base, strings.Join(Filenames(), ", "))
}

// Filenames returns the expected filenames in role order.
func Filenames() []string {
	roles := Roles()
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = MustSpecFor(r).Filename
	}
	return out
}
