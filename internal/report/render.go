package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Format selects a report rendering.
type Format string

const (
	FormatText    Format = "text"
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	case FormatMsgpack, "mp":
		return FormatMsgpack, nil
	default:
		return "", fmt.Errorf("invalid report format: %s (valid formats: %s)", s, strings.Join(ValidFormats(), ", "))
	}
}

// ValidFormats returns the accepted format names.
func ValidFormats() []string {
	return []string{"text", "json", "yaml", "msgpack"}
}

// Document is the serialized shape of a report.
type Document struct {
	Acceptable bool            `json:"acceptable" yaml:"acceptable" msgpack:"acceptable"`
	Counts     Counts          `json:"counts" yaml:"counts" msgpack:"counts"`
	Artifacts  []ArtifactStats `json:"artifacts" yaml:"artifacts" msgpack:"artifacts"`
	Issues     []Issue         `json:"issues" yaml:"issues" msgpack:"issues"`
}

// Document returns the serializable form of the report.
func (r *Report) Document() Document {
	issues := r.Issues()
	if issues == nil {
		issues = []Issue{}
	}
	return Document{
		Acceptable: r.Acceptable(),
		Counts:     r.counts,
		Artifacts:  r.Artifacts(),
		Issues:     issues,
	}
}

// TextOptions controls the human-readable rendering.
type TextOptions struct {
	Color bool
	Title string
}

// Render writes the report in the given format.
func Render(w io.Writer, r *Report, format Format, opts TextOptions) error {
	switch format {
	case FormatText, "":
		return renderText(w, r, opts)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r.Document())
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r.Document()); err != nil {
			return fmt.Errorf("encoding yaml report: %w", err)
		}
		return enc.Close()
	case FormatMsgpack:
		enc := msgpack.NewEncoder(w)
		enc.SetSortMapKeys(true)
		return enc.Encode(r.Document())
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
}

// Decode parses a rendered machine-readable report.
func Decode(data []byte, format Format) (*Document, error) {
	var doc Document
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatMsgpack:
		err = msgpack.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("cannot decode %s reports", format)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s report: %w", format, err)
	}
	return &doc, nil
}

func colorFunc(enabled bool, attrs ...color.Attribute) func(a ...interface{}) string {
	c := color.New(attrs...)
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.SprintFunc()
}

func renderText(w io.Writer, r *Report, opts TextOptions) error {
	red := colorFunc(opts.Color, color.FgRed)
	boldRed := colorFunc(opts.Color, color.FgRed, color.Bold)
	yellow := colorFunc(opts.Color, color.FgYellow)
	green := colorFunc(opts.Color, color.FgGreen)

	var sb strings.Builder
	if opts.Title != "" {
		sb.WriteString(opts.Title)
		sb.WriteString("\n\n")
	}

	if arts := r.Artifacts(); len(arts) > 0 {
		sb.WriteString("Artifacts:\n")
		width := 0
		for _, a := range arts {
			if n := runewidth.StringWidth(a.Filename); n > width {
				width = n
			}
		}
		for _, a := range arts {
			sb.WriteString("  ")
			sb.WriteString(runewidth.FillRight(a.Filename, width))
			sb.WriteString("  ")
			sb.WriteString(artifactDetail(a))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	for i, it := range r.Issues() {
		var tag string
		switch it.Severity {
		case SeverityFatal:
			tag = boldRed("FATAL")
		case SeverityError:
			tag = red("ERROR")
		default:
			tag = yellow("WARN ")
		}
		fmt.Fprintf(&sb, "%3d. %s %-26s %s\n", i+1, tag, it.Kind, it.Locator())
		fmt.Fprintf(&sb, "     %s\n", it.Message)
	}

	c := r.Counts()
	if len(r.issues) > 0 {
		sb.WriteString("\n")
	}
	if r.Acceptable() {
		fmt.Fprintf(&sb, "%s submission is acceptable (%d warning(s))\n", green("✓"), c.Warning)
	} else {
		fmt.Fprintf(&sb, "%s submission rejected: %d fatal, %d error(s), %d warning(s)\n",
			red("✗"), c.Fatal, c.Error, c.Warning)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func artifactDetail(a ArtifactStats) string {
	switch a.Status {
	case StatusMissing:
		return "missing"
	case StatusUnusable:
		return "unusable"
	}
	if a.Sequences > 0 || a.Role == "sequences" {
		return fmt.Sprintf("%d sequence(s)", a.Sequences)
	}
	return fmt.Sprintf("%d row(s) x %d column(s)", a.Rows, a.Columns)
}

// EncodeMsgpack implements msgpack.CustomEncoder so severities travel by name.
func (s Severity) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeString(s.String())
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (s *Severity) DecodeMsgpack(dec *msgpack.Decoder) error {
	name, err := dec.DecodeString()
	if err != nil {
		return err
	}
	return s.UnmarshalText([]byte(name))
}
