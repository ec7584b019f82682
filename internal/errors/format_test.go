// Package errors tests CLI error rendering for terminals and pipes.
// Related: internal/errors/format.go
// Tags: errors, formatting, colors, output
package errors

import (
	"bytes"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatErrorPlain(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  *CLIError
		want string
	}{
		"nil": {
			err:  nil,
			want: "",
		},
		"message only": {
			err:  NewRuntimeError("cannot access /data: permission denied"),
			want: "Runtime Error: cannot access /data: permission denied\n",
		},
		"usage and remediation": {
			err: UnknownArtifact("otus.csv", []string{"metadata", "otu_table"}),
			want: "Argument Error: unknown submission file \"otus.csv\"\n" +
				"\nUsage: ednavalidate schema [role|filename]\n" +
				"\nTo fix this:\n  - use one of: metadata, otu_table\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FormatErrorPlain(tt.err))
		})
	}
}

func TestFormatError_ContainsSections(t *testing.T) {
	t.Parallel()

	out := FormatError(MissingProjectDir())
	for _, want := range []string{"Argument Error:", "no submission directory given", "Usage:", "ednavalidate validate <dir>", "To fix this:"} {
		assert.Contains(t, out, want)
	}
	assert.Empty(t, FormatError(nil))
}

func TestFprintError_PlainForNonTerminal(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := DirectoryNotFound("/data/cruise-7")
	FprintError(&buf, err)
	assert.Equal(t, FormatErrorPlain(err), buf.String())
	assert.NotContains(t, buf.String(), "\x1b[")

	buf.Reset()
	FprintError(&buf, nil)
	assert.Zero(t, buf.Len())
}

func TestFprintAny(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err         error
		wantHeading string
	}{
		"plain error filed under category": {
			err:         stderrors.New("unknown flag: --strcit"),
			wantHeading: "Argument Error: unknown flag: --strcit",
		},
		"cli error keeps its category": {
			err:         ConfigFileNotFound("typo.json"),
			wantHeading: "Configuration Error: config file not found: typo.json",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			FprintAny(&buf, tt.err, Argument)
			assert.Contains(t, buf.String(), tt.wantHeading)
		})
	}

	var buf bytes.Buffer
	FprintAny(&buf, nil, Runtime)
	assert.Zero(t, buf.Len())
}
