package shared

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clierrors "github.com/edna-platform/ednavalidate/internal/errors"
)

func TestLoadConfig(t *testing.T) {
	tests := map[string]struct {
		explicit     bool
		content      string // empty means the file is absent
		wantCategory *clierrors.ErrorCategory
		wantMsg      string
	}{
		"default path may be absent": {},
		"explicit path must exist": {
			explicit:     true,
			wantCategory: ptr(clierrors.Configuration),
			wantMsg:      "config file not found",
		},
		"explicit path is loaded": {
			explicit: true,
			content:  `{"strict": true}`,
		},
		"invalid values are a config error": {
			content:      `{"max_retries": 99}`,
			wantCategory: ptr(clierrors.Configuration),
			wantMsg:      "failed to load config",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			path := filepath.Join(t.TempDir(), "config.json")
			if tt.content != "" {
				require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			}

			cmd := &cobra.Command{Use: "test"}
			cmd.Flags().String("config", path, "")
			if tt.explicit {
				require.NoError(t, cmd.Flags().Parse([]string{"--config", path}))
			}

			cfg, gotPath, err := LoadConfig(cmd)
			assert.Equal(t, path, gotPath)
			if tt.wantCategory != nil {
				require.Error(t, err)
				cliErr := clierrors.AsCLIError(err)
				require.NotNil(t, cliErr)
				assert.Equal(t, *tt.wantCategory, cliErr.Category)
				assert.Contains(t, cliErr.Message, tt.wantMsg)
				assert.Equal(t, ExitInvalidArguments, ExitCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.content != "", cfg.Strict)
		})
	}
}

func ptr[T any](v T) *T { return &v }
