package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "auto", cfg.Color)
	assert.False(t, cfg.Hyperlink)
	assert.Empty(t, cfg.Includes)
	assert.Empty(t, cfg.Excludes)
	assert.Empty(t, cfg.MaxFileSize)
	assert.Empty(t, cfg.LogLevel)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    *Config
		wantErr bool
	}{
		{
			name: "full config",
			content: `color: never
hyperlink: true
include:
  - "*.go"
  - "*.{md,txt}"
exclude:
  - "*_test.go"
max_filesize: 1M
no_follow: true
bom: true
log_level: debug
log_file: /tmp/rgrep.log
`,
			want: &Config{
				Color:       "never",
				Hyperlink:   true,
				Includes:    []string{"*.go", "*.{md,txt}"},
				Excludes:    []string{"*_test.go"},
				MaxFileSize: "1M",
				NoFollow:    true,
				DecodeBOM:   true,
				LogLevel:    "debug",
				LogFile:     "/tmp/rgrep.log",
			},
		},
		{
			name:    "partial config keeps defaults",
			content: "hyperlink: true\n",
			want:    &Config{Color: "auto", Hyperlink: true},
		},
		{
			name:    "empty file",
			content: "",
			want:    DefaultConfig(),
		},
		{
			name:    "malformed",
			content: "include: [unclosed\n",
			wantErr: true,
		},
		{
			name:    "wrong type",
			content: "hyperlink: [1, 2]\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			cfg, err := Load(path)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), path)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestPath(t *testing.T) {
	t.Run("override", func(t *testing.T) {
		t.Setenv(EnvPath, "/env/config.yaml")
		assert.Equal(t, "/flag/config.yaml", Path("/flag/config.yaml"))
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv(EnvPath, "/env/config.yaml")
		assert.Equal(t, "/env/config.yaml", Path(""))
	})

	t.Run("user config dir", func(t *testing.T) {
		t.Setenv(EnvPath, "")
		t.Setenv("XDG_CONFIG_HOME", "/xdg")
		t.Setenv("HOME", "/home/test")
		t.Setenv("AppData", "/appdata")

		dir, err := os.UserConfigDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "rgrep", "config.yaml"), Path(""))
	})
}
