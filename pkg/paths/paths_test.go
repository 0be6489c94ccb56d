package paths

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/botctl/botctl/pkg/testutil"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		envSetup map[string]string
		validate func(t *testing.T, p Paths)
	}{
		{
			name: "custom directories from environment",
			envSetup: map[string]string{
				EnvDataDir:   "/custom/data",
				EnvConfigDir: "/custom/config",
				EnvCacheDir:  "/custom/cache",
				EnvStateDir:  "/custom/state",
			},
			validate: func(t *testing.T, p Paths) {
				testutil.AssertEqual(t, "/custom/data", p.DataDir())
				testutil.AssertEqual(t, "/custom/config", p.ConfigDir())
				testutil.AssertEqual(t, "/custom/cache", p.CacheDir())
				testutil.AssertEqual(t, "/custom/state", p.StateDir())
			},
		},
		{
			name: "tilde expansion in environment overrides",
			envSetup: map[string]string{
				EnvDataDir: "~/botctl-data",
			},
			validate: func(t *testing.T, p Paths) {
				homeDir, _ := os.UserHomeDir()
				testutil.AssertEqual(t, filepath.Join(homeDir, "botctl-data"), p.DataDir())
			},
		},
		{
			name: "XDG fallback directories",
			validate: func(t *testing.T, p Paths) {
				// Without overrides every directory lands in a botctl
				// subdirectory of the XDG tree
				testutil.AssertTrue(t, strings.HasSuffix(p.DataDir(), BotctlDirName),
					"DataDir should end with %s, got %s", BotctlDirName, p.DataDir())
				testutil.AssertTrue(t, strings.HasSuffix(p.ConfigDir(), BotctlDirName),
					"ConfigDir should end with %s, got %s", BotctlDirName, p.ConfigDir())
				testutil.AssertTrue(t, strings.HasSuffix(p.CacheDir(), BotctlDirName),
					"CacheDir should end with %s, got %s", BotctlDirName, p.CacheDir())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear relevant environment variables first
			t.Setenv(EnvDataDir, "")
			t.Setenv(EnvConfigDir, "")
			t.Setenv(EnvCacheDir, "")
			t.Setenv(EnvStateDir, "")

			// Set up environment
			for k, v := range tt.envSetup {
				t.Setenv(k, v)
			}

			p, err := New()

			testutil.AssertNoError(t, err)

			if tt.validate != nil {
				tt.validate(t, p)
			}
		})
	}
}

func TestDerivedPaths(t *testing.T) {
	t.Setenv(EnvDataDir, "/test/data")
	t.Setenv(EnvConfigDir, "/test/config")
	t.Setenv(EnvCacheDir, "/test/cache")
	t.Setenv(EnvStateDir, "/test/state")

	p, err := New()
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, filepath.Join("/test/data", RegistryFileName), p.RegistryPath())
	testutil.AssertEqual(t, filepath.Join("/test/state", LogFileName), p.LogFilePath())
	testutil.AssertEqual(t, filepath.Join("/test/config", "botctl.toml"), p.GlobalConfigPath())
}

func TestExpandHome(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	testutil.AssertNoError(t, err)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "just tilde",
			input:    "~",
			expected: homeDir,
		},
		{
			name:     "tilde with path",
			input:    "~/bots/alpha",
			expected: filepath.Join(homeDir, "bots/alpha"),
		},
		{
			name:     "tilde other user",
			input:    "~other/path",
			expected: "~other/path", // Not expanded
		},
		{
			name:     "no tilde",
			input:    "/absolute/path",
			expected: "/absolute/path",
		},
		{
			name:     "relative path",
			input:    "relative/path",
			expected: "relative/path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExpandHome(tt.input)
			testutil.AssertEqual(t, tt.expected, result)
		})
	}
}

func TestNormalizePath(t *testing.T) {
	p, err := New()
	testutil.AssertNoError(t, err)

	t.Run("empty path", func(t *testing.T) {
		_, err := p.NormalizePath("")
		testutil.AssertError(t, err)
	})

	t.Run("tilde path", func(t *testing.T) {
		homeDir, _ := os.UserHomeDir()
		result, err := p.NormalizePath("~/bots")
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, filepath.Join(homeDir, "bots"), result)
	})

	t.Run("redundant elements are cleaned", func(t *testing.T) {
		result, err := p.NormalizePath("/bots//alpha/../beta")
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, "/bots/beta", result)
	})

	t.Run("relative path becomes absolute", func(t *testing.T) {
		result, err := p.NormalizePath("alpha")
		testutil.AssertNoError(t, err)
		testutil.AssertTrue(t, filepath.IsAbs(result), "expected absolute path, got %s", result)
	})
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{
			name: "valid path",
			path: "/bots/alpha",
		},
		{
			name:    "empty path",
			path:    "",
			wantErr: true,
		},
		{
			name:    "null byte",
			path:    "/bots/\x00alpha",
			wantErr: true,
		},
		{
			name:    "excessive length",
			path:    "/" + strings.Repeat("a", 4100),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if tt.wantErr {
				testutil.AssertError(t, err)
			} else {
				testutil.AssertNoError(t, err)
			}
		})
	}
}
