package config

import (
	"testing"

	"github.com/thoreinstein/syncmcp/internal/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   []error
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:   "known tool override",
			mutate: func(c *Config) { c.Tools = map[string]ToolOverride{"vscode": {Path: "/x/mcp.json"}} },
		},
		{
			name:   "version too high",
			mutate: func(c *Config) { c.Version = 3 },
			want:   []error{ErrUnsupportedVersion},
		},
		{
			name:   "negative retention",
			mutate: func(c *Config) { c.Backup.Retention = -1 },
			want:   []error{ErrInvalidRetention},
		},
		{
			name:   "negative debounce",
			mutate: func(c *Config) { c.Watch.Debounce = -1 },
			want:   []error{ErrInvalidDebounce},
		},
		{
			name:   "null byte in backup dir",
			mutate: func(c *Config) { c.Backup.Dir = "bad\x00dir" },
			want:   []error{ErrInvalidPath},
		},
		{
			name: "every problem reported",
			mutate: func(c *Config) {
				c.Backup.Retention = 0
				c.Tools = map[string]ToolOverride{
					"zed":    {Path: "/x"},
					"claude": {Path: "."},
				}
			},
			want: []error{ErrInvalidRetention, ErrInvalidPath, ErrInvalidTool},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			errs := Validate(cfg)
			if len(errs) != len(tt.want) {
				t.Fatalf("Validate() = %v, want %d errors", errs, len(tt.want))
			}
			for i, want := range tt.want {
				if !errors.Is(errs[i], want) {
					t.Errorf("Validate()[%d] = %v, want %v", i, errs[i], want)
				}
			}
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	if errs := Validate(nil); len(errs) != 1 {
		t.Errorf("Validate(nil) = %v, want one error", errs)
	}
}

func TestToolError(t *testing.T) {
	err := &ToolError{Tool: "zed", Err: ErrInvalidTool}
	if err.Error() != "invalid tool override key: zed" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, ErrInvalidTool) {
		t.Error("ToolError should unwrap to its cause")
	}
}
