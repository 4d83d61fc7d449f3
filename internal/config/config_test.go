package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "config.yaml", `
server:
  port: 9090

database:
  driver: memory

templates:
  path: configs/templates.yaml

directory:
  users:
    john_doe: Business User
    sarah_pmo: PMO
  routing:
    Business User: john_doe
    PMO: sarah_pmo
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, "PMO", cfg.Directory.Users["sarah_pmo"])
	assert.Equal(t, "sarah_pmo", cfg.Directory.Routing["PMO"])
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Database:  DatabaseConfig{Driver: "memory"},
			Templates: TemplatesConfig{Path: "configs/templates.yaml"},
			Directory: DirectoryConfig{
				Users:   map[string]string{"john": "Business User"},
				Routing: map[string]string{"Business User": "john"},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid memory", func(c *Config) {}, false},
		{"valid sqlite", func(c *Config) {
			c.Database.Driver = "sqlite"
			c.Database.Path = "data/test.db"
		}, false},
		{"sqlite without path", func(c *Config) {
			c.Database.Driver = "sqlite"
			c.Database.Path = ""
		}, true},
		{"unknown driver", func(c *Config) { c.Database.Driver = "postgres" }, true},
		{"missing templates path", func(c *Config) { c.Templates.Path = "" }, true},
		{"no users", func(c *Config) { c.Directory.Users = nil }, true},
		{"no routing", func(c *Config) { c.Directory.Routing = nil }, true},
		{"routing to user without the role", func(c *Config) {
			c.Directory.Routing = map[string]string{"PMO": "john"}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadTemplates(t *testing.T) {
	path := writeFile(t, "templates.yaml", `
templates:
  - name: IT Project Request
    steps:
      - name: Business User Submission
        owner_role: Business User
        sla_days: 1
      - name: PMO Review
        owner_role: PMO
        sla_days: 3
        checklist:
          - name: Budget approved
            description: Finance has signed off
            required: true
          - name: Risks documented
            required: false
`)

	templates, err := LoadTemplates(path)
	require.NoError(t, err)
	require.Len(t, templates, 1)

	tmpl := templates[0]
	assert.Equal(t, "IT Project Request", tmpl.Name)
	require.Len(t, tmpl.Steps, 2)
	assert.Equal(t, "PMO", tmpl.Steps[1].OwnerRole)
	assert.Equal(t, 3, tmpl.Steps[1].SLADays)
	require.Len(t, tmpl.Steps[1].Checklist, 2)
	assert.True(t, tmpl.Steps[1].Checklist[0].Required)
	assert.False(t, tmpl.Steps[1].Checklist[1].Required)
	assert.NoError(t, tmpl.Validate())
}

func TestLoadTemplates_Failures(t *testing.T) {
	if _, err := LoadTemplates(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadTemplates(missing) = nil, want error")
	}

	empty := writeFile(t, "empty.yaml", "templates: []\n")
	if _, err := LoadTemplates(empty); err == nil {
		t.Error("LoadTemplates(empty catalog) = nil, want error")
	}
}
