package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/cypress-io/cypress-docker-images/cdi/internal/errors"
	"github.com/cypress-io/cypress-docker-images/cdi/internal/output"
	"github.com/cypress-io/cypress-docker-images/cdi/internal/testutil"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "included", cfg.Root)
	assert.Equal(t, "cypress/included", cfg.Image)
	assert.Equal(t, "included", cfg.Label)
	assert.Equal(t, "cypress/browsers", cfg.BaseImage.Namespace)
	require.Len(t, cfg.Delegates, 3)
	assert.Equal(t, "config", cfg.Delegates[0].Name)
	assert.Equal(t, "readme", cfg.Delegates[1].Name)
	assert.Equal(t, "commit", cfg.Delegates[2].Name)
	assert.Nil(t, cfg.Log.Timestamps)
}

func TestWithDefaults(t *testing.T) {
	cfg := (&Config{Root: "out", Image: "example/included"}).WithDefaults()

	assert.Equal(t, "out", cfg.Root)
	assert.Equal(t, "example/included", cfg.Image)
	assert.Equal(t, "included", cfg.Label)
	assert.Equal(t, "cypress/browsers", cfg.BaseImage.Namespace)
	assert.Len(t, cfg.Delegates, 3)
}

func TestDelegateSpecs(t *testing.T) {
	specs := DefaultConfig().DelegateSpecs()
	require.Len(t, specs, 3)
	assert.Equal(t, "node", specs[0].Command)
	assert.Equal(t, []string{"scripts/generate-config.js", "{{.Label}}", "{{.Category}}"}, specs[0].Args)
	assert.True(t, specs[2].Interactive)
}

func TestResolveConfigPath(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		t.Setenv("CDI_CONFIG", "")
		p := ResolveConfigPath("")
		assert.Equal(t, DefaultConfigFile, p.Path)
		assert.Equal(t, SourceDefault, p.Source)
		assert.False(t, p.Explicit())
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv("CDI_CONFIG", "/etc/cdi.yaml")
		p := ResolveConfigPath("")
		assert.Equal(t, "/etc/cdi.yaml", p.Path)
		assert.Equal(t, SourceEnv, p.Source)
		assert.True(t, p.Explicit())
	})

	t.Run("flag wins over env", func(t *testing.T) {
		t.Setenv("CDI_CONFIG", "/etc/cdi.yaml")
		p := ResolveConfigPath("custom.yaml")
		assert.Equal(t, "custom.yaml", p.Path)
		assert.Equal(t, SourceFlag, p.Source)
	})
}

func TestLoader_MissingDefaultFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := NewLoader().Load(ConfigPath{Path: filepath.Join(dir, "cdi.yaml"), Source: SourceDefault})
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoader_MissingExplicitFile(t *testing.T) {
	dir := t.TempDir()

	_, err := NewLoader().Load(ConfigPath{Path: filepath.Join(dir, "nope.yaml"), Source: SourceFlag})
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrNotFound))
}

func TestLoader_File(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "cdi.yaml", `
root: images/included
image: example/included
baseImage:
  namespace: example/browsers
delegates:
  - name: notify
    command: echo
    args: ["{{.Category}}"]
log:
  timestamps: false
`)

	cfg, err := NewLoader().Load(ConfigPath{Path: path, Source: SourceFlag})
	require.NoError(t, err)

	assert.Equal(t, "images/included", cfg.Root)
	assert.Equal(t, "example/included", cfg.Image)
	assert.Equal(t, "included", cfg.Label)
	assert.Equal(t, "example/browsers", cfg.BaseImage.Namespace)
	require.Len(t, cfg.Delegates, 1)
	assert.Equal(t, "notify", cfg.Delegates[0].Name)
	assert.Equal(t, []string{"{{.Category}}"}, cfg.Delegates[0].Args)
	require.NotNil(t, cfg.Log.Timestamps)
	assert.False(t, *cfg.Log.Timestamps)
}

func TestLoader_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "cdi.yaml", "root: from-file\n")
	t.Setenv("CDI_ROOT", "from-env")

	cfg, err := NewLoader().Load(ConfigPath{Path: path, Source: SourceFlag})
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Root)
}

func TestLoader_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "cdi.yaml", "root: [unterminated\n")

	_, err := NewLoader().Load(ConfigPath{Path: path, Source: SourceFlag})
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrValidation))
}

func TestValidator(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:   "timestamps set",
			mutate: func(c *Config) { c.Log.Timestamps = output.BoolPtr(true) },
		},
		{
			name:      "empty root",
			mutate:    func(c *Config) { c.Root = "" },
			wantField: "root",
		},
		{
			name:      "namespace without repository",
			mutate:    func(c *Config) { c.BaseImage.Namespace = "cypress" },
			wantField: "baseImage.namespace",
		},
		{
			name:      "uppercase image",
			mutate:    func(c *Config) { c.Image = "Cypress/Included" },
			wantField: "image",
		},
		{
			name:      "delegate without command",
			mutate:    func(c *Config) { c.Delegates[0].Command = "" },
			wantField: "delegates.0.command",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := v.Validate(cfg)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			var errs ValidationErrors
			require.True(t, errors.As(err, &errs), "got %T: %v", err, err)
			fields := make([]string, 0, len(errs))
			for _, e := range errs {
				fields = append(fields, e.Field)
			}
			assert.Contains(t, fields, tt.wantField)

			seen := make(map[ValidationError]bool)
			for _, e := range errs {
				assert.False(t, strings.HasPrefix(e.Field, "#"), "schema definition leaked into %q", e.Field)
				assert.False(t, seen[e], "duplicate error %v", e)
				seen[e] = true
			}
		})
	}
}

func TestLoad_InvalidConfigIsValidationError(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "cdi.yaml", "image: NotValid\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrValidation))

	var detail *oerrors.DetailError
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, path, detail.Location)
	assert.Equal(t, "image", detail.Field)
	assert.Contains(t, detail.Error(), "Field: image")
}

func TestFieldPath(t *testing.T) {
	tests := []struct {
		path []string
		want string
	}{
		{[]string{"#Config", "root"}, "root"},
		{[]string{"#Config", "delegates", "0", "command"}, "delegates.0.command"},
		{[]string{"#Config"}, "config"},
		{nil, "config"},
		{[]string{"image"}, "image"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, fieldPath(tt.path))
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{{Field: "root", Message: "empty"}}
	assert.Contains(t, errs.Error(), "root: empty")
	assert.Equal(t, "no validation errors", ValidationErrors{}.Error())
}
