package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/cpa2kicad/internal/config"
	"github.com/OpenTraceLab/cpa2kicad/pkg/cadstar/archive"
	"github.com/OpenTraceLab/cpa2kicad/pkg/cadstar/importer"
	"github.com/OpenTraceLab/cpa2kicad/pkg/kicad/pcb"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{config.EnvDielectric, config.EnvEdgeCutsWidth, config.EnvGenerator} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingDefaultFileReturnsDefaults(t *testing.T) {
	clearEnv(t)
	chdirTemp(t)

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.InDelta(t, 0.05, cfg.EdgeCutsWidthMM, 1e-12)
}

func chdirTemp(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoad_DotEnvOverrides(t *testing.T) {
	clearEnv(t)
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(config.EnvGenerator+"=from-dotenv\n"), 0644))
	// godotenv never overrides variables already set, even to ""
	require.NoError(t, os.Unsetenv(config.EnvGenerator))
	t.Cleanup(func() { _ = os.Unsetenv(config.EnvGenerator) })

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Generator)
}

func TestLoad_MalformedDotEnv(t *testing.T) {
	clearEnv(t)
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BROKEN='unterminated\n"), 0644))

	_, err := config.Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".env")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_ValidYAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
dielectric: alternate
edge_cuts_width_mm: 0.1
generator: acme
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DielectricAlternate, cfg.Dielectric)
	assert.InDelta(t, 0.1, cfg.EdgeCutsWidthMM, 1e-12)
	assert.Equal(t, "acme", cfg.Generator)
}

func TestLoad_PartialYAMLKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `dielectric: core`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DielectricCore, cfg.Dielectric)
	assert.Equal(t, pcb.DefaultGenerator, cfg.Generator)
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `{{{invalid yaml`)

	_, err := config.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing")
}

func TestLoad_InvalidValues(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown dielectric", "dielectric: ceramic", "dielectric must be one of"},
		{"zero width", "edge_cuts_width_mm: 0", "edge_cuts_width_mm must be positive"},
		{"empty generator", `generator: ""`, "generator must not be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "dielectric: core\ngenerator: acme\n")
	t.Setenv(config.EnvDielectric, "alternate")
	t.Setenv(config.EnvEdgeCutsWidth, "0.25")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DielectricAlternate, cfg.Dielectric)
	assert.InDelta(t, 0.25, cfg.EdgeCutsWidthMM, 1e-12)
	assert.Equal(t, "acme", cfg.Generator)
}

func TestLoad_BadEnvironmentWidth(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvEdgeCutsWidth, "wide")

	_, err := config.Load(writeConfig(t, ""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.EnvEdgeCutsWidth)
}

func TestOptions_Classifier(t *testing.T) {
	item := pcb.NewStackupItem(pcb.StackupDielectric)

	tests := []struct {
		mode string
		want [2]string
	}{
		{config.DielectricPrepreg, [2]string{"prepreg", "prepreg"}},
		{config.DielectricCore, [2]string{"core", "core"}},
		{config.DielectricAlternate, [2]string{"prepreg", "core"}},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			c := config.Options{Dielectric: tt.mode}.Classifier()
			assert.Equal(t, tt.want, [2]string{c(1, item), c(2, item)})
		})
	}
}

func TestOptions_ImporterOptionsSetEdgeWidth(t *testing.T) {
	opts := config.Options{Dielectric: config.DielectricCore, EdgeCutsWidthMM: 0.15, Generator: "x"}

	board := pcb.NewBoard()
	importer.NewImporter(archive.New(), board, opts.ImporterOptions()...)
	assert.Equal(t, 150000, board.Design.LineThickness(pcb.EdgeCuts))
}
