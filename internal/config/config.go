// Package config loads import options from .cpa2kicad.yaml and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/cpa2kicad/pkg/cadstar/importer"
	"github.com/OpenTraceLab/cpa2kicad/pkg/kicad/pcb"
)

// FileName is the config file looked up in the working directory when no
// path is given.
const FileName = ".cpa2kicad.yaml"

// Dielectric classification modes
const (
	DielectricPrepreg   = "prepreg"
	DielectricCore      = "core"
	DielectricAlternate = "alternate"
)

// Environment overrides
const (
	EnvDielectric    = "CPA2KICAD_DIELECTRIC"
	EnvEdgeCutsWidth = "CPA2KICAD_EDGE_CUTS_WIDTH_MM"
	EnvGenerator     = "CPA2KICAD_GENERATOR"
)

// Options controls an import
type Options struct {
	Dielectric      string  `yaml:"dielectric"`
	EdgeCutsWidthMM float64 `yaml:"edge_cuts_width_mm"`
	Generator       string  `yaml:"generator"`
}

// Default returns the options used when nothing is configured.
func Default() Options {
	return Options{
		Dielectric:      DielectricPrepreg,
		EdgeCutsWidthMM: pcb.ToMM(pcb.DefaultEdgeWidth),
		Generator:       pcb.DefaultGenerator,
	}
}

// Validate checks option values.
func (o Options) Validate() error {
	switch o.Dielectric {
	case DielectricPrepreg, DielectricCore, DielectricAlternate:
	default:
		return fmt.Errorf("dielectric must be one of %q, %q or %q, got %q",
			DielectricPrepreg, DielectricCore, DielectricAlternate, o.Dielectric)
	}
	if o.EdgeCutsWidthMM <= 0 {
		return fmt.Errorf("edge_cuts_width_mm must be positive, got %g", o.EdgeCutsWidthMM)
	}
	if o.Generator == "" {
		return errors.New("generator must not be empty")
	}
	return nil
}

// Load reads options from path, or from FileName when path is empty.
// A missing file yields the defaults. A .env file in the working directory
// is loaded first and may be absent; CPA2KICAD_* variables override the file.
func Load(path string) (Options, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Options{}, fmt.Errorf("loading .env: %w", err)
	}

	name := path
	if name == "" {
		name = FileName
	}

	cfg := Default()
	data, err := os.ReadFile(name)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Options{}, fmt.Errorf("parsing %s: %w", name, err)
		}
	case errors.Is(err, os.ErrNotExist) && path == "":
	default:
		return Options{}, err
	}

	if err := cfg.applyEnv(); err != nil {
		return Options{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Options{}, fmt.Errorf("invalid %s: %w", name, err)
	}
	return cfg, nil
}

func (o *Options) applyEnv() error {
	if v := os.Getenv(EnvDielectric); v != "" {
		o.Dielectric = v
	}
	if v := os.Getenv(EnvEdgeCutsWidth); v != "" {
		w, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvEdgeCutsWidth, err)
		}
		o.EdgeCutsWidthMM = w
	}
	if v := os.Getenv(EnvGenerator); v != "" {
		o.Generator = v
	}
	return nil
}

// Classifier returns the dielectric classifier for the configured mode.
func (o Options) Classifier() importer.DielectricClassifier {
	switch o.Dielectric {
	case DielectricCore:
		return importer.CoreDielectrics
	case DielectricAlternate:
		return importer.AlternatingDielectrics
	}
	return importer.PrepregDielectrics
}

// ImporterOptions converts the options for importer.Load.
func (o Options) ImporterOptions() []importer.Option {
	return []importer.Option{
		importer.WithDielectricClassifier(o.Classifier()),
		importer.WithEdgeCutsWidth(pcb.FromMM(o.EdgeCutsWidthMM)),
	}
}
