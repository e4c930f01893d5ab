// Command fftextract reads an oscilloscope FFT screenshot and writes the
// attenuation tables, charts and an annotated copy into the output directory.
package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/scopefft/internal/calibration"
	"github.com/RMahshie/scopefft/internal/config"
	"github.com/RMahshie/scopefft/internal/curve"
	"github.com/RMahshie/scopefft/internal/extraction"
	"github.com/RMahshie/scopefft/internal/imageio"
	"github.com/RMahshie/scopefft/internal/interpolate"
)

// Exit codes
const (
	exitOK = iota
	exitUnexpected
	exitLoad
	exitResolution
	exitCurve
	exitData
	exitConfig
	exitOutput
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err == nil {
		if level, perr := zerolog.ParseLevel(cfg.Log.Level); perr == nil {
			zerolog.SetGlobalLevel(level)
		}
		err = run(cfg, config.SDS2354XPlus())
	}
	if err != nil {
		log.Error().Err(err).Msg("Extraction failed")
	}
	os.Exit(exitCode(err))
}

func run(cfg *config.Config, profile config.Profile) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	pipeline, err := extraction.NewPipeline(profile, cfg.Annotate.Options())
	if err != nil {
		return err
	}

	img, format, err := imageio.Load(cfg.Extraction.InputImage)
	if err != nil {
		return err
	}
	log.Info().Str("path", cfg.Extraction.InputImage).Str("format", format).Msg("Screenshot loaded")

	res, err := pipeline.Run(img)
	if err != nil {
		return err
	}

	if len(cfg.Extraction.ProbeFrequencies) > 0 {
		probes, err := pipeline.Probe(res.Mapped, cfg.Extraction.ProbeFrequencies)
		if err != nil {
			return err
		}
		for _, p := range probes {
			log.Info().
				Float64("frequency_mhz", p.FrequencyMHz).
				Float64("attenuation_dbv", p.AttenuationDBV).
				Float64("volt_scale", p.VoltScale).
				Msg("Probe")
		}
	}

	artifacts, err := pipeline.Artifacts(res, cfg)
	if err != nil {
		return err
	}
	if err := extraction.WriteArtifacts(cfg.Output.Dir, artifacts); err != nil {
		return err
	}

	log.Info().
		Str("output_dir", filepath.Clean(cfg.Output.Dir)).
		Int("files", len(artifacts)).
		Msg("Extraction complete")
	return nil
}

func exitCode(err error) int {
	var loadErr *imageio.LoadError
	var mismatch *calibration.ResolutionMismatchError
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &loadErr):
		return exitLoad
	case errors.As(err, &mismatch):
		return exitResolution
	case errors.Is(err, curve.ErrEmptyCurve),
		errors.Is(err, curve.ErrZoneOverlap),
		errors.Is(err, curve.ErrZoneOutOfBounds),
		errors.Is(err, calibration.ErrNoZeroReference):
		return exitCurve
	case errors.Is(err, interpolate.ErrInsufficientData),
		errors.Is(err, interpolate.ErrNotMonotonic),
		errors.Is(err, interpolate.ErrInvalidRange):
		return exitData
	case errors.Is(err, config.ErrInvalidConfig),
		errors.Is(err, config.ErrInvalidProfile),
		errors.Is(err, calibration.ErrMalformedTable):
		return exitConfig
	case errors.Is(err, extraction.ErrOutput):
		return exitOutput
	default:
		return exitUnexpected
	}
}
