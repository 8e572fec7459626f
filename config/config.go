/*
NAME
  config.go

LICENSE
  Copyright (C) 2026 the cinepunk authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the cinepunk authors.
*/

// Package config contains the configuration settings for a cinepunk
// Encoder.
package config

import "github.com/ausocean/utils/logging"

// Config provides parameters relevant to one Encoder instance. A new
// config must be passed to the constructor. Default values for these
// fields are defined as consts in variables.go.
type Config struct {
	// Width and Height are the source frame's pixel dimensions. Both must
	// be a multiple of 4 (one macroblock).
	Width, Height uint

	// QualityFactor scales the rate-distortion trade-off in strip mode
	// decisions. Larger values weigh signalling cost more heavily, giving
	// coarser, smaller output; 0 removes the cost term and favours best
	// fidelity.
	QualityFactor uint

	// KeyFrameInterval is the number of inter frames encoded between two
	// consecutive key frames. 0 disables inter frames -- every frame
	// pushed is then encoded as a key frame.
	KeyFrameInterval uint

	// MaxStrips caps how many horizontal strips a frame is divided into.
	// The encoder uses one strip per four macroblock rows (at least one),
	// reduced to MaxStrips when that is smaller; 0 applies no cap.
	MaxStrips uint

	// GrayOnly drops chroma entirely, encoding a monochrome stream.
	GrayOnly bool

	// FastRGBToYUV selects the integer fixed-point RGB<->YUV conversion
	// over the slower gamma-correct one.
	FastRGBToYUV bool

	// NoThreads disables the per-strip worker goroutines, encoding
	// everything on the calling goroutine. Output is bit-identical
	// either way; this exists for profiling and for constrained hosts.
	NoThreads bool

	// ForwardWeighting raises every block's quantiser weight from 2 to 3
	// while KeyFrameInterval minus the encoder's remaining inter-frame
	// count is below 16. When false, every block gets weight 2.
	ForwardWeighting bool

	// SkipUnchangedSeed is parsed and stored but not read by the encoder:
	// every macroblock is fed to quantiser seeding whatever its value.
	SkipUnchangedSeed bool

	// Logger holds an implementation of the Logger interface. This must
	// be set for the encoder to work correctly.
	Logger logging.Logger

	// LogLevel is the encoder's logging verbosity level. Valid values are
	// defined by enums from the logging package: logging.Debug,
	// logging.Info, logging.Warning, logging.Error, logging.Fatal.
	LogLevel int8

	Suppress bool // Holds logger suppression state.
}

// Validate checks for any errors in the config fields and defaults
// settings if particular parameters have not been defined.
func (c *Config) Validate() error {
	for _, v := range Variables {
		if v.Validate != nil {
			v.Validate(c)
		}
	}
	return nil
}

// Update takes a map of configuration variable names and their
// corresponding values, parses the string values and converts into the
// correct type, and then sets the config struct fields as appropriate.
func (c *Config) Update(vars map[string]string) {
	for _, value := range Variables {
		if v, ok := vars[value.Name]; ok && value.Update != nil {
			value.Update(c, v)
		}
	}
}

func (c *Config) LogInvalidField(name string, def interface{}) {
	c.Logger.Info(name+" bad or unset, defaulting", name, def)
}
