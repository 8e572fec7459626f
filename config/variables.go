/*
DESCRIPTION
  variables.go contains a list of structs that provide a variable Name, type
  in a string format, a function for updating the variable in the Config
  struct from a string, and finally a validation function to check the
  validity of the corresponding field value in the Config.

LICENSE
  Copyright (C) 2026 the cinepunk authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the cinepunk authors.
*/

package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ausocean/utils/logging"
)

// Config map keys.
const (
	KeyWidth             = "Width"
	KeyHeight            = "Height"
	KeyQualityFactor     = "QualityFactor"
	KeyKeyFrameInterval  = "KeyFrameInterval"
	KeyMaxStrips         = "MaxStrips"
	KeyGrayOnly          = "GrayOnly"
	KeyFastRGBToYUV      = "FastRGBToYUV"
	KeyNoThreads         = "NoThreads"
	KeyForwardWeighting  = "ForwardWeighting"
	KeySkipUnchangedSeed = "SkipUnchangedSeed"
	KeyLogging           = "logging"
	KeySuppress          = "Suppress"
)

// Config map parameter types.
const (
	typeString = "string"
	typeInt    = "int"
	typeUint   = "uint"
	typeBool   = "bool"
)

// Default variable values.
const (
	defaultQualityFactor     = 80
	defaultKeyFrameInterval  = 60
	defaultMaxStrips         = 0 // 0 means no cap (one strip per four macroblock rows).
	defaultVerbosity         = logging.Error
)

// Variables describes the variables that can be used for encoder control.
// These structs provide the name and type of variable, a function for
// updating this variable in a Config, and a function for validating the
// value of the variable.
var Variables = []struct {
	Name     string
	Type     string
	Update   func(*Config, string)
	Validate func(*Config)
}{
	{
		Name:   KeyWidth,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.Width = parseUint(KeyWidth, v, c) },
		Validate: func(c *Config) {
			if c.Width == 0 || c.Width%4 != 0 {
				c.LogInvalidField(KeyWidth, c.Width)
			}
		},
	},
	{
		Name:   KeyHeight,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.Height = parseUint(KeyHeight, v, c) },
		Validate: func(c *Config) {
			if c.Height == 0 || c.Height%4 != 0 {
				c.LogInvalidField(KeyHeight, c.Height)
			}
		},
	},
	{
		Name:   KeyQualityFactor,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.QualityFactor = parseUint(KeyQualityFactor, v, c) },
		Validate: func(c *Config) {
			if c.QualityFactor > 100 {
				c.QualityFactor = defaultQualityFactor
				c.LogInvalidField(KeyQualityFactor, defaultQualityFactor)
			}
		},
	},
	{
		Name:   KeyKeyFrameInterval,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.KeyFrameInterval = parseUint(KeyKeyFrameInterval, v, c) },
	},
	{
		Name:   KeyMaxStrips,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.MaxStrips = parseUint(KeyMaxStrips, v, c) },
	},
	{
		Name:   KeyGrayOnly,
		Type:   typeBool,
		Update: func(c *Config, v string) { c.GrayOnly = parseBool(KeyGrayOnly, v, c) },
	},
	{
		Name:   KeyFastRGBToYUV,
		Type:   typeBool,
		Update: func(c *Config, v string) { c.FastRGBToYUV = parseBool(KeyFastRGBToYUV, v, c) },
	},
	{
		Name:   KeyNoThreads,
		Type:   typeBool,
		Update: func(c *Config, v string) { c.NoThreads = parseBool(KeyNoThreads, v, c) },
	},
	{
		Name:   KeyForwardWeighting,
		Type:   typeBool,
		Update: func(c *Config, v string) { c.ForwardWeighting = parseBool(KeyForwardWeighting, v, c) },
	},
	{
		Name:   KeySkipUnchangedSeed,
		Type:   typeBool,
		Update: func(c *Config, v string) { c.SkipUnchangedSeed = parseBool(KeySkipUnchangedSeed, v, c) },
	},
	{
		Name:   KeySuppress,
		Type:   typeBool,
		Update: func(c *Config, v string) { c.Suppress = parseBool(KeySuppress, v, c) },
	},
}

func parseUint(n, v string, c *Config) uint {
	_v, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected unsigned int for param %s", n), "value", v)
	}
	return uint(_v)
}

func parseBool(n, v string, c *Config) (b bool) {
	switch strings.ToLower(v) {
	case "true":
		b = true
	case "false":
		b = false
	default:
		c.Logger.Warning(fmt.Sprintf("expected bool for param %s", n), "value", v)
	}
	return b
}
