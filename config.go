// Copyright (C) 2022-2025, VigilantDoomer
//
// This file is part of VigilantBSP program.
//
// VigilantBSP is free software: you can redistribute it
// and/or modify it under the terms of GNU General Public License
// as published by the Free Software Foundation, either version 2 of
// the License, or (at your option) any later version.
//
// VigilantBSP is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with VigilantBSP.  If not, see <https://www.gnu.org/licenses/>.
package glnodes

const VERSION = "0.1.0"

// Defaults. The split factor is the seg split cost inherited from BSP v5.2
// (the -nf= parameter in VigilantBSP), diagonal penalty is disabled the same
// way VigilantBSP disables it for non-Hexen levels.
const (
	VERTEX_WELDING_EPSILON       = 0.005
	PUNISHABLE_ENDPOINT_DISTANCE = 0.1
	PICKNODE_FACTOR              = 17
	IMBALANCE_FACTOR             = 1
	DIAGONAL_PENALTY             = 0
	NEAR_ENDPOINT_PENALTY        = 5
	MAX_TREE_DEPTH               = 10000
)

// Verbosity levels for MyLogger.Verbose
const (
	VERBOSE_NONE = iota
	VERBOSE_TOTALS
	VERBOSE_STEPS
	VERBOSE_SEGS
)

// SplitWeights are the knobs of the splitter cost function. Lower cost wins
type SplitWeights struct {
	SplitScoreFactor        int // cost per seg cut by the splitter
	LeftRightImbalanceScore int // cost per seg of difference between sides
	NotAxisAlignedScore     int // flat cost for diagonal splitters
	NearEndpointSplitScore  int // flat cost per cut landing near an endpoint
}

// Config holds everything a build is parameterized with. A nil *Config
// passed anywhere means DefaultConfig()
type Config struct {
	// Positions closer than this are the same vertex, and points closer than
	// this to a line are on it
	VertexWeldingEpsilon float64
	// Cuts closer than this to an endpoint receive NearEndpointSplitScore
	PunishableEndpointDistance float64
	SplitWeights               SplitWeights
	// Drop chains of walls that dangle off the map (an end not connected to
	// anything) before building
	PruneDanglingChains bool
	// Work items deeper than this abort the build
	MaxDepth       int
	VerbosityLevel int
	// Optional path for a rotating log file, in addition to stdout/stderr
	LogFile string
	// Logger to use instead of the package-wide Log
	Logger *MyLogger
}

func DefaultConfig() *Config {
	return &Config{
		VertexWeldingEpsilon:       VERTEX_WELDING_EPSILON,
		PunishableEndpointDistance: PUNISHABLE_ENDPOINT_DISTANCE,
		SplitWeights: SplitWeights{
			SplitScoreFactor:        PICKNODE_FACTOR,
			LeftRightImbalanceScore: IMBALANCE_FACTOR,
			NotAxisAlignedScore:     DIAGONAL_PENALTY,
			NearEndpointSplitScore:  NEAR_ENDPOINT_PENALTY,
		},
		PruneDanglingChains: true,
		MaxDepth:            MAX_TREE_DEPTH,
		VerbosityLevel:      VERBOSE_NONE,
	}
}

// logger returns the logger a build writes to, and whether it was created
// for that build alone (and so is to be closed by it)
func (c *Config) logger() (*MyLogger, bool) {
	if c.Logger != nil {
		return c.Logger, false
	}
	if c.LogFile != "" || c.VerbosityLevel != Log.verbosity {
		return CreateLogger(c.VerbosityLevel, c.LogFile), true
	}
	return Log, false
}

// configOrDefault returns a validated copy of cfg, the caller's struct is
// never written to
func configOrDefault(cfg *Config) *Config {
	if cfg == nil {
		return DefaultConfig()
	}
	if cfg.VertexWeldingEpsilon <= 0 {
		Log.Panic("Config: vertex welding epsilon must be positive, got %v\n",
			cfg.VertexWeldingEpsilon)
	}
	c := *cfg
	if c.MaxDepth <= 0 {
		c.MaxDepth = MAX_TREE_DEPTH
	}
	return &c
}
