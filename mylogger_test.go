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

// mylogger_test.go
package glnodes

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuildWritesLogFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.VerbosityLevel = VERBOSE_TOTALS
	cfg.LogFile = filepath.Join(t.TempDir(), "glnodes.log")
	b, err := NewBuilder(Rect(0, 0, 2, 2, 0), cfg)
	if err != nil {
		t.Fatalf("NewBuilder failed: %s\n", err.Error())
	}
	if _, err := b.Build(); err != nil {
		t.Fatalf("Build failed: %s\n", err.Error())
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close failed: %s\n", err.Error())
	}
	data, err := os.ReadFile(cfg.LogFile)
	if err != nil {
		t.Fatalf("Log file was not written: %s\n", err.Error())
	}
	if !strings.Contains(string(data), "Created 1 subsectors, 0 nodes") {
		t.Errorf("Totals missing from log file:\n%s", data)
	}
}

func TestBuildNodesLeavesConfigUntouched(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDepth = 0
	cfg.LogFile = filepath.Join(t.TempDir(), "glnodes.log")
	for i := 0; i < 2; i++ {
		if _, err := BuildNodes(Rect(0, 0, 2, 2, 0), cfg); err != nil {
			t.Fatalf("Build %d failed: %s\n", i, err.Error())
		}
	}
	if cfg.Logger != nil {
		t.Errorf("Caller's config got a logger assigned\n")
	}
	if cfg.MaxDepth != 0 {
		t.Errorf("Caller's MaxDepth was changed to %d\n", cfg.MaxDepth)
	}
	// BuildNodes closed the file, so it can be removed right away
	if err := os.Remove(cfg.LogFile); err != nil {
		t.Errorf("Log file could not be removed: %s\n", err.Error())
	}
}

func TestLoggerVerbosity(t *testing.T) {
	cfg := DefaultConfig()
	if l, owned := cfg.logger(); l != Log || owned {
		t.Errorf("Default config must use the global logger\n")
	}
	cfg.VerbosityLevel = VERBOSE_SEGS
	l, owned := cfg.logger()
	if l == Log || l.verbosity != VERBOSE_SEGS || !owned {
		t.Errorf("Verbose config must get its own logger\n")
	}
	cfg.Logger = l
	if again, owned := cfg.logger(); again != l || owned {
		t.Errorf("Logger supplied by the caller must be used as is\n")
	}
}

func TestLoggerPanicCarriesMessage(t *testing.T) {
	defer func() {
		r := recover()
		if msg, ok := r.(string); !ok || msg != "seg 7 is broken" {
			t.Errorf("Unexpected panic value %v\n", r)
		}
	}()
	Log.Panic("seg %d is broken\n", 7)
}
