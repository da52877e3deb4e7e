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

// Central log (stdout/stderr, and optionally a file) of the node builder
package glnodes

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type MyLogger struct {
	sugar     *zap.SugaredLogger
	verbosity int
	file      *lumberjack.Logger // nil unless logging to a file
	// Orders writes coming from Panic against everything else, so that the
	// message making it to the log is the last one before the panic
	mu sync.Mutex
}

// CreateLogger builds a logger writing messages to stdout, errors to stderr,
// and everything to a rotating file if logFile is not empty
func CreateLogger(verbosity int, logFile string) *MyLogger {
	encCfg := zapcore.EncoderConfig{
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	below := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl < zapcore.ErrorLevel
	})
	above := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.ErrorLevel
	})
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg),
			zapcore.Lock(os.Stdout), below),
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg),
			zapcore.Lock(os.Stderr), above),
	}
	var file *lumberjack.Logger
	if logFile != "" {
		fileCfg := zap.NewProductionEncoderConfig()
		fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		file = &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		}
		sink := zapcore.AddSync(file)
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg),
			sink, zapcore.DebugLevel))
	}
	return &MyLogger{
		sugar:     zap.New(zapcore.NewTee(cores...)).Sugar(),
		verbosity: verbosity,
		file:      file,
	}
}

var Log = CreateLogger(VERBOSE_NONE, "")

// Messages are written printf-style with the trailing newline, zap adds its
// own
func trimMsg(s string, a ...interface{}) string {
	return strings.TrimSuffix(fmt.Sprintf(s, a...), "\n")
}

// Your generic printf to let user see things
func (log *MyLogger) Printf(s string, a ...interface{}) {
	log.mu.Lock()
	defer log.mu.Unlock()
	log.sugar.Info(trimMsg(s, a...))
}

// As generic as printf, but writes to stderr instead of stdout
// Does NOT interrupt execution
func (log *MyLogger) Error(s string, a ...interface{}) {
	log.mu.Lock()
	defer log.mu.Unlock()
	log.sugar.Error(trimMsg(s, a...))
}

// Stuff that is only of interest when chasing a problem in the builder
func (log *MyLogger) Verbose(verbosityLevel int, s string, a ...interface{}) {
	if verbosityLevel <= log.verbosity {
		log.mu.Lock()
		defer log.mu.Unlock()
		log.sugar.Debug(trimMsg(s, a...))
	}
}

// Panicking is not a good thing, but at least we can now use formatted printing
// for it. Used for broken invariants - calling code that misuses a state
// machine, not for bad maps
func (log *MyLogger) Panic(s string, a ...interface{}) {
	log.mu.Lock()
	defer log.mu.Unlock()
	msg := trimMsg(s, a...)
	log.sugar.Error(msg)
	panic(msg)
}

// DumpSegs writes the coordinates of segs that are causing trouble, but only
// if user asked for it
func (log *MyLogger) DumpSegs(segAlloc *SegmentAllocator, segs []SegmentID) {
	if log.verbosity < VERBOSE_SEGS || segAlloc == nil {
		return
	}
	var sb strings.Builder
	for _, id := range segs {
		seg := segAlloc.Segment(id)
		s := segAlloc.vertices.Vertex(seg.Start).Pos
		e := segAlloc.vertices.Vertex(seg.End).Pos
		sb.WriteString(fmt.Sprintf("  Seg %d Line: %d Front: %d Back: %d (%v,%v) - (%v,%v)\n",
			id, seg.Line, seg.Front, seg.Back, s[0], s[1], e[0], e[1]))
	}
	log.Verbose(VERBOSE_SEGS, "%s", sb.String())
}

// Sync is used to wait until all messages are written to the output
func (log *MyLogger) Sync() {
	log.mu.Lock()
	defer log.mu.Unlock()
	_ = log.sugar.Sync()
}

// Close flushes the log and releases the log file, if any. The logger keeps
// working on the console afterwards; a later write to the file reopens it
func (log *MyLogger) Close() error {
	log.mu.Lock()
	defer log.mu.Unlock()
	_ = log.sugar.Sync()
	if log.file != nil {
		return log.file.Close()
	}
	return nil
}
