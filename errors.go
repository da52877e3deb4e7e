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

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Input that cannot form closed regions: too few segs, zero-length or
	// duplicate walls, walls without a front sector, loops facing the void
	ErrDegenerateInput = errors.New("degenerate map geometry")
	// A seg set that is not convex and that no splitter can divide
	ErrUnsplittable = errors.New("seg set cannot be made convex")
)

// BuildError is what a failed build returns. Walls are indices into the input
// slice, Segments are ids in the builder's SegmentAllocator
type BuildError struct {
	Kind     error
	Reason   string
	Walls    []int
	Segments []SegmentID
}

func (e *BuildError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.Error())
	sb.WriteString(": ")
	sb.WriteString(e.Reason)
	if len(e.Walls) > 0 {
		sb.WriteString(fmt.Sprintf(" (walls %v)", e.Walls))
	}
	if len(e.Segments) > 0 {
		sb.WriteString(fmt.Sprintf(" (segs %v)", e.Segments))
	}
	return sb.String()
}

func (e *BuildError) Unwrap() error {
	return e.Kind
}

func degenerateWalls(reason string, walls ...int) *BuildError {
	return &BuildError{Kind: ErrDegenerateInput, Reason: reason, Walls: walls}
}

func failedSegs(kind error, reason string, segs []SegmentID) *BuildError {
	cp := make([]SegmentID, len(segs))
	copy(cp, segs)
	return &BuildError{Kind: kind, Reason: reason, Segments: cp}
}
