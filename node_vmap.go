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
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// VertexAllocator (a.k.a. vertex map) utils go here.

const VMAP_BLOCK_SIZE = 256.0

type VertexID int

type Vertex struct {
	ID  VertexID
	Pos mgl64.Vec2
}

type vmapBlock struct {
	x, y int64
}

// VertexAllocator is a ZDBSP-style vertex map: lookup of close-enough
// vertices among existing ones goes through a grid of blocks, so that only a
// handful of vertices are compared each time. Unlike ZDBSP's, the grid is not
// bounded, blocks are created when first needed.
// Every position handed to GetOrCreateVertex that is within epsilon of a known
// vertex resolves to that vertex, so that split points computed twice (from
// different branches) weld to the same identity
type VertexAllocator struct {
	vertices []Vertex
	grid     map[vmapBlock][]VertexID
	epsilon  float64
}

func NewVertexAllocator(epsilon float64) *VertexAllocator {
	if epsilon <= 0 || epsilon >= VMAP_BLOCK_SIZE/2 {
		Log.Panic("VertexAllocator: epsilon %v out of range\n", epsilon)
	}
	return &VertexAllocator{
		grid:    make(map[vmapBlock][]VertexID),
		epsilon: epsilon,
	}
}

func (vm *VertexAllocator) getBlock(x, y float64) vmapBlock {
	return vmapBlock{
		x: int64(math.Floor(x / VMAP_BLOCK_SIZE)),
		y: int64(math.Floor(y / VMAP_BLOCK_SIZE)),
	}
}

// GetOrCreateVertex returns the identity of a vertex within epsilon of pos,
// creating it if there is none
func (vm *VertexAllocator) GetOrCreateVertex(pos mgl64.Vec2) VertexID {
	if id, ok := vm.Find(pos); ok {
		return id
	}
	return vm.insertVertex(pos)
}

// Find looks up an existing vertex within epsilon of pos. The closest one
// wins if there happens to be more than one
func (vm *VertexAllocator) Find(pos mgl64.Vec2) (VertexID, bool) {
	best := VertexID(-1)
	bestDist := math.Inf(1)
	for _, id := range vm.grid[vm.getBlock(pos[0], pos[1])] {
		dist := vm.vertices[id].Pos.Sub(pos).Len()
		if dist <= vm.epsilon && dist < bestDist {
			best = id
			bestDist = dist
		}
	}
	return best, best >= 0
}

func (vm *VertexAllocator) insertVertex(pos mgl64.Vec2) VertexID {
	// If a vertex is near a block boundary, then it will be inserted on
	// both sides of the boundary so that Find can find it by checking in only
	// one block.
	id := VertexID(len(vm.vertices))
	vm.vertices = append(vm.vertices, Vertex{ID: id, Pos: pos})
	minx, maxx := pos[0]-vm.epsilon, pos[0]+vm.epsilon
	miny, maxy := pos[1]-vm.epsilon, pos[1]+vm.epsilon
	blk := [4]vmapBlock{
		vm.getBlock(minx, miny),
		vm.getBlock(maxx, miny),
		vm.getBlock(minx, maxy),
		vm.getBlock(maxx, maxy),
	}
	for i := 0; i < 4; i++ {
		dup := false
		for j := 0; j < i; j++ {
			if blk[j] == blk[i] {
				dup = true
				break
			}
		}
		if !dup {
			vm.grid[blk[i]] = append(vm.grid[blk[i]], id)
		}
	}
	return id
}

func (vm *VertexAllocator) Vertex(id VertexID) Vertex {
	if id < 0 || int(id) >= len(vm.vertices) {
		Log.Panic("VertexAllocator: no such vertex %d (have %d)\n", id, len(vm.vertices))
	}
	return vm.vertices[id]
}

func (vm *VertexAllocator) Pos(id VertexID) mgl64.Vec2 {
	return vm.Vertex(id).Pos
}

func (vm *VertexAllocator) Len() int {
	return len(vm.vertices)
}

func (vm *VertexAllocator) Epsilon() float64 {
	return vm.epsilon
}

// Vertices returns positions indexed by VertexID. The slice is not to be
// modified
func (vm *VertexAllocator) Vertices() []Vertex {
	return vm.vertices
}
