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

// nodegen
package glnodes

type BuilderState int

const (
	BUILD_NOT_STARTED BuilderState = iota
	BUILD_CHECKING_CONVEXITY
	BUILD_CREATING_LEAF
	BUILD_FINDING_SPLITTER
	BUILD_PARTITIONING
	BUILD_GENERATING_MINISEGS
	BUILD_FINISHING_SPLIT
	BUILD_COMPLETE
	BUILD_FAILED
)

var builderStateNames = [...]string{
	"NotStarted",
	"CheckingConvexity",
	"CreatingLeaf",
	"FindingSplitter",
	"PartitioningSegments",
	"GeneratingMinisegs",
	"FinishingSplit",
	"Complete",
	"Failed",
}

func (s BuilderState) String() string {
	return builderStateNames[s]
}

// Builder builds GL nodes: every subsector it outputs is a closed convex
// polygon, minisegs filling in where no wall bounds it. It's a state machine
// that does one small piece of work per Step, so that the caller can watch
// (or render) the build as it goes. Build runs it to the end
type Builder struct {
	cfg     *Config
	log     *MyLogger
	ownsLog bool // log was created for this builder, Close releases it

	vertices    *VertexAllocator
	segments    *SegmentAllocator
	junctions   *JunctionClassifier
	convex      *ConvexChecker
	splitCalc   *SplitCalculator
	partitioner *Partitioner
	minisegs    *MinisegCreator

	state    BuilderState
	queue    StkQueue
	cur      StkQueueTask
	splitter SegmentID

	rootNode   *NodeInProcess
	root       Child
	nodes      []Node
	subsectors []Subsector
	totals     NodesTotals
	tree       *Tree
	err        error
}

// BuildNodes is a shortcut for NewBuilder followed by Build
func BuildNodes(walls []Wall, cfg *Config) (*Tree, error) {
	b, err := NewBuilder(walls, cfg)
	if err != nil {
		return nil, err
	}
	defer b.Close()
	return b.Build()
}

// NewBuilder validates walls and prepares the build. Nothing is built until
// Step or Build are called. cfg is copied, the caller may reuse it. Close
// must be called once the builder is no longer needed if cfg.LogFile is set
func NewBuilder(walls []Wall, cfg *Config) (*Builder, error) {
	cfg = configOrDefault(cfg)
	b := &Builder{
		cfg:      cfg,
		vertices: NewVertexAllocator(cfg.VertexWeldingEpsilon),
		state:    BUILD_NOT_STARTED,
	}
	b.log, b.ownsLog = cfg.logger()
	b.segments = NewSegmentAllocator(b.vertices)
	b.junctions = NewJunctionClassifier(b.segments)
	b.convex = NewConvexChecker(b.segments, cfg.VertexWeldingEpsilon)
	b.splitCalc = NewSplitCalculator(b.segments, cfg)
	b.partitioner = NewPartitioner(b.segments, b.junctions, cfg.VertexWeldingEpsilon)
	b.minisegs = NewMinisegCreator(b.segments, b.junctions)

	segs, err := loadWalls(walls, b.segments)
	if err != nil {
		b.log.Error("Bad map geometry: %s\n", err.Error())
		b.Close()
		return nil, err
	}
	b.totals.segsAtStart = len(segs)
	if cfg.PruneDanglingChains {
		var pruned []SegmentID
		segs, pruned = PruneDanglingChains(b.segments, segs)
		b.totals.prunedAtStart = len(pruned)
		if len(pruned) > 0 {
			b.log.Verbose(VERBOSE_TOTALS, "Pruned %d dangling walls\n", len(pruned))
			b.log.DumpSegs(b.segments, pruned)
		}
	}
	if len(segs) < 3 {
		err := failedSegs(ErrDegenerateInput, "map has fewer than 3 walls forming regions", segs)
		b.log.Error("Bad map geometry: %s\n", err.Error())
		b.Close()
		return nil, err
	}
	for _, id := range segs {
		b.junctions.AddWall(id)
	}
	b.log.Verbose(VERBOSE_TOTALS, "Initial number of segs is %d\n", len(segs))
	b.queue.Enqueue(StkQueueTask{segs: segs})
	return b, nil
}

// Step does one unit of work. Returns done = true once the tree is complete
// or the build failed (err != nil). Calling Step after that is harmless
func (b *Builder) Step() (done bool, err error) {
	switch b.state {
	case BUILD_NOT_STARTED:
		b.loadNextTask()
	case BUILD_CHECKING_CONVEXITY:
		b.checkConvexity()
	case BUILD_CREATING_LEAF:
		b.createSubsector()
	case BUILD_FINDING_SPLITTER:
		b.findSplitter()
	case BUILD_PARTITIONING:
		b.partition()
	case BUILD_GENERATING_MINISEGS:
		b.generateMinisegs()
	case BUILD_FINISHING_SPLIT:
		b.finishSplit()
	}
	switch b.state {
	case BUILD_COMPLETE:
		return true, nil
	case BUILD_FAILED:
		return true, b.err
	}
	return false, nil
}

// Build steps until the end
func (b *Builder) Build() (*Tree, error) {
	for {
		done, err := b.Step()
		if err != nil {
			return nil, err
		}
		if done {
			return b.tree, nil
		}
	}
}

// Sync flushes whatever the builder has logged so far
func (b *Builder) Sync() {
	b.log.Sync()
}

// Close flushes the log, and closes the log file if the builder opened one.
// The builder's results stay available
func (b *Builder) Close() error {
	if !b.ownsLog {
		b.log.Sync()
		return nil
	}
	return b.log.Close()
}

func (b *Builder) State() BuilderState {
	return b.state
}

// Tree is nil until the build is complete
func (b *Builder) Tree() *Tree {
	return b.tree
}

func (b *Builder) Vertices() *VertexAllocator {
	return b.vertices
}

func (b *Builder) Segments() *SegmentAllocator {
	return b.segments
}

// CurrentSegs is the seg set the builder is working on right now
func (b *Builder) CurrentSegs() []SegmentID {
	return b.cur.segs
}

func (b *Builder) fail(kind error, reason string, segs []SegmentID) {
	b.err = failedSegs(kind, reason, segs)
	b.state = BUILD_FAILED
	b.log.Error("Nodes builder failed: %s\n", b.err.Error())
	b.log.DumpSegs(b.segments, segs)
}

func (b *Builder) loadNextTask() {
	if b.queue.Empty() {
		b.finishTree()
		b.state = BUILD_COMPLETE
		return
	}
	b.cur = b.queue.Dequeue()
	if b.cur.depth > b.cfg.MaxDepth {
		b.fail(ErrUnsplittable, "tree is too deep", b.cur.segs)
		return
	}
	if len(b.cur.segs) < 3 {
		b.fail(ErrDegenerateInput, "fewer than 3 segs left to form a subsector", b.cur.segs)
		return
	}
	b.convex.Load(b.cur.segs)
	b.state = BUILD_CHECKING_CONVEXITY
}

func (b *Builder) checkConvexity() {
	if !b.convex.State().Finished() {
		b.convex.Execute()
	}
	switch b.convex.State() {
	case CONVEX_SUBSECTOR:
		b.state = BUILD_CREATING_LEAF
	case CONVEX_SPLITTABLE:
		b.splitCalc.Load(b.cur.segs)
		b.state = BUILD_FINDING_SPLITTER
	case CONVEX_DEGENERATE:
		b.fail(ErrDegenerateInput, "segs form a loop with no area", b.cur.segs)
	}
}

// createSubsector turns the convex loop into a subsector. The sector comes
// from the first wall in the loop; walls must all face inside
func (b *Builder) createSubsector() {
	loop := b.convex.Loop()
	sector := NO_SECTOR
	for _, e := range loop {
		seg := b.segments.Segment(e.Segment)
		if seg.IsMiniseg() {
			continue
		}
		facing := seg.Front
		if e.Start != seg.Start {
			if seg.OneSided() {
				b.fail(ErrDegenerateInput, "one-sided wall faces away from its subsector", b.cur.segs)
				return
			}
			facing = seg.Back
		}
		if sector == NO_SECTOR {
			sector = facing
		} else if facing != sector {
			b.log.Verbose(VERBOSE_STEPS, "Subsector %d has edges from sectors %d and %d\n",
				len(b.subsectors), sector, facing)
		}
	}
	if sector == NO_SECTOR {
		b.fail(ErrDegenerateInput, "subsector is bounded by minisegs only", b.cur.segs)
		return
	}

	edges := make([]Edge, len(loop))
	copy(edges, loop)
	idx := len(b.subsectors)
	b.subsectors = append(b.subsectors, Subsector{Edges: edges, Sector: sector})
	b.totals.numSSectors++
	if len(edges) > b.totals.maxEdgeCount {
		b.totals.maxEdgeCount = len(edges)
	}
	if b.cur.parent == nil {
		b.root = SubsectorChild(idx)
	} else {
		b.cur.parent.setSubsectorChild(b.cur.isRightChild, idx)
	}
	b.loadNextTask()
}

func (b *Builder) findSplitter() {
	b.splitCalc.Execute()
	if b.splitCalc.State() != SPLITCALC_FINISHED {
		return
	}
	best, ok := b.splitCalc.Best()
	if !ok {
		b.fail(ErrUnsplittable, "no seg divides the set", b.cur.segs)
		return
	}
	b.log.Verbose(VERBOSE_STEPS, "Picked seg %d as splitter (cost %d, %d candidates)\n",
		best, b.splitCalc.BestCost(), b.splitCalc.Evaluated())
	b.splitter = best
	b.partitioner.Load(best, b.cur.segs)
	b.state = BUILD_PARTITIONING
}

func (b *Builder) partition() {
	b.partitioner.Execute()
	if b.partitioner.State() != PARTITION_FINISHED {
		return
	}
	b.totals.numSplits += b.partitioner.Splits()
	b.minisegs.Load(b.splitter, b.partitioner.Collinear())
	b.state = BUILD_GENERATING_MINISEGS
}

func (b *Builder) generateMinisegs() {
	b.minisegs.Execute()
	if b.minisegs.State() == MINISEG_FINISHED {
		b.state = BUILD_FINISHING_SPLIT
	}
}

// finishSplit creates the node and queues both sides, minisegs going to
// each of them
func (b *Builder) finishSplit() {
	minisegs := b.minisegs.Minisegs()
	b.totals.numMinisegs += len(minisegs)
	rights := append(append([]SegmentID(nil), b.partitioner.Right()...), minisegs...)
	lefts := append(append([]SegmentID(nil), b.partitioner.Left()...), minisegs...)
	if len(b.partitioner.Right()) == 0 || len(b.partitioner.Left()) == 0 {
		b.fail(ErrUnsplittable, "splitter leaves one side empty", b.cur.segs)
		return
	}

	res := &NodeInProcess{
		Splitter: b.splitter,
		Rbox:     FindLimits(b.segments, rights),
		Lbox:     FindLimits(b.segments, lefts),
	}
	b.totals.numNodes++
	if b.cur.parent == nil {
		b.rootNode = res
	} else {
		b.cur.parent.setNodeChild(b.cur.isRightChild, res)
	}

	// Left goes last so that it is worked on first
	b.queue.Enqueue(StkQueueTask{
		parent:       res,
		isRightChild: true,
		depth:        b.cur.depth + 1,
		segs:         rights,
	})
	b.queue.Enqueue(StkQueueTask{
		parent:       res,
		isRightChild: false,
		depth:        b.cur.depth + 1,
		segs:         lefts,
	})
	b.loadNextTask()
}

// FindLimits is the bounding box of seg set
func FindLimits(segAlloc *SegmentAllocator, segs []SegmentID) BoundingBox {
	box := EmptyBox()
	verts := segAlloc.Vertices()
	for _, id := range segs {
		seg := segAlloc.Segment(id)
		box.AddPoint(verts.Pos(seg.Start))
		box.AddPoint(verts.Pos(seg.End))
	}
	return box
}
