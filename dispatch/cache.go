// Package dispatch holds the compiled-block cache and the run loop that
// looks up or compiles a block for the guest PC, links adjacent blocks
// together, and recovers from translation-time faults — grounded on
// vm/vm.go's state layout and vm/exec.go's/vm/run.go's recover-based
// run loop, generalized from "interpret one bytecode program" to "compile
// and link native blocks on demand" per spec.md §4.5/§5.
package dispatch

import (
	"sync"

	"github.com/google/btree"

	"armjit/backend/x64"
	"armjit/ir"
)

// CompiledBlock is one native code region the cache owns: its host entry
// address (inside a CodeBuffer), the guest location it was compiled from,
// the guest address range it was translated out of (for invalidation when
// that range of guest memory is overwritten, e.g. self-modifying code or
// a loader remap), and the patch sites backend/x64 left for cross-block
// linking.
type CompiledBlock struct {
	Desc       ir.LocationDescriptor
	HostAddr   uintptr
	Len        int
	GuestStart uint64
	GuestEnd   uint64
	Patches    []x64.Patch
}

// addrRange is the btree item type: one compiled block's guest address
// span, ordered by start address so InvalidateCacheRanges can stop its
// ascent at the first block that starts at or past the invalidated end.
type addrRange struct {
	start uint64
	end   uint64
	desc  ir.LocationDescriptor
}

func lessAddrRange(a, b addrRange) bool {
	if a.start != b.start {
		return a.start < b.start
	}
	return a.desc.Less(b.desc)
}

// BlockCache maps guest LocationDescriptors to compiled native blocks,
// grounded on vm/vm.go's plain in-memory state (no persistence layer —
// the cache is rebuilt by recompiling on a cold start, just as GVM
// recompiles its bytecode program on every run). The location index is an
// exact Go map; the address-range index is a github.com/google/btree
// BTreeG so InvalidateCacheRanges can walk blocks in start-address order
// and skip every block starting at or past an invalidated region, per spec.md §4.5's "the JIT must
// drop any cached translation whose guest range overlaps a write" rule.
type BlockCache struct {
	mu      sync.RWMutex
	exact   map[ir.LocationDescriptor]*CompiledBlock
	ranges  *btree.BTreeG[addrRange]
}

// NewBlockCache returns an empty cache.
func NewBlockCache() *BlockCache {
	return &BlockCache{
		exact:  make(map[ir.LocationDescriptor]*CompiledBlock),
		ranges: btree.NewG(32, lessAddrRange),
	}
}

// Lookup returns the compiled block for desc, if one is cached.
func (c *BlockCache) Lookup(desc ir.LocationDescriptor) (*CompiledBlock, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.exact[desc]
	return b, ok
}

// Insert records a freshly compiled block, replacing any earlier entry at
// the same location (a stale entry can only exist if InvalidateCacheRanges
// missed it, or if the caller is recompiling after a cache clear).
func (c *BlockCache) Insert(block *CompiledBlock) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.exact[block.Desc]; ok {
		c.ranges.Delete(addrRange{start: old.GuestStart, end: old.GuestEnd, desc: old.Desc})
	}
	c.exact[block.Desc] = block
	c.ranges.ReplaceOrInsert(addrRange{start: block.GuestStart, end: block.GuestEnd, desc: block.Desc})
}

// InvalidateCacheRanges drops every cached block whose guest address span
// overlaps [start, end), per spec.md §4.5. The scan ascends from the
// lowest start address and stops at the first block starting at or past
// end, so it visits every block that starts before end, overlapping or
// not.
func (c *BlockCache) InvalidateCacheRanges(start, end uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var stale []addrRange
	c.ranges.Ascend(func(r addrRange) bool {
		if r.start >= end {
			return false
		}
		if r.end > start {
			stale = append(stale, r)
		}
		return true
	})
	for _, r := range stale {
		c.ranges.Delete(r)
		delete(c.exact, r.desc)
	}
}

// ClearCache drops every cached block unconditionally, used by Jit.ClearCache
// (armjit/jit.go) through Dispatcher.ClearCache.
func (c *BlockCache) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.exact = make(map[ir.LocationDescriptor]*CompiledBlock)
	c.ranges = btree.NewG(32, lessAddrRange)
}

// Len returns the number of cached blocks, used by tests.
func (c *BlockCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.exact)
}
