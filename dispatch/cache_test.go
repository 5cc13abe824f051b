package dispatch

import (
	"testing"

	"armjit/ir"
)

func block(pc uint64, guestEnd uint64) *CompiledBlock {
	desc := ir.NewLocationDescriptor(pc, ir.ModeA64)
	return &CompiledBlock{Desc: desc, HostAddr: uintptr(pc + 0x100000), GuestStart: pc, GuestEnd: guestEnd}
}

func TestBlockCacheInsertAndLookup(t *testing.T) {
	c := NewBlockCache()
	b := block(0x1000, 0x1004)
	c.Insert(b)

	got, ok := c.Lookup(b.Desc)
	if !ok {
		t.Fatalf("expected lookup hit")
	}
	if got.HostAddr != b.HostAddr {
		t.Fatalf("got host addr %#x, want %#x", got.HostAddr, b.HostAddr)
	}
}

func TestBlockCacheLookupMiss(t *testing.T) {
	c := NewBlockCache()
	_, ok := c.Lookup(ir.NewLocationDescriptor(0x9999, ir.ModeA64))
	if ok {
		t.Fatalf("expected lookup miss on empty cache")
	}
}

// TestBlockCacheInvalidateCacheRangesDropsOverlapping is the invalidation
// law scenario: a write to guest memory must drop every cached block whose
// guest span overlaps the written range, and must leave non-overlapping
// blocks alone.
func TestBlockCacheInvalidateCacheRangesDropsOverlapping(t *testing.T) {
	c := NewBlockCache()
	overlapping := block(0x2000, 0x2008)
	disjoint := block(0x3000, 0x3004)
	c.Insert(overlapping)
	c.Insert(disjoint)

	c.InvalidateCacheRanges(0x2004, 0x2006)

	if _, ok := c.Lookup(overlapping.Desc); ok {
		t.Fatalf("expected overlapping block to be invalidated")
	}
	if _, ok := c.Lookup(disjoint.Desc); !ok {
		t.Fatalf("expected disjoint block to survive invalidation")
	}
	if c.Len() != 1 {
		t.Fatalf("got cache len %d, want 1", c.Len())
	}
}

func TestBlockCacheInvalidateCacheRangesExactBoundary(t *testing.T) {
	c := NewBlockCache()
	b := block(0x4000, 0x4004) // [0x4000, 0x4004)
	c.Insert(b)

	// A write starting exactly at the block's end should not invalidate it.
	c.InvalidateCacheRanges(0x4004, 0x4008)
	if _, ok := c.Lookup(b.Desc); !ok {
		t.Fatalf("expected block ending exactly at invalidation start to survive")
	}

	// A write ending exactly at the block's start should not invalidate it.
	c.InvalidateCacheRanges(0x3ff0, 0x4000)
	if _, ok := c.Lookup(b.Desc); !ok {
		t.Fatalf("expected block starting exactly at invalidation end to survive")
	}

	// A write touching any byte inside [0x4000, 0x4004) invalidates it.
	c.InvalidateCacheRanges(0x4000, 0x4001)
	if _, ok := c.Lookup(b.Desc); ok {
		t.Fatalf("expected block to be invalidated by an overlapping write")
	}
}

func TestBlockCacheClearCache(t *testing.T) {
	c := NewBlockCache()
	c.Insert(block(0x5000, 0x5004))
	c.Insert(block(0x6000, 0x6004))
	c.ClearCache()
	if c.Len() != 0 {
		t.Fatalf("expected empty cache after ClearCache, got %d", c.Len())
	}
}

func TestBlockCacheReinsertReplacesStaleRange(t *testing.T) {
	c := NewBlockCache()
	desc := ir.NewLocationDescriptor(0x7000, ir.ModeA64)
	first := &CompiledBlock{Desc: desc, HostAddr: 1, GuestStart: 0x7000, GuestEnd: 0x7004}
	c.Insert(first)

	second := &CompiledBlock{Desc: desc, HostAddr: 2, GuestStart: 0x7000, GuestEnd: 0x7008}
	c.Insert(second)

	got, _ := c.Lookup(desc)
	if got.HostAddr != 2 {
		t.Fatalf("expected reinsert to replace the cached block")
	}

	// Invalidating a range that only the *new*, longer guest span covers
	// must still drop it — proof the stale first-insert's range entry was
	// removed rather than left to linger in the btree.
	c.InvalidateCacheRanges(0x7006, 0x7007)
	if _, ok := c.Lookup(desc); ok {
		t.Fatalf("expected updated range to be invalidated")
	}
}
