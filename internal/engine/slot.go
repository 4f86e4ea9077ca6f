package engine

import "fmt"

// slotTable is a slab allocator for resident orders. Removed slots go on a
// free list and are handed back out by later inserts, keeping the table dense.
type slotTable struct {
	entries []*ResidentOrder
	free    []SlotID
	live    int
}

func (t *slotTable) insert(o *ResidentOrder) SlotID {
	t.live++
	if n := len(t.free); n > 0 {
		id := t.free[n-1]
		t.free = t.free[:n-1]
		t.entries[id] = o
		return id
	}
	t.entries = append(t.entries, o)
	return SlotID(len(t.entries) - 1)
}

// remove frees a slot. Removing a vacant or out-of-range slot means the
// priority collection and the table have diverged, which is unrecoverable.
func (t *slotTable) remove(id SlotID) {
	if int(id) >= len(t.entries) || t.entries[id] == nil {
		panic(fmt.Sprintf("engine: slot table corrupt, remove of vacant slot %d", id))
	}
	t.entries[id] = nil
	t.free = append(t.free, id)
	t.live--
}

func (t *slotTable) len() int { return t.live }
