package signaling

import (
	"sync"

	"retrobell/errors"
	"retrobell/transport"
)

// Directory maps phone-number identities to link addresses, learned from
// discovery broadcasts. Records are unique by number and never evicted.
//
// Known quirk, kept on purpose: the map is keyed by number only. A peer
// that reboots with a new address but the same number is updated in place,
// which is the common case. A peer that starts announcing a different
// number from the same address leaves its old record behind as a stale
// entry until this phone restarts.
type Directory struct {
	mu       sync.RWMutex
	capacity int
	peers    map[int]transport.Address
}

func NewDirectory(capacity int) *Directory {
	return &Directory{
		capacity: capacity,
		peers:    make(map[int]transport.Address, capacity),
	}
}

// Upsert inserts or updates the record for number. A new number beyond
// capacity is rejected with ErrDirectoryFull; callers report it and move on.
func (d *Directory) Upsert(number int, addr transport.Address) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, known := d.peers[number]; !known && len(d.peers) >= d.capacity {
		return errors.ErrDirectoryFull
	}
	d.peers[number] = addr
	return nil
}

func (d *Directory) Lookup(number int) (transport.Address, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	addr, ok := d.peers[number]
	return addr, ok
}

func (d *Directory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.peers)
}

// Snapshot returns a copy of the directory for display and health reports.
func (d *Directory) Snapshot() map[int]transport.Address {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[int]transport.Address, len(d.peers))
	for number, addr := range d.peers {
		out[number] = addr
	}
	return out
}
