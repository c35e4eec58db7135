package orders

import "sync"

// lockTable hands out one mutex per order id so status changes on
// different orders never contend, while changes to the same order are
// serialized. Entries are kept for the process lifetime; the ledger of
// distinct order ids bounds the table.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]*sync.Mutex)}
}

func (t *lockTable) lock(id string) func() {
	t.mu.Lock()
	l, ok := t.locks[id]
	if !ok {
		l = &sync.Mutex{}
		t.locks[id] = l
	}
	t.mu.Unlock()

	l.Lock()
	return l.Unlock
}
