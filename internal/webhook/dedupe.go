package webhook

import "sync"

// dedupe is a bounded set of recently seen message IDs. Z-API redelivers
// webhooks on slow responses; the bound keeps memory flat under any volume.
type dedupe struct {
	mu    sync.Mutex
	seen  map[string]struct{}
	order []string
	limit int
}

func newDedupe(limit int) *dedupe {
	if limit <= 0 {
		limit = 512
	}
	return &dedupe{
		seen:  make(map[string]struct{}, limit),
		limit: limit,
	}
}

// Seen reports whether the ID was already recorded. Empty IDs are never
// deduplicated.
func (d *dedupe) Seen(id string) bool {
	if id == "" {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	_, ok := d.seen[id]
	return ok
}

// Mark records the ID. Marking happens only after a turn fully processes, so
// a redelivery of a message that failed mid-turn is retried, not swallowed.
func (d *dedupe) Mark(id string) {
	if id == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return
	}
	d.seen[id] = struct{}{}
	d.order = append(d.order, id)
	if len(d.order) > d.limit {
		oldest := d.order[0]
		d.order = d.order[1:]
		delete(d.seen, oldest)
	}
}

// phoneLocks serializes processing per customer phone so two rapid messages
// from the same person never interleave their session read-modify-write.
// Entries are never removed; the key space is one studio's customer base.
type phoneLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newPhoneLocks() *phoneLocks {
	return &phoneLocks{locks: make(map[string]*sync.Mutex)}
}

func (p *phoneLocks) Lock(phone string) *sync.Mutex {
	p.mu.Lock()
	m, ok := p.locks[phone]
	if !ok {
		m = &sync.Mutex{}
		p.locks[phone] = m
	}
	p.mu.Unlock()

	m.Lock()
	return m
}
