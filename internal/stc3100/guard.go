package stc3100

import "sync"

// Guard serializes access to one gauge shared by several goroutines. The
// driver itself takes no locks.
type Guard struct {
	mu  sync.Mutex
	dev *STC3100
}

func NewGuard(dev *STC3100) *Guard {
	return &Guard{dev: dev}
}

// Do runs fn with exclusive access to the gauge.
func (g *Guard) Do(fn func(*STC3100) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn(g.dev)
}

func (g *Guard) ReadAll() (Reading, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.dev.ReadAll()
}

// Identity is the static identification of a chip.
type Identity struct {
	PartID   byte
	UniqueID [6]byte
	CRC      byte
}

func (g *Guard) Identity() (Identity, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var id Identity
	var err error
	if id.PartID, err = g.dev.ReadPartID(); err != nil {
		return id, err
	}
	if id.UniqueID, err = g.dev.ReadUniqueID(); err != nil {
		return id, err
	}
	if id.CRC, err = g.dev.ReadCRC(); err != nil {
		return id, err
	}
	return id, nil
}
