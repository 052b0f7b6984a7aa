package directory

import (
	"sort"
	"sync"

	"messageu/internal/domain"
)

// Directory is the in-memory peer roster. Lookups are linear scans; list
// sizes are small.
type Directory struct {
	mu    sync.Mutex
	self  domain.ClientID
	peers []domain.Peer
}

// New returns an empty directory.
func New() *Directory { return &Directory{} }

// SetSelf records the local client id so it can never appear as a peer.
func (d *Directory) SetSelf(id domain.ClientID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.self = id
}

// Replace rebuilds the roster from entries. Public and session keys of ids
// present both before and after the rebuild are preserved; entries carrying
// the self id are dropped.
func (d *Directory) Replace(entries []domain.Peer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	old := make(map[domain.ClientID]domain.Peer, len(d.peers))
	for _, p := range d.peers {
		old[p.ID] = p
	}

	next := make([]domain.Peer, 0, len(entries))
	for _, e := range entries {
		if !d.self.IsZero() && e.ID == d.self {
			continue
		}
		p := domain.Peer{ID: e.ID, Name: e.Name}
		if prev, ok := old[e.ID]; ok {
			p.PublicKey = prev.PublicKey
			p.SessionKey = prev.SessionKey
		}
		next = append(next, p)
	}
	d.peers = next
}

// ByName returns the peer with the given username.
func (d *Directory) ByName(name string) (domain.Peer, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range d.peers {
		if p.Name == name {
			return p, true
		}
	}
	return domain.Peer{}, false
}

// ByID returns the peer with the given id.
func (d *Directory) ByID(id domain.ClientID) (domain.Peer, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range d.peers {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Peer{}, false
}

// SetPublicKey stores a peer's long-term key. It reports whether the id was
// found.
func (d *Directory) SetPublicKey(id domain.ClientID, key domain.PublicKey) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.peers {
		if d.peers[i].ID == id {
			k := key
			d.peers[i].PublicKey = &k
			return true
		}
	}
	return false
}

// SetSessionKey stores a negotiated session key. It reports whether the id
// was found.
func (d *Directory) SetSessionKey(id domain.ClientID, key domain.SymmetricKey) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.peers {
		if d.peers[i].ID == id {
			k := key
			d.peers[i].SessionKey = &k
			return true
		}
	}
	return false
}

// Names returns all usernames in lexicographic order.
func (d *Directory) Names() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	names := make([]string, len(d.peers))
	for i, p := range d.peers {
		names[i] = p.Name
	}
	sort.Strings(names)
	return names
}

// Len returns the roster size.
func (d *Directory) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.peers)
}
