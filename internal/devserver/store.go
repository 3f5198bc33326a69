package devserver

import (
	"errors"
	mathrand "math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/Adithya91-code/Farmchaingpt/internal/crop"
)

var (
	ErrNotFound     = errors.New("crop not found")
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("Email already registered")
	ErrForbidden    = errors.New("Access denied")
	ErrWrongRole    = errors.New("user has the wrong role for this stage")
)

// Backend roles as they appear on the wire.
const (
	roleFarmer      = "FARMER"
	roleDistributor = "DISTRIBUTOR"
	roleRetailer    = "RETAILER"
)

type user struct {
	ID            string
	Email         string
	PasswordHash  string
	Name          string
	Location      string
	Role          string
	FarmerID      string
	DistributorID string
}

type record struct {
	wire    crop.Wire
	ownerID string
}

type memStore struct {
	mu      sync.RWMutex
	users   map[string]*user // by id
	byEmail map[string]string
	crops   map[string]*record
	order   []string
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

func newMemStore(now func() time.Time) *memStore {
	return &memStore{
		users:   make(map[string]*user),
		byEmail: make(map[string]string),
		crops:   make(map[string]*record),
		entropy: ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0),
		now:     now,
	}
}

// newID must be called with mu held.
func (s *memStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(s.now()), s.entropy).String()
}

func (s *memStore) addUser(u user) (*user, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.ToLower(strings.TrimSpace(u.Email))
	if _, ok := s.byEmail[email]; ok {
		return nil, ErrEmailTaken
	}
	u.ID = s.newID()
	u.Email = email
	switch u.Role {
	case roleFarmer:
		u.FarmerID = s.newID()
	case roleDistributor:
		u.DistributorID = s.newID()
	}
	stored := u
	s.users[u.ID] = &stored
	s.byEmail[email] = u.ID
	return &stored, nil
}

func (s *memStore) userByEmail(email string) (*user, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, false
	}
	u := *s.users[id]
	return &u, true
}

func (s *memStore) userByID(id string) (*user, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, false
	}
	cp := *u
	return &cp, true
}

func (s *memStore) createCrop(owner *user, d crop.Draft) crop.Wire {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := d.Wire()
	w.ID = crop.Text(s.newID())
	w.CreatedAt = crop.Text(s.now().UTC().Format(time.RFC3339))
	w.User = &crop.WireRef{ID: crop.Text(owner.ID)}
	w.FarmerID = crop.Text(owner.FarmerID)
	w.FarmerName = crop.Text(owner.Name)
	w.FarmerLocation = crop.Text(owner.Location)
	s.crops[w.ID.String()] = &record{wire: w, ownerID: owner.ID}
	s.order = append(s.order, w.ID.String())
	return w
}

func (s *memStore) updateCrop(owner *user, id string, d crop.Draft) (crop.Wire, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.crops[id]
	if !ok {
		return crop.Wire{}, ErrNotFound
	}
	if rec.ownerID != owner.ID {
		return crop.Wire{}, ErrForbidden
	}
	w := rec.wire
	w.Name = crop.Text(d.Name)
	w.CropType = crop.Text(d.CropType)
	w.HarvestDate = crop.Text(d.HarvestDate)
	w.ExpiryDate = crop.Text(d.ExpiryDate)
	w.SoilType = crop.Text(d.SoilType)
	w.PesticidesUsed = crop.Text(d.PesticidesUsed)
	w.ImageURL = crop.Text(d.ImageURL)
	rec.wire = w
	return w, nil
}

func (s *memStore) deleteCrop(owner *user, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.crops[id]
	if !ok {
		return ErrNotFound
	}
	if rec.ownerID != owner.ID {
		return ErrForbidden
	}
	delete(s.crops, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *memStore) crop(id string) (crop.Wire, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.crops[id]
	if !ok {
		return crop.Wire{}, false
	}
	return rec.wire, true
}

// filter returns matching crops in creation order.
func (s *memStore) filter(match func(crop.Wire) bool) []crop.Wire {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]crop.Wire, 0, len(s.order))
	for _, id := range s.order {
		if w := s.crops[id].wire; match(w) {
			out = append(out, w)
		}
	}
	return out
}

func (s *memStore) mutate(id string, fn func(*crop.Wire)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.crops[id]
	if !ok {
		return ErrNotFound
	}
	fn(&rec.wire)
	return nil
}
