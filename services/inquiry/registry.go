package inquiry

import (
	"fmt"
	"sync"
	"time"

	"islandeats/models"

	"github.com/google/uuid"
)

// Registry owns every in-flight and closed inquiry. All mutation goes through
// Update so concurrent callers never observe a partially written record.
type Registry interface {
	Create(pref models.PreferenceSet, ttl time.Duration) *models.Inquiry
	Get(id string) (*models.Inquiry, bool)
	MostRecentFor(requesterID string) (*models.Inquiry, bool)
	Update(id string, fn func(*models.Inquiry)) bool
	All() []*models.Inquiry
	Evict(cutoff time.Time) int
}

// DefaultRegistry is the single authoritative in-memory store. A plain mutex
// over the map is enough: every engine operation is a short in-memory
// transition and notification sends happen after the lock is released.
type DefaultRegistry struct {
	mu        sync.Mutex
	inquiries map[string]*models.Inquiry
	order     []string
}

func NewDefaultRegistry() *DefaultRegistry {
	return &DefaultRegistry{
		inquiries: make(map[string]*models.Inquiry),
	}
}

// Create allocates a new open inquiry with deadline = now + ttl.
func (r *DefaultRegistry) Create(pref models.PreferenceSet, ttl time.Duration) *models.Inquiry {
	now := time.Now()
	inq := &models.Inquiry{
		ID:              newInquiryID(now),
		RequesterID:     pref.RequesterID,
		Locale:          pref.Locale,
		WantedTime:      pref.WantedTime,
		PartySize:       pref.PartySize,
		TransportNeeded: pref.TransportNeeded,
		TransportDetail: pref.TransportDetail,
		Deadline:        now.Add(ttl),
		CreatedAt:       now,
	}

	r.mu.Lock()
	r.inquiries[inq.ID] = inq
	r.order = append(r.order, inq.ID)
	r.mu.Unlock()

	return inq.Clone()
}

func (r *DefaultRegistry) Get(id string) (*models.Inquiry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inq, ok := r.inquiries[id]
	if !ok {
		return nil, false
	}
	return inq.Clone(), true
}

// MostRecentFor returns the latest inquiry created for a requester. It is the
// fallback used when a candidate card outlives the session that produced it.
func (r *DefaultRegistry) MostRecentFor(requesterID string) (*models.Inquiry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.order) - 1; i >= 0; i-- {
		inq, ok := r.inquiries[r.order[i]]
		if ok && inq.RequesterID == requesterID {
			return inq.Clone(), true
		}
	}
	return nil, false
}

// Update applies fn to the live record under the registry lock and reports
// whether the inquiry exists. fn must not block.
func (r *DefaultRegistry) Update(id string, fn func(*models.Inquiry)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	inq, ok := r.inquiries[id]
	if !ok {
		return false
	}
	fn(inq)
	return true
}

// All returns copies of every inquiry, newest first.
func (r *DefaultRegistry) All() []*models.Inquiry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Inquiry, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		if inq, ok := r.inquiries[r.order[i]]; ok {
			out = append(out, inq.Clone())
		}
	}
	return out
}

// Evict removes inquiries that closed before cutoff and whose appointment is
// also in the past. The engine itself never calls this; it exists for the
// housekeeping cron.
func (r *DefaultRegistry) Evict(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	kept := r.order[:0]
	for _, id := range r.order {
		inq, ok := r.inquiries[id]
		if !ok {
			continue
		}
		if inq.Closed && inq.ClosedAt.Before(cutoff) && inq.WantedTime.Before(cutoff) {
			delete(r.inquiries, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	r.order = kept
	return removed
}

// newInquiryID builds a time-derived ID like REQ-20240805-183000-1a2b3c4d.
// The uuid suffix keeps IDs unique when two inquiries land in the same second.
func newInquiryID(now time.Time) string {
	return fmt.Sprintf("REQ-%s-%s", now.Format("20060102-150405"), uuid.New().String()[:8])
}
