package interview

import "time"

// Session accumulates one witness's answers across turns.
type Session struct {
	ID          string                         `json:"id"`
	ActiveIndex int                            `json:"activeIndex"`
	Collected   map[Category]map[string]string `json:"collected"`
	CreatedAt   time.Time                      `json:"createdAt"`
}

// NewSession returns a fresh session at the first category, with an entry in
// Collected for every category so later merges never have to create one.
func NewSession(id string) *Session {
	collected := make(map[Category]map[string]string, CategoryCount())
	for _, c := range Categories() {
		collected[c] = make(map[string]string)
	}
	return &Session{
		ID:        id,
		Collected: collected,
		CreatedAt: time.Now().UTC(),
	}
}

// Clone returns a deep copy. Sessions handed out of the turn lock must be
// clones, never the live instance, or a concurrent merge races the reader.
func (s *Session) Clone() *Session {
	collected := make(map[Category]map[string]string, len(s.Collected))
	for c, fields := range s.Collected {
		copied := make(map[string]string, len(fields))
		for k, v := range fields {
			copied[k] = v
		}
		collected[c] = copied
	}
	return &Session{
		ID:          s.ID,
		ActiveIndex: s.ActiveIndex,
		Collected:   collected,
		CreatedAt:   s.CreatedAt,
	}
}

// Done reports whether every category has been answered.
func (s *Session) Done() bool {
	return s.ActiveIndex >= CategoryCount()
}

// Active returns the category currently being asked about, or "" once the
// interview has finished.
func (s *Session) Active() Category {
	if s.Done() {
		return ""
	}
	return Categories()[s.ActiveIndex]
}
