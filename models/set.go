package models

// AttractionSet keeps one Attraction per URL in insertion order.
// The zero value is not usable; call NewAttractionSet.
type AttractionSet struct {
	index map[string]int
	items []Attraction
}

func NewAttractionSet() *AttractionSet {
	return &AttractionSet{index: make(map[string]int)}
}

// Add stores a and reports whether it was new. A second record with the
// same URL is ignored.
func (s *AttractionSet) Add(a Attraction) bool {
	if _, ok := s.index[a.URL]; ok {
		return false
	}
	s.index[a.URL] = len(s.items)
	s.items = append(s.items, a)
	return true
}

func (s *AttractionSet) Contains(url string) bool {
	_, ok := s.index[url]
	return ok
}

func (s *AttractionSet) Len() int {
	return len(s.items)
}

// Items returns a copy of the stored attractions.
func (s *AttractionSet) Items() []Attraction {
	out := make([]Attraction, len(s.items))
	copy(out, s.items)
	return out
}
