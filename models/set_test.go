package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttractionSetSuppressesDuplicateURLs(t *testing.T) {
	s := NewAttractionSet()

	assert.True(t, s.Add(Attraction{URL: "/Attraction_Review-g1-d1-Reviews-A.html", Title: "first"}))
	assert.True(t, s.Add(Attraction{URL: "/Attraction_Review-g1-d2-Reviews-B.html"}))
	assert.False(t, s.Add(Attraction{URL: "/Attraction_Review-g1-d1-Reviews-A.html", Title: "second"}))

	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains("/Attraction_Review-g1-d2-Reviews-B.html"))

	items := s.Items()
	assert.Equal(t, "first", items[0].Title)

	items[0].Title = "mutated"
	assert.Equal(t, "first", s.Items()[0].Title)
}
