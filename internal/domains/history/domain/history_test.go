package domain

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(n int) Entry {
	return Entry{
		ID:         fmt.Sprintf("i%d", n),
		Title:      fmt.Sprintf("item %d", n),
		Price:      int64(n * 100),
		ImageURL:   fmt.Sprintf("/img/%d.png", n),
		ProductURL: fmt.Sprintf("/products/%d", n),
	}
}

func ids(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestPush_FullLogDropsOldest(t *testing.T) {
	var log []Entry
	for n := 10; n >= 1; n-- {
		log = Push(log, entry(n))
	}
	require.Equal(t, []string{"i1", "i2", "i3", "i4", "i5", "i6", "i7", "i8", "i9", "i10"}, ids(log))

	log = Push(log, entry(11))

	want := []string{"i11", "i1", "i2", "i3", "i4", "i5", "i6", "i7", "i8", "i9"}
	if diff := cmp.Diff(want, ids(log)); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestPush_MovesExistingIDToFront(t *testing.T) {
	log := []Entry{entry(1), entry(2), entry(3)}
	updated := entry(3)
	updated.Title = "fresh title"

	got := Push(log, updated)

	assert.Equal(t, []string{"i3", "i1", "i2"}, ids(got))
	assert.Equal(t, "fresh title", got[0].Title)
	assert.Equal(t, []string{"i1", "i2", "i3"}, ids(log), "input must not be modified")
}

func TestPush_InvariantsHoldForAnySequence(t *testing.T) {
	sequence := []int{1, 2, 3, 1, 4, 5, 6, 7, 8, 9, 10, 11, 12, 2, 13, 2, 14, 1}
	var log []Entry
	for _, n := range sequence {
		log = Push(log, entry(n))
		require.LessOrEqual(t, len(log), MaxEntries)
		require.Equal(t, entry(n).ID, log[0].ID)

		seen := map[string]bool{}
		for _, e := range log {
			require.False(t, seen[e.ID], "duplicate id %s", e.ID)
			seen[e.ID] = true
		}
	}
}

func TestClamp(t *testing.T) {
	assert.NotNil(t, Clamp(nil))
	assert.Empty(t, Clamp(nil))

	long := make([]Entry, 0, 12)
	for n := 1; n <= 12; n++ {
		long = append(long, entry(n))
	}
	assert.Len(t, Clamp(long), MaxEntries)
}

func TestNewEntry(t *testing.T) {
	_, err := NewEntry(" ", "x", 1, "", "")
	require.ErrorIs(t, err, ErrEmptyEntryID)

	e, err := NewEntry("p-1", "Rod", 3000, "/rod.png", "/products/p-1")
	require.NoError(t, err)
	assert.Equal(t, "p-1", e.ID)
}

func TestClamp_DropsDuplicateIDs(t *testing.T) {
	got := Clamp([]Entry{entry(1), entry(2), entry(1), entry(3), entry(2)})
	assert.Equal(t, []string{"i1", "i2", "i3"}, ids(got))
}

func TestPush_DropsDuplicatesAlreadyInLog(t *testing.T) {
	got := Push([]Entry{entry(1), entry(2), entry(1)}, entry(3))
	assert.Equal(t, []string{"i3", "i1", "i2"}, ids(got))
}
