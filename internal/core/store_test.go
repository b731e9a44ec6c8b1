package core

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(ttl time.Duration, maxEntries int) (*UploadStore, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	s := NewUploadStore(ttl, maxEntries)
	s.now = clock.now
	return s, clock
}

func testUpload(name string) Upload {
	return Upload{ID: uuid.New(), FileName: name, Format: FormatCSV}
}

func TestUploadStore_PutGet(t *testing.T) {
	s, _ := newTestStore(time.Minute, 10)
	u := testUpload("a.csv")

	s.Put(u, []byte("a\n1\n"))

	got, data, err := s.Get(u.ID.String())
	require.NoError(t, err)
	assert.Equal(t, u, got)
	assert.Equal(t, []byte("a\n1\n"), data)
	assert.Equal(t, 1, s.Len())

	_, _, err = s.Get(uuid.NewString())
	assert.ErrorIs(t, err, ErrUploadNotFound)
}

func TestUploadStore_Delete(t *testing.T) {
	s, _ := newTestStore(time.Minute, 10)
	u := testUpload("a.csv")
	s.Put(u, nil)

	assert.True(t, s.Delete(u.ID.String()))
	assert.False(t, s.Delete(u.ID.String()))

	_, _, err := s.Get(u.ID.String())
	assert.ErrorIs(t, err, ErrUploadNotFound)
}

func TestUploadStore_Expiry(t *testing.T) {
	s, clock := newTestStore(10*time.Minute, 10)
	u := testUpload("a.csv")
	s.Put(u, nil)

	clock.advance(9 * time.Minute)
	_, _, err := s.Get(u.ID.String())
	require.NoError(t, err, "access refreshes the TTL")

	clock.advance(9 * time.Minute)
	_, _, err = s.Get(u.ID.String())
	require.NoError(t, err)

	clock.advance(11 * time.Minute)
	_, _, err = s.Get(u.ID.String())
	assert.ErrorIs(t, err, ErrUploadNotFound)
	assert.Equal(t, 0, s.Len())
}

func TestUploadStore_Sweep(t *testing.T) {
	s, clock := newTestStore(time.Minute, 10)
	old := testUpload("old.csv")
	s.Put(old, nil)

	clock.advance(45 * time.Second)
	fresh := testUpload("fresh.csv")
	s.Put(fresh, nil)

	clock.advance(30 * time.Second)
	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 1, s.Len())

	_, _, err := s.Get(fresh.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, 0, s.Sweep())
}

func TestUploadStore_EvictsLeastRecentlyUsed(t *testing.T) {
	s, clock := newTestStore(time.Hour, 2)
	first, second, third := testUpload("1.csv"), testUpload("2.csv"), testUpload("3.csv")

	s.Put(first, nil)
	clock.advance(time.Second)
	s.Put(second, nil)
	clock.advance(time.Second)

	_, _, err := s.Get(first.ID.String())
	require.NoError(t, err)
	clock.advance(time.Second)

	s.Put(third, nil)

	assert.Equal(t, 2, s.Len())
	_, _, err = s.Get(second.ID.String())
	assert.ErrorIs(t, err, ErrUploadNotFound)
	_, _, err = s.Get(first.ID.String())
	assert.NoError(t, err)
	_, _, err = s.Get(third.ID.String())
	assert.NoError(t, err)
}

func TestUploadStore_NoLimits(t *testing.T) {
	s, clock := newTestStore(0, 0)
	for i := 0; i < 50; i++ {
		s.Put(testUpload("f.csv"), nil)
	}
	clock.advance(1000 * time.Hour)

	assert.Equal(t, 0, s.Sweep())
	assert.Equal(t, 50, s.Len())
}
