package membership

import (
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aouyang1/signage/store"
)

func newQueue(name string, ids ...string) *store.Queue {
	if ids == nil {
		ids = []string{}
	}
	return &store.Queue{Name: name, Owner: "admin", SlideIDs: ids, Version: 1}
}

func newSlide(id string, queues ...string) *store.Slide {
	return &store.Slide{ID: id, Name: id, Owner: "admin", DurationMs: 5000, Queues: mapset.NewSet(queues...), Version: 1}
}

func TestRemoveSlide_LastQueueIsRejected(t *testing.T) {
	q := newQueue("lobby", "s1", "s2")
	s := newSlide("s2", "lobby")

	gotQ, gotS, err := RemoveSlide(q, s)
	require.ErrorIs(t, err, ErrWouldOrphanSlide)
	assert.Nil(t, gotQ)
	assert.Nil(t, gotS)

	// inputs untouched
	assert.Equal(t, []string{"s1", "s2"}, q.SlideIDs)
	assert.True(t, s.Queues.Equal(mapset.NewSet("lobby")))
}

func TestRemoveSlide_SharedSlide(t *testing.T) {
	q1 := newQueue("q1", "a", "s", "b", "c")
	s := newSlide("s", "q1", "q2")

	gotQ, gotS, err := RemoveSlide(q1, s)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, gotQ.SlideIDs)
	assert.Equal(t, []string{"q2"}, gotS.QueueNames())

	// originals are not aliased by the result
	assert.Equal(t, []string{"a", "s", "b", "c"}, q1.SlideIDs)
	assert.Equal(t, []string{"q1", "q2"}, s.QueueNames())
}

func TestRemoveSlide_NotAMember(t *testing.T) {
	q := newQueue("lobby", "s1")
	s := newSlide("s2", "hall", "foyer")

	_, _, err := RemoveSlide(q, s)
	require.ErrorIs(t, err, ErrNotAMember)
	assert.Equal(t, []string{"s1"}, q.SlideIDs)
	assert.Equal(t, []string{"foyer", "hall"}, s.QueueNames())
}

func TestRemoveSlide_NotAMemberTakesPrecedence(t *testing.T) {
	// A slide with a single membership elsewhere is still "not a member" here.
	q := newQueue("lobby")
	s := newSlide("s1", "hall")

	_, _, err := RemoveSlide(q, s)
	assert.ErrorIs(t, err, ErrNotAMember)
}

func TestAddSlide(t *testing.T) {
	tests := []struct {
		name     string
		ids      []string
		position int
		want     []string
		wantErr  error
	}{
		{name: "append to empty", ids: nil, position: AppendPosition, want: []string{"x"}},
		{name: "append", ids: []string{"a", "b"}, position: AppendPosition, want: []string{"a", "b", "x"}},
		{name: "insert front", ids: []string{"a", "b"}, position: 0, want: []string{"x", "a", "b"}},
		{name: "insert middle", ids: []string{"a", "b"}, position: 1, want: []string{"a", "x", "b"}},
		{name: "past end clamps", ids: []string{"a"}, position: 10, want: []string{"a", "x"}},
		{name: "negative", ids: []string{"a"}, position: -2, wantErr: ErrInvalidPosition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := newQueue("lobby", tt.ids...)
			s := newSlide("x", "hall")

			gotQ, gotS, err := AddSlide(q, s, tt.position)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, gotQ.SlideIDs)
			assert.Equal(t, []string{"hall", "lobby"}, gotS.QueueNames())
			assert.Equal(t, []string{"hall"}, s.QueueNames())
		})
	}
}

func TestAddSlide_Twice(t *testing.T) {
	q := newQueue("lobby", "a")
	s := newSlide("x", "hall")

	q, s, err := AddSlide(q, s, AppendPosition)
	require.NoError(t, err)

	_, _, err = AddSlide(q, s, AppendPosition)
	require.ErrorIs(t, err, ErrAlreadyAMember)

	count := 0
	for _, id := range q.SlideIDs {
		if id == "x" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestMoveSlide(t *testing.T) {
	q := newQueue("lobby", "a", "b", "c", "d")

	got, err := MoveSlide(q, "a", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a", "d"}, got.SlideIDs)

	got, err = MoveSlide(q, "d", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "a", "b", "c"}, got.SlideIDs)

	got, err = MoveSlide(q, "b", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, got.SlideIDs)

	_, err = MoveSlide(q, "z", 0)
	assert.ErrorIs(t, err, ErrNotAMember)

	_, err = MoveSlide(q, "a", 4)
	assert.ErrorIs(t, err, ErrInvalidPosition)

	assert.Equal(t, []string{"a", "b", "c", "d"}, q.SlideIDs)
}

func TestDetachSlide(t *testing.T) {
	lobby := newQueue("lobby", "s1", "s2")
	hall := newQueue("hall", "s2", "s3")
	s := newSlide("s2", "lobby", "hall")

	queues, got, err := DetachSlide(s, []*store.Queue{lobby, hall})
	require.NoError(t, err)
	require.Len(t, queues, 2)
	assert.Equal(t, []string{"s1"}, queues[0].SlideIDs)
	assert.Equal(t, []string{"s3"}, queues[1].SlideIDs)
	assert.Equal(t, 0, got.Queues.Cardinality())

	_, _, err = DetachSlide(s, []*store.Queue{lobby})
	assert.ErrorIs(t, err, ErrIncompleteDetach)

	_, _, err = DetachSlide(s, []*store.Queue{newQueue("foyer", "s9")})
	assert.ErrorIs(t, err, ErrNotAMember)
}

func TestLobbyHallWalkthrough(t *testing.T) {
	lobby := newQueue("lobby", "s1", "s2", "s3")
	hall := newQueue("hall", "s2")
	s2 := newSlide("s2", "lobby", "hall")

	lobby, s2, err := RemoveSlide(lobby, s2)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s3"}, lobby.SlideIDs)
	assert.Equal(t, []string{"hall"}, s2.QueueNames())
	assert.True(t, Consistent(lobby, s2))
	assert.True(t, Consistent(hall, s2))

	_, _, err = RemoveSlide(hall, s2)
	assert.ErrorIs(t, err, ErrWouldOrphanSlide)
}
