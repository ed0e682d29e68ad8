package experience

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viha-saxena/Movie-sync/player"
)

type transition struct {
	from, to State
}

func newLifecycle(active *player.Kind) (*Lifecycle, *[]transition) {
	l := New(func() player.Kind { return *active })
	var seen []transition
	l.OnTransition(func(from, to State) { seen = append(seen, transition{from, to}) })
	return l, &seen
}

func toLoader(t *testing.T, l *Lifecycle) {
	t.Helper()
	require.NoError(t, l.Enter())
	require.NoError(t, l.EntranceComplete())
}

func TestLifecycle_FullCycle(t *testing.T) {
	active := player.KindLocal
	l, seen := newLifecycle(&active)

	toLoader(t, l)
	require.NoError(t, l.BeginLoad())
	require.True(t, l.MarkStarted(active))
	require.NoError(t, l.Ended(player.KindLocal))
	require.NoError(t, l.CreditsDone())

	assert.Equal(t, LoaderVisible, l.State())
	assert.Equal(t, []transition{
		{NotStarted, Entering},
		{Entering, LoaderVisible},
		{LoaderVisible, Playing},
		{Playing, Credits},
		{Credits, LoaderVisible},
	}, *seen)
}

func TestLifecycle_StartedIsOneShotPerLoad(t *testing.T) {
	active := player.KindRemote
	l, seen := newLifecycle(&active)
	toLoader(t, l)

	require.NoError(t, l.BeginLoad())
	assert.True(t, l.MarkStarted(active))
	assert.False(t, l.MarkStarted(active))
	assert.True(t, l.Started())

	require.NoError(t, l.BeginLoad())
	assert.False(t, l.Started())
	assert.True(t, l.MarkStarted(active))

	assert.Len(t, *seen, 3)
	assert.Equal(t, Playing, l.State())
}

func TestLifecycle_CreditsResetStartedFlag(t *testing.T) {
	active := player.KindRemote
	l, _ := newLifecycle(&active)
	toLoader(t, l)
	require.NoError(t, l.BeginLoad())
	require.True(t, l.MarkStarted(active))

	require.NoError(t, l.Ended(player.KindRemote))

	assert.False(t, l.Started())
	assert.Equal(t, Credits, l.State())
}

func TestLifecycle_LoadDuringCredits(t *testing.T) {
	active := player.KindLocal
	l, _ := newLifecycle(&active)
	toLoader(t, l)
	require.NoError(t, l.BeginLoad())
	require.True(t, l.MarkStarted(active))
	require.NoError(t, l.Ended(player.KindLocal))

	require.NoError(t, l.BeginLoad())
	require.True(t, l.MarkStarted(active))

	assert.Equal(t, Playing, l.State())
}

func TestLifecycle_EndedFromInactiveBackend(t *testing.T) {
	active := player.KindRemote
	l, _ := newLifecycle(&active)
	toLoader(t, l)
	require.NoError(t, l.BeginLoad())
	require.True(t, l.MarkStarted(active))

	err := l.Ended(player.KindLocal)

	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, Playing, l.State())
}

func TestLifecycle_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name string
		run  func(*Lifecycle) error
	}{
		{name: "entrance before enter", run: func(l *Lifecycle) error { return l.EntranceComplete() }},
		{name: "load before loader", run: func(l *Lifecycle) error { return l.BeginLoad() }},
		{name: "credits done before credits", run: func(l *Lifecycle) error { return l.CreditsDone() }},
		{name: "ended before playing", run: func(l *Lifecycle) error { return l.Ended(player.KindLocal) }},
		{name: "enter twice", run: func(l *Lifecycle) error {
			if err := l.Enter(); err != nil {
				return err
			}
			return l.Enter()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			active := player.KindLocal
			l, _ := newLifecycle(&active)
			before := l.State()

			err := tt.run(l)

			assert.ErrorIs(t, err, ErrInvalidTransition)
			if tt.name != "enter twice" {
				assert.Equal(t, before, l.State())
			}
		})
	}
}

func TestLifecycle_MarkStartedBeforeLoader(t *testing.T) {
	active := player.KindLocal
	l, seen := newLifecycle(&active)

	assert.False(t, l.MarkStarted(active))
	assert.Equal(t, NotStarted, l.State())
	assert.Empty(t, *seen)
}

func TestLifecycle_MarkStartedFromInactiveBackend(t *testing.T) {
	tests := []struct {
		name   string
		active player.Kind
		source player.Kind
	}{
		{name: "no backend active", active: player.KindNone, source: player.KindRemote},
		{name: "other backend active", active: player.KindLocal, source: player.KindRemote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			active := tt.active
			l, seen := newLifecycle(&active)
			toLoader(t, l)
			require.NoError(t, l.BeginLoad())

			assert.False(t, l.MarkStarted(tt.source))
			assert.False(t, l.Started())
			assert.Equal(t, LoaderVisible, l.State())
			assert.Len(t, *seen, 2)

			active = tt.source
			assert.True(t, l.MarkStarted(tt.source))
		})
	}
}
