package pet

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *clock {
	return &clock{t: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
}

func TestNewPet(t *testing.T) {
	p := New(nil)
	assert.Equal(t, Stats{Energy: 70, Happiness: 80, Hunger: 60}, p.Stats())
	assert.Equal(t, Happy, p.Emotion())
	assert.Equal(t, "Latte", p.State().Recipe.Name)
	assert.Equal(t, NoAccessory, p.State().Accessory)
}

func TestTickDecays(t *testing.T) {
	p := New(nil)
	p.Tick()
	s := p.Stats()
	assert.InDelta(t, 69.7, s.Energy, 1e-9)
	assert.InDelta(t, 79.8, s.Happiness, 1e-9)
	assert.InDelta(t, 59.6, s.Hunger, 1e-9)
}

func TestStatsStayInRange(t *testing.T) {
	p := New(nil)
	for i := 0; i < 500; i++ {
		p.Tick()
	}
	assert.Equal(t, Stats{}, p.Stats())
	assert.Equal(t, Sleeping, p.Emotion())

	c := newClock()
	p = New(c.now)
	for i := 0; i < 20; i++ {
		p.Feed()
		p.Pet()
		p.Sleep()
		c.advance(2 * time.Second)
	}
	s := p.Stats()
	assert.LessOrEqual(t, s.Energy, 100.0)
	assert.LessOrEqual(t, s.Happiness, 100.0)
	assert.LessOrEqual(t, s.Hunger, 100.0)
}

func TestFeedCooldown(t *testing.T) {
	c := newClock()
	p := New(c.now)

	require.True(t, p.Feed())
	after := p.Stats()
	assert.Equal(t, Stats{Energy: 85, Happiness: 85, Hunger: 85}, after)

	c.advance(time.Second)
	assert.False(t, p.Feed())
	assert.Equal(t, after, p.Stats())
	assert.False(t, p.State().CanFeed)

	c.advance(500 * time.Millisecond)
	assert.True(t, p.Feed())
}

func TestPetCooldown(t *testing.T) {
	c := newClock()
	p := New(c.now)

	require.True(t, p.Pet())
	assert.False(t, p.Pet())
	c.advance(PetCooldown)
	assert.True(t, p.Pet())
	assert.Equal(t, 100.0, p.Stats().Happiness)
}

func TestDanceLock(t *testing.T) {
	c := newClock()
	p := New(c.now)

	require.True(t, p.Dance())
	assert.True(t, p.State().Dancing)
	assert.False(t, p.Dance())
	assert.InDelta(t, 65, p.Stats().Energy, 1e-9)
	assert.InDelta(t, 95, p.Stats().Happiness, 1e-9)

	c.advance(DanceDuration)
	assert.False(t, p.State().Dancing)
	assert.True(t, p.Dance())
}

func TestSleepSetsSleepingUnlessARuleMatches(t *testing.T) {
	p := New(nil)
	p.stats = Stats{Energy: 20, Happiness: 50, Hunger: 50}
	p.emotion = Happy

	p.Sleep()
	assert.Equal(t, Sleeping, p.Emotion())
	assert.InDelta(t, 50, p.Stats().Energy, 1e-9)

	// 70 + 30 energy trips the wired rule
	p = New(nil)
	p.Sleep()
	assert.InDelta(t, 100, p.Stats().Energy, 1e-9)
	assert.Equal(t, Wired, p.Emotion())

	p = New(nil)
	p.stats = Stats{Energy: 50, Happiness: 90, Hunger: 50}
	p.Sleep()
	assert.Equal(t, Love, p.Emotion())
}

func TestEmotionRules(t *testing.T) {
	cases := []struct {
		name  string
		stats Stats
		want  Emotion
		ok    bool
	}{
		{"exhausted", Stats{Energy: 10, Happiness: 90, Hunger: 5}, Sleeping, true},
		{"hungry", Stats{Energy: 50, Happiness: 90, Hunger: 10}, Sad, true},
		{"in love", Stats{Energy: 61, Happiness: 86, Hunger: 50}, Love, true},
		{"wired", Stats{Energy: 90, Happiness: 50, Hunger: 50}, Wired, true},
		{"happy", Stats{Energy: 50, Happiness: 61, Hunger: 50}, Happy, true},
		{"no rule", Stats{Energy: 50, Happiness: 40, Hunger: 50}, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := derive(tc.stats)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestManualEmotionIsSticky(t *testing.T) {
	p := New(nil)
	p.stats = Stats{Energy: 50, Happiness: 40, Hunger: 50}
	require.NoError(t, p.SetEmotion(Cool))

	p.Tick()

	assert.Equal(t, Cool, p.Emotion())
	assert.ErrorIs(t, p.SetEmotion("angry"), ErrUnknownEmotion)
}

func TestCosmetics(t *testing.T) {
	p := New(nil)

	require.NoError(t, p.SetAccessory(Headphones))
	require.NoError(t, p.SelectRecipe("Frappuccino"))
	assert.ErrorIs(t, p.SetAccessory("cape"), ErrUnknownAccessory)
	assert.ErrorIs(t, p.SelectRecipe("Mate"), ErrUnknownRecipe)

	st := p.State()
	assert.Equal(t, Headphones, st.Accessory)
	assert.Equal(t, []string{"Hielo", "Crema Batida"}, st.Recipe.Extras)
}

func TestDo(t *testing.T) {
	p := New(nil)
	ok, err := p.Do(ActionInteract)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, 83, p.Stats().Happiness, 1e-9)

	_, err = p.Do("jump")
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestHubSubscribe(t *testing.T) {
	h := NewHub(nil)
	ch, cancel := h.Subscribe("s1")

	first := <-ch
	assert.Equal(t, 70.0, first.Stats.Energy)

	h.TickAll()
	next := <-ch
	assert.InDelta(t, 69.7, next.Stats.Energy, 1e-9)

	h.Get("s1").Feed()
	h.Publish("s1")
	fed := <-ch
	assert.InDelta(t, 84.7, fed.Stats.Energy, 1e-9)

	cancel()
	cancel()
	_, open := <-ch
	assert.False(t, open)
}

func TestHubKeepsOnlyLatestState(t *testing.T) {
	h := NewHub(nil)
	ch, cancel := h.Subscribe("s1")
	defer cancel()
	<-ch

	h.TickAll()
	h.TickAll()
	h.TickAll()

	st := <-ch
	assert.InDelta(t, 69.1, st.Stats.Energy, 1e-9)
	select {
	case <-ch:
		t.Fatal("expected a single pending state")
	default:
	}
}

func TestHubDropsIdlePets(t *testing.T) {
	c := newClock()
	h := NewHub(nil, WithHubClock(c.now), WithIdleTimeout(time.Hour))
	h.Get("old")
	c.advance(2 * time.Hour)
	h.Get("fresh")

	h.TickAll()

	assert.Equal(t, 1, h.Len())
}

func TestHubRunWithoutIntervalReturns(t *testing.T) {
	for _, d := range []time.Duration{0, -time.Second} {
		h := NewHub(nil, WithInterval(d))
		done := make(chan struct{})
		go func() {
			h.Run(context.Background())
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatalf("hub with interval %v kept running", d)
		}
	}
}

func TestHubRunStops(t *testing.T) {
	h := NewHub(nil, WithInterval(time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
}
