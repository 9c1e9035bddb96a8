// Package pet runs the café's virtual pet: a coffee cup with three stats
// that decay over time and a mood derived from them.
package pet

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"
)

type Emotion string

const (
	Happy    Emotion = "happy"
	Sad      Emotion = "sad"
	Wired    Emotion = "wired"
	Cool     Emotion = "cool"
	Sleeping Emotion = "sleeping"
	Dizzy    Emotion = "dizzy"
	Love     Emotion = "love"
)

type Accessory string

const (
	NoAccessory Accessory = "none"
	PartyHat    Accessory = "party-hat"
	Sunglasses  Accessory = "sunglasses"
	Bow         Accessory = "bow"
	Headphones  Accessory = "headphones"
)

type Action string

const (
	ActionFeed     Action = "feed"
	ActionPet      Action = "pet"
	ActionDance    Action = "dance"
	ActionSleep    Action = "sleep"
	ActionInteract Action = "interact"
)

const (
	FeedCooldown  = 1500 * time.Millisecond
	PetCooldown   = 1200 * time.Millisecond
	DanceDuration = 2 * time.Second
)

var (
	ErrUnknownAction    = errors.New("unknown pet action")
	ErrUnknownEmotion   = errors.New("unknown emotion")
	ErrUnknownAccessory = errors.New("unknown accessory")
	ErrUnknownRecipe    = errors.New("unknown recipe")
)

// Stats are percentages in [0, 100].
type Stats struct {
	Energy    float64 `json:"energy"`
	Happiness float64 `json:"happiness"`
	Hunger    float64 `json:"hunger"`
}

// Recipe is the drink the cup is showing.
type Recipe struct {
	Name   string   `json:"name"`
	Base   string   `json:"base"`
	Milk   string   `json:"milk"`
	Syrup  string   `json:"syrup"`
	Extras []string `json:"extras,omitempty"`
}

// Recipes the cup can be filled with.
var Recipes = []Recipe{
	{Name: "Espresso", Base: "Espresso", Milk: "Entera", Syrup: "Ninguno"},
	{Name: "Americano", Base: "Americano", Milk: "Entera", Syrup: "Ninguno"},
	{Name: "Latte", Base: "Latte", Milk: "Entera", Syrup: "Ninguno"},
	{Name: "Cappuccino", Base: "Cappuccino", Milk: "Entera", Syrup: "Ninguno"},
	{Name: "Bombón", Base: "Bombón", Milk: "Entera", Syrup: "Ninguno"},
	{Name: "Vainilla", Base: "Cappuccino", Milk: "Entera", Syrup: "Vainilla"},
	{Name: "Chocolate", Base: "Chocolate", Milk: "Entera", Syrup: "Ninguno", Extras: []string{"Malvaviscos"}},
	{Name: "Frappuccino", Base: "Frappuccino", Milk: "Entera", Syrup: "Caramelo", Extras: []string{"Hielo", "Crema Batida"}},
}

const defaultRecipe = "Latte"

// State is a snapshot sent to clients.
type State struct {
	Stats     Stats     `json:"stats"`
	Emotion   Emotion   `json:"emotion"`
	Accessory Accessory `json:"accessory"`
	Recipe    Recipe    `json:"recipe"`
	Dancing   bool      `json:"dancing"`
	CanFeed   bool      `json:"can_feed"`
	CanPet    bool      `json:"can_pet"`
}

// Pet is safe for concurrent use.
type Pet struct {
	mu         sync.Mutex
	now        func() time.Time
	stats      Stats
	emotion    Emotion
	accessory  Accessory
	recipe     Recipe
	feedUntil  time.Time
	petUntil   time.Time
	danceUntil time.Time
}

// New returns a pet at 70 energy, 80 happiness and 60 hunger. A nil clock
// means time.Now.
func New(now func() time.Time) *Pet {
	if now == nil {
		now = time.Now
	}
	r, _ := findRecipe(defaultRecipe)
	return &Pet{
		now:       now,
		stats:     Stats{Energy: 70, Happiness: 80, Hunger: 60},
		emotion:   Happy,
		accessory: NoAccessory,
		recipe:    r,
	}
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

// changeStats applies a delta and re-derives the mood.
func (p *Pet) changeStats(energy, happiness, hunger float64) {
	p.stats = Stats{
		Energy:    clamp(p.stats.Energy + energy),
		Happiness: clamp(p.stats.Happiness + happiness),
		Hunger:    clamp(p.stats.Hunger + hunger),
	}
	if e, ok := derive(p.stats); ok {
		p.emotion = e
	}
}

// derive applies the mood rules in order. No match keeps the current mood.
func derive(s Stats) (Emotion, bool) {
	switch {
	case s.Energy < 15:
		return Sleeping, true
	case s.Hunger < 15:
		return Sad, true
	case s.Happiness > 85 && s.Energy > 60:
		return Love, true
	case s.Energy > 80:
		return Wired, true
	case s.Happiness > 60:
		return Happy, true
	}
	return "", false
}

// Tick is one decay step.
func (p *Pet) Tick() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changeStats(-0.3, -0.2, -0.4)
}

// Feed reports false while the previous feed is cooling down.
func (p *Pet) Feed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.now()
	if now.Before(p.feedUntil) {
		return false
	}
	p.feedUntil = now.Add(FeedCooldown)
	p.changeStats(15, 5, 25)
	return true
}

// Pet reports false while the previous pet is cooling down.
func (p *Pet) Pet() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.now()
	if now.Before(p.petUntil) {
		return false
	}
	p.petUntil = now.Add(PetCooldown)
	p.changeStats(0, 20, 0)
	return true
}

// Dance does nothing while a dance is still going.
func (p *Pet) Dance() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.now()
	if now.Before(p.danceUntil) {
		return false
	}
	p.danceUntil = now.Add(DanceDuration)
	p.changeStats(-5, 15, 0)
	return true
}

// Sleep restores energy and puts the cup to sleep unless a mood rule matches
// the new stats.
func (p *Pet) Sleep() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.emotion = Sleeping
	p.changeStats(30, 0, 0)
	return true
}

// Interact is a tap on the cup.
func (p *Pet) Interact() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changeStats(0, 3, 0)
	return true
}

// Do runs an action by name.
func (p *Pet) Do(a Action) (bool, error) {
	switch a {
	case ActionFeed:
		return p.Feed(), nil
	case ActionPet:
		return p.Pet(), nil
	case ActionDance:
		return p.Dance(), nil
	case ActionSleep:
		return p.Sleep(), nil
	case ActionInteract:
		return p.Interact(), nil
	}
	return false, fmt.Errorf("%w: %s", ErrUnknownAction, a)
}

// SetEmotion overrides the mood until the rules pick another one.
func (p *Pet) SetEmotion(e Emotion) error {
	switch e {
	case Happy, Sad, Wired, Cool, Sleeping, Dizzy, Love:
	default:
		return fmt.Errorf("%w: %s", ErrUnknownEmotion, e)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.emotion = e
	return nil
}

func (p *Pet) SetAccessory(a Accessory) error {
	switch a {
	case NoAccessory, PartyHat, Sunglasses, Bow, Headphones:
	default:
		return fmt.Errorf("%w: %s", ErrUnknownAccessory, a)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.accessory = a
	return nil
}

// SelectRecipe fills the cup with a named recipe.
func (p *Pet) SelectRecipe(name string) error {
	r, ok := findRecipe(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRecipe, name)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.recipe = r
	return nil
}

func findRecipe(name string) (Recipe, bool) {
	for _, r := range Recipes {
		if r.Name == name {
			r.Extras = append([]string(nil), r.Extras...)
			return r, true
		}
	}
	return Recipe{}, false
}

// Emotion is the current mood.
func (p *Pet) Emotion() Emotion {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.emotion
}

// Stats returns the current stats.
func (p *Pet) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// State snapshots everything a client draws.
func (p *Pet) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.now()
	r := p.recipe
	r.Extras = append([]string(nil), r.Extras...)
	return State{
		Stats:     p.stats,
		Emotion:   p.emotion,
		Accessory: p.accessory,
		Recipe:    r,
		Dancing:   now.Before(p.danceUntil),
		CanFeed:   !now.Before(p.feedUntil),
		CanPet:    !now.Before(p.petUntil),
	}
}
