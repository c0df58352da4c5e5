package deck

import (
	"errors"
	"fmt"
	"math"
	rand "math/rand/v2"
	"strings"

	"github.com/lox/blackjack/internal/randutil"
)

// CardsPerDeck is the size of one physical deck.
const CardsPerDeck = 52

// SixPackDecks is the number of physical decks in a SixPackDeck shoe.
const SixPackDecks = 6

// markerFloor is the earliest point, as a fraction of the shoe, where the
// plastic marker may be placed.
const markerFloor = 0.8

// ErrDeckExhausted is returned when a card is requested but neither the draw
// pile nor the discard pile has anything left. It means more cards are in
// play than the deck holds and is fatal for the round.
var ErrDeckExhausted = errors.New("deck exhausted")

// Deck is the capability set the table needs from a card source.
type Deck interface {
	// Draw removes and returns the next card.
	Draw() (Card, error)
	// NeedsReshuffle reports whether the deck wants a full shuffle before the
	// next round is dealt.
	NeedsReshuffle() bool
	// Shuffle returns every discarded card to the pile and shuffles it.
	Shuffle()
	// Discard returns cards from cleared hands to the deck.
	Discard(cards ...Card)
	// Remaining is the number of undrawn cards.
	Remaining() int
	// Discarded is the number of cards waiting in the discard pile.
	Discarded() int
	// Size is the full composition of the deck.
	Size() int
}

// Kind selects a deck variant.
type Kind int

const (
	Standard Kind = iota
	SixPack
)

// String returns the string representation of the deck kind
func (k Kind) String() string {
	switch k {
	case Standard:
		return "standard"
	case SixPack:
		return "sixpack"
	default:
		return "unknown"
	}
}

// ParseKind converts "standard" or "sixpack" into a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "standard", "single", "0":
		return Standard, nil
	case "sixpack", "six-pack", "shoe", "1":
		return SixPack, nil
	default:
		return 0, fmt.Errorf("unknown deck type %q", s)
	}
}

// Option configures deck construction.
type Option func(*options)

type options struct {
	stack []Card
}

// WithStack places the given cards, in order, at the top of the pile after
// every shuffle. It replaces random dealing for the first len(cards) draws of
// each round and exists for tests and demo scenarios.
func WithStack(cards ...Card) Option {
	return func(o *options) {
		o.stack = append([]Card(nil), cards...)
	}
}

// New builds a deck of the requested kind.
func New(kind Kind, rng *rand.Rand, opts ...Option) (Deck, error) {
	switch kind {
	case Standard:
		return NewStandardDeck(rng, opts...)
	case SixPack:
		return NewSixPackDeck(rng, opts...)
	default:
		return nil, fmt.Errorf("unknown deck kind %d", kind)
	}
}

// pile holds the card bookkeeping shared by both deck variants.
type pile struct {
	cards     []Card
	discarded []Card
	size      int
	rng       *rand.Rand
	stack     []Card
}

func newPile(decks int, rng *rand.Rand, opts []Option) (*pile, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	p := &pile{
		cards: make([]Card, 0, decks*CardsPerDeck),
		size:  decks * CardsPerDeck,
		rng:   rng,
		stack: o.stack,
	}
	for i := 0; i < decks; i++ {
		for _, suit := range Suits {
			for rank := Two; rank <= Ace; rank++ {
				p.cards = append(p.cards, NewCard(suit, rank))
			}
		}
	}

	if err := checkStack(o.stack, decks); err != nil {
		return nil, err
	}
	return p, nil
}

// checkStack verifies the composition holds enough copies of every stacked card.
func checkStack(stack []Card, decks int) error {
	counts := make(map[Card]int, len(stack))
	for _, c := range stack {
		counts[c]++
		if counts[c] > decks {
			return fmt.Errorf("stacked card %s appears %d times but the deck holds %d", c, counts[c], decks)
		}
	}
	return nil
}

func (p *pile) draw() (Card, error) {
	if len(p.cards) == 0 {
		if len(p.discarded) == 0 {
			return Card{}, ErrDeckExhausted
		}
		// Out of cards mid-round: bring the discards back without touching
		// the marker.
		p.cards = p.discarded
		p.discarded = nil
		p.rng.Shuffle(len(p.cards), p.swap)
	}

	card := p.cards[0]
	p.cards = p.cards[1:]
	return card, nil
}

func (p *pile) shuffle() {
	p.cards = append(p.cards, p.discarded...)
	p.discarded = nil
	p.rng.Shuffle(len(p.cards), p.swap)
	p.applyStack()
}

func (p *pile) swap(i, j int) {
	p.cards[i], p.cards[j] = p.cards[j], p.cards[i]
}

// applyStack moves the configured cards to the front, in order.
func (p *pile) applyStack() {
	for i, want := range p.stack {
		if i >= len(p.cards) {
			return
		}
		for j := i; j < len(p.cards); j++ {
			if p.cards[j] == want {
				p.swap(i, j)
				break
			}
		}
	}
}

func (p *pile) discard(cards ...Card) {
	p.discarded = append(p.discarded, cards...)
}

// StandardDeck is a single 52-card deck whose plastic marker sits on top of
// the pile, so it is reshuffled before every round.
type StandardDeck struct {
	*pile
}

// NewStandardDeck creates an unshuffled 52-card deck. The table shuffles it
// before the first deal because NeedsReshuffle is always true.
func NewStandardDeck(rng *rand.Rand, opts ...Option) (*StandardDeck, error) {
	if rng == nil {
		rng = randutil.New(randutil.NewSeed())
	}
	p, err := newPile(1, rng, opts)
	if err != nil {
		return nil, err
	}
	return &StandardDeck{pile: p}, nil
}

func (d *StandardDeck) Draw() (Card, error) { return d.draw() }
func (d *StandardDeck) NeedsReshuffle() bool { return true }
func (d *StandardDeck) Shuffle() { d.shuffle() }
func (d *StandardDeck) Discard(cards ...Card) { d.discard(cards...) }
func (d *StandardDeck) Remaining() int { return len(d.cards) }
func (d *StandardDeck) Discarded() int { return len(d.discarded) }
func (d *StandardDeck) Size() int { return d.size }

// SixPackDeck is the casino shoe: six decks shuffled together with a plastic
// marker placed at a random depth in the last fifth of the shoe.
type SixPackDeck struct {
	*pile
	threshold int
	marker    int
}

// NewSixPackDeck creates and shuffles a 312-card shoe.
func NewSixPackDeck(rng *rand.Rand, opts ...Option) (*SixPackDeck, error) {
	if rng == nil {
		rng = randutil.New(randutil.NewSeed())
	}
	p, err := newPile(SixPackDecks, rng, opts)
	if err != nil {
		return nil, err
	}
	d := &SixPackDeck{pile: p}
	d.Shuffle()
	return d, nil
}

// Draw removes the front card and moves the shoe one card closer to the marker.
func (d *SixPackDeck) Draw() (Card, error) {
	d.marker--
	return d.draw()
}

// NeedsReshuffle reports whether the marker has been reached.
func (d *SixPackDeck) NeedsReshuffle() bool {
	return d.marker <= 0
}

// Shuffle gathers the discards, shuffles the shoe and places a new marker.
func (d *SixPackDeck) Shuffle() {
	d.shuffle()
	lo := int(math.Ceil(float64(d.size) * markerFloor))
	d.threshold = randutil.Between(d.rng, lo, d.size)
	d.marker = d.threshold
}

// Threshold is the number of draws between the last shuffle and the marker.
func (d *SixPackDeck) Threshold() int { return d.threshold }

// UntilMarker is the number of draws left before a reshuffle is due.
func (d *SixPackDeck) UntilMarker() int { return d.marker }

func (d *SixPackDeck) Discard(cards ...Card) { d.discard(cards...) }
func (d *SixPackDeck) Remaining() int { return len(d.cards) }
func (d *SixPackDeck) Discarded() int { return len(d.discarded) }
func (d *SixPackDeck) Size() int { return d.size }

var (
	_ Deck = (*StandardDeck)(nil)
	_ Deck = (*SixPackDeck)(nil)
)
