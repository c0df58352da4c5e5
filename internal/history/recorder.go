// Package history records table sessions and stores them as TOML files.
package history

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// Recorder is an event subscriber that builds a Session transcript.
type Recorder struct {
	mu      sync.Mutex
	session Session
	current *Round
	doubled map[string]bool
}

// NewRecorder starts a transcript for a table with the given settings.
func NewRecorder(cfg game.TableConfig, kind deck.Kind, clock quartz.Clock) *Recorder {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Recorder{
		session: Session{
			Started: clock.Now(),
			MinBet:  amount(cfg.MinBet),
			MaxBet:  amount(cfg.MaxBet),
			Deck:    kind.String(),
		},
		doubled: make(map[string]bool),
	}
}

func amount(c game.Chips) float64 {
	return float64(c) / float64(game.WholeChips(1))
}

func cardStrings(cards []deck.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}

func handRecord(player string, h game.HandSnapshot) HandRecord {
	return HandRecord{
		Player: player,
		Name:   h.Name,
		Cards:  cardStrings(h.Cards),
		Value:  h.Value,
		Bet:    amount(h.Bet),
	}
}

// OnEvent implements game.EventSubscriber.
func (r *Recorder) OnEvent(event game.GameEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch e := event.(type) {
	case game.RoundStartEvent:
		r.current = &Round{ID: e.RoundID, Number: e.Round, Shuffled: e.Shuffled}
		clear(r.doubled)

	case game.HandEvent:
		if e.Action == game.ActionDouble {
			r.doubled[e.Player+"/"+e.Hand.Name] = true
		}

	case game.DealerRevealEvent:
		if r.current != nil {
			r.current.Dealer = handRecord("", e.Hand)
		}

	case game.SettlementEvent:
		if r.current == nil {
			return
		}
		rec := handRecord(e.Player, e.Hand)
		rec.Doubled = r.doubled[e.Player+"/"+e.Hand.Name]
		rec.Outcome = e.Outcome.String()
		rec.Payout = amount(e.Payout)
		rec.Chips = amount(e.Chips)
		r.current.Hands = append(r.current.Hands, rec)
		r.current.Dealer = handRecord("", e.Dealer)

	case game.PlayerRemovedEvent:
		if r.current == nil {
			return
		}
		removal := Removal{Player: e.Player, Reason: string(e.Reason), Chips: amount(e.Chips)}
		if e.Err != nil {
			removal.Error = e.Err.Error()
		}
		r.current.Removed = append(r.current.Removed, removal)

	case game.RoundEndEvent:
		if r.current == nil {
			return
		}
		r.current.HouseNet = amount(e.HouseNet)
		r.session.Rounds = append(r.session.Rounds, *r.current)
		r.session.HouseNet = r.current.HouseNet
		r.current = nil

	case game.TableClosedEvent:
		r.session.SessionID = e.SessionID
		r.session.HouseNet = amount(e.HouseNet)
		finished := e.Timestamp()
		r.session.Finished = &finished
	}
}

// Session returns a copy of the transcript recorded so far. A round still in
// progress is not included.
func (r *Recorder) Session() Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.session
	s.Rounds = append([]Round(nil), r.session.Rounds...)
	return s
}

// SetSessionID names the session before the table has closed.
func (r *Recorder) SetSessionID(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.session.SessionID = id
}

// Save writes the transcript to path as TOML.
func (r *Recorder) Save(path string) error {
	s := r.Session()
	return Save(path, &s)
}

// Save writes s to path as TOML. Readers never observe a partial file.
func Save(path string, s *Session) error {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = "\t"
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("history: encode: %w", err)
	}
	return writeFileAtomic(path, buf.Bytes(), 0o644)
}

// Load reads a transcript written by Save.
func Load(path string) (*Session, error) {
	var s Session
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return nil, fmt.Errorf("history: decode %s: %w", path, err)
	}
	return &s, nil
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it into place.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)
	tmpFile, err := os.CreateTemp(dir, filepath.Base(filename)+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// cleanup on any failure before the rename
	defer func() {
		if tmpFile != nil {
			tmpFile.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	tmpFile = nil

	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, filename); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
