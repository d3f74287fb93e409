// Package session orchestrates rounds, the performance history, and
// difficulty adjustment for one player session.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/hanmaum/pairo/internal/adaptive"
	"github.com/hanmaum/pairo/internal/deck"
	"github.com/hanmaum/pairo/internal/model"
	"github.com/hanmaum/pairo/internal/round"
)

// Store is the key-value persistence capability the session needs.
// Read failures fall back to defaults; write failures are swallowed.
type Store interface {
	LoadValue(ctx context.Context, key string) (string, bool, error)
	SaveValue(ctx context.Context, key, value string) error
}

// RoundLog receives every finished round, best-effort.
type RoundLog interface {
	InsertRound(ctx context.Context, res model.RoundResult) error
}

// Announcer speaks a phrase to the player, fire-and-forget.
type Announcer interface {
	Announce(text string)
}

// NullStore keeps the game playable when persistence is unavailable.
type NullStore struct{}

// LoadValue implements Store.
func (NullStore) LoadValue(context.Context, string) (string, bool, error) {
	return "", false, nil
}

// SaveValue implements Store.
func (NullStore) SaveValue(context.Context, string, string) error {
	return nil
}

// ErrUnknownLevel reports a difficulty index outside the level table.
var ErrUnknownLevel = errors.New("unknown difficulty level")

// Persisted value keys.
const (
	keyLevel   = "level"
	keyVoice   = "voice"
	keyHistory = "history"
)

// Spoken feedback phrases.
const (
	phraseRoundStart = "새 게임을 시작합니다"
	phraseMatch      = "짝을 찾았어요"
	phraseMismatch   = "아니에요, 다시 해보세요"
	phraseSuccessFmt = "성공! %d초 만에 다 맞췄어요"
	phraseTimeout    = "시간이 초과됐어요"
	phraseHarder     = "난이도를 올릴게요"
	phraseEasier     = "난이도를 내릴게요"
)

// Options holds the timing knobs. The mismatch delay is longer than the
// match delay so the player can memorize the revealed symbols before
// they hide again.
type Options struct {
	MatchDelay    time.Duration
	MismatchDelay time.Duration
	TimeoutSlack  float64
}

// DefaultOptions returns the stock timing knobs.
func DefaultOptions() Options {
	return Options{
		MatchDelay:    600 * time.Millisecond,
		MismatchDelay: 1800 * time.Millisecond,
		TimeoutSlack:  1.5,
	}
}

// PendingKind classifies the follow-up a SelectTile call requires.
type PendingKind int

const (
	// PendingNone requires no follow-up.
	PendingNone PendingKind = iota
	// PendingResolve requires Resolve(Generation) after Delay.
	PendingResolve
)

// Pending tells the caller what to schedule after a tile selection. The
// generation keys the callback to the current round; a superseded round
// drops the stale callback inside Resolve.
type Pending struct {
	Kind       PendingKind
	Delay      time.Duration
	Generation int
}

// Snapshot is a read-only view of the session for rendering.
type Snapshot struct {
	Level            model.Level
	LevelIndex       int
	LevelCount       int
	Deck             []model.Tile
	Revealed         []int
	Moves            int
	MatchedPairs     int
	Elapsed          int
	DeadlineSeconds  int
	Phase            round.Phase
	InputLocked      bool
	VoiceEnabled     bool
	History          []model.Record
	LastAnnouncement string
}

// Session owns the active difficulty index, the current round, and the
// performance history. It is driven from a single event loop and is not
// safe for concurrent use.
type Session struct {
	store     Store
	log       RoundLog
	announcer Announcer
	gen       *deck.Generator
	opts      Options
	levels    []model.Level
	now       func() time.Time

	levelIdx   int
	voice      bool
	history    []model.Record
	round      *round.Round
	generation int
	lastPhrase string
}

// New builds a session from persisted settings and starts the first
// round. Persistence failures fall back to the middle difficulty, voice
// on, and an empty history.
func New(store Store, log RoundLog, announcer Announcer, gen *deck.Generator, opts Options) (*Session, error) {
	if store == nil {
		store = NullStore{}
	}
	if opts.MatchDelay <= 0 {
		opts.MatchDelay = DefaultOptions().MatchDelay
	}
	if opts.MismatchDelay <= 0 {
		opts.MismatchDelay = DefaultOptions().MismatchDelay
	}
	if opts.TimeoutSlack <= 0 {
		opts.TimeoutSlack = DefaultOptions().TimeoutSlack
	}
	s := &Session{
		store:     store,
		log:       log,
		announcer: announcer,
		gen:       gen,
		opts:      opts,
		levels:    model.Levels(),
		now:       time.Now,
		levelIdx:  model.DefaultLevelIndex,
		voice:     true,
	}
	s.loadPersisted()
	if err := s.StartNewRound(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) loadPersisted() {
	ctx := context.Background()
	if raw, ok, err := s.store.LoadValue(ctx, keyLevel); err != nil {
		logErrf("failed to load level: %v\n", err)
	} else if ok {
		if idx, err := strconv.Atoi(raw); err == nil && idx >= 0 && idx < len(s.levels) {
			s.levelIdx = idx
		}
	}
	if raw, ok, err := s.store.LoadValue(ctx, keyVoice); err != nil {
		logErrf("failed to load voice flag: %v\n", err)
	} else if ok {
		if v, err := strconv.ParseBool(raw); err == nil {
			s.voice = v
		}
	}
	if raw, ok, err := s.store.LoadValue(ctx, keyHistory); err != nil {
		logErrf("failed to load history: %v\n", err)
	} else if ok {
		var history []model.Record
		if err := json.Unmarshal([]byte(raw), &history); err == nil {
			if len(history) > adaptive.HistoryCap {
				history = history[len(history)-adaptive.HistoryCap:]
			}
			s.history = history
		}
	}
}

// StartNewRound discards the current round and deals a fresh deck at
// the active level. Pending callbacks from the old round become stale.
func (s *Session) StartNewRound() error {
	level := s.levels[s.levelIdx]
	tiles, err := s.gen.Generate(level.PairCount)
	if err != nil {
		return fmt.Errorf("failed to deal deck: %w", err)
	}
	s.generation++
	s.round = round.Start(level, tiles, s.now())
	s.say(phraseRoundStart)
	return nil
}

// Generation identifies the current round; scheduled callbacks carry it
// so stale ones can be dropped.
func (s *Session) Generation() int {
	return s.generation
}

// SelectTile reveals the tile at index i. When it completes a pair the
// caller must schedule Resolve after the returned delay.
func (s *Session) SelectTile(i int) Pending {
	if s.round.Select(i) != round.SelectionPair {
		return Pending{Kind: PendingNone}
	}
	delay := s.opts.MismatchDelay
	if s.round.PairMatches() {
		delay = s.opts.MatchDelay
		s.say(phraseMatch)
	} else {
		s.say(phraseMismatch)
	}
	return Pending{Kind: PendingResolve, Delay: delay, Generation: s.generation}
}

// Resolve applies a pending pair outcome. Calls carrying a superseded
// generation, or arriving after the round already ended, are dropped.
func (s *Session) Resolve(generation int) {
	if generation != s.generation || s.round.Phase().Terminal() {
		return
	}
	s.round.Resolve()
	if s.round.Phase() != round.PhaseComplete {
		return
	}
	seconds := s.round.Elapsed
	moves := s.round.Moves
	s.say(fmt.Sprintf(phraseSuccessFmt, seconds))
	s.finishRound(true, &seconds, &moves)
}

// Tick advances the round timer by one second. Calls carrying a
// superseded generation, or arriving after the round already ended,
// are dropped; a finished round records its outcome exactly once.
func (s *Session) Tick(generation int) {
	if generation != s.generation || s.round.Phase().Terminal() {
		return
	}
	s.round.Tick(s.opts.TimeoutSlack)
	if s.round.Phase() != round.PhaseTimedOut {
		return
	}
	s.say(phraseTimeout)
	s.finishRound(false, nil, nil)
}

func (s *Session) finishRound(success bool, seconds, moves *int) {
	endedAt := s.now()
	level := s.levels[s.levelIdx]
	s.history = adaptive.Append(s.history, model.Record{
		Success:     success,
		TimeSeconds: seconds,
		Moves:       moves,
		Timestamp:   endedAt,
		LevelID:     level.ID,
	})
	s.persistHistory()
	if s.log != nil {
		res := model.RoundResult{
			EndedAt: endedAt,
			LevelID: level.ID,
			Success: success,
			Seconds: seconds,
			Moves:   moves,
		}
		if err := s.log.InsertRound(context.Background(), res); err != nil {
			logErrf("failed to log round: %v\n", err)
		}
	}

	next := adaptive.Adjust(s.history, s.levelIdx, len(s.levels)-1)
	if next == s.levelIdx {
		return
	}
	if next > s.levelIdx {
		s.say(phraseHarder)
	} else {
		s.say(phraseEasier)
	}
	s.levelIdx = next
	s.persistLevel()
	if err := s.StartNewRound(); err != nil {
		logErrf("failed to start round: %v\n", err)
	}
}

// SetDifficulty is the explicit player override: it persists the level
// and starts a fresh round there, bypassing the controller.
func (s *Session) SetDifficulty(idx int) error {
	if idx < 0 || idx >= len(s.levels) {
		return fmt.Errorf("%w: index %d", ErrUnknownLevel, idx)
	}
	s.levelIdx = idx
	s.persistLevel()
	return s.StartNewRound()
}

// SetVoiceEnabled toggles spoken feedback and persists the choice.
func (s *Session) SetVoiceEnabled(enabled bool) {
	s.voice = enabled
	if err := s.store.SaveValue(context.Background(), keyVoice, strconv.FormatBool(enabled)); err != nil {
		logErrf("failed to save voice flag: %v\n", err)
	}
}

// VoiceEnabled reports whether spoken feedback is on.
func (s *Session) VoiceEnabled() bool {
	return s.voice
}

// Snapshot returns a read-only copy of the session state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Level:            s.levels[s.levelIdx],
		LevelIndex:       s.levelIdx,
		LevelCount:       len(s.levels),
		Deck:             append([]model.Tile(nil), s.round.Deck...),
		Revealed:         append([]int(nil), s.round.Revealed...),
		Moves:            s.round.Moves,
		MatchedPairs:     s.round.MatchedPairs,
		Elapsed:          s.round.Elapsed,
		DeadlineSeconds:  int(float64(s.levels[s.levelIdx].TargetSeconds) * s.opts.TimeoutSlack),
		Phase:            s.round.Phase(),
		InputLocked:      s.round.InputLocked(),
		VoiceEnabled:     s.voice,
		History:          append([]model.Record(nil), s.history...),
		LastAnnouncement: s.lastPhrase,
	}
}

func (s *Session) persistLevel() {
	if err := s.store.SaveValue(context.Background(), keyLevel, strconv.Itoa(s.levelIdx)); err != nil {
		logErrf("failed to save level: %v\n", err)
	}
}

func (s *Session) persistHistory() {
	raw, err := json.Marshal(s.history)
	if err != nil {
		logErrf("failed to encode history: %v\n", err)
		return
	}
	if err := s.store.SaveValue(context.Background(), keyHistory, string(raw)); err != nil {
		logErrf("failed to save history: %v\n", err)
	}
}

// say records the phrase for the UI feed and forwards it to the speech
// collaborator when voice is on.
func (s *Session) say(text string) {
	s.lastPhrase = text
	if s.voice && s.announcer != nil {
		s.announcer.Announce(text)
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
