package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/spendwise-dev/spendwise/internal/model"
)

// Store reads and writes model.State on top of a KV backend.
type Store struct {
	kv  KV
	log zerolog.Logger
}

// New wraps kv. Warnings about unreadable values go to log.
func New(kv KV, log zerolog.Logger) *Store {
	return &Store{kv: kv, log: log.With().Str("component", "store").Logger()}
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.kv.Close()
}

// Load returns the persisted state. Missing pieces take their first-run
// defaults. A piece that cannot be decoded is logged and replaced by its
// default; only backend read failures are returned as errors.
func (s *Store) Load() (model.State, error) {
	state := model.EmptyState()

	txns, err := loadList[model.Transaction](s, KeyTransactions)
	if err != nil {
		return model.State{}, err
	}
	state.Transactions = txns

	subs, err := loadList[model.Subscription](s, KeySubscriptions)
	if err != nil {
		return model.State{}, err
	}
	state.Subscriptions = subs

	budget, err := s.loadBudget()
	if err != nil {
		return model.State{}, err
	}
	state.Budget = budget

	return state, nil
}

// loadList decodes into a fresh slice; a value that fails halfway through
// yields an empty list, never a partial one.
func loadList[T any](s *Store, key string) ([]T, error) {
	raw, err := s.kv.Get(key)
	if errors.Is(err, ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", key, err)
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("discarding unreadable value, using default")
		return []T{}, nil
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (s *Store) loadBudget() (decimal.Decimal, error) {
	var budget decimal.Decimal
	raw, err := s.kv.Get(KeyBudget)
	if errors.Is(err, ErrNotFound) {
		return model.DefaultBudget, nil
	}
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("loading %s: %w", KeyBudget, err)
	}
	if err := json.Unmarshal(raw, &budget); err != nil {
		s.log.Warn().Err(err).Str("key", KeyBudget).Msg("discarding unreadable budget, using default")
		return model.DefaultBudget, nil
	}
	if budget.IsNegative() {
		s.log.Warn().Str("key", KeyBudget).Str("value", budget.String()).Msg("negative budget, using default")
		return model.DefaultBudget, nil
	}
	return budget, nil
}

// SaveTransactions replaces the stored transaction list.
func (s *Store) SaveTransactions(txns []model.Transaction) error {
	if txns == nil {
		txns = []model.Transaction{}
	}
	return s.saveJSON(KeyTransactions, txns)
}

// SaveSubscriptions replaces the stored subscription registry.
func (s *Store) SaveSubscriptions(subs []model.Subscription) error {
	if subs == nil {
		subs = []model.Subscription{}
	}
	return s.saveJSON(KeySubscriptions, subs)
}

// SaveBudget stores the budget as a bare JSON number.
func (s *Store) SaveBudget(budget decimal.Decimal) error {
	if err := s.kv.Put(KeyBudget, []byte(budget.String())); err != nil {
		return fmt.Errorf("saving %s: %w", KeyBudget, err)
	}
	return nil
}

// SaveAll writes every piece. Used after an import overwrite. If any write
// fails, the pieces already written are put back to their previous values.
func (s *Store) SaveAll(state model.State) error {
	prev := make(map[string][]byte, 3)
	for _, key := range []string{KeyBudget, KeySubscriptions, KeyTransactions} {
		raw, err := s.kv.Get(key)
		switch {
		case errors.Is(err, ErrNotFound):
			prev[key] = emptyValue(key)
		case err != nil:
			return fmt.Errorf("loading %s: %w", key, err)
		default:
			prev[key] = raw
		}
	}

	steps := []struct {
		key  string
		save func() error
	}{
		{KeyBudget, func() error { return s.SaveBudget(state.Budget) }},
		{KeySubscriptions, func() error { return s.SaveSubscriptions(state.Subscriptions) }},
		{KeyTransactions, func() error { return s.SaveTransactions(state.Transactions) }},
	}
	for i, step := range steps {
		if err := step.save(); err != nil {
			for _, done := range steps[:i] {
				if rerr := s.kv.Put(done.key, prev[done.key]); rerr != nil {
					s.log.Error().Err(rerr).Str("key", done.key).Msg("restoring previous value")
				}
			}
			return err
		}
	}
	return nil
}

// emptyValue is what a never-written key loads as.
func emptyValue(key string) []byte {
	if key == KeyBudget {
		return []byte(model.DefaultBudget.String())
	}
	return []byte("[]")
}

func (s *Store) saveJSON(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := s.kv.Put(key, raw); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}
