// Package profiles stores the pre-aggregated team summaries the expert core
// consumes. The store only loads and indexes summaries produced by an
// external statistics pipeline; it never computes statistics itself.
package profiles

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/matchmind/betexpert/pkg/expert/facts"
)

// Store is a read-only index of validated team profiles, keyed by normalized
// team name so lookups tolerate accents and casing ("Atlético Madrid" ==
// "atletico madrid").
type Store struct {
	mu     sync.RWMutex
	byName map[string]facts.TeamProfile
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{byName: make(map[string]facts.TeamProfile)}
}

// LoadFile reads a JSON array of team summaries and indexes the resulting
// profiles. Invalid summaries abort the load.
func (s *Store) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read profiles: %w", err)
	}

	var summaries []facts.TeamSummary
	if err := json.Unmarshal(data, &summaries); err != nil {
		return fmt.Errorf("parse profiles: %w", err)
	}
	return s.Add(summaries...)
}

// Add validates and indexes the given summaries.
func (s *Store) Add(summaries ...facts.TeamSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sum := range summaries {
		profile, err := facts.NewTeamProfile(sum)
		if err != nil {
			return fmt.Errorf("profile for %q: %w", sum.Team, err)
		}
		s.byName[normalizeName(profile.Team)] = profile
	}
	return nil
}

// Get looks up a team profile by name, ignoring case and accents.
func (s *Store) Get(name string) (facts.TeamProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byName[normalizeName(name)]
	return p, ok
}

// Teams returns the canonical team names in sorted order.
func (s *Store) Teams() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.byName))
	for _, p := range s.byName {
		names = append(names, p.Team)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of indexed teams.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byName)
}

// normalizeName normalizes a team name for matching.
func normalizeName(name string) string {
	name = strings.ToLower(name)

	// Remove accents
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	name, _, _ = transform.String(t, name)

	// Normalize spaces
	name = strings.Join(strings.Fields(name), " ")

	return strings.TrimSpace(name)
}
