// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package storage

import (
	"context"
	"sync"
	"time"

	"github.com/pickupgames/pug-coordinator/pkg/models"
)

// overallKey indexes the community-wide counter alongside the per-game-type
// counters in the same map.
const overallKey = ""

// MemoryStore is a Store backed by process memory, used in tests and
// single-instance deployments that do not need durable history.
type MemoryStore struct {
	mu       sync.Mutex
	stats    map[string]map[string]map[string]models.PlayerStats // community -> player -> game type
	names    map[string]map[string]string                        // community -> player -> last seen name
	counters map[string]map[string]int                           // community -> game type (or overallKey)
	records  map[string]models.MatchRecord                       // record ID
	blocks   map[string]map[string]models.Block                  // community -> culprit
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		stats:    map[string]map[string]map[string]models.PlayerStats{},
		names:    map[string]map[string]string{},
		counters: map[string]map[string]int{},
		records:  map[string]models.MatchRecord{},
		blocks:   map[string]map[string]models.Block{},
	}
}

func (s *MemoryStore) LoadPlayerStats(_ context.Context, communityID, playerID string) (map[string]models.PlayerStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := map[string]models.PlayerStats{}
	for gameType, stats := range s.stats[communityID][playerID] {
		out[gameType] = stats
	}
	return out, nil
}

func (s *MemoryStore) NextSequences(_ context.Context, communityID, gameTypeName string) (*models.Sequences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.counters[communityID] == nil {
		s.counters[communityID] = map[string]int{}
	}
	s.counters[communityID][overallKey]++
	s.counters[communityID][gameTypeName]++

	return &models.Sequences{
		Current: s.counters[communityID][gameTypeName],
		Total:   s.counters[communityID][overallKey],
	}, nil
}

func (s *MemoryStore) SaveMatchRecord(_ context.Context, record models.MatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[record.ID] = record.Copy()
	return nil
}

func (s *MemoryStore) SavePlayerStats(_ context.Context, communityID string, updates []PlayerStatsUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stats[communityID] == nil {
		s.stats[communityID] = map[string]map[string]models.PlayerStats{}
	}
	if s.names[communityID] == nil {
		s.names[communityID] = map[string]string{}
	}
	for _, update := range updates {
		if s.stats[communityID][update.PlayerID] == nil {
			s.stats[communityID][update.PlayerID] = map[string]models.PlayerStats{}
		}
		s.stats[communityID][update.PlayerID][update.GameTypeName] = update.Stats
		s.names[communityID][update.PlayerID] = update.PlayerName
	}
	return nil
}

func (s *MemoryStore) SetMatchWinner(_ context.Context, communityID, matchID string, winner int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[matchID]
	if !ok || record.CommunityID != communityID {
		return ErrMatchNotFound
	}

	record.Winner = &winner
	s.records[matchID] = record

	for _, player := range record.Players {
		if player.Team == nil {
			continue
		}
		stats := s.stats[communityID][player.ID][record.GameTypeName]
		if *player.Team == winner {
			stats.Won++
		} else {
			stats.Lost++
		}
		if s.stats[communityID] == nil {
			s.stats[communityID] = map[string]map[string]models.PlayerStats{}
		}
		if s.stats[communityID][player.ID] == nil {
			s.stats[communityID][player.ID] = map[string]models.PlayerStats{}
		}
		s.stats[communityID][player.ID][record.GameTypeName] = stats
	}
	return nil
}

func (s *MemoryStore) ActiveBlocks(_ context.Context, communityID string) ([]models.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	active := make([]models.Block, 0)
	for culpritID, block := range s.blocks[communityID] {
		if !block.Active(now) {
			delete(s.blocks[communityID], culpritID)
			continue
		}
		active = append(active, block)
	}
	return active, nil
}

func (s *MemoryStore) AddBlock(_ context.Context, communityID string, block models.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.blocks[communityID] == nil {
		s.blocks[communityID] = map[string]models.Block{}
	}
	s.blocks[communityID][block.CulpritID] = block
	return nil
}

func (s *MemoryStore) RemoveBlock(_ context.Context, communityID, culpritID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.blocks[communityID], culpritID)
	return nil
}

// MatchRecords returns every archived record, primarily for tests.
func (s *MemoryStore) MatchRecords() []models.MatchRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.MatchRecord, 0, len(s.records))
	for _, record := range s.records {
		out = append(out, record)
	}
	return out
}

// MatchRecord returns an archived record by ID, primarily for tests.
func (s *MemoryStore) MatchRecord(matchID string) (models.MatchRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[matchID]
	return record, ok
}
