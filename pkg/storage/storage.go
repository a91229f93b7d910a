// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package storage owns the authoritative copies of player stats, match
// records and blocks. Sessions never touch it mid-draft; the registry
// reconciles at join and resolve time only.
package storage

import (
	"context"
	"errors"

	"github.com/pickupgames/pug-coordinator/pkg/models"
)

var (
	ErrMatchNotFound     = errors.New("match record not found")
	ErrSequencesNotFound = errors.New("no sequence counters returned for community")
)

// PlayerStatsUpdate is one player's post-pug stats write-back.
type PlayerStatsUpdate struct {
	PlayerID     string
	PlayerName   string
	GameTypeName string
	Stats        models.PlayerStats
	LastMatchID  string
}

// Store is the persistence boundary of the coordinator.
type Store interface {
	// LoadPlayerStats returns a player's per-game-type stats, an empty map
	// when the player is unknown.
	LoadPlayerStats(ctx context.Context, communityID, playerID string) (map[string]models.PlayerStats, error)

	// NextSequences atomically increments and returns the community's overall
	// pug counter and the per-game-type counter.
	NextSequences(ctx context.Context, communityID, gameTypeName string) (*models.Sequences, error)

	// SaveMatchRecord archives a resolved pug.
	SaveMatchRecord(ctx context.Context, record models.MatchRecord) error

	// SavePlayerStats writes back the post-pug stats for all participants.
	SavePlayerStats(ctx context.Context, communityID string, updates []PlayerStatsUpdate) error

	// SetMatchWinner records the winning team of an archived pug and bumps
	// the participants' won/lost counters.
	SetMatchWinner(ctx context.Context, communityID, matchID string, winner int) error

	// ActiveBlocks returns the community's unexpired blocks.
	ActiveBlocks(ctx context.Context, communityID string) ([]models.Block, error)

	AddBlock(ctx context.Context, communityID string, block models.Block) error
	RemoveBlock(ctx context.Context, communityID, culpritID string) error
}
