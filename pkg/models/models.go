// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package models

import (
	"time"

	"github.com/mitchellh/copystructure"
)

// GameType is the configuration of a queueable mode. Immutable once
// registered except through explicit admin setters on the registry.
type GameType struct {
	Name              string `json:"name"`
	PlayerCount       int    `json:"player_count"`
	TeamCount         int    `json:"team_count"`
	PickingOrder      []int  `json:"picking_order"`
	IsCoinFlipEnabled bool   `json:"is_coin_flip_enabled"`
	IsMix             bool   `json:"is_mix"`
	TeamEmojis        string `json:"team_emojis"`
}

// PlayerStats is one player's record for one game type. The authoritative
// copy lives in storage; sessions hold a copy taken at join time and write it
// back on resolve.
type PlayerStats struct {
	Rating       float64 `json:"rating"`
	TotalPugs    int     `json:"total_pugs"`
	TotalCaptain int     `json:"total_captain"`
	Won          int     `json:"won"`
	Lost         int     `json:"lost"`
}

// IsUnrated reports whether the player has no rating yet for this game type.
func (ps PlayerStats) IsUnrated() bool {
	return ps.TotalPugs == 0
}

// PugPlayer is a player inside one session. Team and PickOrder stay nil until
// the player is drafted.
type PugPlayer struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Tag       string                 `json:"tag"`
	Team      *int                   `json:"team"`
	PickOrder *int                   `json:"pick_order"`
	Stats     map[string]PlayerStats `json:"stats"`
}

// RatingFor returns the player's rating for the given game type, 0 if unrated.
func (p *PugPlayer) RatingFor(gameType string) float64 {
	return p.Stats[gameType].Rating
}

// Block bars a player from joining pugs until it expires. The core only reads
// blocks; issuing and lifting them is the host's job.
type Block struct {
	CulpritID   string    `json:"culprit_id"`
	CulpritName string    `json:"culprit_name"`
	IssuedByID  string    `json:"issued_by_id"`
	IssuedBy    string    `json:"issued_by"`
	IssuedAt    time.Time `json:"issued_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	Reason      string    `json:"reason"`
}

// Active reports whether the block still applies at the given instant.
func (b Block) Active(now time.Time) bool {
	return now.Before(b.ExpiresAt)
}

// MatchRecord is the archived form of a resolved pug.
type MatchRecord struct {
	ID              string      `json:"id"`
	CommunityID     string      `json:"community_id"`
	GameTypeName    string      `json:"game_type_name"`
	Timestamp       time.Time   `json:"timestamp"`
	GameSequence    int         `json:"game_sequence"`
	OverallSequence int         `json:"overall_sequence"`
	Players         []PugPlayer `json:"players"`
	Captains        []string    `json:"captains"`
	CoinFlipWinner  *int        `json:"coin_flip_winner,omitempty"`
	Winner          *int        `json:"winner,omitempty"`
}

// Sequences carries the per-game-type and overall pug numbering handed out at
// resolve time.
type Sequences struct {
	Current int
	Total   int
}

// Copy returns a deep copy of the record so later session mutation cannot
// leak into an already-persisted archive.
func (r MatchRecord) Copy() MatchRecord {
	copied, err := copystructure.Copy(r)
	if err != nil {
		return r
	}
	record, ok := copied.(MatchRecord)
	if !ok {
		return r
	}
	return record
}

// JoinResult is the typed outcome of one join attempt, formatted into
// user-facing text by the host.
type JoinResult string

const (
	JoinResultJoined        JoinResult = "joined"
	JoinResultPresent       JoinResult = "present"
	JoinResultFull          JoinResult = "full"
	JoinResultNotFound      JoinResult = "not-found"
	JoinResultBlocked       JoinResult = "blocked"
	JoinResultInOtherFilled JoinResult = "in-other-filled"
)

// LeaveResult is the typed outcome of one leave attempt.
type LeaveResult string

const (
	LeaveResultLeft     LeaveResult = "left"
	LeaveResultNotIn    LeaveResult = "not-in"
	LeaveResultNotFound LeaveResult = "not-found"
)
