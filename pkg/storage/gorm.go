// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pickupgames/pug-coordinator/pkg/models"
)

// GormStore is a Store backed by PostgreSQL through gorm. Match record
// payloads are archived as JSON; stats, counters and blocks are relational so
// they can be incremented and pruned in place.
type GormStore struct {
	db *gorm.DB
}

type playerStatsRow struct {
	CommunityID  string  `gorm:"primaryKey;size:64"`
	PlayerID     string  `gorm:"primaryKey;size:64"`
	GameTypeName string  `gorm:"primaryKey;size:64"`
	PlayerName   string  `gorm:"size:128"`
	Rating       float64 `gorm:""`
	TotalPugs    int     `gorm:""`
	TotalCaptain int     `gorm:""`
	Won          int     `gorm:""`
	Lost         int     `gorm:""`
	LastMatchID  string  `gorm:"size:64"`
}

func (playerStatsRow) TableName() string { return "player_stats" }

type sequenceRow struct {
	CommunityID  string `gorm:"primaryKey;size:64"`
	GameTypeName string `gorm:"primaryKey;size:64"`
	Count        int    `gorm:""`
}

func (sequenceRow) TableName() string { return "pug_sequences" }

type matchRecordRow struct {
	ID              string `gorm:"primaryKey;size:64"`
	CommunityID     string `gorm:"index;size:64"`
	GameTypeName    string `gorm:"size:64"`
	GameSequence    int
	OverallSequence int
	Timestamp       time.Time
	Winner          *int
	Payload         datatypes.JSON
}

func (matchRecordRow) TableName() string { return "match_records" }

type blockRow struct {
	CommunityID string `gorm:"primaryKey;size:64"`
	CulpritID   string `gorm:"primaryKey;size:64"`
	CulpritName string `gorm:"size:128"`
	IssuedByID  string `gorm:"size:64"`
	IssuedBy    string `gorm:"size:128"`
	IssuedAt    time.Time
	ExpiresAt   time.Time `gorm:"index"`
	Reason      string    `gorm:"size:512"`
}

func (blockRow) TableName() string { return "player_blocks" }

// NewGormStore connects to PostgreSQL and migrates the coordinator tables.
func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("unable to connect to postgres: %w", err)
	}
	if err := db.AutoMigrate(&playerStatsRow{}, &sequenceRow{}, &matchRecordRow{}, &blockRow{}); err != nil {
		return nil, fmt.Errorf("unable to migrate coordinator tables: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) LoadPlayerStats(ctx context.Context, communityID, playerID string) (map[string]models.PlayerStats, error) {
	var rows []playerStatsRow
	err := s.db.WithContext(ctx).
		Where("community_id = ? AND player_id = ?", communityID, playerID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]models.PlayerStats, len(rows))
	for _, row := range rows {
		out[row.GameTypeName] = models.PlayerStats{
			Rating:       row.Rating,
			TotalPugs:    row.TotalPugs,
			TotalCaptain: row.TotalCaptain,
			Won:          row.Won,
			Lost:         row.Lost,
		}
	}
	return out, nil
}

func (s *GormStore) NextSequences(ctx context.Context, communityID, gameTypeName string) (*models.Sequences, error) {
	var sequences models.Sequences

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range []string{overallKey, gameTypeName} {
			row := sequenceRow{CommunityID: communityID, GameTypeName: name}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "community_id"}, {Name: "game_type_name"}},
				DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("pug_sequences.count + 1")}),
			}).Create(&sequenceRow{CommunityID: communityID, GameTypeName: name, Count: 1}).Error
			if err != nil {
				return err
			}

			err = tx.Where("community_id = ? AND game_type_name = ?", communityID, name).
				Take(&row).Error
			if err != nil {
				return err
			}

			if name == overallKey {
				sequences.Total = row.Count
			} else {
				sequences.Current = row.Count
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sequences, nil
}

func (s *GormStore) SaveMatchRecord(ctx context.Context, record models.MatchRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("unable to marshal match record %s: %w", record.ID, err)
	}

	row := matchRecordRow{
		ID:              record.ID,
		CommunityID:     record.CommunityID,
		GameTypeName:    record.GameTypeName,
		GameSequence:    record.GameSequence,
		OverallSequence: record.OverallSequence,
		Timestamp:       record.Timestamp,
		Winner:          record.Winner,
		Payload:         payload,
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

func (s *GormStore) SavePlayerStats(ctx context.Context, communityID string, updates []PlayerStatsUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	rows := make([]playerStatsRow, 0, len(updates))
	for _, update := range updates {
		rows = append(rows, playerStatsRow{
			CommunityID:  communityID,
			PlayerID:     update.PlayerID,
			GameTypeName: update.GameTypeName,
			PlayerName:   update.PlayerName,
			Rating:       update.Stats.Rating,
			TotalPugs:    update.Stats.TotalPugs,
			TotalCaptain: update.Stats.TotalCaptain,
			Won:          update.Stats.Won,
			Lost:         update.Stats.Lost,
			LastMatchID:  update.LastMatchID,
		})
	}

	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "community_id"}, {Name: "player_id"}, {Name: "game_type_name"}},
		UpdateAll: true,
	}).Create(&rows).Error
}

func (s *GormStore) SetMatchWinner(ctx context.Context, communityID, matchID string, winner int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row matchRecordRow
		err := tx.Where("id = ? AND community_id = ?", matchID, communityID).Take(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMatchNotFound
		}
		if err != nil {
			return err
		}

		var record models.MatchRecord
		if err := json.Unmarshal(row.Payload, &record); err != nil {
			return fmt.Errorf("unable to unmarshal match record %s: %w", matchID, err)
		}
		record.Winner = &winner

		payload, err := json.Marshal(record)
		if err != nil {
			return err
		}
		err = tx.Model(&matchRecordRow{}).
			Where("id = ?", matchID).
			Updates(map[string]interface{}{"winner": winner, "payload": datatypes.JSON(payload)}).Error
		if err != nil {
			return err
		}

		for _, player := range record.Players {
			if player.Team == nil {
				continue
			}
			column := "lost"
			if *player.Team == winner {
				column = "won"
			}
			err = tx.Model(&playerStatsRow{}).
				Where("community_id = ? AND player_id = ? AND game_type_name = ?", communityID, player.ID, record.GameTypeName).
				Update(column, gorm.Expr(column+" + 1")).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *GormStore) ActiveBlocks(ctx context.Context, communityID string) ([]models.Block, error) {
	now := time.Now()

	// Expired blocks are pruned opportunistically on read.
	err := s.db.WithContext(ctx).
		Where("community_id = ? AND expires_at <= ?", communityID, now).
		Delete(&blockRow{}).Error
	if err != nil {
		return nil, err
	}

	var rows []blockRow
	err = s.db.WithContext(ctx).
		Where("community_id = ? AND expires_at > ?", communityID, now).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	blocks := make([]models.Block, 0, len(rows))
	for _, row := range rows {
		blocks = append(blocks, models.Block{
			CulpritID:   row.CulpritID,
			CulpritName: row.CulpritName,
			IssuedByID:  row.IssuedByID,
			IssuedBy:    row.IssuedBy,
			IssuedAt:    row.IssuedAt,
			ExpiresAt:   row.ExpiresAt,
			Reason:      row.Reason,
		})
	}
	return blocks, nil
}

func (s *GormStore) AddBlock(ctx context.Context, communityID string, block models.Block) error {
	row := blockRow{
		CommunityID: communityID,
		CulpritID:   block.CulpritID,
		CulpritName: block.CulpritName,
		IssuedByID:  block.IssuedByID,
		IssuedBy:    block.IssuedBy,
		IssuedAt:    block.IssuedAt,
		ExpiresAt:   block.ExpiresAt,
		Reason:      block.Reason,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "community_id"}, {Name: "culprit_id"}},
		UpdateAll: true,
	}).Create(&row).Error
}

func (s *GormStore) RemoveBlock(ctx context.Context, communityID, culpritID string) error {
	return s.db.WithContext(ctx).
		Where("community_id = ? AND culprit_id = ?", communityID, culpritID).
		Delete(&blockRow{}).Error
}
