// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package pug

import (
	"github.com/pickupgames/pug-coordinator/pkg/models"
)

// ComputeNewRating folds a draft position into a player's running rating.
//
// The first observed pug bootstraps the rating straight from the draft
// position. After that the rating is a running average of draft positions,
// weighted only by the pugs the player was drafted in: turns spent as captain
// are self-selected and carry no draft signal, so they are excluded from the
// denominator.
func ComputeNewRating(existingRating float64, totalPugs, totalCaptain, pickOrder int) float64 {
	if totalPugs == 0 {
		return float64(pickOrder)
	}
	drafted := float64(totalPugs - totalCaptain)
	return (existingRating*drafted + float64(pickOrder)) / (drafted + 1)
}

// UpdateStatsAfterPug applies the post-match stat changes to every player's
// in-session copy. Captains keep their rating untouched and gain a captaincy
// credit; everyone gains a pug played.
func UpdateStatsAfterPug(players []*models.PugPlayer, captainIDs []string, gameTypeName string) {
	captains := map[string]bool{}
	for _, id := range captainIDs {
		captains[id] = true
	}

	for _, player := range players {
		stats := player.Stats[gameTypeName]
		if captains[player.ID] {
			stats.TotalCaptain++
		} else if player.PickOrder != nil {
			stats.Rating = ComputeNewRating(stats.Rating, stats.TotalPugs, stats.TotalCaptain, *player.PickOrder)
		}
		stats.TotalPugs++
		if player.Stats == nil {
			player.Stats = map[string]models.PlayerStats{}
		}
		player.Stats[gameTypeName] = stats
	}
}
