// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package pug implements the pick-up-game session core: the lifecycle state
// machine, the snake-draft turn order, balanced captain selection and the
// post-match rating update.
package pug

import (
	"github.com/pickupgames/pug-coordinator/pkg/constants"
	"github.com/pickupgames/pug-coordinator/pkg/models"
)

// ComputePickingOrder derives the fixed sequence of team indices captains
// follow while drafting.
//
// Mix modes have no draft at all and get an empty sequence. A mode where every
// player captains their own team (playerCount == teamCount) gets the single
// duel sentinel entry. Everything else is a snake draft: one ascending pass
// over the teams, then the same pass reversed, repeating until every
// non-captain slot has a turn.
func ComputePickingOrder(playerCount, teamCount int, isMix bool) ([]int, error) {
	if isMix {
		return []int{}, nil
	}
	if teamCount < 1 || teamCount > constants.MaxTeamCount {
		return nil, models.ValidationErrorTeamCount
	}
	if playerCount < teamCount || playerCount%teamCount != 0 {
		return nil, models.ValidationErrorPickingOrder
	}
	if playerCount == teamCount {
		return []int{constants.DuelSentinel}, nil
	}

	remaining := playerCount - teamCount
	order := make([]int, 0, remaining)
	descending := false
	for len(order) < remaining {
		if descending {
			for team := teamCount - 1; team >= 0 && len(order) < remaining; team-- {
				order = append(order, team)
			}
		} else {
			for team := 0; team < teamCount && len(order) < remaining; team++ {
				order = append(order, team)
			}
		}
		descending = !descending
	}
	return order, nil
}
