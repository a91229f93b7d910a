// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package pug

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pickupgames/pug-coordinator/pkg/models"
)

func TestComputePickingOrder(t *testing.T) {
	tests := []struct {
		name        string
		playerCount int
		teamCount   int
		isMix       bool
		want        []int
		wantErr     error
	}{
		{
			name:        "mix_has_no_draft",
			playerCount: 10,
			teamCount:   2,
			isMix:       true,
			want:        []int{},
		},
		{
			name:        "duel_sentinel",
			playerCount: 2,
			teamCount:   2,
			want:        []int{-1},
		},
		{
			name:        "uneven_teams_rejected",
			playerCount: 5,
			teamCount:   2,
			wantErr:     models.ValidationErrorPickingOrder,
		},
		{
			name:        "fewer_players_than_teams_rejected",
			playerCount: 3,
			teamCount:   4,
			wantErr:     models.ValidationErrorPickingOrder,
		},
		{
			name:        "team_count_out_of_range",
			playerCount: 10,
			teamCount:   5,
			wantErr:     models.ValidationErrorTeamCount,
		},
		{
			name:        "8_players_2_teams_snake",
			playerCount: 8,
			teamCount:   2,
			want:        []int{0, 1, 1, 0, 0, 1},
		},
		{
			name:        "6_players_2_teams_snake",
			playerCount: 6,
			teamCount:   2,
			want:        []int{0, 1, 1, 0},
		},
		{
			name:        "9_players_3_teams_snake",
			playerCount: 9,
			teamCount:   3,
			want:        []int{0, 1, 2, 2, 1, 0},
		},
		{
			name:        "4_players_4_teams_is_a_duel",
			playerCount: 4,
			teamCount:   4,
			want:        []int{-1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputePickingOrder(tt.playerCount, tt.teamCount, tt.isMix)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputePickingOrder_SnakeProperties(t *testing.T) {
	for _, counts := range []struct{ players, teams int }{
		{8, 2}, {12, 2}, {9, 3}, {12, 3}, {12, 4}, {16, 4},
	} {
		order, err := ComputePickingOrder(counts.players, counts.teams, false)
		require.NoError(t, err)
		require.Len(t, order, counts.players-counts.teams)

		// Every team drafts the same number of players.
		perTeam := map[int]int{}
		for _, team := range order {
			perTeam[team]++
		}
		for team := 0; team < counts.teams; team++ {
			assert.Equal(t, (counts.players-counts.teams)/counts.teams, perTeam[team],
				"players=%d teams=%d team=%d", counts.players, counts.teams, team)
		}

		// Full rounds alternate ascending and descending.
		for i := 0; i+counts.teams <= len(order); i += counts.teams {
			round := order[i : i+counts.teams]
			ascending := i/counts.teams%2 == 0
			for j := 1; j < len(round); j++ {
				if ascending {
					assert.Equal(t, round[j-1]+1, round[j])
				} else {
					assert.Equal(t, round[j-1]-1, round[j])
				}
			}
		}
	}
}
