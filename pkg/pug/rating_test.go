// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package pug

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pickupgames/pug-coordinator/pkg/models"
)

func TestComputeNewRating(t *testing.T) {
	tests := []struct {
		name           string
		existingRating float64
		totalPugs      int
		totalCaptain   int
		pickOrder      int
		want           float64
	}{
		{
			name:           "first_pug_bootstraps_from_pick",
			existingRating: 7.5,
			totalPugs:      0,
			totalCaptain:   0,
			pickOrder:      4,
			want:           4,
		},
		{
			name:           "captain_turns_excluded_from_average",
			existingRating: 2.0,
			totalPugs:      3,
			totalCaptain:   1,
			pickOrder:      5,
			want:           3.0,
		},
		{
			name:           "plain_running_average",
			existingRating: 2.0,
			totalPugs:      2,
			totalCaptain:   0,
			pickOrder:      5,
			want:           3.0,
		},
		{
			name:           "all_prior_pugs_as_captain",
			existingRating: 1.0,
			totalPugs:      2,
			totalCaptain:   2,
			pickOrder:      6,
			want:           6.0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeNewRating(tt.existingRating, tt.totalPugs, tt.totalCaptain, tt.pickOrder)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestUpdateStatsAfterPug(t *testing.T) {
	const gameType = "testmode"

	pick2, pick3 := 2, 3
	captain := &models.PugPlayer{
		ID:    "cap",
		Stats: map[string]models.PlayerStats{gameType: {Rating: 2.5, TotalPugs: 4, TotalCaptain: 1}},
	}
	veteran := &models.PugPlayer{
		ID:        "vet",
		PickOrder: &pick2,
		Stats:     map[string]models.PlayerStats{gameType: {Rating: 2.0, TotalPugs: 3, TotalCaptain: 1}},
	}
	rookie := &models.PugPlayer{
		ID:        "new",
		PickOrder: &pick3,
		Stats:     map[string]models.PlayerStats{},
	}

	UpdateStatsAfterPug([]*models.PugPlayer{captain, veteran, rookie}, []string{"cap"}, gameType)

	capStats := captain.Stats[gameType]
	assert.Equal(t, 2.5, capStats.Rating, "captain rating must not change")
	assert.Equal(t, 5, capStats.TotalPugs)
	assert.Equal(t, 2, capStats.TotalCaptain)

	vetStats := veteran.Stats[gameType]
	assert.InDelta(t, (2.0*2+2)/3, vetStats.Rating, 1e-9)
	assert.Equal(t, 4, vetStats.TotalPugs)
	assert.Equal(t, 1, vetStats.TotalCaptain)

	newStats := rookie.Stats[gameType]
	assert.Equal(t, 3.0, newStats.Rating, "first pug bootstraps rating from pick")
	assert.Equal(t, 1, newStats.TotalPugs)
}
