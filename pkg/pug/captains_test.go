// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package pug

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pickupgames/pug-coordinator/pkg/models"
	"github.com/pickupgames/pug-coordinator/pkg/testsetup"
)

func deterministicOptions() SelectorOptions {
	return SelectorOptions{
		StrongPlayerRatingThreshold: 3.75,
		PoolFraction:                1.0,
		PoolMaxSize:                 20,
		DisableRandomness:           true,
	}
}

func pugWithRatings(t *testing.T, teamCount int, ratings ...float64) *Pug {
	t.Helper()
	p := NewPug("community1", testGameType(t, len(ratings), teamCount))
	for i, rating := range ratings {
		player := testPlayer(playerID(i), rating)
		require.Equal(t, models.JoinResultJoined, p.Join(player))
	}
	return p
}

func playerID(index int) string {
	return string(rune('a' + index))
}

func captainRatings(p *Pug) []float64 {
	ratings := make([]float64, 0, len(p.CaptainIDs()))
	for _, id := range p.CaptainIDs() {
		ratings = append(ratings, p.Player(id).RatingFor("testmode"))
	}
	return ratings
}

func TestSelectCaptains_TwoTeamPair(t *testing.T) {
	scope := testsetup.NewTestScope()
	defer scope.Finish()

	p := pugWithRatings(t, 2, 1, 2, 3, 8)

	require.NoError(t, SelectCaptains(scope, p, nil, deterministicOptions()))

	// The candidate with the tightest neighbor gap anchors the pair: {2,3},
	// never {1,2} or {3,8}.
	assert.ElementsMatch(t, []float64{2, 3}, captainRatings(p))
	// Three strong players queued, so the lower-rated of the pair leads team 0.
	assert.Equal(t, 2.0, p.CaptainForTeam(0).RatingFor("testmode"))
	assert.Equal(t, 3.0, p.CaptainForTeam(1).RatingFor("testmode"))
}

func TestSelectCaptains_StrongCommunityFlipsLead(t *testing.T) {
	scope := testsetup.NewTestScope()
	defer scope.Finish()

	// All four players are at or under the strong threshold.
	p := pugWithRatings(t, 2, 1, 2, 3, 3.5)

	require.NoError(t, SelectCaptains(scope, p, nil, deterministicOptions()))

	assert.ElementsMatch(t, []float64{3, 3.5}, captainRatings(p))
	assert.Equal(t, 3.5, p.CaptainForTeam(0).RatingFor("testmode"), "with 4-5 strong players the higher-rated captain leads team 0")
	assert.Equal(t, 3.0, p.CaptainForTeam(1).RatingFor("testmode"))
}

func TestSelectCaptains_CompletesExistingPair(t *testing.T) {
	scope := testsetup.NewTestScope()
	defer scope.Finish()

	p := pugWithRatings(t, 2, 2, 1, 3.1, 8)
	_, err := p.AddCaptain("a", slot(0)) // rating 2
	require.NoError(t, err)

	require.NoError(t, SelectCaptains(scope, p, nil, deterministicOptions()))

	require.NotNil(t, p.CaptainForTeam(1))
	assert.Equal(t, 1.0, p.CaptainForTeam(1).RatingFor("testmode"), "closest rating to the existing captain wins the open slot")
}

func TestSelectCaptains_HonorsExclusions(t *testing.T) {
	scope := testsetup.NewTestScope()
	defer scope.Finish()

	p := pugWithRatings(t, 2, 1, 2, 3, 8)

	require.NoError(t, SelectCaptains(scope, p, []string{"d"}, deterministicOptions()))

	for _, id := range p.CaptainIDs() {
		assert.NotEqual(t, "d", id)
	}
}

func TestSelectCaptains_BackfillsFromExcluded(t *testing.T) {
	scope := testsetup.NewTestScope()
	defer scope.Finish()

	p := pugWithRatings(t, 2, 1, 2, 3, 8)

	// Everyone is excluded; blocked players are a last resort, not a dead end.
	err := SelectCaptains(scope, p, []string{"a", "b", "c", "d"}, deterministicOptions())
	require.NoError(t, err)
	assert.Len(t, p.CaptainIDs(), 2)
}

func TestSelectCaptains_CombinationSearch(t *testing.T) {
	scope := testsetup.NewTestScope()
	defer scope.Finish()

	p := pugWithRatings(t, 3, 1, 2, 2.5, 3, 5, 6, 8, 9, 10)

	require.NoError(t, SelectCaptains(scope, p, nil, deterministicOptions()))

	require.Len(t, p.CaptainIDs(), 3)
	assert.ElementsMatch(t, []float64{2, 2.5, 3}, captainRatings(p), "the subset with the smallest rating spread wins")
}

func TestSelectCaptains_EmptyPoolStalls(t *testing.T) {
	scope := testsetup.NewTestScope()
	defer scope.Finish()

	p := NewPug("community1", testGameType(t, 4, 2))

	err := SelectCaptains(scope, p, nil, deterministicOptions())
	assert.ErrorIs(t, err, ErrEmptyCandidatePool)
}

func TestSelectCaptains_NoopWhenDecided(t *testing.T) {
	scope := testsetup.NewTestScope()
	defer scope.Finish()

	p := pugWithRatings(t, 2, 1, 2, 3, 8)
	_, err := p.AddCaptain("a", slot(0))
	require.NoError(t, err)
	_, err = p.AddCaptain("b", slot(1))
	require.NoError(t, err)

	require.NoError(t, SelectCaptains(scope, p, nil, deterministicOptions()))
	assert.ElementsMatch(t, []string{"a", "b"}, p.CaptainIDs())
}
