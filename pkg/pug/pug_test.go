// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package pug

import (
	"fmt"
	"sort"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pickupgames/pug-coordinator/pkg/models"
)

func testGameType(t *testing.T, playerCount, teamCount int) models.GameType {
	t.Helper()
	order, err := ComputePickingOrder(playerCount, teamCount, false)
	require.NoError(t, err)
	return models.GameType{
		Name:         "testmode",
		PlayerCount:  playerCount,
		TeamCount:    teamCount,
		PickingOrder: order,
	}
}

func testPlayer(id string, rating float64) *models.PugPlayer {
	return &models.PugPlayer{
		ID:   id,
		Name: id,
		Stats: map[string]models.PlayerStats{
			"testmode": {Rating: rating, TotalPugs: 10},
		},
	}
}

func fillPug(t *testing.T, p *Pug, count int) {
	t.Helper()
	for i := 0; i < count; i++ {
		result := p.Join(testPlayer(fmt.Sprintf("p%d", i+1), float64(i+1)))
		require.Equal(t, models.JoinResultJoined, result)
	}
}

func slot(team int) *int { return &team }

func TestPug_FillsOnLastJoin(t *testing.T) {
	p := NewPug("community1", testGameType(t, 4, 2))

	fillPug(t, p, 3)
	assert.Equal(t, StateQueueing, p.State())
	assert.False(t, p.IsFull())

	require.Equal(t, models.JoinResultJoined, p.Join(testPlayer("p4", 4)))
	assert.Equal(t, StatePickingCaptains, p.State())
	assert.True(t, p.IsFull())

	assert.Equal(t, models.JoinResultFull, p.Join(testPlayer("p5", 5)))
	assert.Equal(t, models.JoinResultPresent, p.Join(testPlayer("p2", 2)))
}

func TestPug_AddCaptain(t *testing.T) {
	p := NewPug("community1", testGameType(t, 4, 2))

	_, err := p.AddCaptain("p1", slot(0))
	assert.ErrorIs(t, err, models.ValidationErrorNotPicking, "captains only exist once the pug fills")

	fillPug(t, p, 4)

	team, err := p.AddCaptain("p1", slot(0))
	require.NoError(t, err)
	assert.Equal(t, 0, team)

	_, err = p.AddCaptain("p1", slot(1))
	assert.ErrorIs(t, err, models.ValidationErrorAlreadyCaptain)

	_, err = p.AddCaptain("p2", slot(0))
	assert.ErrorIs(t, err, models.ValidationErrorNoOpenTeamSlot)

	team, err = p.AddCaptain("p2", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, team, "the only open slot remains")
	assert.True(t, p.CaptainsDecided())
	assert.Equal(t, StateDrafting, p.State())
}

func TestPug_DraftCompletion(t *testing.T) {
	p := NewPug("community1", testGameType(t, 8, 2))
	fillPug(t, p, 8)
	// picking order for 8/2 is 0 1 1 0 0 1

	_, err := p.PickPlayer("p1", 2)
	assert.ErrorIs(t, err, models.ValidationErrorCaptainsPending)

	_, err = p.AddCaptain("p1", slot(0))
	require.NoError(t, err)
	_, err = p.AddCaptain("p2", slot(1))
	require.NoError(t, err)

	_, err = p.PickPlayer("p3", 3)
	assert.ErrorIs(t, err, models.ValidationErrorNotCaptain)
	_, err = p.PickPlayer("p2", 3)
	assert.ErrorIs(t, err, models.ValidationErrorWrongTurn)
	_, err = p.PickPlayer("p1", 42)
	assert.ErrorIs(t, err, models.ValidationErrorPickOutOfRange)
	_, err = p.PickPlayer("p1", 0)
	assert.ErrorIs(t, err, models.ValidationErrorAlreadyPicked, "captains are already on a team")

	resolved, err := p.PickPlayer("p1", 2)
	require.NoError(t, err)
	assert.False(t, resolved)

	// Back-to-back turns for team 1 allow a double pick.
	resolved, err = p.PickPlayer("p2", 3, 4)
	require.NoError(t, err)
	assert.False(t, resolved)

	resolved, err = p.PickPlayer("p1", 5)
	require.NoError(t, err)
	assert.False(t, resolved)

	// Second-to-last turn: the one player left after this pick is assigned
	// automatically and the draft is over.
	resolved, err = p.PickPlayer("p1", 6)
	require.NoError(t, err)
	assert.True(t, resolved)
	assert.Equal(t, StateResolved, p.State())

	pickOrders := make([]int, 0, 8)
	for _, player := range p.Players() {
		require.NotNil(t, player.Team, "player %s has no team", player.ID)
		require.NotNil(t, player.PickOrder, "player %s has no pick order", player.ID)
		pickOrders = append(pickOrders, *player.PickOrder)
	}
	sort.Ints(pickOrders)
	if !assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, pickOrders, "pick orders must be a permutation of 1..playerCount") {
		spew.Dump(p.Players())
	}
}

func TestPug_DoublePickRequiresBackToBackTurns(t *testing.T) {
	p := NewPug("community1", testGameType(t, 8, 2))
	fillPug(t, p, 8)
	_, err := p.AddCaptain("p1", slot(0))
	require.NoError(t, err)
	_, err = p.AddCaptain("p2", slot(1))
	require.NoError(t, err)

	// First turn belongs to team 0 alone.
	_, err = p.PickPlayer("p1", 2, 3)
	assert.ErrorIs(t, err, models.ValidationErrorWrongTurn)

	_, err = p.PickPlayer("p1", 2, 2)
	assert.ErrorIs(t, err, models.ValidationErrorWrongTurn)
}

func TestPug_LeaveDuringDraftResetsEverything(t *testing.T) {
	p := NewPug("community1", testGameType(t, 8, 2))
	fillPug(t, p, 8)
	_, err := p.AddCaptain("p1", slot(0))
	require.NoError(t, err)
	_, err = p.AddCaptain("p2", slot(1))
	require.NoError(t, err)
	_, err = p.PickPlayer("p1", 2)
	require.NoError(t, err)

	found, reset := p.Leave("p3")
	assert.True(t, found)
	assert.True(t, reset)

	assert.Equal(t, StateQueueing, p.State())
	assert.Len(t, p.Players(), 7)
	assert.Empty(t, p.CaptainIDs())
	for _, player := range p.Players() {
		assert.Nil(t, player.Team)
		assert.Nil(t, player.PickOrder)
	}

	found, _ = p.Leave("p3")
	assert.False(t, found, "leaving twice finds nothing")
}

func TestPug_ResetDraftKeepsRoster(t *testing.T) {
	p := NewPug("community1", testGameType(t, 4, 2))
	fillPug(t, p, 4)
	_, err := p.AddCaptain("p1", slot(0))
	require.NoError(t, err)
	_, err = p.AddCaptain("p2", slot(1))
	require.NoError(t, err)

	p.ResetDraft()

	assert.Len(t, p.Players(), 4)
	assert.Equal(t, StatePickingCaptains, p.State(), "a full pug restarts at captain selection")
	assert.Empty(t, p.CaptainIDs())
}

func TestPug_Tags(t *testing.T) {
	p := NewPug("community1", testGameType(t, 4, 2))
	fillPug(t, p, 2)

	require.NoError(t, p.AddTag("p1", "smoke main", 50))
	assert.Equal(t, "smoke main", p.Player("p1").Tag)

	err := p.AddTag("p2", string(make([]byte, 51)), 50)
	assert.ErrorIs(t, err, models.ValidationErrorTagTooLong)

	p.RemoveTag("p1")
	assert.Empty(t, p.Player("p1").Tag)
}

func TestPug_DuelResolvesOnFill(t *testing.T) {
	order, err := ComputePickingOrder(2, 2, false)
	require.NoError(t, err)
	p := NewPug("community1", models.GameType{
		Name: "duel", PlayerCount: 2, TeamCount: 2, PickingOrder: order,
	})

	require.Equal(t, models.JoinResultJoined, p.Join(testPlayer("p1", 1)))
	assert.False(t, p.IsResolved())
	require.Equal(t, models.JoinResultJoined, p.Join(testPlayer("p2", 2)))
	assert.True(t, p.IsResolved())
}

func TestPug_MixResolvesOnFill(t *testing.T) {
	order, err := ComputePickingOrder(4, 2, true)
	require.NoError(t, err)
	p := NewPug("community1", models.GameType{
		Name: "mix", PlayerCount: 4, TeamCount: 2, PickingOrder: order, IsMix: true,
	})

	fillPug(t, p, 3)
	assert.False(t, p.IsResolved())
	require.Equal(t, models.JoinResultJoined, p.Join(testPlayer("p4", 4)))
	assert.True(t, p.IsResolved())
}
