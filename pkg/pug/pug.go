// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package pug

import (
	"time"

	"github.com/elliotchance/pie/v2"

	"github.com/pickupgames/pug-coordinator/pkg/constants"
	"github.com/pickupgames/pug-coordinator/pkg/models"
	"github.com/pickupgames/pug-coordinator/pkg/scheduler"
	"github.com/pickupgames/pug-coordinator/pkg/utils"
)

// State is the lifecycle phase of a session.
type State string

const (
	StateQueueing        State = "queueing"
	StatePickingCaptains State = "picking_captains"
	StateDrafting        State = "drafting"
	StateResolved        State = "resolved"
)

// Pug is one queue-to-match session for a single game type within a single
// community. It is not safe for concurrent use; the registry serializes all
// access per community.
type Pug struct {
	CommunityID string
	GameType    models.GameType
	CreatedAt   time.Time

	players     []*models.PugPlayer
	captains    []*models.PugPlayer // indexed by team slot, nil until assigned
	turnCursor  int
	pickingMode bool
	nextPick    int
	timer       scheduler.Task

	coinFlipWinner *int
}

func NewPug(communityID string, gameType models.GameType) *Pug {
	return &Pug{
		CommunityID: communityID,
		GameType:    gameType,
		CreatedAt:   time.Now(),
		players:     make([]*models.PugPlayer, 0, gameType.PlayerCount),
		captains:    make([]*models.PugPlayer, gameType.TeamCount),
		nextPick:    1,
	}
}

// State derives the lifecycle phase from the session's internals.
func (p *Pug) State() State {
	switch {
	case !p.pickingMode:
		return StateQueueing
	case p.IsResolved():
		return StateResolved
	case p.CaptainsNeeded() > 0:
		return StatePickingCaptains
	default:
		return StateDrafting
	}
}

func (p *Pug) Players() []*models.PugPlayer {
	return p.players
}

// Player returns the session member with the given id, nil if absent.
func (p *Pug) Player(id string) *models.PugPlayer {
	for _, player := range p.players {
		if player.ID == id {
			return player
		}
	}
	return nil
}

func (p *Pug) IsFull() bool {
	return len(p.players) == p.GameType.PlayerCount
}

func (p *Pug) IsEmpty() bool {
	return len(p.players) == 0
}

// IsDuel reports whether the mode has no draft because every player captains
// their own team.
func (p *Pug) IsDuel() bool {
	return len(p.GameType.PickingOrder) == 1 && p.GameType.PickingOrder[0] == constants.DuelSentinel
}

// Join appends a player to the queue. Filling the last slot flips the session
// into picking mode; the caller decides what happens next (timer, immediate
// resolution for duel/mix modes).
func (p *Pug) Join(player *models.PugPlayer) models.JoinResult {
	if p.Player(player.ID) != nil {
		return models.JoinResultPresent
	}
	if p.pickingMode || p.IsFull() {
		return models.JoinResultFull
	}

	p.players = append(p.players, player)
	if p.IsFull() {
		p.pickingMode = true
	}
	return models.JoinResultJoined
}

// Leave removes a player. Leaving a session that has entered picking mode
// invalidates the whole draft: all picks and captains are cleared and the
// session drops back to queueing. The second return reports that reset.
// The first player queued into a mix pug anchors it; their leave empties the
// whole roster so the session gets destroyed.
func (p *Pug) Leave(playerID string) (found bool, reset bool) {
	if p.Player(playerID) == nil {
		return false, false
	}

	if p.pickingMode {
		p.clearDraft()
		p.pickingMode = false
		reset = true
	}

	if p.GameType.IsMix && p.players[0].ID == playerID {
		p.players = p.players[:0]
		return true, reset
	}

	p.players = pie.FilterNot(p.players, func(player *models.PugPlayer) bool {
		return player.ID == playerID
	})
	return true, reset
}

// CaptainsNeeded reports how many team slots still lack a captain.
func (p *Pug) CaptainsNeeded() int {
	needed := 0
	for _, captain := range p.captains {
		if captain == nil {
			needed++
		}
	}
	return needed
}

func (p *Pug) CaptainsDecided() bool {
	return p.pickingMode && p.CaptainsNeeded() == 0
}

// CaptainIDs returns the assigned captain ids in team order, skipping open
// slots.
func (p *Pug) CaptainIDs() []string {
	ids := make([]string, 0, len(p.captains))
	for _, captain := range p.captains {
		if captain != nil {
			ids = append(ids, captain.ID)
		}
	}
	return ids
}

// CaptainForTeam returns the captain of the given team slot, nil when open.
func (p *Pug) CaptainForTeam(team int) *models.PugPlayer {
	if team < 0 || team >= len(p.captains) {
		return nil
	}
	return p.captains[team]
}

// TeamOfCaptain returns the team slot captained by the player.
func (p *Pug) TeamOfCaptain(playerID string) (int, bool) {
	for team, captain := range p.captains {
		if captain != nil && captain.ID == playerID {
			return team, true
		}
	}
	return 0, false
}

// AddCaptain assigns a session member to a captain slot. A nil teamSlot means
// any open slot, chosen at random. Captains receive their pick number at
// assignment so the final pick numbering covers every player.
func (p *Pug) AddCaptain(playerID string, teamSlot *int) (int, error) {
	if !p.pickingMode {
		return 0, models.ValidationErrorNotPicking
	}
	player := p.Player(playerID)
	if player == nil {
		return 0, models.ValidationErrorNotInPug
	}
	if _, already := p.TeamOfCaptain(playerID); already {
		return 0, models.ValidationErrorAlreadyCaptain
	}

	open := p.openTeamSlots()
	if len(open) == 0 {
		return 0, models.ValidationErrorNoOpenTeamSlot
	}

	var slot int
	if teamSlot != nil {
		if !utils.Contains(open, *teamSlot) {
			return 0, models.ValidationErrorNoOpenTeamSlot
		}
		slot = *teamSlot
	} else {
		slot = open[utils.RandomInt(0, len(open)-1)]
	}

	p.assignCaptain(player, slot)
	return slot, nil
}

func (p *Pug) openTeamSlots() []int {
	open := make([]int, 0, len(p.captains))
	for team, captain := range p.captains {
		if captain == nil {
			open = append(open, team)
		}
	}
	return open
}

func (p *Pug) assignCaptain(player *models.PugPlayer, team int) {
	slot := team
	pick := p.nextPick
	p.nextPick++
	player.Team = &slot
	player.PickOrder = &pick
	p.captains[team] = player
}

// PickPlayer assigns one or two queued players to the calling captain's team.
// A second index is accepted only when the captain's next two scheduled turns
// are both theirs (back-to-back snake entries). When only one unpicked player
// remains at the final scheduled turn, that player is assigned automatically
// and the session resolves.
func (p *Pug) PickPlayer(captainID string, pickIndexes ...int) (bool, error) {
	if !p.pickingMode {
		return false, models.ValidationErrorNotPicking
	}
	if p.CaptainsNeeded() > 0 {
		return false, models.ValidationErrorCaptainsPending
	}
	team, isCaptain := p.TeamOfCaptain(captainID)
	if !isCaptain {
		return false, models.ValidationErrorNotCaptain
	}

	order := p.GameType.PickingOrder
	if p.turnCursor >= len(order) {
		return false, models.ValidationErrorNotPicking
	}
	if order[p.turnCursor] != team {
		return false, models.ValidationErrorWrongTurn
	}
	if len(pickIndexes) == 0 || len(pickIndexes) > 2 {
		return false, models.ValidationErrorPickOutOfRange
	}
	if len(pickIndexes) == 2 && !p.canPickTwice(team) {
		return false, models.ValidationErrorWrongTurn
	}

	// Validate every index before mutating anything.
	targets := make([]*models.PugPlayer, 0, len(pickIndexes))
	for _, index := range pickIndexes {
		if index < 0 || index >= len(p.players) {
			return false, models.ValidationErrorPickOutOfRange
		}
		target := p.players[index]
		if target.Team != nil {
			return false, models.ValidationErrorAlreadyPicked
		}
		targets = append(targets, target)
	}
	if len(targets) == 2 && targets[0] == targets[1] {
		return false, models.ValidationErrorAlreadyPicked
	}

	for _, target := range targets {
		p.assignPick(target, order[p.turnCursor])
		p.turnCursor++
	}
	p.autoAssignLastPick()

	return p.IsResolved(), nil
}

func (p *Pug) canPickTwice(team int) bool {
	order := p.GameType.PickingOrder
	return p.turnCursor+1 < len(order) && order[p.turnCursor+1] == team
}

func (p *Pug) assignPick(player *models.PugPlayer, team int) {
	slot := team
	pick := p.nextPick
	p.nextPick++
	player.Team = &slot
	player.PickOrder = &pick
}

// autoAssignLastPick hands the single remaining unpicked player to the team
// owed the final turn. The last pick is never a real decision, so no captain
// action is required for it.
func (p *Pug) autoAssignLastPick() {
	order := p.GameType.PickingOrder
	if p.turnCursor != len(order)-1 {
		return
	}
	unpicked := p.unpickedPlayers()
	if len(unpicked) != 1 {
		return
	}
	p.assignPick(unpicked[0], order[p.turnCursor])
	p.turnCursor++
}

func (p *Pug) unpickedPlayers() []*models.PugPlayer {
	return pie.Filter(p.players, func(player *models.PugPlayer) bool {
		return player.Team == nil
	})
}

// IsResolved reports whether nothing is left to draft. Duel and mix modes
// resolve the moment they fill; everything else resolves once every scheduled
// turn has been consumed.
func (p *Pug) IsResolved() bool {
	if !p.pickingMode {
		return false
	}
	if p.IsDuel() || len(p.GameType.PickingOrder) == 0 {
		return true
	}
	return p.turnCursor >= len(p.GameType.PickingOrder)
}

// ResetDraft clears all picks and captains but keeps the full roster, so a
// stuck draft restarts from captain selection.
func (p *Pug) ResetDraft() {
	p.clearDraft()
}

func (p *Pug) clearDraft() {
	for _, player := range p.players {
		player.Team = nil
		player.PickOrder = nil
	}
	p.captains = make([]*models.PugPlayer, p.GameType.TeamCount)
	p.turnCursor = 0
	p.nextPick = 1
	p.coinFlipWinner = nil
}

// AddTag attaches a cosmetic label to a session member.
func (p *Pug) AddTag(playerID, tag string, maxLength int) error {
	player := p.Player(playerID)
	if player == nil {
		return models.ValidationErrorNotInPug
	}
	if len(tag) > maxLength {
		return models.ValidationErrorTagTooLong
	}
	player.Tag = tag
	return nil
}

func (p *Pug) RemoveTag(playerID string) {
	if player := p.Player(playerID); player != nil {
		player.Tag = ""
	}
}

// SetTimer stores the pending auto-captain-selection handle, stopping any
// previous one.
func (p *Pug) SetTimer(task scheduler.Task) {
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = task
}

// ClearTimer stops and drops the pending timer, a no-op when none is set.
func (p *Pug) ClearTimer() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

func (p *Pug) SetCoinFlipWinner(team int) {
	winner := team
	p.coinFlipWinner = &winner
}

func (p *Pug) CoinFlipWinner() *int {
	return p.coinFlipWinner
}
