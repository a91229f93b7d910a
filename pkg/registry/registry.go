// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package registry tracks every community's active pug sessions and drives
// their lifecycle: joins, captain selection, draft picks and the two-phase
// resolution that persists the match before the session disappears.
package registry

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pickupgames/pug-coordinator/pkg/config"
	"github.com/pickupgames/pug-coordinator/pkg/constants"
	"github.com/pickupgames/pug-coordinator/pkg/envelope"
	"github.com/pickupgames/pug-coordinator/pkg/metrics"
	"github.com/pickupgames/pug-coordinator/pkg/models"
	"github.com/pickupgames/pug-coordinator/pkg/pubsub"
	"github.com/pickupgames/pug-coordinator/pkg/pug"
	"github.com/pickupgames/pug-coordinator/pkg/scheduler"
	"github.com/pickupgames/pug-coordinator/pkg/storage"
	"github.com/pickupgames/pug-coordinator/pkg/utils"
)

var (
	ErrGameTypeNotFound = errors.New("game type is not registered in this community")
	ErrGameTypeExists   = errors.New("game type is already registered in this community")
	ErrGameTypeInUse    = errors.New("game type has an active pug")
	ErrSessionNotFound  = errors.New("no active pug for this game type")
)

// Registry owns the active sessions of every community. All mutation of one
// community's sessions is serialized under that community's lock, including
// the timer-driven captain selection; different communities never contend.
type Registry struct {
	cfg     *config.Config
	store   storage.Store
	sched   scheduler.Scheduler
	events  *pubsub.PubSub
	metrics metrics.PugMetrics

	mu          sync.Mutex
	communities map[string]*community
}

type community struct {
	mu        sync.Mutex
	id        string
	gameTypes map[string]models.GameType
	sessions  map[string]*pug.Pug
}

func New(cfg *config.Config, store storage.Store, sched scheduler.Scheduler, events *pubsub.PubSub, pugMetrics metrics.PugMetrics) *Registry {
	return &Registry{
		cfg:         cfg,
		store:       store,
		sched:       sched,
		events:      events,
		metrics:     pugMetrics,
		communities: map[string]*community{},
	}
}

func (r *Registry) community(communityID string) *community {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.communities[communityID]
	if !ok {
		c = &community{
			id:        communityID,
			gameTypes: map[string]models.GameType{},
			sessions:  map[string]*pug.Pug{},
		}
		r.communities[communityID] = c
	}
	return c
}

// AddGameType registers a queueable mode. Names are case-insensitive.
func (r *Registry) AddGameType(scope *envelope.Scope, communityID string, gameType models.GameType) (models.GameType, error) {
	subScope := scope.NewChildScope("registry.AddGameType")
	defer subScope.Finish()

	gameType.Name = strings.ToLower(gameType.Name)
	order, err := pug.ComputePickingOrder(gameType.PlayerCount, gameType.TeamCount, gameType.IsMix)
	if err != nil {
		return models.GameType{}, err
	}
	gameType.PickingOrder = order

	c := r.community(communityID)
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.gameTypes[gameType.Name]; exists {
		return models.GameType{}, ErrGameTypeExists
	}
	c.gameTypes[gameType.Name] = gameType

	subScope.Log.
		WithField("community", communityID).
		WithField("gameType", gameType.Name).
		Info("registered game type")
	return gameType, nil
}

// RemoveGameType unregisters a mode. Refused while a session is queueing or
// drafting; the host drains or resets it first.
func (r *Registry) RemoveGameType(scope *envelope.Scope, communityID, gameTypeName string) error {
	subScope := scope.NewChildScope("registry.RemoveGameType")
	defer subScope.Finish()

	gameTypeName = strings.ToLower(gameTypeName)
	c := r.community(communityID)
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.gameTypes[gameTypeName]; !exists {
		return ErrGameTypeNotFound
	}
	if _, active := c.sessions[gameTypeName]; active {
		return ErrGameTypeInUse
	}
	delete(c.gameTypes, gameTypeName)
	return nil
}

// SetCoinFlip toggles the cosmetic coin flip of a mode.
func (r *Registry) SetCoinFlip(scope *envelope.Scope, communityID, gameTypeName string, enabled bool) error {
	subScope := scope.NewChildScope("registry.SetCoinFlip")
	defer subScope.Finish()

	gameTypeName = strings.ToLower(gameTypeName)
	c := r.community(communityID)
	c.mu.Lock()
	defer c.mu.Unlock()

	gameType, exists := c.gameTypes[gameTypeName]
	if !exists {
		return ErrGameTypeNotFound
	}
	gameType.IsCoinFlipEnabled = enabled
	c.gameTypes[gameTypeName] = gameType
	if session, ok := c.sessions[gameTypeName]; ok {
		session.GameType.IsCoinFlipEnabled = enabled
	}
	return nil
}

// GameTypes lists the community's registered modes.
func (r *Registry) GameTypes(communityID string) []models.GameType {
	c := r.community(communityID)
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.GameType, 0, len(c.gameTypes))
	for _, gameType := range c.gameTypes {
		out = append(out, gameType)
	}
	return out
}

// Session returns the active session for a mode, nil when none exists. The
// returned session must only be read; mutation goes through registry calls.
func (r *Registry) Session(communityID, gameTypeName string) *pug.Pug {
	c := r.community(communityID)
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessions[strings.ToLower(gameTypeName)]
}

// SweepRemoval reports one player forced out of another queue because their
// pug filled; the host announces these alongside the join outcome.
type SweepRemoval struct {
	PlayerID     string `json:"player_id"`
	GameTypeName string `json:"game_type_name"`
}

// Join queues a player for a mode, creating the session on first join. When
// the join fills the session, every member is swept out of the community's
// other queues, then duel and mix modes resolve on the spot and draft modes
// arm the automatic captain selection timer.
func (r *Registry) Join(scope *envelope.Scope, communityID, gameTypeName, playerID, playerName string) (models.JoinResult, []SweepRemoval, error) {
	subScope := scope.NewChildScope("registry.Join")
	defer subScope.Finish()
	subScope.SetAttributes(envelope.CommunityTag, communityID)
	subScope.SetAttributes(envelope.GameTypeTag, gameTypeName)

	gameTypeName = strings.ToLower(gameTypeName)
	c := r.community(communityID)
	c.mu.Lock()
	defer c.mu.Unlock()

	gameType, exists := c.gameTypes[gameTypeName]
	if !exists {
		r.metrics.AddRejectedAction(communityID, gameTypeName, constants.RejectReasonNotFound)
		return models.JoinResultNotFound, nil, nil
	}

	blocked, err := r.isBlocked(subScope, communityID, playerID)
	if err != nil {
		return "", nil, err
	}
	if blocked {
		r.metrics.AddRejectedAction(communityID, gameTypeName, constants.RejectReasonBlocked)
		return models.JoinResultBlocked, nil, nil
	}

	// A player already locked into a filled pug elsewhere cannot queue again
	// until that pug resolves or they leave it.
	for name, session := range c.sessions {
		if name == gameTypeName {
			continue
		}
		if session.IsFull() && session.Player(playerID) != nil {
			r.metrics.AddRejectedAction(communityID, gameTypeName, constants.RejectReasonInOtherFilled)
			return models.JoinResultInOtherFilled, nil, nil
		}
	}

	session, ok := c.sessions[gameTypeName]
	if !ok {
		session = pug.NewPug(communityID, gameType)
		c.sessions[gameTypeName] = session
	}

	stats, err := r.store.LoadPlayerStats(subScope.Ctx, communityID, playerID)
	if err != nil {
		return "", nil, err
	}

	result := session.Join(&models.PugPlayer{
		ID:    playerID,
		Name:  utils.SanitizeName(playerName),
		Stats: stats,
	})
	if result != models.JoinResultJoined {
		r.metrics.AddRejectedAction(communityID, gameTypeName, joinRejectReason(result))
		return result, nil, nil
	}
	r.metrics.AddJoin(communityID, gameTypeName)

	if session.IsFull() {
		removed := r.sweepOtherQueuesLocked(subScope, c, gameTypeName, session)
		if session.IsResolved() {
			// Duel and mix modes have no draft; the fill is the match.
			if err := r.resolveLocked(subScope, c, session); err != nil {
				return result, removed, err
			}
			return result, removed, nil
		}
		r.armCaptainTimer(c, session)
		return result, removed, nil
	}
	return result, nil, nil
}

// sweepOtherQueuesLocked removes every member of a freshly filled pug from
// the community's other sessions. A filled pug claims its players outright;
// spots they were holding elsewhere open up for everyone else.
func (r *Registry) sweepOtherQueuesLocked(scope *envelope.Scope, c *community, filledName string, filled *pug.Pug) []SweepRemoval {
	names := make([]string, 0, len(c.sessions))
	for name := range c.sessions {
		if name != filledName {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	removals := []SweepRemoval{}
	for _, name := range names {
		other, ok := c.sessions[name]
		if !ok {
			continue
		}
		for _, player := range filled.Players() {
			if other.Player(player.ID) == nil {
				continue
			}
			if _, err := r.leaveLocked(scope, c, name, player.ID); err != nil {
				continue
			}
			removals = append(removals, SweepRemoval{PlayerID: player.ID, GameTypeName: name})
			scope.Log.
				WithField("community", c.id).
				WithField("gameType", name).
				WithField("player", player.ID).
				Info("swept out of queue, their pug filled elsewhere")
		}
	}
	return removals
}

func joinRejectReason(result models.JoinResult) string {
	switch result {
	case models.JoinResultPresent:
		return constants.RejectReasonPresent
	case models.JoinResultFull:
		return constants.RejectReasonFull
	default:
		return string(result)
	}
}

// Leave removes a player from one session. Leaving a session that already
// entered picking mode voids the draft and returns it to queueing; a session
// left empty is destroyed.
func (r *Registry) Leave(scope *envelope.Scope, communityID, gameTypeName, playerID string) (models.LeaveResult, error) {
	subScope := scope.NewChildScope("registry.Leave")
	defer subScope.Finish()

	gameTypeName = strings.ToLower(gameTypeName)
	c := r.community(communityID)
	c.mu.Lock()
	defer c.mu.Unlock()

	return r.leaveLocked(subScope, c, gameTypeName, playerID)
}

func (r *Registry) leaveLocked(scope *envelope.Scope, c *community, gameTypeName, playerID string) (models.LeaveResult, error) {
	session, ok := c.sessions[gameTypeName]
	if !ok {
		r.metrics.AddRejectedAction(c.id, gameTypeName, constants.RejectReasonNotFound)
		return models.LeaveResultNotFound, nil
	}

	found, reset := session.Leave(playerID)
	if !found {
		r.metrics.AddRejectedAction(c.id, gameTypeName, constants.RejectReasonNotIn)
		return models.LeaveResultNotIn, nil
	}
	if reset {
		session.ClearTimer()
		scope.Log.
			WithField("community", c.id).
			WithField("gameType", gameTypeName).
			WithField("player", playerID).
			Info("draft voided by leave, pug back to queueing")
	}
	if session.IsEmpty() {
		delete(c.sessions, gameTypeName)
	}
	return models.LeaveResultLeft, nil
}

// LeaveAll removes a player from every session in the community.
func (r *Registry) LeaveAll(scope *envelope.Scope, communityID, playerID string) ([]string, error) {
	subScope := scope.NewChildScope("registry.LeaveAll")
	defer subScope.Finish()

	c := r.community(communityID)
	c.mu.Lock()
	defer c.mu.Unlock()

	left := make([]string, 0)
	for name, session := range c.sessions {
		if session.Player(playerID) == nil {
			continue
		}
		if _, err := r.leaveLocked(subScope, c, name, playerID); err != nil {
			return left, err
		}
		left = append(left, name)
	}
	return left, nil
}

// AddCaptain volunteers a session member for an open captain slot. Once every
// slot is filled the auto-selection timer is canceled and the draft starts.
func (r *Registry) AddCaptain(scope *envelope.Scope, communityID, gameTypeName, playerID string, teamSlot *int) (int, error) {
	subScope := scope.NewChildScope("registry.AddCaptain")
	defer subScope.Finish()

	gameTypeName = strings.ToLower(gameTypeName)
	c := r.community(communityID)
	c.mu.Lock()
	defer c.mu.Unlock()

	session, ok := c.sessions[gameTypeName]
	if !ok {
		return 0, ErrSessionNotFound
	}
	if session.Player(playerID) == nil {
		r.metrics.AddRejectedAction(communityID, gameTypeName, constants.RejectReasonNotIn)
		return 0, models.ValidationErrorNotInPug
	}

	slot, err := session.AddCaptain(playerID, teamSlot)
	if err != nil {
		r.metrics.AddRejectedAction(communityID, gameTypeName, validationRejectReason(err))
		return 0, err
	}

	if session.CaptainsDecided() {
		session.ClearTimer()
		r.events.Publish(pubsub.Event{
			Type:         pubsub.EventCaptainsReady,
			CommunityID:  communityID,
			GameTypeName: gameTypeName,
		})
	}
	return slot, nil
}

// PickPlayer applies one or two draft picks by the captain whose turn it is.
// The pick that completes the draft resolves the pug.
func (r *Registry) PickPlayer(scope *envelope.Scope, communityID, gameTypeName, captainID string, pickIndexes ...int) (bool, error) {
	subScope := scope.NewChildScope("registry.PickPlayer")
	defer subScope.Finish()

	gameTypeName = strings.ToLower(gameTypeName)
	c := r.community(communityID)
	c.mu.Lock()
	defer c.mu.Unlock()

	session, ok := c.sessions[gameTypeName]
	if !ok {
		return false, ErrSessionNotFound
	}

	resolved, err := session.PickPlayer(captainID, pickIndexes...)
	if err != nil {
		r.metrics.AddRejectedAction(communityID, gameTypeName, validationRejectReason(err))
		return false, err
	}
	if resolved {
		if err := r.resolveLocked(subScope, c, session); err != nil {
			return false, err
		}
	}
	return resolved, nil
}

// AddTag attaches a cosmetic label to the player in every session they are
// queued in.
func (r *Registry) AddTag(scope *envelope.Scope, communityID, playerID, tag string) error {
	subScope := scope.NewChildScope("registry.AddTag")
	defer subScope.Finish()

	c := r.community(communityID)
	c.mu.Lock()
	defer c.mu.Unlock()

	tagged := false
	for name, session := range c.sessions {
		if session.Player(playerID) == nil {
			continue
		}
		if err := session.AddTag(playerID, tag, r.cfg.TagMaxLength); err != nil {
			r.metrics.AddRejectedAction(communityID, name, validationRejectReason(err))
			return err
		}
		tagged = true
	}
	if !tagged {
		return models.ValidationErrorNotInPug
	}
	return nil
}

// RemoveTag clears the player's label in every session they are queued in.
func (r *Registry) RemoveTag(scope *envelope.Scope, communityID, playerID string) error {
	subScope := scope.NewChildScope("registry.RemoveTag")
	defer subScope.Finish()

	c := r.community(communityID)
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, session := range c.sessions {
		session.RemoveTag(playerID)
	}
	return nil
}

// ResetSession voids a stuck draft, keeps the full roster and restarts
// captain selection from scratch.
func (r *Registry) ResetSession(scope *envelope.Scope, communityID, gameTypeName string) error {
	subScope := scope.NewChildScope("registry.ResetSession")
	defer subScope.Finish()

	gameTypeName = strings.ToLower(gameTypeName)
	c := r.community(communityID)
	c.mu.Lock()
	defer c.mu.Unlock()

	session, ok := c.sessions[gameTypeName]
	if !ok {
		return ErrSessionNotFound
	}
	session.ClearTimer()
	session.ResetDraft()
	if session.IsFull() && !session.IsResolved() {
		r.armCaptainTimer(c, session)
	}

	subScope.Log.
		WithField("community", communityID).
		WithField("gameType", gameTypeName).
		Info("pug draft reset")
	return nil
}

// SetMatchWinner records the winning team of an archived pug.
func (r *Registry) SetMatchWinner(scope *envelope.Scope, communityID, matchID string, winner int) error {
	subScope := scope.NewChildScope("registry.SetMatchWinner")
	defer subScope.Finish()
	return r.store.SetMatchWinner(subScope.Ctx, communityID, matchID, winner)
}

// BlockPlayer bars a player from joining pugs until the block expires.
func (r *Registry) BlockPlayer(scope *envelope.Scope, communityID string, block models.Block) error {
	subScope := scope.NewChildScope("registry.BlockPlayer")
	defer subScope.Finish()
	return r.store.AddBlock(subScope.Ctx, communityID, block)
}

func (r *Registry) UnblockPlayer(scope *envelope.Scope, communityID, culpritID string) error {
	subScope := scope.NewChildScope("registry.UnblockPlayer")
	defer subScope.Finish()
	return r.store.RemoveBlock(subScope.Ctx, communityID, culpritID)
}

func (r *Registry) ActiveBlocks(scope *envelope.Scope, communityID string) ([]models.Block, error) {
	subScope := scope.NewChildScope("registry.ActiveBlocks")
	defer subScope.Finish()
	return r.store.ActiveBlocks(subScope.Ctx, communityID)
}

func (r *Registry) isBlocked(scope *envelope.Scope, communityID, playerID string) (bool, error) {
	blocks, err := r.store.ActiveBlocks(scope.Ctx, communityID)
	if err != nil {
		return false, err
	}
	for _, block := range blocks {
		if block.CulpritID == playerID {
			return true, nil
		}
	}
	return false, nil
}

// armCaptainTimer schedules the automatic captain selection for a freshly
// filled session. The callback re-enters through the community lock and
// re-checks the session state, so a fire racing a manual decision is a no-op.
func (r *Registry) armCaptainTimer(c *community, session *pug.Pug) {
	gameTypeName := session.GameType.Name
	task := r.sched.Schedule(r.cfg.AutoCaptainPickDelay(), func() {
		r.autoSelectCaptains(c, gameTypeName)
	})
	session.SetTimer(task)
}

func (r *Registry) autoSelectCaptains(c *community, gameTypeName string) {
	scope := envelope.NewRootScope(context.Background(), "registry.autoSelectCaptains", "")
	defer scope.Finish()

	c.mu.Lock()
	defer c.mu.Unlock()

	session, ok := c.sessions[gameTypeName]
	if !ok || session.State() != pug.StatePickingCaptains {
		return
	}

	excluded := []string{}
	blocks, err := r.store.ActiveBlocks(scope.Ctx, c.id)
	if err != nil {
		scope.Log.WithError(err).
			WithField("community", c.id).
			Warn("unable to load blocks for captain selection, proceeding without exclusions")
	} else {
		for _, block := range blocks {
			excluded = append(excluded, block.CulpritID)
		}
	}

	startTime := time.Now()
	err = pug.SelectCaptains(scope, session, excluded, pug.SelectorOptions{
		StrongPlayerRatingThreshold: r.cfg.StrongPlayerRatingThreshold,
		PoolFraction:                r.cfg.CaptainPoolFraction,
		PoolMaxSize:                 r.cfg.CaptainPoolMaxSize,
		DisableRandomness:           r.cfg.DisableCaptainPoolRandomness,
	})
	if err != nil {
		scope.Log.WithError(err).
			WithField("community", c.id).
			WithField("gameType", gameTypeName).
			Error("automatic captain selection stalled, pug awaits manual captains")
		r.metrics.AddStalledCaptainSelection(c.id, gameTypeName, constants.StallReasonEmptyPool)
		r.events.Publish(pubsub.Event{
			Type:         pubsub.EventPugStalled,
			CommunityID:  c.id,
			GameTypeName: gameTypeName,
			Reason:       constants.StallReasonEmptyPool,
		})
		return
	}
	r.metrics.AddCaptainSelectionElapsedTimeMs(c.id, gameTypeName, constants.CaptainSelectFunction, time.Since(startTime))

	session.ClearTimer()
	r.events.Publish(pubsub.Event{
		Type:         pubsub.EventCaptainsReady,
		CommunityID:  c.id,
		GameTypeName: gameTypeName,
	})
}

func validationRejectReason(err error) string {
	switch {
	case errors.Is(err, models.ValidationErrorWrongTurn):
		return constants.RejectReasonWrongTurn
	case errors.Is(err, models.ValidationErrorPickOutOfRange):
		return constants.RejectReasonInvalidPick
	case errors.Is(err, models.ValidationErrorAlreadyPicked):
		return constants.RejectReasonAlreadyPicked
	case errors.Is(err, models.ValidationErrorNotPicking):
		return constants.RejectReasonNotPicking
	case errors.Is(err, models.ValidationErrorCaptainsPending):
		return constants.RejectReasonCaptainsWait
	case errors.Is(err, models.ValidationErrorNotCaptain):
		return constants.RejectReasonNotCaptain
	case errors.Is(err, models.ValidationErrorAlreadyCaptain):
		return constants.RejectReasonAlreadyCaptain
	case errors.Is(err, models.ValidationErrorTagTooLong):
		return constants.RejectReasonTagTooLong
	case errors.Is(err, models.ValidationErrorNotInPug):
		return constants.RejectReasonNotIn
	default:
		return constants.RejectReasonInvalidPick
	}
}
