// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package registry

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/copystructure"

	"github.com/pickupgames/pug-coordinator/pkg/constants"
	"github.com/pickupgames/pug-coordinator/pkg/envelope"
	"github.com/pickupgames/pug-coordinator/pkg/models"
	"github.com/pickupgames/pug-coordinator/pkg/pubsub"
	"github.com/pickupgames/pug-coordinator/pkg/pug"
	"github.com/pickupgames/pug-coordinator/pkg/storage"
	"github.com/pickupgames/pug-coordinator/pkg/utils"
)

// ResolvePending retries the resolution of a session whose draft is complete
// but whose persistence failed earlier. Safe to call repeatedly; stat updates
// are computed from the untouched session state each attempt.
func (r *Registry) ResolvePending(scope *envelope.Scope, communityID, gameTypeName string) error {
	subScope := scope.NewChildScope("registry.ResolvePending")
	defer subScope.Finish()

	c := r.community(communityID)
	c.mu.Lock()
	defer c.mu.Unlock()

	session, ok := c.sessions[strings.ToLower(gameTypeName)]
	if !ok {
		return ErrSessionNotFound
	}
	if !session.IsResolved() {
		return models.ValidationErrorNotPicking
	}
	return r.resolveLocked(subScope, c, session)
}

// resolveLocked persists a completed pug and only then removes it from the
// registry. Stats are applied to a deep copy of the roster, so a persistence
// failure leaves the session untouched and resolvable again.
func (r *Registry) resolveLocked(scope *envelope.Scope, c *community, session *pug.Pug) error {
	startTime := time.Now()
	gameType := session.GameType

	if gameType.IsCoinFlipEnabled && session.CoinFlipWinner() == nil {
		session.SetCoinFlipWinner(utils.RandomInt(0, gameType.TeamCount-1))
	}
	if session.IsDuel() {
		assignDuelTeams(session)
	}

	snapshot, err := snapshotPlayers(session.Players())
	if err != nil {
		return err
	}
	captainIDs := session.CaptainIDs()
	pug.UpdateStatsAfterPug(snapshot, captainIDs, gameType.Name)

	sequences, err := r.store.NextSequences(scope.Ctx, c.id, gameType.Name)
	if err != nil {
		scope.Log.WithError(err).
			WithField("community", c.id).
			WithField("gameType", gameType.Name).
			Error("sequence counters unavailable, pug resolution postponed")
		return fmt.Errorf("unable to number resolved pug: %w", err)
	}
	if sequences == nil {
		return storage.ErrSequencesNotFound
	}

	record := models.MatchRecord{
		ID:              utils.GenerateMatchID(),
		CommunityID:     c.id,
		GameTypeName:    gameType.Name,
		Timestamp:       time.Now(),
		GameSequence:    sequences.Current,
		OverallSequence: sequences.Total,
		Players:         dereferencePlayers(snapshot),
		Captains:        captainIDs,
		CoinFlipWinner:  session.CoinFlipWinner(),
	}
	if err := r.store.SaveMatchRecord(scope.Ctx, record); err != nil {
		scope.Log.WithError(err).
			WithField("community", c.id).
			WithField("gameType", gameType.Name).
			Error("match record write failed, pug resolution postponed")
		return fmt.Errorf("unable to archive resolved pug: %w", err)
	}

	updates := make([]storage.PlayerStatsUpdate, 0, len(snapshot))
	for _, player := range snapshot {
		updates = append(updates, storage.PlayerStatsUpdate{
			PlayerID:     player.ID,
			PlayerName:   player.Name,
			GameTypeName: gameType.Name,
			Stats:        player.Stats[gameType.Name],
			LastMatchID:  record.ID,
		})
	}
	if err := r.store.SavePlayerStats(scope.Ctx, c.id, updates); err != nil {
		scope.Log.WithError(err).
			WithField("community", c.id).
			WithField("gameType", gameType.Name).
			Error("player stats write failed, pug resolution postponed")
		return fmt.Errorf("unable to save player stats: %w", err)
	}

	session.ClearTimer()
	delete(c.sessions, gameType.Name)

	r.metrics.AddResolvedPug(c.id, gameType.Name)
	r.metrics.AddCaptainSelectionElapsedTimeMs(c.id, gameType.Name, constants.ResolveFunction, time.Since(startTime))
	r.events.Publish(pubsub.Event{
		Type:         pubsub.EventPugResolved,
		CommunityID:  c.id,
		GameTypeName: gameType.Name,
	})

	scope.Log.
		WithField("community", c.id).
		WithField("gameType", gameType.Name).
		WithField("matchID", record.ID).
		WithField("gameSequence", sequences.Current).
		WithField("overallSequence", sequences.Total).
		Info("pug resolved")
	return nil
}

// assignDuelTeams puts each player of a no-draft mode on their own team in
// join order. Idempotent so a retried resolution does not reshuffle.
func assignDuelTeams(session *pug.Pug) {
	for i, player := range session.Players() {
		if player.Team == nil {
			team := i
			player.Team = &team
		}
	}
}

func snapshotPlayers(players []*models.PugPlayer) ([]*models.PugPlayer, error) {
	snapshot := make([]*models.PugPlayer, 0, len(players))
	for _, player := range players {
		copied, err := copystructure.Copy(*player)
		if err != nil {
			return nil, fmt.Errorf("unable to snapshot player %s: %w", player.ID, err)
		}
		playerCopy, ok := copied.(models.PugPlayer)
		if !ok {
			return nil, fmt.Errorf("unable to snapshot player %s", player.ID)
		}
		snapshot = append(snapshot, &playerCopy)
	}
	return snapshot, nil
}

func dereferencePlayers(players []*models.PugPlayer) []models.PugPlayer {
	out := make([]models.PugPlayer, 0, len(players))
	for _, player := range players {
		out = append(out, *player)
	}
	return out
}
