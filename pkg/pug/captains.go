// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package pug

import (
	"errors"
	"math"
	"math/rand"

	"github.com/elliotchance/pie/v2"
	"gonum.org/v1/gonum/stat/combin"
	"gopkg.in/typ.v4/slices"

	"github.com/pickupgames/pug-coordinator/pkg/envelope"
	"github.com/pickupgames/pug-coordinator/pkg/mathutil"
	"github.com/pickupgames/pug-coordinator/pkg/models"
	"github.com/pickupgames/pug-coordinator/pkg/utils"
)

// ErrEmptyCandidatePool reports that captain selection ran with nobody left to
// choose from. The session stays in captain selection awaiting manual action.
var ErrEmptyCandidatePool = errors.New("no candidates available for captain selection")

// SelectorOptions tune the candidate pool and the balancing heuristics.
type SelectorOptions struct {
	// StrongPlayerRatingThreshold marks players at or below it as strong;
	// ratings derive from draft position, so lower means stronger.
	StrongPlayerRatingThreshold float64
	// PoolFraction is the share of the shuffled non-captain players kept as
	// candidates.
	PoolFraction float64
	// PoolMaxSize bounds the combination search; the search is exponential in
	// pool size, so the pool is truncated to this many candidates first.
	PoolMaxSize int
	// DisableRandomness skips shuffling and random slot assignment so tests
	// get deterministic outcomes.
	DisableRandomness bool
}

// SelectCaptains fills every open captain slot of a full session, choosing
// candidates whose ratings keep the teams as even as possible. Candidates come
// from a random subset of the non-captain players; excluded ids are avoided
// but drawn back in when nobody else remains.
func SelectCaptains(scope *envelope.Scope, p *Pug, excludedIDs []string, opts SelectorOptions) error {
	subScope := scope.NewChildScope("pug.SelectCaptains")
	defer subScope.Finish()

	needed := p.CaptainsNeeded()
	if needed == 0 {
		return nil
	}

	pool := p.buildCandidatePool(excludedIDs, needed, opts)
	if len(pool) < needed {
		return ErrEmptyCandidatePool
	}

	subScope.Log.
		WithField("community", p.CommunityID).
		WithField("gameType", p.GameType.Name).
		WithField("poolSize", len(pool)).
		WithField("captainsNeeded", needed).
		Debug("selecting captains")

	if p.GameType.TeamCount == 2 {
		if needed == 2 {
			p.selectCaptainPair(pool, opts)
		} else {
			p.completeCaptainPair(pool)
		}
		return nil
	}

	return p.selectCaptainCombination(pool, needed, opts)
}

// buildCandidatePool shuffles the non-captain players, keeps the configured
// fraction, sorts by rating and applies the exclusion list with random
// backfill. Excluded players are a last resort, never silently dropped when no
// alternative exists.
func (p *Pug) buildCandidatePool(excludedIDs []string, needed int, opts SelectorOptions) []*models.PugPlayer {
	candidates := pie.Filter(p.players, func(player *models.PugPlayer) bool {
		return player.Team == nil
	})
	if len(candidates) == 0 {
		return nil
	}

	shuffled := make([]*models.PugPlayer, len(candidates))
	copy(shuffled, candidates)
	if !opts.DisableRandomness {
		rand.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
	}

	keep := int(math.Ceil(opts.PoolFraction * float64(len(shuffled))))
	keep = mathutil.Max(keep, needed)
	keep = mathutil.Min(keep, len(shuffled))
	pool := shuffled[:keep]

	allowed := slices.Filter(pool, func(player *models.PugPlayer) bool {
		return !utils.Contains(excludedIDs, player.ID)
	})
	excluded := slices.Filter(pool, func(player *models.PugPlayer) bool {
		return utils.Contains(excludedIDs, player.ID)
	})
	for len(allowed) < needed && len(excluded) > 0 {
		index := 0
		if !opts.DisableRandomness {
			index = utils.RandomInt(0, len(excluded)-1)
		}
		allowed = append(allowed, excluded[index])
		excluded = append(excluded[:index], excluded[index+1:]...)
	}

	gameType := p.GameType.Name
	return pie.SortUsing(allowed, func(a, b *models.PugPlayer) bool {
		return a.RatingFor(gameType) < b.RatingFor(gameType)
	})
}

// selectCaptainPair walks the rating-sorted pool comparing every interior
// candidate to both neighbors and pairs the first candidate with the smallest
// neighbor gap, preferring the right neighbor on ties. Which of the two leads
// team 0 depends on how many strong players are queued, spreading strength
// across both teams.
func (p *Pug) selectCaptainPair(pool []*models.PugPlayer, opts SelectorOptions) {
	gameType := p.GameType.Name

	lower, higher := pool[0], pool[1]
	bestDiff := math.Inf(1)
	for i := 1; i+1 < len(pool); i++ {
		left := pool[i].RatingFor(gameType) - pool[i-1].RatingFor(gameType)
		right := pool[i+1].RatingFor(gameType) - pool[i].RatingFor(gameType)
		diff := math.Min(left, right)
		if diff >= bestDiff {
			continue
		}
		bestDiff = diff
		if right <= left {
			lower, higher = pool[i], pool[i+1]
		} else {
			lower, higher = pool[i-1], pool[i]
		}
	}

	strongCount := len(pie.Filter(p.players, func(player *models.PugPlayer) bool {
		stats := player.Stats[gameType]
		return !stats.IsUnrated() && stats.Rating <= opts.StrongPlayerRatingThreshold
	}))

	if strongCount >= 4 && strongCount <= 5 {
		p.assignCaptain(higher, 0)
		p.assignCaptain(lower, 1)
	} else {
		p.assignCaptain(lower, 0)
		p.assignCaptain(higher, 1)
	}
}

// completeCaptainPair fills the one remaining slot of a two-team draft with
// the candidate rated closest to the existing captain.
func (p *Pug) completeCaptainPair(pool []*models.PugPlayer) {
	gameType := p.GameType.Name

	var existing *models.PugPlayer
	openSlot := 0
	for team, captain := range p.captains {
		if captain != nil {
			existing = captain
		} else {
			openSlot = team
		}
	}
	if existing == nil {
		return
	}

	target := existing.RatingFor(gameType)
	best := pool[0]
	bestDiff := math.Abs(best.RatingFor(gameType) - target)
	for _, candidate := range pool[1:] {
		diff := math.Abs(candidate.RatingFor(gameType) - target)
		if diff < bestDiff {
			bestDiff = diff
			best = candidate
		}
	}
	p.assignCaptain(best, openSlot)
}

// selectCaptainCombination searches every subset of the pool with the needed
// size and keeps the one whose combined rating spread, existing captains
// included, is smallest. The pool is truncated first so the exponential
// enumeration stays bounded.
func (p *Pug) selectCaptainCombination(pool []*models.PugPlayer, needed int, opts SelectorOptions) error {
	if opts.PoolMaxSize > 0 && len(pool) > opts.PoolMaxSize {
		pool = pool[:opts.PoolMaxSize]
	}
	if len(pool) < needed {
		return ErrEmptyCandidatePool
	}

	gameType := p.GameType.Name
	existingRatings := make([]float64, 0, len(p.captains))
	for _, captain := range p.captains {
		if captain != nil {
			existingRatings = append(existingRatings, captain.RatingFor(gameType))
		}
	}

	var best []int
	bestSpread := math.Inf(1)
	for _, subset := range combin.Combinations(len(pool), needed) {
		low, high := math.Inf(1), math.Inf(-1)
		for _, index := range subset {
			rating := pool[index].RatingFor(gameType)
			low = mathutil.Min(low, rating)
			high = mathutil.Max(high, rating)
		}
		for _, rating := range existingRatings {
			low = mathutil.Min(low, rating)
			high = mathutil.Max(high, rating)
		}
		if spread := high - low; spread < bestSpread {
			bestSpread = spread
			best = subset
		}
	}

	open := p.openTeamSlots()
	for _, index := range best {
		slotIndex := 0
		if !opts.DisableRandomness {
			slotIndex = utils.RandomInt(0, len(open)-1)
		}
		p.assignCaptain(pool[index], open[slotIndex])
		open = append(open[:slotIndex], open[slotIndex+1:]...)
	}
	return nil
}
