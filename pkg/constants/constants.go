// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package constants

import "time"

const (
	// DefaultAutoCaptainPickDelay is the time a filled pug waits for volunteer
	// captains before the selector assigns them automatically.
	DefaultAutoCaptainPickDelay = 30 * time.Second

	// DefaultStrongPlayerRatingThreshold marks a player as "strong".
	// Ratings derive from draft position (1 = first pick), so lower is stronger.
	DefaultStrongPlayerRatingThreshold = 3.75

	// DefaultCaptainPoolFraction is the share of non-captain players kept as
	// captain candidates after shuffling.
	DefaultCaptainPoolFraction = 0.6

	// DefaultCaptainPoolMaxSize caps the candidate pool fed into the
	// combination search for N-team captain selection.
	DefaultCaptainPoolMaxSize = 20

	DefaultTagMaxLength = 50

	MaxTeamCount = 4
)

// DuelSentinel is the single picking-order entry of a playerCount == teamCount
// game type: both players are final opponents, no draft happens.
const DuelSentinel = -1

// TeamNames are display names indexed by team slot.
var TeamNames = []string{"Red Team", "Blue Team", "Green Team", "Gold Team"}

const (
	CaptainSelectFunction = "selectCaptains"
	ResolveFunction       = "resolvePug"

	// Rejected action reason constants.
	RejectReasonNotFound       = "reject_game_type_not_found"
	RejectReasonFull           = "reject_pug_full"
	RejectReasonPresent        = "reject_already_joined"
	RejectReasonBlocked        = "reject_player_blocked"
	RejectReasonNotIn          = "reject_not_in_pug"
	RejectReasonNotCaptain     = "reject_not_captain"
	RejectReasonWrongTurn      = "reject_wrong_turn"
	RejectReasonInvalidPick    = "reject_invalid_pick"
	RejectReasonAlreadyPicked  = "reject_already_picked"
	RejectReasonNotPicking     = "reject_not_in_picking_mode"
	RejectReasonTagTooLong     = "reject_tag_too_long"
	RejectReasonInOtherFilled  = "reject_in_other_filled_pug"
	RejectReasonCaptainsWait   = "reject_captains_not_decided"
	RejectReasonAlreadyCaptain = "reject_already_captain"

	// Captain selection stall reasons.
	StallReasonEmptyPool = "stall_empty_candidate_pool"
)
