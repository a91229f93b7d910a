// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package models

import (
	"errors"
)

var (
	ValidationErrorPickingOrder    = errors.New("picking order cannot be computed from these player/team counts")
	ValidationErrorTeamCount       = errors.New("team count must be between 1 and 4")
	ValidationErrorTagTooLong      = errors.New("tag exceeds the maximum allowed length")
	ValidationErrorPickOutOfRange  = errors.New("pick index is out of range")
	ValidationErrorAlreadyPicked   = errors.New("player is already picked")
	ValidationErrorWrongTurn       = errors.New("it is not this captain's turn")
	ValidationErrorNotPicking      = errors.New("pug is not in picking mode")
	ValidationErrorNotCaptain      = errors.New("player is not a captain in this pug")
	ValidationErrorCaptainsPending = errors.New("captains have not been decided yet")
	ValidationErrorAlreadyCaptain  = errors.New("player is already a captain")
	ValidationErrorNoOpenTeamSlot  = errors.New("no open captain slot for the requested team")
	ValidationErrorNotInPug        = errors.New("player is not in this pug")
)

var validationErrorCodeMap = map[error]int{
	ValidationErrorPickingOrder:    620101,
	ValidationErrorTeamCount:       620102,
	ValidationErrorTagTooLong:      620103,
	ValidationErrorPickOutOfRange:  620104,
	ValidationErrorAlreadyPicked:   620105,
	ValidationErrorWrongTurn:       620106,
	ValidationErrorNotPicking:      620107,
	ValidationErrorNotCaptain:      620108,
	ValidationErrorCaptainsPending: 620109,
	ValidationErrorAlreadyCaptain:  620110,
	ValidationErrorNoOpenTeamSlot:  620111,
	ValidationErrorNotInPug:        620112,
}

// ValidationErrorCode returns a code for the error.
// It returns 20002 if the error is not registered in the map.
func ValidationErrorCode(err error) int {
	code, ok := validationErrorCodeMap[err]
	if !ok {
		return 20002
	}
	return code
}
