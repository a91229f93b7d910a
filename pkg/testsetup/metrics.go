// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package testsetup

import (
	"time"

	"github.com/pickupgames/pug-coordinator/pkg/metrics"
)

type stubMetricsCollection struct{}

func (s stubMetricsCollection) AddJoin(community string, gameType string) {}

func (s stubMetricsCollection) AddResolvedPug(community string, gameType string) {}

func (s stubMetricsCollection) AddRejectedAction(community string, gameType string, reason string) {}

func (s stubMetricsCollection) AddCaptainSelectionElapsedTimeMs(community, gameType, function string, elapsedTime time.Duration) {
}

func (s stubMetricsCollection) AddStalledCaptainSelection(community string, gameType string, reason string) {
}

func NewMetrics() metrics.PugMetrics {
	return stubMetricsCollection{}
}
