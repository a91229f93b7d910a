// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type PugMetrics interface {
	AddJoin(community string, gameType string)
	AddResolvedPug(community string, gameType string)
	AddRejectedAction(community string, gameType string, reason string)
	AddCaptainSelectionElapsedTimeMs(community, gameType, function string, elapsedTime time.Duration)
	AddStalledCaptainSelection(community string, gameType string, reason string)
}

func NewMetrics(registry *prometheus.Registry) PugMetrics {
	return setupPrometheusMetrics(registry)
}
