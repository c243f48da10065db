// Package analysis derives model outputs (reproduction numbers, forecasts)
// from the stored daily series. It is purely functional per call; nothing
// persists between invocations.
package analysis

import (
	"github.com/tbruijn/covidwatch/internal/pkg/store"
	"github.com/tbruijn/covidwatch/internal/service/statistics"
)

type Service struct {
	stats *statistics.Service
	store store.Store
}

func NewService(stats *statistics.Service, store store.Store) *Service {
	return &Service{stats: stats, store: store}
}
