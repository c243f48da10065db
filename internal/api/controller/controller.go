package controller

import (
	"github.com/tbruijn/covidwatch/internal/service/analysis"
	"github.com/tbruijn/covidwatch/internal/service/ingest"
	"github.com/tbruijn/covidwatch/internal/service/statistics"
)

type Controller struct {
	stats    *statistics.Service
	analysis *analysis.Service
	ingest   *ingest.Service
}

func NewController(stats *statistics.Service, analysis *analysis.Service, ingest *ingest.Service) *Controller {
	return &Controller{stats: stats, analysis: analysis, ingest: ingest}
}
