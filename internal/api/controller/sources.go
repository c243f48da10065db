package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spf13/viper"
	"github.com/tbruijn/covidwatch/internal/pkg/constants"
)

func (c *Controller) DownloadSources(ctx echo.Context) error {
	dir := viper.GetString(constants.ViperDataDir)
	if err := c.ingest.DownloadAll(ctx.Request().Context(), dir); err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, map[string]string{"dir": dir})
}
