package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"

	"github.com/StreamNestTV/StreamNest/app/controllers"
	"github.com/StreamNestTV/StreamNest/internal/pkg/constants"
)

type ExportRouter struct {
}

// InstallRouter registers the public export endpoints. They authenticate via
// token+MAC query parameters, not sessions, so no auth middleware is
// attached. Gzip is negotiated per request; a client without Accept-Encoding
// support simply receives the identity body.
func (h ExportRouter) InstallRouter(app *fiber.App) {
	controllers.InitializeExportController()

	gz := compress.New(compress.Config{Level: compress.LevelDefault})

	app.Get(constants.PlaylistRoute, gz, controllers.HandleExportPlaylist)
	app.Get(constants.EPGRoute, gz, controllers.HandleExportEPG)
	app.Get(constants.StatusRoute, controllers.HandleExportStatus)

	// MAC-keyed convenience redirectors for set-top boxes that only know
	// their hardware address.
	app.Get(constants.DevicePlaylistRoute, controllers.HandleDevicePlaylistRedirect)
	app.Get(constants.DeviceEPGRoute, controllers.HandleDeviceEPGRedirect)

	// Smart-TV compatibility endpoints: no redirects, permissive CORS,
	// errors downgraded to placeholder documents.
	app.Get(constants.DirectPlaylistRoute, gz, controllers.HandleDirectPlaylist)
	app.Get(constants.DirectEPGRoute, gz, controllers.HandleDirectEPG)
}

func NewExportRouter() *ExportRouter {
	return &ExportRouter{}
}
