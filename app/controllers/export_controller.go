package controllers

import (
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/StreamNestTV/StreamNest/app/models"
	"github.com/StreamNestTV/StreamNest/app/repository"
	"github.com/StreamNestTV/StreamNest/internal/pkg/access"
	"github.com/StreamNestTV/StreamNest/internal/pkg/env"
	"github.com/StreamNestTV/StreamNest/internal/pkg/epg"
	"github.com/StreamNestTV/StreamNest/internal/pkg/exportcache"
	"github.com/StreamNestTV/StreamNest/internal/pkg/metrics/counter"
	"github.com/StreamNestTV/StreamNest/internal/pkg/playlist"
)

var (
	exportResolver *access.Resolver
	playlistCache  *exportcache.Cache
	epgCache       *exportcache.Cache
)

// InitializeExportController wires the resolver and the response caches from
// the global repository factory and environment configuration.
func InitializeExportController() {
	repos := repository.GetGlobalFactory().GetRepositories()

	ttlDays, _ := strconv.Atoi(env.GetEnv("PLAYLIST_TOKEN_TTL_DAYS", "0"))
	cfg := access.Config{
		TrustedDeviceEmail: env.GetEnv("TRUSTED_DEVICE_EMAIL", ""),
		TokenTTL:           time.Duration(ttlDays) * 24 * time.Hour,
	}
	exportResolver = access.NewResolver(repos, cfg, nil)

	cacheTTL, _ := strconv.Atoi(env.GetEnv("EXPORT_CACHE_TTL_SECONDS", "300"))
	cacheSize, _ := strconv.Atoi(env.GetEnv("EXPORT_CACHE_SIZE", "64"))
	playlistCache = exportcache.New(cacheSize, time.Duration(cacheTTL)*time.Second, nil)
	epgCache = exportcache.New(cacheSize, time.Duration(cacheTTL)*time.Second, nil)
}

// visibleChannels computes the catalog for an authorization class. ClassDenied
// never reaches this point on the regular endpoints.
func visibleChannels(auth *access.Authorization) ([]models.Channel, error) {
	channelRepo := repository.GetGlobalFactory().GetChannelRepository()
	if auth.Class == access.ClassAdministrative {
		return channelRepo.GetActiveLive()
	}
	return channelRepo.GetActiveLiveByPlan(auth.PlanID)
}

// afterExport records usage on a successful export: last-used touch plus the
// Redis export counter. Both are best effort and never affect the response.
func afterExport(auth *access.Authorization, epgExport bool) {
	exportResolver.Touch(auth.Token)
	if err := exportResolver.ApplyExpiryPolicy(auth.Token); err != nil {
		log.Printf("failed to backfill token expiry for token %d: %v", auth.Token.ID, err)
	}
	var err error
	if epgExport {
		err = counter.AddEPGExport(auth.Token.ID)
	} else {
		err = counter.AddPlaylistExport(auth.Token.ID)
	}
	if err != nil {
		log.Printf("failed to count export for token %d: %v", auth.Token.ID, err)
	}
}

// HandleExportPlaylist serves the M3U8 playlist for a token+MAC pair.
func HandleExportPlaylist(c *fiber.Ctx) error {
	auth, err := exportResolver.ResolveToken(c.Query("token"), c.Query("mac"))
	if err != nil {
		return respondAccessError(c, err)
	}
	if auth.Class == access.ClassDenied {
		return respondAccessError(c, access.ErrForbidden)
	}

	setDocumentHeaders(c, contentTypeM3U, "playlist.m3u8", "attachment", playlistCache)

	cacheKey := auth.CacheKey() + ":tok:" + strconv.FormatUint(uint64(auth.Token.ID), 10)
	if body, ok := playlistCache.Get(cacheKey); ok {
		afterExport(auth, false)
		return c.Send(body)
	}

	channels, err := visibleChannels(auth)
	if err != nil {
		return respondAccessError(c, err)
	}

	doc := playlist.BuildM3U(channels, playlist.Options{
		EPGURL: epgURL(auth.Token.Token, auth.Device.MacAddress),
	})
	body := []byte(doc)
	playlistCache.Set(cacheKey, body)

	afterExport(auth, false)
	return c.Send(body)
}

// HandleExportEPG serves the XMLTV guide for a token+MAC pair. The window is
// optional: explicit start/end (RFC 3339) or a day count clamped to [1,14],
// defaulting to seven days from now.
func HandleExportEPG(c *fiber.Ctx) error {
	window, err := epg.ParseWindow(c.Query("start"), c.Query("end"), c.Query("days"), time.Now())
	if err != nil {
		return respondAccessError(c, err)
	}

	auth, err := exportResolver.ResolveToken(c.Query("token"), c.Query("mac"))
	if err != nil {
		return respondAccessError(c, err)
	}
	if auth.Class == access.ClassDenied {
		return respondAccessError(c, access.ErrForbidden)
	}

	setDocumentHeaders(c, contentTypeXMLTV, "epg.xml", "attachment", epgCache)

	cacheKey := auth.CacheKey() + ":win:" + window.Key()
	if body, ok := epgCache.Get(cacheKey); ok {
		afterExport(auth, true)
		return c.Send(body)
	}

	channels, err := visibleChannels(auth)
	if err != nil {
		return respondAccessError(c, err)
	}

	channelIDs := make([]uint, 0, len(channels))
	for _, ch := range channels {
		channelIDs = append(channelIDs, ch.ID)
	}
	entries, err := repository.GetGlobalFactory().GetEPGRepository().
		GetEntriesForChannels(channelIDs, window.Start, window.End)
	if err != nil {
		return respondAccessError(c, err)
	}

	doc := epg.BuildXMLTV(channels, entries, window)
	body := []byte(doc)
	epgCache.Set(cacheKey, body)

	afterExport(auth, true)
	return c.Send(body)
}

// HandleExportStatus is the health/diagnostic check for a token+MAC pair.
func HandleExportStatus(c *fiber.Ctx) error {
	auth, err := exportResolver.ResolveToken(c.Query("token"), c.Query("mac"))
	if err != nil {
		return respondAccessError(c, err)
	}

	var channelCount int
	if auth.Class != access.ClassDenied {
		channels, err := visibleChannels(auth)
		if err != nil {
			return respondAccessError(c, err)
		}
		channelCount = len(channels)
	}

	return c.JSON(fiber.Map{
		"status":        "ok",
		"class":         auth.Class.String(),
		"plan_id":       auth.PlanID,
		"device":        auth.Device.MacAddress,
		"channel_count": channelCount,
		"expires_at":    auth.Token.ExpiresAt,
		"last_used_at":  auth.Token.LastUsedAt,
	})
}

// HandleDevicePlaylistRedirect resolves a bare MAC straight to its playlist
// URL. Creates the token lazily on first use.
func HandleDevicePlaylistRedirect(c *fiber.Ctx) error {
	device, token, err := resolveDeviceToken(c.Params("mac"))
	if err != nil {
		return respondAccessError(c, err)
	}
	return c.Redirect(playlistURL(token.Token, device.MacAddress), fiber.StatusFound)
}

// HandleDeviceEPGRedirect resolves a bare MAC straight to its EPG URL.
func HandleDeviceEPGRedirect(c *fiber.Ctx) error {
	device, token, err := resolveDeviceToken(c.Params("mac"))
	if err != nil {
		return respondAccessError(c, err)
	}
	return c.Redirect(epgURL(token.Token, device.MacAddress), fiber.StatusFound)
}

func resolveDeviceToken(rawMac string) (*models.Device, *models.PlaylistToken, error) {
	device, err := exportResolver.ResolveMac(rawMac)
	if err != nil {
		return nil, nil, err
	}
	token, err := exportResolver.GetOrCreateToken(device)
	if err != nil {
		return nil, nil, err
	}
	return device, token, nil
}

// HandleDirectPlaylist is the Smart-TV compatibility variant: permissive CORS,
// inline disposition, and a 200-status placeholder playlist on authorization
// failure because those clients treat any non-200 as a fatal setup error.
func HandleDirectPlaylist(c *fiber.Ctx) error {
	setPermissiveCORS(c)

	auth, err := exportResolver.ResolveToken(c.Query("token"), c.Query("mac"))
	if err == nil && auth.Class == access.ClassDenied {
		err = access.ErrForbidden
	}
	if err != nil {
		setDocumentHeaders(c, contentTypeM3U, "playlist.m3u8", "inline", nil)
		return c.SendString(playlist.BuildM3U([]models.Channel{{
			Name:      "Access Denied",
			EpgID:     "error",
			StreamURL: "https://streamnest.invalid/denied",
		}}, playlist.Options{}))
	}

	setDocumentHeaders(c, contentTypeM3U, "playlist.m3u8", "inline", playlistCache)

	cacheKey := auth.CacheKey() + ":tok:" + strconv.FormatUint(uint64(auth.Token.ID), 10)
	if body, ok := playlistCache.Get(cacheKey); ok {
		afterExport(auth, false)
		return c.Send(body)
	}

	channels, err := visibleChannels(auth)
	if err != nil {
		return respondAccessError(c, err)
	}
	doc := playlist.BuildM3U(channels, playlist.Options{
		EPGURL: epgURL(auth.Token.Token, auth.Device.MacAddress),
	})
	body := []byte(doc)
	playlistCache.Set(cacheKey, body)

	afterExport(auth, false)
	return c.Send(body)
}

// HandleDirectEPG is the Smart-TV compatibility variant of the EPG export.
func HandleDirectEPG(c *fiber.Ctx) error {
	setPermissiveCORS(c)

	window, werr := epg.ParseWindow(c.Query("start"), c.Query("end"), c.Query("days"), time.Now())
	auth, err := exportResolver.ResolveToken(c.Query("token"), c.Query("mac"))
	if err == nil && auth.Class == access.ClassDenied {
		err = access.ErrForbidden
	}
	if err != nil || werr != nil {
		if werr != nil {
			// A malformed window is still a plain validation failure.
			return respondAccessError(c, werr)
		}
		setDocumentHeaders(c, contentTypeXMLTV, "epg.xml", "inline", nil)
		return c.SendString(epg.BuildXMLTV([]models.Channel{{
			Name:  "Access Denied",
			EpgID: "error",
		}}, nil, epg.Window{}))
	}

	setDocumentHeaders(c, contentTypeXMLTV, "epg.xml", "inline", epgCache)

	cacheKey := auth.CacheKey() + ":win:" + window.Key()
	if body, ok := epgCache.Get(cacheKey); ok {
		afterExport(auth, true)
		return c.Send(body)
	}

	channels, err := visibleChannels(auth)
	if err != nil {
		return respondAccessError(c, err)
	}
	channelIDs := make([]uint, 0, len(channels))
	for _, ch := range channels {
		channelIDs = append(channelIDs, ch.ID)
	}
	entries, err := repository.GetGlobalFactory().GetEPGRepository().
		GetEntriesForChannels(channelIDs, window.Start, window.End)
	if err != nil {
		return respondAccessError(c, err)
	}

	doc := epg.BuildXMLTV(channels, entries, window)
	body := []byte(doc)
	epgCache.Set(cacheKey, body)

	afterExport(auth, true)
	return c.Send(body)
}
