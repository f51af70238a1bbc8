package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/StreamNestTV/StreamNest/internal/pkg/access"
	"github.com/StreamNestTV/StreamNest/internal/pkg/env"
	"github.com/StreamNestTV/StreamNest/internal/pkg/epg"
	"github.com/StreamNestTV/StreamNest/internal/pkg/exportcache"
)

const (
	contentTypeM3U   = "application/vnd.apple.mpegurl"
	contentTypeXMLTV = "application/xml; charset=utf-8"
)

// respondAccessError maps the access error taxonomy onto HTTP statuses.
// Authorization failures stay deliberately vague so callers cannot probe for
// valid tokens or registered devices; store failures log details server-side
// and return a generic body.
func respondAccessError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, access.ErrValidation), errors.Is(err, epg.ErrInvalidWindow):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": err.Error()})
	case errors.Is(err, access.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "invalid token or device"})
	case errors.Is(err, access.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "no active subscription"})
	default:
		log.Printf("export request failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "unexpected error"})
	}
}

// publicBaseURL is the externally reachable base for cross-linking export
// documents (playlist url-tvg attribute, token endpoint responses).
func publicBaseURL() string {
	host := env.GetEnv("APP_HOST", "localhost")
	port := env.GetEnv("APP_PORT", "4000")
	return env.GetEnv("APP_PUBLIC_URL", fmt.Sprintf("http://%s:%s", host, port))
}

func playlistURL(token, macAddress string) string {
	return fmt.Sprintf("%s/playlist.m3u8?token=%s&mac=%s",
		publicBaseURL(), url.QueryEscape(token), url.QueryEscape(macAddress))
}

func epgURL(token, macAddress string) string {
	return fmt.Sprintf("%s/epg.xml?token=%s&mac=%s",
		publicBaseURL(), url.QueryEscape(token), url.QueryEscape(macAddress))
}

// setDocumentHeaders applies the shared export response headers. Cache-Control
// mirrors the active server-side TTL so clients do not refetch faster than the
// server would re-render.
func setDocumentHeaders(c *fiber.Ctx, contentType, filename, disposition string, cache *exportcache.Cache) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`%s; filename="%s"`, disposition, filename))
	c.Vary(fiber.HeaderAcceptEncoding)
	if cache != nil && cache.Enabled() {
		c.Set(fiber.HeaderCacheControl, fmt.Sprintf("max-age=%d", int(cache.TTL()/time.Second)))
	} else {
		c.Set(fiber.HeaderCacheControl, "no-store")
	}
}

// setPermissiveCORS is used by the Smart-TV compatibility endpoints only.
func setPermissiveCORS(c *fiber.Ctx) {
	c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
	c.Set(fiber.HeaderAccessControlAllowMethods, "GET, OPTIONS")
	c.Set(fiber.HeaderAccessControlAllowHeaders, "*")
}
