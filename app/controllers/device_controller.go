package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/StreamNestTV/StreamNest/app/models"
	"github.com/StreamNestTV/StreamNest/app/repository"
	"github.com/StreamNestTV/StreamNest/internal/pkg/mac"
	"github.com/StreamNestTV/StreamNest/internal/pkg/usercontext"
)

// RegisterDeviceRequest is the body of POST /api/v1/devices
type RegisterDeviceRequest struct {
	MacAddress string `json:"mac_address"`
	Name       string `json:"name"`
}

// HandleRegisterDevice registers or updates a device for the authenticated
// user. The upsert is idempotent on (user, MAC): re-registering updates the
// display name and reactivates the device.
func HandleRegisterDevice(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing or invalid authentication"})
	}

	var req RegisterDeviceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "invalid request body"})
	}

	normalized := mac.Normalize(req.MacAddress)
	if normalized == mac.Invalid {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "mac_address missing or malformed"})
	}

	name := req.Name
	if name == "" {
		name = normalized
	}

	device, err := repository.GetGlobalFactory().GetDeviceRepository().Upsert(&models.Device{
		UserID:     usercontext.GetUserID(c),
		MacAddress: normalized,
		Name:       name,
		Status:     models.DEVICE_STATUS_ACTIVE,
	})
	if err != nil {
		return respondAccessError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(device)
}

// HandleListDevices returns the authenticated user's devices.
func HandleListDevices(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing or invalid authentication"})
	}

	devices, err := repository.GetGlobalFactory().GetDeviceRepository().ListByUserID(usercontext.GetUserID(c))
	if err != nil {
		return respondAccessError(c, err)
	}
	return c.JSON(fiber.Map{"devices": devices})
}

// HandleGetDeviceToken issues or fetches the playlist token for one of the
// caller's devices, together with ready-made export URLs.
func HandleGetDeviceToken(c *fiber.Ctx) error {
	device, err := requireOwnDevice(c)
	if err != nil {
		return respondAccessError(c, err)
	}
	if device == nil {
		return nil // response already written
	}

	token, err := exportResolver.GetOrCreateToken(device)
	if err != nil {
		return respondAccessError(c, err)
	}

	return c.JSON(tokenResponse(device, token))
}

// HandleRotateDeviceToken regenerates the token; the previous value stops
// authorizing immediately.
func HandleRotateDeviceToken(c *fiber.Ctx) error {
	device, err := requireOwnDevice(c)
	if err != nil {
		return respondAccessError(c, err)
	}
	if device == nil {
		return nil
	}

	token, err := exportResolver.RotateToken(device)
	if err != nil {
		return respondAccessError(c, err)
	}

	return c.JSON(tokenResponse(device, token))
}

// requireOwnDevice loads the :mac device for the authenticated caller. A nil
// device with nil error means the unauthorized response was already sent.
func requireOwnDevice(c *fiber.Ctx) (*models.Device, error) {
	if !usercontext.IsLoggedIn(c) {
		_ = c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing or invalid authentication"})
		return nil, nil
	}

	normalized := mac.Normalize(c.Params("mac"))
	if normalized == mac.Invalid {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "mac missing or malformed"})
		return nil, nil
	}

	device, err := repository.GetGlobalFactory().GetDeviceRepository().GetByUserAndMac(usercontext.GetUserID(c), normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same body as any other authorization failure; device existence
			// is not disclosed.
			_ = c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "invalid token or device"})
			return nil, nil
		}
		return nil, err
	}
	if !device.IsActive() {
		_ = c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "invalid token or device"})
		return nil, nil
	}
	return device, nil
}

func tokenResponse(device *models.Device, token *models.PlaylistToken) fiber.Map {
	return fiber.Map{
		"token":        token.Token,
		"expires_at":   token.ExpiresAt,
		"device_uuid":  device.UUID,
		"mac_address":  device.MacAddress,
		"playlist_url": playlistURL(token.Token, device.MacAddress),
		"epg_url":      epgURL(token.Token, device.MacAddress),
	}
}
