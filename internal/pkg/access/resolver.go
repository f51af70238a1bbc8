package access

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/StreamNestTV/StreamNest/app/models"
	"github.com/StreamNestTV/StreamNest/app/repository"
	"github.com/StreamNestTV/StreamNest/internal/pkg/mac"
	"github.com/StreamNestTV/StreamNest/internal/pkg/security"
)

// Config carries the resolver policies.
type Config struct {
	// TrustedDeviceEmail, when set, enables trust-on-first-use: a MAC with no
	// active device is auto-registered under this administrator account.
	// Empty disables the bootstrap path entirely.
	TrustedDeviceEmail string

	// TokenTTL, when positive, gives new tokens an absolute expiry and allows
	// backfilling one onto legacy tokens via ApplyExpiryPolicy. Zero means
	// tokens never expire.
	TokenTTL time.Duration
}

// Resolver turns bearer tokens and hardware addresses into authorization
// decisions. It owns the device auto-activation bootstrap and the playlist
// token lifecycle.
type Resolver struct {
	users         repository.UserRepository
	devices       repository.DeviceRepository
	tokens        repository.PlaylistTokenRepository
	subscriptions repository.SubscriptionRepository
	cfg           Config
	now           func() time.Time
}

// NewResolver builds a resolver. Pass nil for clock to use time.Now.
func NewResolver(repos *repository.Repositories, cfg Config, clock func() time.Time) *Resolver {
	if clock == nil {
		clock = time.Now
	}
	return &Resolver{
		users:         repos.User,
		devices:       repos.Device,
		tokens:        repos.PlaylistToken,
		subscriptions: repos.Subscription,
		cfg:           cfg,
		now:           clock,
	}
}

// ResolveToken authenticates an export request carrying a token and a MAC.
// Every failure along the chain collapses to ErrUnauthorized except malformed
// input, which is ErrValidation.
func (r *Resolver) ResolveToken(rawToken, rawMac string) (*Authorization, error) {
	if rawToken == "" {
		return nil, fmt.Errorf("%w: token missing", ErrValidation)
	}
	normalized := mac.Normalize(rawMac)
	if normalized == mac.Invalid {
		return nil, fmt.Errorf("%w: mac address missing or malformed", ErrValidation)
	}

	token, err := r.tokens.GetByToken(rawToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if token.IsExpired(r.now()) {
		return nil, ErrUnauthorized
	}

	device, err := r.devices.GetByID(token.DeviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if !device.IsActive() || device.MacAddress != normalized {
		return nil, ErrUnauthorized
	}

	user, err := r.users.GetByID(device.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive() {
		return nil, ErrUnauthorized
	}

	auth, err := r.classify(user)
	if err != nil {
		return nil, err
	}
	auth.Device = device
	auth.Token = token
	return auth, nil
}

// ResolveUserDevice authenticates a self-service management request: the
// caller is already authenticated, the MAC must name one of their devices.
func (r *Resolver) ResolveUserDevice(user *models.User, rawMac string) (*Authorization, error) {
	normalized := mac.Normalize(rawMac)
	if normalized == mac.Invalid {
		return nil, fmt.Errorf("%w: mac address missing or malformed", ErrValidation)
	}

	device, err := r.devices.GetByUserAndMac(user.ID, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if !device.IsActive() {
		return nil, ErrUnauthorized
	}

	auth, err := r.classify(user)
	if err != nil {
		return nil, err
	}
	auth.Device = device
	return auth, nil
}

// ResolveMac finds the active device for a bare hardware address, used by the
// MAC-keyed convenience endpoints. When no active device matches and a
// trusted administrator email is configured, the device is auto-registered
// under that account, named after its MAC and activated immediately. Without
// the configured account the resolution fails closed.
func (r *Resolver) ResolveMac(rawMac string) (*models.Device, error) {
	normalized := mac.Normalize(rawMac)
	if normalized == mac.Invalid {
		return nil, fmt.Errorf("%w: mac address missing or malformed", ErrValidation)
	}

	device, err := r.devices.GetActiveByMac(normalized)
	if err == nil {
		return device, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if r.cfg.TrustedDeviceEmail == "" {
		return nil, ErrUnauthorized
	}
	owner, err := r.users.GetByEmail(r.cfg.TrustedDeviceEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	device, err = r.devices.Upsert(&models.Device{
		UserID:     owner.ID,
		MacAddress: normalized,
		Name:       normalized,
		Status:     models.DEVICE_STATUS_ACTIVE,
	})
	if err != nil {
		return nil, err
	}
	log.Printf("auto-activated device %s for trusted account %s", normalized, r.cfg.TrustedDeviceEmail)
	return device, nil
}

// GetOrCreateToken returns the device's token row, creating it on first use.
// New tokens carry an expiry when the TTL policy is configured.
func (r *Resolver) GetOrCreateToken(device *models.Device) (*models.PlaylistToken, error) {
	token, err := r.tokens.GetByDeviceID(device.ID)
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	value, err := security.GeneratePlaylistToken()
	if err != nil {
		return nil, err
	}
	row := &models.PlaylistToken{
		DeviceID: device.ID,
		UserID:   device.UserID,
		Token:    value,
	}
	if r.cfg.TokenTTL > 0 {
		expires := r.now().Add(r.cfg.TokenTTL)
		row.ExpiresAt = &expires
	}
	if err := r.tokens.Create(row); err != nil {
		// A concurrent first request may have won the race on the device_id
		// uniqueness constraint; their token is the authoritative one.
		if existing, getErr := r.tokens.GetByDeviceID(device.ID); getErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return row, nil
}

// RotateToken replaces the device's token with a fresh value. The previous
// value stops authorizing immediately.
func (r *Resolver) RotateToken(device *models.Device) (*models.PlaylistToken, error) {
	value, err := security.GeneratePlaylistToken()
	if err != nil {
		return nil, err
	}
	token, err := r.tokens.Rotate(device.ID, device.UserID, value)
	if err != nil {
		return nil, err
	}
	if r.cfg.TokenTTL > 0 {
		expires := r.now().Add(r.cfg.TokenTTL)
		if err := r.tokens.StampExpiry(token.ID, expires); err != nil {
			return nil, err
		}
		token.ExpiresAt = &expires
	}
	return token, nil
}

// ApplyExpiryPolicy backfills an expiry onto a legacy token that predates the
// TTL policy. Explicitly invoked by handlers after successful resolution so
// the read path itself never writes. No-op when the policy is off or the
// token already expires.
func (r *Resolver) ApplyExpiryPolicy(token *models.PlaylistToken) error {
	if r.cfg.TokenTTL <= 0 || token.ExpiresAt != nil {
		return nil
	}
	expires := r.now().Add(r.cfg.TokenTTL)
	if err := r.tokens.StampExpiry(token.ID, expires); err != nil {
		return err
	}
	token.ExpiresAt = &expires
	return nil
}

// Touch records token usage, best effort. Failures are logged and swallowed;
// usage tracking is not correctness critical.
func (r *Resolver) Touch(token *models.PlaylistToken) {
	if err := r.tokens.Touch(token.ID, r.now()); err != nil {
		log.Printf("failed to update token usage timestamp for token %d: %v", token.ID, err)
	}
}

// classify computes the authorization class for a user. Staff roles bypass
// subscription checks; everyone else needs a current subscription, whose plan
// determines catalog visibility.
func (r *Resolver) classify(user *models.User) (*Authorization, error) {
	if user.IsStaff() {
		return &Authorization{Class: ClassAdministrative, User: user}, nil
	}

	subscription, err := r.subscriptions.GetCurrentByUserID(user.ID, r.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &Authorization{Class: ClassDenied, User: user}, nil
		}
		return nil, err
	}
	return &Authorization{Class: ClassSubscriber, PlanID: subscription.PlanID, User: user}, nil
}
