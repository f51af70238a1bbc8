package access

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/StreamNestTV/StreamNest/app/models"
	"github.com/StreamNestTV/StreamNest/app/repository"
)

// ---- in-memory fakes over the repository interfaces ----

type fakeUserRepo struct {
	users map[uint]*models.User
}

func (f *fakeUserRepo) Create(u *models.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(id uint) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByAPIKeyHash(hash string) (*models.User, error) {
	for _, u := range f.users {
		if u.APIKeyHash == hash && hash != "" {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Update(u *models.User) error { return nil }
func (f *fakeUserRepo) Count() (int64, error)       { return int64(len(f.users)), nil }

type fakeDeviceRepo struct {
	devices map[uint]*models.Device
	nextID  uint
}

func (f *fakeDeviceRepo) Upsert(d *models.Device) (*models.Device, error) {
	for _, existing := range f.devices {
		if existing.UserID == d.UserID && existing.MacAddress == d.MacAddress {
			existing.Name = d.Name
			existing.Status = d.Status
			return existing, nil
		}
	}
	f.nextID++
	d.ID = f.nextID
	f.devices[d.ID] = d
	return d, nil
}

func (f *fakeDeviceRepo) GetByID(id uint) (*models.Device, error) {
	if d, ok := f.devices[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDeviceRepo) GetByUserAndMac(userID uint, macAddress string) (*models.Device, error) {
	for _, d := range f.devices {
		if d.UserID == userID && d.MacAddress == macAddress {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDeviceRepo) GetActiveByMac(macAddress string) (*models.Device, error) {
	for _, d := range f.devices {
		if d.MacAddress == macAddress && d.Status == models.DEVICE_STATUS_ACTIVE {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDeviceRepo) ListByUserID(userID uint) ([]models.Device, error) {
	var out []models.Device
	for _, d := range f.devices {
		if d.UserID == userID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDeviceRepo) Update(d *models.Device) error { return nil }

type fakeTokenRepo struct {
	tokens map[uint]*models.PlaylistToken // by device id
	nextID uint
}

func (f *fakeTokenRepo) GetByDeviceID(deviceID uint) (*models.PlaylistToken, error) {
	if t, ok := f.tokens[deviceID]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTokenRepo) GetByToken(token string) (*models.PlaylistToken, error) {
	for _, t := range f.tokens {
		if t.Token == token {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTokenRepo) Create(t *models.PlaylistToken) error {
	if _, exists := f.tokens[t.DeviceID]; exists {
		return gorm.ErrDuplicatedKey
	}
	f.nextID++
	t.ID = f.nextID
	f.tokens[t.DeviceID] = t
	return nil
}

func (f *fakeTokenRepo) Rotate(deviceID, userID uint, value string) (*models.PlaylistToken, error) {
	if t, ok := f.tokens[deviceID]; ok {
		t.Token = value
		t.UserID = userID
		t.ExpiresAt = nil
		t.LastUsedAt = nil
		return t, nil
	}
	f.nextID++
	t := &models.PlaylistToken{ID: f.nextID, DeviceID: deviceID, UserID: userID, Token: value}
	f.tokens[deviceID] = t
	return t, nil
}

func (f *fakeTokenRepo) Touch(id uint, usedAt time.Time) error {
	for _, t := range f.tokens {
		if t.ID == id {
			t.LastUsedAt = &usedAt
		}
	}
	return nil
}

func (f *fakeTokenRepo) StampExpiry(id uint, expiresAt time.Time) error {
	for _, t := range f.tokens {
		if t.ID == id && t.ExpiresAt == nil {
			t.ExpiresAt = &expiresAt
		}
	}
	return nil
}

type fakeSubscriptionRepo struct {
	subscriptions []*models.Subscription
}

func (f *fakeSubscriptionRepo) GetCurrentByUserID(userID uint, now time.Time) (*models.Subscription, error) {
	for _, s := range f.subscriptions {
		if s.UserID == userID && s.IsCurrent(now) {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSubscriptionRepo) Create(s *models.Subscription) error {
	f.subscriptions = append(f.subscriptions, s)
	return nil
}

func (f *fakeSubscriptionRepo) Update(s *models.Subscription) error { return nil }

// ---- fixture ----

const (
	canonicalMac = "AA:BB:CC:DD:EE:FF"
	rawMac       = "aa-bb-cc-dd-ee-ff"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	users         *fakeUserRepo
	devices       *fakeDeviceRepo
	tokens        *fakeTokenRepo
	subscriptions *fakeSubscriptionRepo
	resolver      *Resolver
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	f := &fixture{
		users:         &fakeUserRepo{users: map[uint]*models.User{}},
		devices:       &fakeDeviceRepo{devices: map[uint]*models.Device{}},
		tokens:        &fakeTokenRepo{tokens: map[uint]*models.PlaylistToken{}},
		subscriptions: &fakeSubscriptionRepo{},
	}
	repos := &repository.Repositories{
		User:          f.users,
		Device:        f.devices,
		PlaylistToken: f.tokens,
		Subscription:  f.subscriptions,
	}
	f.resolver = NewResolver(repos, cfg, func() time.Time { return testNow })
	return f
}

func (f *fixture) addUser(id uint, role, status string) *models.User {
	u := &models.User{ID: id, Name: "User", Email: "u@example.com", Role: role, Status: status}
	f.users.users[id] = u
	return u
}

func (f *fixture) addDevice(id, userID uint, status string) *models.Device {
	d := &models.Device{ID: id, UserID: userID, MacAddress: canonicalMac, Status: status}
	f.devices.devices[id] = d
	if id > f.devices.nextID {
		f.devices.nextID = id
	}
	return d
}

func (f *fixture) addToken(deviceID, userID uint, value string) *models.PlaylistToken {
	f.tokens.nextID++
	tok := &models.PlaylistToken{ID: f.tokens.nextID, DeviceID: deviceID, UserID: userID, Token: value}
	f.tokens.tokens[deviceID] = tok
	return tok
}

func (f *fixture) addSubscription(userID, planID uint, status string, endDate time.Time) {
	f.subscriptions.subscriptions = append(f.subscriptions.subscriptions, &models.Subscription{
		UserID: userID, PlanID: planID, Status: status, EndDate: endDate,
	})
}

// ---- token path ----

func TestResolveToken_SubscriberSuccess(t *testing.T) {
	f := newFixture(t, Config{})
	f.addUser(1, models.ROLE_USER, models.STATUS_ACTIVE)
	f.addDevice(10, 1, models.DEVICE_STATUS_ACTIVE)
	f.addToken(10, 1, "tok-1")
	f.addSubscription(1, 5, models.SUBSCRIPTION_STATUS_ACTIVE, testNow.AddDate(0, 1, 0))

	auth, err := f.resolver.ResolveToken("tok-1", rawMac)
	require.NoError(t, err)
	assert.Equal(t, ClassSubscriber, auth.Class)
	assert.Equal(t, uint(5), auth.PlanID)
	assert.Equal(t, "plan:5", auth.CacheKey())
}

func TestResolveToken_AdminBypassesSubscription(t *testing.T) {
	for _, role := range []string{models.ROLE_ADMIN, models.ROLE_MODERATOR} {
		f := newFixture(t, Config{})
		f.addUser(1, role, models.STATUS_ACTIVE)
		f.addDevice(10, 1, models.DEVICE_STATUS_ACTIVE)
		f.addToken(10, 1, "tok-1")
		// no subscription rows at all

		auth, err := f.resolver.ResolveToken("tok-1", rawMac)
		require.NoError(t, err, "role %s", role)
		assert.Equal(t, ClassAdministrative, auth.Class)
		assert.Equal(t, "admin", auth.CacheKey())
	}
}

func TestResolveToken_LapsedSubscriptionIsDenied(t *testing.T) {
	f := newFixture(t, Config{})
	f.addUser(1, models.ROLE_USER, models.STATUS_ACTIVE)
	f.addDevice(10, 1, models.DEVICE_STATUS_ACTIVE)
	f.addToken(10, 1, "tok-1")
	f.addSubscription(1, 5, models.SUBSCRIPTION_STATUS_ACTIVE, testNow.AddDate(0, 0, -1))

	auth, err := f.resolver.ResolveToken("tok-1", rawMac)
	require.NoError(t, err)
	assert.Equal(t, ClassDenied, auth.Class)
}

func TestResolveToken_Failures(t *testing.T) {
	setup := func() *fixture {
		f := newFixture(t, Config{})
		f.addUser(1, models.ROLE_USER, models.STATUS_ACTIVE)
		f.addDevice(10, 1, models.DEVICE_STATUS_ACTIVE)
		f.addToken(10, 1, "tok-1")
		f.addSubscription(1, 5, models.SUBSCRIPTION_STATUS_ACTIVE, testNow.AddDate(0, 1, 0))
		return f
	}

	t.Run("unknown token", func(t *testing.T) {
		f := setup()
		_, err := f.resolver.ResolveToken("nope", rawMac)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("missing token is validation", func(t *testing.T) {
		f := setup()
		_, err := f.resolver.ResolveToken("", rawMac)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("malformed mac is validation", func(t *testing.T) {
		f := setup()
		_, err := f.resolver.ResolveToken("tok-1", "zz")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("mac mismatch", func(t *testing.T) {
		f := setup()
		_, err := f.resolver.ResolveToken("tok-1", "11-22-33-44-55-66")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("revoked device", func(t *testing.T) {
		f := setup()
		f.devices.devices[10].Status = models.DEVICE_STATUS_REVOKED
		_, err := f.resolver.ResolveToken("tok-1", rawMac)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("pending device", func(t *testing.T) {
		f := setup()
		f.devices.devices[10].Status = models.DEVICE_STATUS_PENDING
		_, err := f.resolver.ResolveToken("tok-1", rawMac)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("inactive user", func(t *testing.T) {
		f := setup()
		f.users.users[1].Status = models.STATUS_DISABLED
		_, err := f.resolver.ResolveToken("tok-1", rawMac)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("expired token", func(t *testing.T) {
		f := setup()
		expired := testNow.Add(-time.Hour)
		f.tokens.tokens[10].ExpiresAt = &expired
		_, err := f.resolver.ResolveToken("tok-1", rawMac)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

// ---- token lifecycle ----

func TestGetOrCreateToken_StableAcrossCalls(t *testing.T) {
	f := newFixture(t, Config{})
	f.addUser(1, models.ROLE_USER, models.STATUS_ACTIVE)
	device := f.addDevice(10, 1, models.DEVICE_STATUS_ACTIVE)

	first, err := f.resolver.GetOrCreateToken(device)
	require.NoError(t, err)
	assert.Len(t, first.Token, 64)
	assert.Nil(t, first.ExpiresAt)

	second, err := f.resolver.GetOrCreateToken(device)
	require.NoError(t, err)
	assert.Equal(t, first.Token, second.Token)
}

func TestGetOrCreateToken_AppliesTTLPolicy(t *testing.T) {
	f := newFixture(t, Config{TokenTTL: 30 * 24 * time.Hour})
	device := f.addDevice(10, 1, models.DEVICE_STATUS_ACTIVE)

	token, err := f.resolver.GetOrCreateToken(device)
	require.NoError(t, err)
	require.NotNil(t, token.ExpiresAt)
	assert.Equal(t, testNow.Add(30*24*time.Hour), *token.ExpiresAt)
}

func TestRotateToken_InvalidatesOldValue(t *testing.T) {
	f := newFixture(t, Config{})
	f.addUser(1, models.ROLE_USER, models.STATUS_ACTIVE)
	device := f.addDevice(10, 1, models.DEVICE_STATUS_ACTIVE)
	f.addToken(10, 1, "old-value")
	f.addSubscription(1, 5, models.SUBSCRIPTION_STATUS_ACTIVE, testNow.AddDate(0, 1, 0))

	rotated, err := f.resolver.RotateToken(device)
	require.NoError(t, err)
	assert.NotEqual(t, "old-value", rotated.Token)

	_, err = f.resolver.ResolveToken("old-value", rawMac)
	assert.ErrorIs(t, err, ErrUnauthorized)

	auth, err := f.resolver.ResolveToken(rotated.Token, rawMac)
	require.NoError(t, err)
	assert.Equal(t, ClassSubscriber, auth.Class)
}

func TestApplyExpiryPolicy_BackfillsOnlyLegacyTokens(t *testing.T) {
	f := newFixture(t, Config{TokenTTL: 24 * time.Hour})
	token := f.addToken(10, 1, "tok-1")

	require.NoError(t, f.resolver.ApplyExpiryPolicy(token))
	require.NotNil(t, token.ExpiresAt)
	stamped := *token.ExpiresAt

	// A second pass must not move the expiry.
	require.NoError(t, f.resolver.ApplyExpiryPolicy(token))
	assert.Equal(t, stamped, *token.ExpiresAt)
}

func TestApplyExpiryPolicy_NoopWithoutPolicy(t *testing.T) {
	f := newFixture(t, Config{})
	token := f.addToken(10, 1, "tok-1")

	require.NoError(t, f.resolver.ApplyExpiryPolicy(token))
	assert.Nil(t, token.ExpiresAt)
}

// ---- auto-activation ----

func TestResolveMac_ExistingActiveDevice(t *testing.T) {
	f := newFixture(t, Config{})
	f.addDevice(10, 1, models.DEVICE_STATUS_ACTIVE)

	device, err := f.resolver.ResolveMac(rawMac)
	require.NoError(t, err)
	assert.Equal(t, uint(10), device.ID)
}

func TestResolveMac_AutoActivatesUnderTrustedAccount(t *testing.T) {
	f := newFixture(t, Config{TrustedDeviceEmail: "ops@example.com"})
	f.users.users[7] = &models.User{ID: 7, Email: "ops@example.com", Role: models.ROLE_ADMIN, Status: models.STATUS_ACTIVE}

	device, err := f.resolver.ResolveMac("11-22-33-44-55-66")
	require.NoError(t, err)
	assert.Equal(t, uint(7), device.UserID)
	assert.Equal(t, "11:22:33:44:55:66", device.MacAddress)
	assert.Equal(t, "11:22:33:44:55:66", device.Name)
	assert.Equal(t, models.DEVICE_STATUS_ACTIVE, device.Status)
}

func TestResolveMac_FailsClosedWithoutTrustedAccount(t *testing.T) {
	t.Run("no email configured", func(t *testing.T) {
		f := newFixture(t, Config{})
		_, err := f.resolver.ResolveMac("11-22-33-44-55-66")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("configured account missing", func(t *testing.T) {
		f := newFixture(t, Config{TrustedDeviceEmail: "ghost@example.com"})
		_, err := f.resolver.ResolveMac("11-22-33-44-55-66")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestResolveMac_RevokedDeviceDoesNotMatch(t *testing.T) {
	f := newFixture(t, Config{})
	f.addDevice(10, 1, models.DEVICE_STATUS_REVOKED)

	_, err := f.resolver.ResolveMac(rawMac)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

// ---- management path ----

func TestResolveUserDevice(t *testing.T) {
	f := newFixture(t, Config{})
	user := f.addUser(1, models.ROLE_USER, models.STATUS_ACTIVE)
	f.addDevice(10, 1, models.DEVICE_STATUS_ACTIVE)
	f.addSubscription(1, 5, models.SUBSCRIPTION_STATUS_ACTIVE, testNow.AddDate(0, 1, 0))

	auth, err := f.resolver.ResolveUserDevice(user, rawMac)
	require.NoError(t, err)
	assert.Equal(t, ClassSubscriber, auth.Class)
	assert.Equal(t, uint(10), auth.Device.ID)

	_, err = f.resolver.ResolveUserDevice(user, "11-22-33-44-55-66")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
