package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Repositories bundles all repository instances
type Repositories struct {
	User          UserRepository
	Device        DeviceRepository
	PlaylistToken PlaylistTokenRepository
	Subscription  SubscriptionRepository
	Channel       ChannelRepository
	EPG           EPGRepository
}

// NewRepositories builds every repository over one database handle
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:          NewUserRepository(db),
		Device:        NewDeviceRepository(db),
		PlaylistToken: NewPlaylistTokenRepository(db),
		Subscription:  NewSubscriptionRepository(db),
		Channel:       NewChannelRepository(db),
		EPG:           NewEPGRepository(db),
	}
}

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// NewFactoryFromRepositories wraps an already built repository set, letting
// tests install in-memory implementations through SetGlobalFactory.
func NewFactoryFromRepositories(repos *Repositories) *Factory {
	f := &Factory{repos: repos}
	f.once.Do(func() {})
	return f
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetUserRepository returns the user repository instance
func (f *Factory) GetUserRepository() UserRepository {
	return f.GetRepositories().User
}

// GetDeviceRepository returns the device repository instance
func (f *Factory) GetDeviceRepository() DeviceRepository {
	return f.GetRepositories().Device
}

// GetPlaylistTokenRepository returns the playlist token repository instance
func (f *Factory) GetPlaylistTokenRepository() PlaylistTokenRepository {
	return f.GetRepositories().PlaylistToken
}

// GetSubscriptionRepository returns the subscription repository instance
func (f *Factory) GetSubscriptionRepository() SubscriptionRepository {
	return f.GetRepositories().Subscription
}

// GetChannelRepository returns the channel repository instance
func (f *Factory) GetChannelRepository() ChannelRepository {
	return f.GetRepositories().Channel
}

// GetEPGRepository returns the EPG repository instance
func (f *Factory) GetEPGRepository() EPGRepository {
	return f.GetRepositories().EPG
}

var (
	globalFactory *Factory
	globalMu      sync.RWMutex
)

// SetGlobalFactory installs the process-wide factory during bootstrap
func SetGlobalFactory(factory *Factory) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalFactory = factory
}

// GetGlobalFactory returns the process-wide factory
func GetGlobalFactory() *Factory {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalFactory
}
