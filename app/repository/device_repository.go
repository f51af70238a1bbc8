package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/StreamNestTV/StreamNest/app/models"
)

// deviceRepository implements the DeviceRepository interface
type deviceRepository struct {
	db *gorm.DB
}

// NewDeviceRepository creates a new device repository instance
func NewDeviceRepository(db *gorm.DB) DeviceRepository {
	return &deviceRepository{db: db}
}

// Upsert registers a device or updates the existing (user_id, mac_address)
// row. The upsert rides on the unique index, so concurrent registrations for
// the same pair serialize at the database.
func (r *deviceRepository) Upsert(device *models.Device) (*models.Device, error) {
	if device.UUID == "" {
		device.UUID = uuid.NewString()
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "mac_address"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "status", "updated_at"}),
	}).Create(device).Error
	if err != nil {
		return nil, err
	}
	return r.GetByUserAndMac(device.UserID, device.MacAddress)
}

// GetByID retrieves a device by its ID
func (r *deviceRepository) GetByID(id uint) (*models.Device, error) {
	var device models.Device
	err := r.db.First(&device, id).Error
	if err != nil {
		return nil, err
	}
	return &device, nil
}

// GetByUserAndMac retrieves the device registered for the pair
func (r *deviceRepository) GetByUserAndMac(userID uint, macAddress string) (*models.Device, error) {
	var device models.Device
	err := r.db.Where("user_id = ? AND mac_address = ?", userID, macAddress).First(&device).Error
	if err != nil {
		return nil, err
	}
	return &device, nil
}

// GetActiveByMac retrieves the first active device carrying the address
func (r *deviceRepository) GetActiveByMac(macAddress string) (*models.Device, error) {
	var device models.Device
	err := r.db.Where("mac_address = ? AND status = ?", macAddress, models.DEVICE_STATUS_ACTIVE).
		Order("id asc").First(&device).Error
	if err != nil {
		return nil, err
	}
	return &device, nil
}

// ListByUserID retrieves all devices owned by a user
func (r *deviceRepository) ListByUserID(userID uint) ([]models.Device, error) {
	var devices []models.Device
	err := r.db.Where("user_id = ?", userID).Order("created_at asc").Find(&devices).Error
	return devices, err
}

// Update updates an existing device
func (r *deviceRepository) Update(device *models.Device) error {
	return r.db.Save(device).Error
}
