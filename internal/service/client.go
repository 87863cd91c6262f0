package service

import (
	"brokerage_backoffice/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// clientScope applies the fixed eager-load projection used by every client
// read: the custody account, the member users (contact fields only) and the
// account rep.
func clientScope(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Account").
		Preload("Users", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "client_id", "email", "first_name", "last_name")
		}).
		Preload("AccountRep")
}

// ListClients returns all clients with the fixed projection
func ListClients(db *gorm.DB) ([]domain.Client, error) {
	var clients []domain.Client
	if err := clientScope(db).Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// GetClientByID returns a single client with the fixed projection.
// A missing id surfaces as gorm.ErrRecordNotFound.
func GetClientByID(db *gorm.DB, id uint) (*domain.Client, error) {
	var client domain.Client
	if err := clientScope(db).First(&client, id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// CreateClient creates a client from the writable fields (name, type) and
// returns the created row with the same projection as ListClients
func CreateClient(db *gorm.DB, name, clientType string) (*domain.Client, error) {
	client := domain.Client{Name: name, Type: clientType}
	if err := db.Create(&client).Error; err != nil {
		return nil, err
	}
	return GetClientByID(db, client.ID)
}

// UpdateClientByID updates the writable fields of a client and returns the
// updated row with the fixed projection. Missing id is NotFound.
func UpdateClientByID(db *gorm.DB, id uint, name, clientType string, accountRepID *uint) (*domain.Client, error) {
	var client domain.Client
	if err := db.First(&client, id).Error; err != nil {
		return nil, err
	}
	// Whitelisted writable fields only; id is never updatable
	updates := map[string]any{
		"name":           name,
		"type":           clientType,
		"account_rep_id": accountRepID,
	}
	if err := db.Model(&client).Updates(updates).Error; err != nil {
		return nil, err
	}
	return GetClientByID(db, id)
}

// DeleteClientByID deletes a client. Deleting a missing id is NotFound,
// not success, on every invocation.
func DeleteClientByID(db *gorm.DB, id uint) error {
	res := db.Delete(&domain.Client{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
