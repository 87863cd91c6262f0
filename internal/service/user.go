package service

import (
	"brokerage_backoffice/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// ClientName is the name-only projection of a related client
type ClientName struct {
	Name string `json:"name"`
}

// AdminUserView is the user projection returned to administrators.
// It never carries the password field.
type AdminUserView struct {
	ID            uint         `json:"id"`           // User ID
	Email         string       `json:"email"`        // Email
	FirstName     string       `json:"firstName"`    // First name
	LastName      string       `json:"lastName"`     // Last name
	Role          string       `json:"role"`         // Role
	UserClient    *ClientName  `json:"userClient"`   // Client the user belongs to
	AccRepClients []ClientName `json:"accRepClient"` // Clients the user represents
}

// SelfUserView is the projection a client user gets of their own record.
// It carries the password hash for local auth comparison but no role.
type SelfUserView struct {
	ID         uint        `json:"id"`         // User ID
	Email      string      `json:"email"`      // Email
	FirstName  string      `json:"firstName"`  // First name
	LastName   string      `json:"lastName"`   // Last name
	Password   string      `json:"password"`   // Hashed password
	UserClient *ClientName `json:"userClient"` // Client the user belongs to
}

// SessionUser is the login lookup projection keyed by email
type SessionUser struct {
	ID        uint   // User ID
	Email     string // Email
	FirstName string // First name
	LastName  string // Last name
	Password  string // Hashed password, compared against the login attempt
	Role      string // Role
}

// userScope eagerly loads the relations the user projections need
func userScope(db *gorm.DB) *gorm.DB {
	return db.Preload("Client").Preload("RepClients")
}

func adminView(u *domain.User) AdminUserView {
	v := AdminUserView{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
	}
	if u.Client != nil {
		v.UserClient = &ClientName{Name: u.Client.Name}
	}
	for _, c := range u.RepClients {
		v.AccRepClients = append(v.AccRepClients, ClientName{Name: c.Name})
	}
	return v
}

func selfView(u *domain.User) SelfUserView {
	v := SelfUserView{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Password:  u.Password,
	}
	if u.Client != nil {
		v.UserClient = &ClientName{Name: u.Client.Name}
	}
	return v
}

// AdminListUsers returns all users in the admin projection
func AdminListUsers(db *gorm.DB) ([]AdminUserView, error) {
	var users []domain.User
	if err := userScope(db).Find(&users).Error; err != nil {
		return nil, err
	}
	views := make([]AdminUserView, len(users))
	for i := range users {
		views[i] = adminView(&users[i])
	}
	return views, nil
}

// AdminGetUserByID returns a single user in the admin projection
func AdminGetUserByID(db *gorm.DB, id uint) (*AdminUserView, error) {
	var user domain.User
	if err := userScope(db).First(&user, id).Error; err != nil {
		return nil, err
	}
	v := adminView(&user)
	return &v, nil
}

// AdminUserInput is the whitelist of writable user fields for admin
// create/update; the generated id is never writable
type AdminUserInput struct {
	Email     string // Email
	FirstName string // First name
	LastName  string // Last name
	Password  string // Already-hashed password
	Role      string // Role
	ClientID  *uint  // Client the user belongs to
}

// AdminCreateUser creates a user and returns it in the admin projection.
// Email uniqueness is enforced by the store-level unique constraint.
func AdminCreateUser(db *gorm.DB, in AdminUserInput) (*AdminUserView, error) {
	user := domain.User{
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Password:  in.Password,
		Role:      in.Role,
		ClientID:  in.ClientID,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return AdminGetUserByID(db, user.ID)
}

// AdminUpdateUserByID updates the whitelisted fields of a user.
// Missing id is NotFound.
func AdminUpdateUserByID(db *gorm.DB, id uint, in AdminUserInput) (*AdminUserView, error) {
	var user domain.User
	if err := db.First(&user, id).Error; err != nil {
		return nil, err
	}
	updates := map[string]any{
		"email":      in.Email,
		"first_name": in.FirstName,
		"last_name":  in.LastName,
		"password":   in.Password,
		"role":       in.Role,
		"client_id":  in.ClientID,
	}
	if err := db.Model(&user).Updates(updates).Error; err != nil {
		return nil, err
	}
	return AdminGetUserByID(db, id)
}

// ClientGetUserByID returns a user's own record in the self-service projection
func ClientGetUserByID(db *gorm.DB, id uint) (*SelfUserView, error) {
	var user domain.User
	if err := db.Preload("Client").First(&user, id).Error; err != nil {
		return nil, err
	}
	v := selfView(&user)
	return &v, nil
}

// SelfUserInput is the whitelist of fields a client user may change on
// their own record; role is deliberately absent
type SelfUserInput struct {
	Email     string // Email
	FirstName string // First name
	LastName  string // Last name
	Password  string // Already-hashed password
}

// ClientUpdateUserByID updates a user's own record. Missing id is NotFound.
func ClientUpdateUserByID(db *gorm.DB, id uint, in SelfUserInput) (*SelfUserView, error) {
	var user domain.User
	if err := db.First(&user, id).Error; err != nil {
		return nil, err
	}
	updates := map[string]any{
		"email":      in.Email,
		"first_name": in.FirstName,
		"last_name":  in.LastName,
		"password":   in.Password,
	}
	if err := db.Model(&user).Updates(updates).Error; err != nil {
		return nil, err
	}
	return ClientGetUserByID(db, id)
}

// GetUserSessionByEmail looks up a user by email for login
func GetUserSessionByEmail(db *gorm.DB, email string) (*SessionUser, error) {
	var user domain.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &SessionUser{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Password:  user.Password,
		Role:      user.Role,
	}, nil
}

// DeleteUserByID deletes a user. Deleting a missing id is NotFound.
func DeleteUserByID(db *gorm.DB, id uint) error {
	res := db.Delete(&domain.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
