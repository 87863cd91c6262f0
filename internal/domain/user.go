package domain

// User roles
const (
	RoleAdmin  = "admin"  // Back-office administrator
	RoleClient = "client" // Client-side user
)

// User Model
type User struct {
	ID         uint     `gorm:"primaryKey" json:"id"`          // Primary key
	Email      string   `gorm:"unique;not null" json:"email"`  // Unique email, used for login
	FirstName  string   `gorm:"not null" json:"firstName"`     // First name
	LastName   string   `gorm:"not null" json:"lastName"`      // Last name
	Password   string   `gorm:"not null" json:"-"`             // Hashed password, never serialized from the model
	Role       string   `gorm:"default:client" json:"role,omitempty"` // Role: admin or client
	ClientID   *uint    `json:"clientId"`                      // Foreign key to the Client this user belongs to
	Client     *Client  `gorm:"foreignKey:ClientID" json:"-"`  // Member client
	RepClients []Client `gorm:"foreignKey:AccountRepID" json:"-"` // Clients this user represents
}
