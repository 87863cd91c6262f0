package domain

// Client Model
type Client struct {
	ID           uint     `gorm:"primaryKey" json:"id"`                 // Primary key
	Name         string   `gorm:"not null" json:"name"`                 // Client name
	Type         string   `gorm:"not null" json:"type"`                 // Client type (e.g. individual, institutional)
	AccountRepID *uint    `json:"accountRepId"`                         // Foreign key to the User acting as account rep
	Account      *Account `gorm:"foreignKey:ClientID" json:"account"`   // One-to-one relationship with Account
	Users        []User   `gorm:"foreignKey:ClientID" json:"userList"`  // Users belonging to this client
	AccountRep   *User    `gorm:"foreignKey:AccountRepID" json:"accountRep"` // Designated account representative
}
