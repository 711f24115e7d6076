package domain

// Roles a user can hold. Only admins may create other users.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User Model
type User struct {
	ID       uint      `gorm:"primaryKey" json:"id"`                        // Primary key
	Username string    `gorm:"unique;not null" json:"username"`             // Unique username, immutable after creation
	Password string    `gorm:"not null" json:"-"`                           // Hashed password
	Role     string    `gorm:"default:user" json:"role"`                    // Role: user or admin
	Accounts []Account `gorm:"constraint:OnUpdate:CASCADE" json:"accounts"` // One account per currency
}
