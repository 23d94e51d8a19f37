package auth

import "time"

type User struct {
	ID              string    `gorm:"primaryKey" json:"id"`
	Name            string    `json:"name"`
	Username        string    `gorm:"uniqueIndex;not null" json:"username"`
	DisplayUsername string    `json:"displayUsername"`
	Email           string    `gorm:"uniqueIndex;not null" json:"email"`
	EmailVerified   bool      `json:"emailVerified"`
	Image           *string   `json:"image"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type Session struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	UserID    string    `gorm:"index;not null" json:"userId"`
	ExpiresAt time.Time `gorm:"not null" json:"expiresAt"`
	IPAddress string    `json:"ipAddress"`
	UserAgent string    `json:"userAgent"`
	CreatedAt time.Time `json:"createdAt"`
}

// Account links a user to a sign-in method: the bcrypt hash for credential
// accounts, or the provider-side id for social accounts.
type Account struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	UserID     string    `gorm:"index;not null" json:"userId"`
	ProviderID string    `gorm:"index:idx_provider_account;not null" json:"providerId"`
	AccountID  string    `gorm:"index:idx_provider_account;not null" json:"accountId"`
	Password   string    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

const (
	ProviderCredential = "credential"
	ProviderDiscord    = "discord"
)

func (User) TableName() string    { return "app_auth.users" }
func (Session) TableName() string { return "app_auth.sessions" }
func (Account) TableName() string { return "app_auth.accounts" }
