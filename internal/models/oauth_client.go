package models

import (
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// OAuthClient is a machine client (POS, kiosk, sync job) allowed to call the
// admin API through the client_credentials grant. It implements
// oauth2.ClientInfo and oauth2.ClientPasswordVerifier.
type OAuthClient struct {
	ID        string `gorm:"primaryKey" json:"client_id"`
	Secret    string `gorm:"not null" json:"-"`
	Name      string `json:"name"`
	Domain    string `json:"domain"`
	UserID    uint   `gorm:"index" json:"user_id"` // owning user; tokens carry this user's role
	Scopes    string `json:"scopes"`               // Space-separated list of allowed scopes
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (OAuthClient) TableName() string {
	return "oauth_clients"
}

func (c *OAuthClient) GetID() string     { return c.ID }
func (c *OAuthClient) GetSecret() string { return c.Secret }
func (c *OAuthClient) GetDomain() string { return c.Domain }
func (c *OAuthClient) IsPublic() bool    { return false }

func (c *OAuthClient) GetUserID() string {
	if c.UserID == 0 {
		return ""
	}
	return strconv.FormatUint(uint64(c.UserID), 10)
}

// VerifyPassword compares the presented secret with the stored bcrypt hash
func (c *OAuthClient) VerifyPassword(secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(c.Secret), []byte(secret)) == nil
}
