package auth

import "time"

// User is an account row. Passwords are stored as bcrypt hashes.
type User struct {
	UserID    string    `gorm:"type:varchar(50);column:user_id;primaryKey" json:"user_id"`
	Username  string    `gorm:"type:varchar(100);column:username;not null" json:"username"`
	Email     string    `gorm:"type:varchar(255);column:email;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"type:varchar(255);column:password;not null" json:"-"`
	UserGroup string    `gorm:"type:varchar(100);column:user_group;not null" json:"user_group"`
	Verified  bool      `gorm:"column:verified;not null" json:"verified"`
	CreatedAt time.Time `gorm:"type:timestamptz;column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (u *User) TableName() string {
	return "users_table"
}

// RefreshToken is a single-use refresh credential. A token row is consumed by
// setting used=true; refresh attempts race on the row lock, not on the flag.
type RefreshToken struct {
	ID           int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	RefreshToken string `gorm:"type:varchar(255);column:refresh_token;not null;uniqueIndex" json:"refresh_token"`
	UserID       string `gorm:"type:varchar(50);column:user_id;not null" json:"user_id"`
	UserGroup    string `gorm:"type:varchar(100);column:user_group" json:"user_group"`
	Exp          int64  `gorm:"column:exp;not null" json:"exp"`
	Used         bool   `gorm:"column:used;not null;default:false" json:"used"`
}

func (t *RefreshToken) TableName() string {
	return "refresh_token"
}

// TokenPair is the credential set returned by login and refresh.
type TokenPair struct {
	AccessToken           string `json:"access_token"`
	ExpiresAt             int64  `json:"expires_at"`
	RefreshToken          string `json:"refresh_token"`
	RefreshTokenExpiresAt int64  `json:"refresh_token_expires_at"`
}
