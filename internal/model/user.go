package model

// swagger:model User
type User struct {
	UUIDBase
	Username string `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Password string `gorm:"size:100;not null" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserSummary is the public projection of a user.
type UserSummary struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{UserID: u.ID, Username: u.Username}
}
