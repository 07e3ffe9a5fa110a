package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User represents a registered account.
type User struct {
	ID             bson.ObjectID `bson:"_id,omitempty"`
	FirstName      string        `bson:"first_name"`
	LastName       string        `bson:"last_name"`
	Email          string        `bson:"email"`
	PasswordHash   string        `bson:"password_hash"`
	EmailConfirmed bool          `bson:"email_confirmed"`
	CreatedAt      time.Time     `bson:"created_at"`
	UpdatedAt      time.Time     `bson:"updated_at"`
}

// Profile is the client-facing view of a User, without the password hash.
type Profile struct {
	UserID         string `json:"userid"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	EmailConfirmed bool   `json:"confirmedEmail"`
}

// Profile returns the client-facing view of the user.
func (u *User) Profile() Profile {
	return Profile{
		UserID:         u.ID.Hex(),
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		EmailConfirmed: u.EmailConfirmed,
	}
}
