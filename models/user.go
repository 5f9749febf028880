package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// Role enum
type Role string

const (
	RoleUser    Role = "user"
	RoleOfficer Role = "officer"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleOfficer, RoleAdmin:
		return true
	}
	return false
}

// Staff roles carry a specialization.
func (r Role) Staff() bool {
	return r == RoleOfficer || r == RoleAdmin
}

type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username       string             `bson:"username" json:"username"`
	Email          string             `bson:"email" json:"email"`
	Password       string             `bson:"password,omitempty" json:"-"`
	Role           Role               `bson:"role" json:"role"`
	Specialization Specialization     `bson:"specialization" json:"specialization"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}

func (u *User) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

func (u *User) ComparePassword(candidate string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(candidate))
	return err == nil
}

// Identity returns the resolved actor for u.
func (u *User) Identity() *Identity {
	return &Identity{
		ID:             u.ID,
		Username:       u.Username,
		Role:           u.Role,
		Specialization: u.Specialization,
	}
}

// Identity is the actor behind a request. A nil *Identity is an
// unauthenticated caller.
type Identity struct {
	ID             primitive.ObjectID
	Username       string
	Role           Role
	Specialization Specialization
}
