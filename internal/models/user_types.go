package models

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Roles
const (
	RoleUser          = "User"
	RoleAdministrator = "Administrator"
)

// User is the customer/staff account. UserName is the sign-in name (the email)
// and doubles as the cart identifier once the user is signed in.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	UserName     string    `json:"userName" gorm:"size:256;uniqueIndex"`
	Email        string    `json:"email" gorm:"size:256"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName"`
	MiddleName   string    `json:"middleName,omitempty"`
	Surname      string    `json:"surname"`
	PhoneNumber  *string   `json:"phoneNumber,omitempty"`
	Role         string    `json:"role" gorm:"size:32"`
	CreatedAt    time.Time `json:"createdAt"`
}

// HasPhone reports whether an SMS can be sent to the user.
func (u *User) HasPhone() bool {
	return u.PhoneNumber != nil && *u.PhoneNumber != ""
}

// Password Helper (Standard)
type Password struct {
	Plaintext *string
	Hash      string
}

func (p *Password) Set(plaintextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.Hash = string(hash)
	p.Plaintext = &plaintextPassword
	return nil
}

func (p *Password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(p.Hash), []byte(plaintextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
