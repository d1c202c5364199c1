package auth

import (
	"fmt"
	"regexp"
	"time"

	"github.com/nidhiGanpati/daily-expense-tracking-system/apperrors"
)

const (
	MAX_LENGTH_USERNAME = 50
	MAX_LENGTH_EMAIL    = 100
	MAX_PASSWORD_LENGTH = 72 // bcrypt input limit
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9](\.?[a-zA-Z0-9_%+-])*@[a-zA-Z0-9-]+(\.[a-zA-Z0-9-]+)*\.[a-zA-Z]{2,}$`)

// User is the persisted account record.
type User struct {
	ID             int64
	UserName       string
	Email          string
	PasswordHashed string
	CreatedAt      time.Time
}

// PublicUser is the session-safe projection returned to clients.
type PublicUser struct {
	ID       int64
	UserName string
	Email    string
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		UserName: u.UserName,
		Email:    u.Email,
	}
}

// NewUser carries a registration request before hashing.
type NewUser struct {
	UserName      string
	Email         string
	PasswordPlain string
}

func (newUser NewUser) Validate() error {
	if newUser.UserName == "" {
		return fmt.Errorf("%w: username cannot be empty", apperrors.ErrInvalidInput)
	}
	if len(newUser.UserName) > MAX_LENGTH_USERNAME {
		return fmt.Errorf("%w: username so long, maximum length is %d", apperrors.ErrInvalidInput, MAX_LENGTH_USERNAME)
	}
	if newUser.Email == "" {
		return fmt.Errorf("%w: email cannot be empty", apperrors.ErrInvalidInput)
	}
	if len(newUser.Email) > MAX_LENGTH_EMAIL {
		return fmt.Errorf("%w: email so long, maximum length is %d", apperrors.ErrInvalidInput, MAX_LENGTH_EMAIL)
	}
	if !emailRegex.MatchString(newUser.Email) {
		return fmt.Errorf("%w: invalid email format, example valid email: john.doe@gmail.com", apperrors.ErrInvalidInput)
	}
	if newUser.PasswordPlain == "" {
		return fmt.Errorf("%w: password cannot be empty", apperrors.ErrInvalidInput)
	}
	if len(newUser.PasswordPlain) > MAX_PASSWORD_LENGTH {
		return fmt.Errorf("%w: password so long, maximum length is %d", apperrors.ErrInvalidInput, MAX_PASSWORD_LENGTH)
	}
	return nil
}

// Credentials is a login attempt with the plain password still present.
type Credentials struct {
	Email         string
	PasswordPlain string
}

// Session maps an opaque token to a user on the server side.
type Session struct {
	ID        string
	Token     string
	UserID    int64
	CreatedAt time.Time
	ExpireAt  time.Time
}
