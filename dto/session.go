package dto

import "github.com/krishkalaria12/spot-serve/models"

type LoginRequest struct {
	Credential string `json:"credential" validate:"notblank"`
	Password   string `json:"password" validate:"required"`
}

func (LoginRequest) Messages() map[string]string {
	return map[string]string{
		"credential": "Email or username is required",
		"password":   "Password is required",
	}
}

type SignupRequest struct {
	FirstName string `json:"firstName" validate:"notblank,max=50"`
	LastName  string `json:"lastName" validate:"notblank,max=50"`
	Email     string `json:"email" validate:"required,email,max=256"`
	Username  string `json:"username" validate:"notblank,min=4,max=30,excludesall=@"`
	Password  string `json:"password" validate:"required,min=6"`
}

func (SignupRequest) Messages() map[string]string {
	return map[string]string{
		"firstName": "First Name is required",
		"lastName":  "Last Name is required",
		"email":     "Invalid email",
		"username":  "Username must be 4 to 30 characters and cannot be an email",
		"password":  "Password must be 6 characters or more",
	}
}

// SafeUser is the projection of a user that leaves the session layer.
type SafeUser struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Username  string `json:"username"`
}

func NewSafeUser(u *models.User) *SafeUser {
	if u == nil {
		return nil
	}
	return &SafeUser{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Username:  u.Username,
	}
}

// UserEnvelope always serializes the user key, as null when anonymous.
type UserEnvelope struct {
	User *SafeUser `json:"user"`
}

// Profile is the reduced user shown next to spots and reviews.
type Profile struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func NewProfile(u models.User) Profile {
	return Profile{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName}
}

type MessageResponse struct {
	Message string `json:"message"`
}
