package domain

import "time"

// User es el registro de identidad persistido en Mongo. El hash de la
// contraseña vive en el campo bson "password" y nunca se serializa a JSON.
type User struct {
	ID           string    `bson:"_id" json:"id"`
	Username     string    `bson:"username" json:"username"`
	Email        string    `bson:"email" json:"email"`
	PhoneNumber  string    `bson:"phoneNumber" json:"phoneNumber"`
	PasswordHash string    `bson:"password" json:"-"`
	DOB          string    `bson:"dob" json:"dob"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

// UserSummary es la vista reducida que devuelve el login.
type UserSummary struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// PublicUser es la vista para listados y consultas por id: sin contraseña,
// sin dob y sin teléfono.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (u User) Summary() UserSummary {
	return UserSummary{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
	}
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}
