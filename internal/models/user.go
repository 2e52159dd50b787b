package models

// CreatedAtLayout is the format of User.CreatedAt.
const CreatedAtLayout = "2006-01-02 15:04:05"

// User is a stored user record. PasswordHash never leaves the service;
// callers get a PublicUser instead.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	CreatedAt    string `json:"createdAt"`
}

// PublicUser is the redacted view of a User returned to callers.
type PublicUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

// Public strips the password hash.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
