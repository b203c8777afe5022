package domain

// Location describes where a user is based. Latitude and longitude are
// optional; zero values mean "not provided".
type Location struct {
	City      string  `json:"city"`
	State     string  `json:"state"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

// User represents the marketplace account as the remote service reports it.
// At most one User is cached locally at a time (the current session user).
type User struct {
	ID        int64    `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Location  Location `json:"location"`
}

// UserPatch is a partial user record, used both as the profile-update
// request payload and as its response. Nil fields were absent and must not
// overwrite the cached value.
type UserPatch struct {
	Username  *string   `json:"username,omitempty"`
	Email     *string   `json:"email,omitempty"`
	FirstName *string   `json:"first_name,omitempty"`
	LastName  *string   `json:"last_name,omitempty"`
	Location  *Location `json:"location,omitempty"`
}

// Apply shallow-merges the patch over u and returns the result.
func (p UserPatch) Apply(u User) User {
	if p.Username != nil {
		u.Username = *p.Username
	}

	if p.Email != nil {
		u.Email = *p.Email
	}

	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}

	if p.LastName != nil {
		u.LastName = *p.LastName
	}

	if p.Location != nil {
		u.Location = *p.Location
	}

	return u
}

// Credentials is the login request payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is the register request payload. Password2 is the
// confirmation field the server checks against Password.
type Registration struct {
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	Password2 string   `json:"password2"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Location  Location `json:"location"`
}
