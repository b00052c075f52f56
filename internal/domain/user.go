package domain

// User is referenced for authorization checks and notification text only.
// Registration, credentials and sessions live outside this service.
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}
