package domain

// Token is the backend's auth response.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Credentials is the persisted session state: the bearer token and the
// display username. Both fields are set and cleared together.
type Credentials struct {
	Token    string `json:"access_token"`
	Username string `json:"username"`
}

// Valid reports whether both fields are present.
func (c Credentials) Valid() bool {
	return c.Token != "" && c.Username != ""
}
