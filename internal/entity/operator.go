package entity

// OperatorLoginData is the authenticated operator attached to the request
// context by the token middleware.
type OperatorLoginData struct {
	ID       string
	Username string
}
