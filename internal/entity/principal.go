package entity

// Principal is the authenticated caller identity extracted from the bearer
// token by the auth middleware. It is opaque to the core beyond id and role;
// identity provisioning belongs to an external collaborator.
type Principal struct {
	Id   string
	Role string
}
