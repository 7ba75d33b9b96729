package models

const (
	RoleCustomer = "customer"
	RoleDriver   = "driver"
)

// Principal is the authenticated caller as reported by the auth layer.
type Principal struct {
	Name string
	Role string
}
