package session

import (
	"errors"
	"strings"
)

// Role is a supply-chain participant type, lower case on the client.
type Role string

const (
	RoleFarmer      Role = "farmer"
	RoleDistributor Role = "distributor"
	RoleRetailer    Role = "retailer"
)

var (
	ErrInvalidRole = errors.New("session: invalid role")
	ErrNotJWT      = errors.New("session: token is not a JWT")
)

// ParseRole accepts a role in any case.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleFarmer, RoleDistributor, RoleRetailer:
		return r, nil
	default:
		return "", ErrInvalidRole
	}
}

// Wire is the upper-case form the backend expects on sign-up.
func (r Role) Wire() string { return strings.ToUpper(string(r)) }

// Identity is the signed-in user as held between runs.
type Identity struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Role          Role   `json:"role"`
	CreatedAt     string `json:"created_at"`
	FarmerID      string `json:"farmer_id,omitempty"`
	DistributorID string `json:"distributor_id,omitempty"`
	Name          string `json:"name"`
	Location      string `json:"location"`
}
