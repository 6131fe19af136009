package domain

import "time"

// Role enumerates the three access levels a user can hold, exactly one at a time.
type Role string

const (
	RoleCitizen Role = "citizen"
	RoleWorker  Role = "worker"
	RoleAdmin   Role = "admin"
)

// Valid reports whether the role is one of the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleWorker, RoleAdmin:
		return true
	}
	return false
}

// User is the domain model for anyone who interacts with the service.
// Role is mutated only through the directory service; users are never
// hard-deleted.
type User struct {
	ID                   string
	Name                 string
	Email                string
	PasswordHash         string
	Mobile               string
	Address              string
	Role                 Role
	WorkerRequestPending bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
