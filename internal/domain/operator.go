package domain

// OperatorRole enumerates console operator roles.
type OperatorRole string

const (
	OperatorRoleOperator   OperatorRole = "OPERATOR"
	OperatorRoleSupervisor OperatorRole = "SUPERVISOR"
	OperatorRoleAdmin      OperatorRole = "ADMIN"
)

// Operator is a console user allowed to drive the scheduler and resolve
// notifications. Operators are seeded from configuration at startup.
type Operator struct {
	ID           string
	Email        string
	PasswordHash string
	Role         OperatorRole
}
