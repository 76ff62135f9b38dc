package user

import (
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

var (
	ErrNotFound   = httperr.Missing("user_not_found", "Usuário não encontrado.")
	ErrEmailTaken = httperr.Conflict(
		"email_taken",
		"Este e-mail já está associado a uma conta. Por favor, tente fazer login ou utilize um e-mail diferente para se cadastrar.",
	)
	ErrAdministratorOnly = httperr.NotAllowed(
		"role_not_allowed",
		"Apenas administradores podem cadastrar outros administradores.",
	)
)

var roles = map[string]bool{
	models.RolePatient:       true,
	models.RoleProfessional:  true,
	models.RoleAdministrator: true,
}

func ValidRole(role string) bool {
	return roles[role]
}

// CanAssign reports whether a caller with actorRole may create an account
// with role. Anonymous callers have an empty actorRole.
func CanAssign(actorRole, role string) bool {
	if role == models.RoleAdministrator {
		return actorRole == models.RoleAdministrator
	}
	return true
}
