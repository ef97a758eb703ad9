package entity

import "time"

// Role rol de un usuario. Enumeración cerrada: agregar un rol nuevo obliga a
// extender DefaultPermissions (el switch es exhaustivo sobre estas constantes).
type Role string

// Roles válidos para User.
const (
	RoleAdmin        Role = "admin"         // administrador de plataforma, no pertenece a ningún tenant funcionalmente
	RoleCompanyAdmin Role = "company-admin" // administrador de su empresa
	RoleStaff        Role = "staff"
	RoleViewer       Role = "viewer"
)

// Valid informa si el rol es uno de los conocidos.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCompanyAdmin, RoleStaff, RoleViewer:
		return true
	}
	return false
}

// IsPlatformAdmin informa si el rol es el de administrador de plataforma
// (salta el aislamiento por tenant).
func (r Role) IsPlatformAdmin() bool {
	return r == RoleAdmin
}

// Claves de permisos granulares (mapa disperso en users.permissions).
const (
	PermPOSAccess            = "pos_access"
	PermPOSCreateTransaction = "pos_create_transaction"
	PermPOSEditTransaction   = "pos_edit_transaction"
	PermPOSDeleteTransaction = "pos_delete_transaction"
	PermInventoryAccess      = "inventory_access"
	PermInventoryCreate      = "inventory_create"
	PermInventoryEdit        = "inventory_edit"
	PermInventoryDelete      = "inventory_delete"
	PermReportsAccess        = "reports_access"
	PermReportsGenerate      = "reports_generate"
	PermUsersManage          = "users_manage"
)

// DefaultPermissions devuelve el set de permisos por defecto para un rol.
// Construido en tiempo de definición, no por coincidencia de strings.
func DefaultPermissions(r Role) map[string]bool {
	switch r {
	case RoleAdmin, RoleCompanyAdmin:
		return map[string]bool{
			PermPOSAccess:            true,
			PermPOSCreateTransaction: true,
			PermPOSEditTransaction:   true,
			PermPOSDeleteTransaction: true,
			PermInventoryAccess:      true,
			PermInventoryCreate:      true,
			PermInventoryEdit:        true,
			PermInventoryDelete:      true,
			PermReportsAccess:        true,
			PermReportsGenerate:      true,
			PermUsersManage:          true,
		}
	case RoleStaff:
		return map[string]bool{
			PermPOSAccess:            true,
			PermPOSCreateTransaction: true,
			PermInventoryAccess:      true,
			PermReportsAccess:        true,
		}
	case RoleViewer:
		return map[string]bool{
			PermReportsAccess: true,
		}
	default:
		return map[string]bool{
			PermPOSAccess:       false,
			PermInventoryAccess: false,
			PermReportsAccess:   false,
		}
	}
}

// User representa un usuario del sistema (pertenece a una Company; CompanyID es
// inmutable después de la creación).
type User struct {
	ID           string
	CompanyID    string
	Email        string // único entre usuarios no borrados, se guarda en minúsculas
	PasswordHash string // bcrypt, nunca en claro en dominio después de persistir
	FirstName    string
	LastName     string
	Phone        string
	Role         Role
	Permissions  map[string]bool // mapa disperso capability -> bool
	IsActive     bool
	IsDeleted    bool // soft delete: un usuario borrado no puede autenticarse
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
