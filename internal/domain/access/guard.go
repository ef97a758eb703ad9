// Package access implementa las decisiones de autorización del core como
// funciones puras: (rol, empresa del solicitante, empresa objetivo) -> permitir
// o denegar con motivo. Sin estado global ni contexto implícito, para que las
// reglas sean testeables sin HTTP.
package access

import (
	"github.com/venturee/biz-api/internal/domain"
	"github.com/venturee/biz-api/internal/domain/entity"
)

// Decision resultado de una regla de autorización. No se persiste: se computa
// por request a partir de los parámetros explícitos.
type Decision struct {
	Allowed bool
	Reason  error // error de dominio que explica la denegación; nil si Allowed
}

// Allow decisión positiva.
func Allow() Decision { return Decision{Allowed: true} }

// Deny decisión negativa con motivo.
func Deny(reason error) Decision { return Decision{Allowed: false, Reason: reason} }

// TenantScope decide si el solicitante puede operar sobre la empresa objetivo.
// Reglas en orden, gana la primera que aplica:
//  1. admin de plataforma -> permitido incondicionalmente.
//  2. sin empresa objetivo -> permitido (operación sobre la propia empresa).
//  3. empresa objetivo == empresa del solicitante -> permitido.
//  4. en cualquier otro caso -> denegado (acceso cruzado entre tenants).
func TenantScope(role entity.Role, requesterCompanyID, targetCompanyID string) Decision {
	if role.IsPlatformAdmin() {
		return Allow()
	}
	if targetCompanyID == "" {
		return Allow()
	}
	if targetCompanyID == requesterCompanyID {
		return Allow()
	}
	return Deny(domain.ErrCrossTenantAccess)
}

// RequireRole decide si el rol del solicitante pertenece al conjunto permitido.
func RequireRole(role entity.Role, allowed ...entity.Role) Decision {
	for _, a := range allowed {
		if role == a {
			return Allow()
		}
	}
	return Deny(domain.ErrInsufficientRole)
}

// NotSelf deniega la operación cuando el objetivo es el propio solicitante.
// Regla de negocio: un usuario no puede borrar su propia cuenta aunque su rol
// se lo permita sobre terceros.
func NotSelf(requesterUserID, targetUserID string) Decision {
	if requesterUserID == targetUserID {
		return Deny(domain.ErrSelfDeleteForbidden)
	}
	return Allow()
}

// Chain compone reglas: devuelve la primera denegación o Allow si todas pasan.
func Chain(decisions ...Decision) Decision {
	for _, d := range decisions {
		if !d.Allowed {
			return d
		}
	}
	return Allow()
}
