package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fulfillment-api/internal/application/dto"
)

// Permisos conocidos por la API. Se asignan en el token JWT al autenticar.
const (
	PermAllocateWrite    = "allocate:write"
	PermFulfillmentWrite = "fulfillment:write"
	PermInventoryRead    = "inventory:read"
)

// RequirePermission devuelve un middleware Fiber que exige un permiso del token.
// Debe usarse DESPUÉS de AuthMiddleware (necesita LocalPermissions).
//
// Comportamiento:
//   - 401 Unauthorized → no hay user_id en el contexto (token ausente o roto).
//   - 403 Forbidden    → el token no incluye el permiso requerido.
func RequirePermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetActorID(c) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "user_id no encontrado en el token",
			})
		}

		for _, p := range GetPermissions(c) {
			if p == permission {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Code:    "FORBIDDEN",
			Message: "el permiso '" + permission + "' es requerido para esta operación",
		})
	}
}
