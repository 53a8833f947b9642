package ports

import (
	"context"

	"github.com/alejandrodnm/frcbot/internal/domain"
)

// AccountStore persiste los pools de cuentas por rol.
type AccountStore interface {
	// PersistAccounts inserta las cuentas del rol. Debe ser idempotente:
	// repetir la llamada con el mismo set nunca crea duplicados.
	PersistAccounts(ctx context.Context, role domain.Role, accounts []domain.Account) error

	// CountAccounts devuelve cuántas cuentas hay guardadas para el rol.
	CountAccounts(ctx context.Context, role domain.Role) (int, error)
}

// TickStore guarda el resumen de cada tick completado.
type TickStore interface {
	SaveTick(ctx context.Context, rec domain.TickRecord) error
}
