package ports

import "github.com/alejandrodnm/frcbot/internal/domain"

// AccountGenerator genera material de claves para cuentas nuevas.
type AccountGenerator interface {
	Generate(n int) ([]domain.Account, error)

	// Verify comprueba que la dirección corresponde a la clave.
	// Un desajuste devuelve un error que envuelve domain.ErrParse.
	Verify(a domain.Account) error
}
