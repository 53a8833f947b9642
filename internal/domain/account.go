package domain

import "fmt"

// Role es la función de un pool de cuentas.
type Role int

const (
	RoleMint Role = 1
	RoleBuy  Role = 2
)

// String devuelve el nombre legible del rol.
func (r Role) String() string {
	switch r {
	case RoleMint:
		return "mint"
	case RoleBuy:
		return "buy"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Valid reporta si el rol es uno de los conocidos.
func (r Role) Valid() bool {
	return r == RoleMint || r == RoleBuy
}

// Account es una cuenta del robot. El rol no se serializa en el archivo de
// bootstrap: cada archivo contiene un solo rol.
type Account struct {
	Address string `json:"address"`
	Key     string `json:"key"`
	Role    Role   `json:"-"`
}

// WithRole devuelve una copia de las cuentas etiquetadas con el rol dado.
func WithRole(accounts []Account, role Role) []Account {
	out := make([]Account, len(accounts))
	for i, a := range accounts {
		a.Role = role
		out[i] = a
	}
	return out
}

// Pools agrupa los dos pools de cuentas entregados al scheduler.
type Pools struct {
	Mint []Account
	Buy  []Account
}

// Pick elige la cuenta en la posición idx (módulo el tamaño del pool).
// Devuelve false si el pool está vacío.
func Pick(pool []Account, idx int) (Account, bool) {
	if len(pool) == 0 {
		return Account{}, false
	}
	if idx < 0 {
		idx = -idx
	}
	return pool[idx%len(pool)], true
}
