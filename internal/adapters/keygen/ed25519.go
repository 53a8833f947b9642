// Package keygen genera cuentas nuevas para los pools del robot.
package keygen

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/alejandrodnm/frcbot/internal/domain"
	"github.com/mr-tron/base58"
)

// Ed25519 implementa ports.AccountGenerator con claves ed25519.
// La dirección es la clave pública en base58; Key es la semilla en hex.
type Ed25519 struct {
	rand io.Reader
}

// NewEd25519 crea un generador. Si rand es nil usa crypto/rand.
func NewEd25519(rand io.Reader) *Ed25519 {
	return &Ed25519{rand: rand}
}

// Generate crea n cuentas nuevas.
func (g *Ed25519) Generate(n int) ([]domain.Account, error) {
	if n < 0 {
		return nil, fmt.Errorf("keygen.Generate: negative count %d", n)
	}
	out := make([]domain.Account, 0, n)
	for i := 0; i < n; i++ {
		pub, priv, err := ed25519.GenerateKey(g.rand)
		if err != nil {
			return nil, fmt.Errorf("keygen.Generate: account %d: %w", i, err)
		}
		out = append(out, domain.Account{
			Address: base58.Encode(pub),
			Key:     hex.EncodeToString(priv.Seed()),
		})
	}
	return out, nil
}

// Verify comprueba que a.Address es la dirección derivada de a.Key.
func (g *Ed25519) Verify(a domain.Account) error {
	addr, err := AddressFromKey(a.Key)
	if err != nil {
		return fmt.Errorf("keygen.Verify: %s: %w", a.Address, err)
	}
	if addr != a.Address {
		return fmt.Errorf("keygen.Verify: %w: key does not match address %s", domain.ErrParse, a.Address)
	}
	return nil
}

// AddressFromKey recalcula la dirección a partir de la semilla en hex.
func AddressFromKey(key string) (string, error) {
	seed, err := hex.DecodeString(key)
	if err != nil {
		return "", fmt.Errorf("keygen.AddressFromKey: %w: %w", domain.ErrParse, err)
	}
	if len(seed) != ed25519.SeedSize {
		return "", fmt.Errorf("keygen.AddressFromKey: %w: seed has %d bytes", domain.ErrParse, len(seed))
	}
	pub := ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey)
	return base58.Encode(pub), nil
}
