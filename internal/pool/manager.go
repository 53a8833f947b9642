// Package pool aprovisiona los pools de cuentas mint y buy al arrancar.
package pool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alejandrodnm/frcbot/internal/domain"
	"github.com/alejandrodnm/frcbot/internal/ports"
)

// DefaultCount es el número de cuentas generadas por rol si no hay archivo.
const DefaultCount = 10

// Config contiene la configuración del aprovisionamiento.
type Config struct {
	Count    int
	MintFile string
	BuyFile  string
}

// Manager carga o genera los pools y los persiste en el store.
type Manager struct {
	cfg   Config
	gen   ports.AccountGenerator
	store ports.AccountStore
}

// New crea un Manager con las dependencias inyectadas.
func New(cfg Config, gen ports.AccountGenerator, store ports.AccountStore) *Manager {
	if cfg.Count <= 0 {
		cfg.Count = DefaultCount
	}
	return &Manager{cfg: cfg, gen: gen, store: store}
}

// Provision devuelve los dos pools listos para el scheduler.
// Cada pool sale del archivo si existe, o se genera y se escribe.
// Después ambos se persisten (de forma idempotente) en el store.
func (m *Manager) Provision(ctx context.Context) (domain.Pools, error) {
	mint, err := m.LoadOrGenerate(m.cfg.MintFile, domain.RoleMint)
	if err != nil {
		return domain.Pools{}, err
	}
	buy, err := m.LoadOrGenerate(m.cfg.BuyFile, domain.RoleBuy)
	if err != nil {
		return domain.Pools{}, err
	}

	if err := m.store.PersistAccounts(ctx, domain.RoleMint, mint); err != nil {
		return domain.Pools{}, fmt.Errorf("pool.Provision: persist mint: %w", err)
	}
	if err := m.store.PersistAccounts(ctx, domain.RoleBuy, buy); err != nil {
		return domain.Pools{}, fmt.Errorf("pool.Provision: persist buy: %w", err)
	}
	storedMint, err := m.store.CountAccounts(ctx, domain.RoleMint)
	if err != nil {
		return domain.Pools{}, fmt.Errorf("pool.Provision: count mint: %w", err)
	}
	storedBuy, err := m.store.CountAccounts(ctx, domain.RoleBuy)
	if err != nil {
		return domain.Pools{}, fmt.Errorf("pool.Provision: count buy: %w", err)
	}
	slog.Info("preparing accounts... ok",
		"mint", len(mint), "buy", len(buy),
		"stored_mint", storedMint, "stored_buy", storedBuy,
	)

	return domain.Pools{Mint: mint, Buy: buy}, nil
}

// LoadOrGenerate lee el archivo de cuentas del rol. Si no existe, genera
// cfg.Count cuentas y las escribe antes de devolverlas.
func (m *Manager) LoadOrGenerate(path string, role domain.Role) ([]domain.Account, error) {
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		accounts, err := m.parseAccounts(data)
		if err != nil {
			return nil, fmt.Errorf("pool.LoadOrGenerate: %s: %w", path, err)
		}
		slog.Info(fmt.Sprintf("reading accounts-%s... ok", role), "path", path, "count", len(accounts))
		return domain.WithRole(accounts, role), nil

	case errors.Is(err, fs.ErrNotExist):
		accounts, err := m.gen.Generate(m.cfg.Count)
		if err != nil {
			return nil, fmt.Errorf("pool.LoadOrGenerate: generate %s: %w", role, err)
		}
		if err := writeAccounts(path, accounts); err != nil {
			return nil, fmt.Errorf("pool.LoadOrGenerate: %w", err)
		}
		slog.Info(fmt.Sprintf("generating accounts-%s... ok", role), "path", path, "count", len(accounts))
		return domain.WithRole(accounts, role), nil

	default:
		return nil, fmt.Errorf("pool.LoadOrGenerate: %w: read %q: %w", domain.ErrBootstrapIO, path, err)
	}
}

// parseAccounts decodifica el array JSON, verifica cada par dirección/clave
// y descarta direcciones repetidas.
func (m *Manager) parseAccounts(data []byte) ([]domain.Account, error) {
	var raw []domain.Account
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode accounts: %w", domain.ErrParse, err)
	}

	seen := make(map[string]struct{}, len(raw))
	accounts := make([]domain.Account, 0, len(raw))
	for i, a := range raw {
		if a.Address == "" {
			return nil, fmt.Errorf("%w: account %d has no address", domain.ErrParse, i)
		}
		if err := m.gen.Verify(a); err != nil {
			return nil, fmt.Errorf("account %d: %w", i, err)
		}
		if _, dup := seen[a.Address]; dup {
			slog.Warn("duplicate account in bootstrap file, skipping", "address", a.Address)
			continue
		}
		seen[a.Address] = struct{}{}
		accounts = append(accounts, a)
	}
	return accounts, nil
}

// writeAccounts escribe el array en JSON indentado. Escribe a un temporal
// y renombra para no dejar un archivo a medias.
func writeAccounts(path string, accounts []domain.Account) error {
	data, err := json.MarshalIndent(accounts, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode accounts: %w", domain.ErrBootstrapIO, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create %q: %w", domain.ErrBootstrapIO, path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write %q: %w", domain.ErrBootstrapIO, path, err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: chmod %q: %w", domain.ErrBootstrapIO, path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %q: %w", domain.ErrBootstrapIO, path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: rename %q: %w", domain.ErrBootstrapIO, path, err)
	}
	return nil
}
