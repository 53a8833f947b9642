package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alejandrodnm/frcbot/internal/domain"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del robot.
type Config struct {
	Robot    RobotConfig    `yaml:"robot"`
	Accounts AccountsConfig `yaml:"accounts"`
	API      APIConfig      `yaml:"api"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// RobotConfig controla el loop de decisión.
type RobotConfig struct {
	Token                 string   `yaml:"token"`
	PageSize              int      `yaml:"page_size"`
	SupplyIntervalSeconds int      `yaml:"supply_interval_seconds"`
	BuyIntervalSeconds    int      `yaml:"buy_interval_seconds"`
	CallTimeoutSeconds    int      `yaml:"call_timeout_seconds"`
	ListSumAmount         *uint64  `yaml:"list_sum_amount"` // supply mínimo; por debajo hay déficit. 0 es válido
	FloorPrices           []uint64 `yaml:"floor_prices"`
	StartPriceIndex       *int     `yaml:"start_price_index"`
}

// AccountsConfig controla el aprovisionamiento de los pools.
type AccountsConfig struct {
	Count    int    `yaml:"count"`
	MintFile string `yaml:"mint_file"`
	BuyFile  string `yaml:"buy_file"`
}

// APIConfig contiene los endpoints del exchange y del nodo.
type APIConfig struct {
	ExchangeRPC string `yaml:"exchange_rpc"`
	NodeRPC     string `yaml:"node_rpc"`
	NodeAPIPort string `yaml:"node_api_port"`
}

// StorageConfig controla dónde se persisten los datos.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// MetricsConfig controla el servidor Prometheus. Addr vacío lo desactiva.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Las variables de entorno sobreescriben los valores del YAML.
// Un YAML inexistente no es error: el robot puede configurarse solo con env.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: %w: parse YAML: %w", domain.ErrConfig, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("config.Load: %w: read %q: %w", domain.ErrConfig, path, err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	setDefaults(&cfg)

	return &cfg, nil
}

// Validate comprueba los ajustes obligatorios.
func (c *Config) Validate() error {
	var missing []string
	if c.Robot.Token == "" {
		missing = append(missing, "TOKEN")
	}
	if c.API.ExchangeRPC == "" {
		missing = append(missing, "EX_RPC")
	}
	if c.API.NodeRPC == "" {
		missing = append(missing, "NODE_RPC")
	}
	if c.API.NodeAPIPort == "" {
		missing = append(missing, "NODE_API_PORT")
	}
	if c.Robot.ListSumAmount == nil {
		missing = append(missing, "LIST_SUM_AMOUNT")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", domain.ErrConfig, strings.Join(missing, ", "))
	}

	if _, err := strconv.ParseUint(c.API.NodeAPIPort, 10, 16); err != nil {
		return fmt.Errorf("%w: NODE_API_PORT %q is not a port", domain.ErrConfig, c.API.NodeAPIPort)
	}
	if len(c.Robot.FloorPrices) == 0 {
		return fmt.Errorf("%w: floor_prices is empty", domain.ErrConfig)
	}
	if c.Robot.PageSize <= 0 {
		return fmt.Errorf("%w: page_size must be positive", domain.ErrConfig)
	}
	return nil
}

// SupplyInterval devuelve el intervalo del supply check.
func (c *Config) SupplyInterval() time.Duration {
	return time.Duration(c.Robot.SupplyIntervalSeconds) * time.Second
}

// BuyInterval devuelve el intervalo del buy check.
func (c *Config) BuyInterval() time.Duration {
	return time.Duration(c.Robot.BuyIntervalSeconds) * time.Second
}

// CallTimeout devuelve el timeout por llamada al exchange.
func (c *Config) CallTimeout() time.Duration {
	return time.Duration(c.Robot.CallTimeoutSeconds) * time.Second
}

// SumThreshold devuelve el supply mínimo (0 si no está configurado).
func (c *Config) SumThreshold() uint64 {
	if c.Robot.ListSumAmount == nil {
		return 0
	}
	return *c.Robot.ListSumAmount
}

// StartPriceIndex devuelve el índice inicial del calendario de precios suelo.
func (c *Config) StartPriceIndex() int {
	if c.Robot.StartPriceIndex == nil {
		return 1
	}
	return *c.Robot.StartPriceIndex
}

// NodeURL devuelve el endpoint del nodo como "host:port".
func (c *Config) NodeURL() string {
	return fmt.Sprintf("%s:%s", strings.TrimRight(c.API.NodeRPC, "/"), c.API.NodeAPIPort)
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("TOKEN"); v != "" {
		cfg.Robot.Token = v
	}
	if v := os.Getenv("EX_RPC"); v != "" {
		cfg.API.ExchangeRPC = v
	}
	if v := os.Getenv("NODE_RPC"); v != "" {
		cfg.API.NodeRPC = v
	}
	if v := os.Getenv("NODE_API_PORT"); v != "" {
		cfg.API.NodeAPIPort = v
	}
	if v := os.Getenv("LIST_SUM_AMOUNT"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: LIST_SUM_AMOUNT %q: %w", domain.ErrConfig, v, err)
		}
		cfg.Robot.ListSumAmount = &n
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	return nil
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Robot.PageSize <= 0 {
		cfg.Robot.PageSize = 50
	}
	if cfg.Robot.SupplyIntervalSeconds <= 0 {
		cfg.Robot.SupplyIntervalSeconds = 5
	}
	if cfg.Robot.BuyIntervalSeconds <= 0 {
		cfg.Robot.BuyIntervalSeconds = 10
	}
	if cfg.Robot.CallTimeoutSeconds <= 0 {
		cfg.Robot.CallTimeoutSeconds = 15
	}
	if len(cfg.Robot.FloorPrices) == 0 {
		cfg.Robot.FloorPrices = append([]uint64(nil), domain.DefaultFloorPrices...)
	}
	if cfg.Robot.StartPriceIndex == nil || *cfg.Robot.StartPriceIndex < 0 {
		idx := 1
		cfg.Robot.StartPriceIndex = &idx
	}
	if cfg.Accounts.Count <= 0 {
		cfg.Accounts.Count = 10
	}
	if cfg.Accounts.MintFile == "" {
		cfg.Accounts.MintFile = "accounts-mint.txt"
	}
	if cfg.Accounts.BuyFile == "" {
		cfg.Accounts.BuyFile = "accounts-buy.txt"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "frcbot.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
