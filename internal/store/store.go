// Package store archives generated reports. The archive is optional and never
// participates in computing a summary.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/bpo-report/internal/config"
	"github.com/iwvelando/bpo-report/pkg/constants"
	"github.com/iwvelando/bpo-report/pkg/optimization"
	"go.uber.org/zap"
)

// ErrNotFound is returned when no report has the requested id.
var ErrNotFound = errors.New("report not found")

// ErrDuplicate is returned when a report id is saved twice.
var ErrDuplicate = errors.New("report already exists")

const pingTimeout = 5 * time.Second

// Store persists reports and lists them newest first.
type Store interface {
	Save(ctx context.Context, report optimization.Report) error
	Get(ctx context.Context, id string) (optimization.Report, error)
	List(ctx context.Context, limit int) ([]optimization.Report, error)
	Ping(ctx context.Context) error
	Driver() string
	Close() error
}

// Open selects the archive driver from configuration. A postgres archive that
// cannot be reached falls back to an in-memory SQLite database.
func Open(ctx context.Context, logger *zap.Logger, cfg config.StoreConfig) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch driver {
	case "", constants.StoreDriverMemory:
		logger.Info("using in-memory report archive",
			zap.String("op", "store.Open"),
			zap.Int("maxRecords", cfg.MaxRecords),
		)
		return NewMemory(cfg.MaxRecords), nil

	case constants.StoreDriverSQLite:
		s, err := OpenSQL(ctx, constants.StoreDriverSQLite, cfg.DSN)
		if err != nil {
			return nil, err
		}
		logger.Info("using sqlite report archive",
			zap.String("op", "store.Open"),
			zap.String("dsn", sqliteDSN(cfg.DSN)),
		)
		return s, nil

	case constants.StoreDriverPostgres:
		s, err := OpenSQL(ctx, constants.StoreDriverPostgres, cfg.DSN)
		if err == nil {
			logger.Info("using postgres report archive", zap.String("op", "store.Open"))
			return s, nil
		}
		logger.Warn("postgres archive unavailable, falling back to in-memory sqlite",
			zap.String("op", "store.Open"),
			zap.Error(err),
		)
		fallback, err := OpenSQL(ctx, constants.StoreDriverSQLite, "")
		if err != nil {
			return nil, err
		}
		return fallback, nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
}
