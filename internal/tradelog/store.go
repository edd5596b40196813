package tradelog

import (
	"context"
	"time"

	"crypto-dashboard-go/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ClearConfirmation is the token ClearAll demands. Requiring the caller to
// pass the exact constant makes a single accidental call unable to wipe
// the log.
type ClearConfirmation string

// ConfirmClear is the only token ClearAll accepts.
const ConfirmClear ClearConfirmation = "DELETE-ALL-TRADES"

// Store owns the durable trade log. It is the sole owner of the persisted
// collection; callers hold only transient copies for display and filtering.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewStore creates a trade log store backed by the given database.
func NewStore(db *gorm.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger.Named("tradelog")}
}

// Append persists a new entry and returns its assigned identity. The row
// is written in a single transaction, so a reader never observes a partial
// append.
func (s *Store) Append(ctx context.Context, entry *models.TradeLogEntry) (uint, error) {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		s.logger.Error("Failed to append trade log entry", zap.Error(err))
		return 0, &PersistenceError{Op: "append", Err: err}
	}
	s.logger.Info("Appended trade log entry",
		zap.Uint("id", entry.ID),
		zap.String("coin", entry.Coin),
		zap.Float64("net_pnl", entry.NetPnL),
	)
	return entry.ID, nil
}

// Filter narrows a List query. Zero-valued fields match everything, so the
// zero Filter lists the whole log.
type Filter struct {
	DateFrom *time.Time
	DateTo   *time.Time
	Coin     string
	Status   string
}

// List returns entries matching the filter in insertion order. An empty
// result is not an error.
func (s *Store) List(ctx context.Context, f Filter) ([]models.TradeLogEntry, error) {
	q := s.db.WithContext(ctx).Order("id asc")
	if f.DateFrom != nil {
		q = q.Where("date >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("date <= ?", *f.DateTo)
	}
	if f.Coin != "" {
		q = q.Where("coin = ?", f.Coin)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var entries []models.TradeLogEntry
	if err := q.Find(&entries).Error; err != nil {
		return nil, &PersistenceError{Op: "list", Err: err}
	}
	return entries, nil
}

// ClearAll permanently deletes every entry. The confirmation token must be
// ConfirmClear; any other value deletes nothing and returns a
// ValidationError.
func (s *Store) ClearAll(ctx context.Context, confirm ClearConfirmation) error {
	if confirm != ConfirmClear {
		return &ValidationError{Msg: "clear requires the confirmation token"}
	}
	if err := s.db.WithContext(ctx).Unscoped().Where("1 = 1").Delete(&models.TradeLogEntry{}).Error; err != nil {
		s.logger.Error("Failed to clear trade log", zap.Error(err))
		return &PersistenceError{Op: "clear", Err: err}
	}
	s.logger.Warn("Trade log cleared")
	return nil
}
