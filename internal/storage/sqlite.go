// Package storage содержит работу с локальной базой кеша метаданных.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"fonoteka/internal/model"
	"fonoteka/internal/storage/repository"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
	"go.uber.org/zap"
)

// MemoryDSN представляет базу в памяти для тестов и одноразовых прогонов
const MemoryDSN = "file::memory:?cache=shared"

// Store представляет подключение к базе кеша метаданных
type Store struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewStore открывает базу SQLite и готовит схему кеша
func NewStore(dsn string, logger *zap.Logger) (*Store, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// SQLite сериализует записи сам: одно соединение избавляет от SQLITE_BUSY
	// и сохраняет базу в памяти между запросами.
	sqldb.SetMaxOpenConns(1)

	// Создаем Bun DB
	db := bun.NewDB(sqldb, sqlitedialect.New())

	// Проверяем подключение с таймаутом
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	pingErr := db.PingContext(pingCtx)
	pingCancel()
	if pingErr != nil {
		if err := db.Close(); err != nil {
			logger.Warn("Failed to close database connection", zap.Error(err))
		}
		return nil, fmt.Errorf("failed to connect to sqlite database: %w", pingErr)
	}

	// Настраиваем журнал и ожидание блокировок
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
		logger.Warn("Failed to enable WAL journal mode", zap.Error(err))
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		logger.Warn("Failed to set busy timeout", zap.Error(err))
	}

	// Добавляем отладку в режиме разработки
	if logger.Core().Enabled(zap.DebugLevel) {
		db.AddQueryHook(bundebug.NewQueryHook(
			bundebug.WithVerbose(true),
			bundebug.FromEnv("BUNDEBUG"),
		))
	}

	if err := createSchema(ctx, db); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logger.Warn("Failed to close database connection", zap.Error(closeErr))
		}
		return nil, err
	}

	logger.Info("Opened metadata cache with Bun ORM")

	return &Store{
		db:     db,
		logger: logger,
	}, nil
}

// createSchema создает таблицы кеша, если их еще нет
func createSchema(ctx context.Context, db *bun.DB) error {
	tables := []interface{}{
		(*model.TrackCacheEntry)(nil),
		(*model.AlbumCacheEntry)(nil),
		(*model.PlaylistCacheEntry)(nil),
	}

	for _, table := range tables {
		if _, err := db.NewCreateTable().Model(table).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create cache table: %w", err)
		}
	}

	return nil
}

// Close закрывает соединение с базой данных
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB возвращает подключение к базе данных
func (s *Store) GetDB() *bun.DB {
	return s.db
}

// GetTrackRepository возвращает репозиторий кеша треков
func (s *Store) GetTrackRepository() model.TrackCacheRepository {
	return repository.NewTrackRepository(s.db, s.logger)
}

// GetAlbumRepository возвращает репозиторий кеша альбомов
func (s *Store) GetAlbumRepository() model.AlbumCacheRepository {
	return repository.NewAlbumRepository(s.db, s.logger)
}

// GetPlaylistRepository возвращает репозиторий кеша плейлистов
func (s *Store) GetPlaylistRepository() model.PlaylistCacheRepository {
	return repository.NewPlaylistRepository(s.db, s.logger)
}
