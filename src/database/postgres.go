package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"tradercat/src/market"
)

// PostgresDB PostgreSQL数据库连接
type PostgresDB struct {
	db *sql.DB
}

// CandleRecord K线数据记录
type CandleRecord struct {
	ID        int64           `json:"id"`
	Symbol    string          `json:"symbol"`
	Timeframe string          `json:"timeframe"`
	OpenTime  int64           `json:"open_time"` // 毫秒时间戳
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	Volume    decimal.Decimal `json:"volume"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ToCandle 转换为策略层使用的K线
func (r *CandleRecord) ToCandle() market.Candle {
	return market.Candle{
		Timestamp: time.UnixMilli(r.OpenTime).UTC(),
		Open:      r.Open.InexactFloat64(),
		High:      r.High.InexactFloat64(),
		Low:       r.Low.InexactFloat64(),
		Close:     r.Close.InexactFloat64(),
		Volume:    r.Volume.InexactFloat64(),
	}
}

// RecordFromCandle 由策略层K线构造存储记录
func RecordFromCandle(symbol, timeframe string, c market.Candle) *CandleRecord {
	return &CandleRecord{
		Symbol:    symbol,
		Timeframe: timeframe,
		OpenTime:  c.Timestamp.UnixMilli(),
		Open:      decimal.NewFromFloat(c.Open),
		High:      decimal.NewFromFloat(c.High),
		Low:       decimal.NewFromFloat(c.Low),
		Close:     decimal.NewFromFloat(c.Close),
		Volume:    decimal.NewFromFloat(c.Volume),
	}
}

// NewPostgresDB 创建PostgreSQL数据库连接
func NewPostgresDB(cfg DatabaseConfig) (*PostgresDB, error) {
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}

	psqlInfo := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, sslmode)

	db, err := sql.Open("postgres", psqlInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &PostgresDB{db: db}, nil
}

// Close 关闭数据库连接
func (p *PostgresDB) Close() error {
	return p.db.Close()
}

// InitSchema 初始化K线表结构
func (p *PostgresDB) InitSchema(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS candles (
			id BIGSERIAL PRIMARY KEY,
			symbol VARCHAR(32) NOT NULL,
			timeframe VARCHAR(8) NOT NULL,
			open_time BIGINT NOT NULL,
			open NUMERIC(30, 10) NOT NULL,
			high NUMERIC(30, 10) NOT NULL,
			low NUMERIC(30, 10) NOT NULL,
			close NUMERIC(30, 10) NOT NULL,
			volume NUMERIC(30, 10) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (symbol, timeframe, open_time)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create candles table: %w", err)
	}
	return nil
}

// SaveCandles 批量保存K线数据，按(symbol, timeframe, open_time)幂等
func (p *PostgresDB) SaveCandles(ctx context.Context, records []*CandleRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO candles (
			symbol, timeframe, open_time, open, high, low, close, volume
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (symbol, timeframe, open_time)
		DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			volume = EXCLUDED.volume,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err = stmt.ExecContext(ctx,
			r.Symbol, r.Timeframe, r.OpenTime,
			r.Open, r.High, r.Low, r.Close, r.Volume,
		)
		if err != nil {
			return fmt.Errorf("failed to insert candle: %w", err)
		}
	}

	return tx.Commit()
}

// GetCandles 获取最新limit条K线，按open_time升序返回
func (p *PostgresDB) GetCandles(ctx context.Context, symbol, timeframe string, limit int) ([]*CandleRecord, error) {
	query := `
		SELECT open_time, open, high, low, close, volume
		FROM (
			SELECT open_time, open, high, low, close, volume
			FROM candles
			WHERE symbol = $1 AND timeframe = $2
			ORDER BY open_time DESC
			LIMIT $3
		) latest
		ORDER BY open_time ASC
	`

	rows, err := p.db.QueryContext(ctx, query, symbol, timeframe, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query candles: %w", err)
	}
	defer rows.Close()

	var records []*CandleRecord
	for rows.Next() {
		r := &CandleRecord{Symbol: symbol, Timeframe: timeframe}
		err := rows.Scan(&r.OpenTime, &r.Open, &r.High, &r.Low, &r.Close, &r.Volume)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candle: %w", err)
		}
		records = append(records, r)
	}

	return records, rows.Err()
}

// GetLatestOpenTime 获取最新K线的open_time，无数据时返回0
func (p *PostgresDB) GetLatestOpenTime(ctx context.Context, symbol, timeframe string) (int64, error) {
	var openTime sql.NullInt64

	err := p.db.QueryRowContext(ctx, `
		SELECT MAX(open_time) FROM candles WHERE symbol = $1 AND timeframe = $2
	`, symbol, timeframe).Scan(&openTime)
	if err != nil {
		return 0, fmt.Errorf("failed to query latest open time: %w", err)
	}

	if !openTime.Valid {
		return 0, nil
	}
	return openTime.Int64, nil
}
