package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// RunRecord 是一次回测/寻优运行的持久化记录。
// SharpeRatio 为 NaN 时落库为 NULL。
type RunRecord struct {
	ID          int64
	DateCreated time.Time
	Name        string
	Parameters  map[string]float64
	TotalReturn float64
	SharpeRatio float64
	MaxDrawdown float64
	Tickers     []string
	StartDate   time.Time
	EndDate     time.Time
}

// SaveRun 写入一条运行记录并返回其自增ID。
func (s *Store) SaveRun(ctx context.Context, rec RunRecord) (int64, error) {
	if rec.DateCreated.IsZero() {
		rec.DateCreated = time.Now().UTC()
	}
	if rec.Parameters == nil {
		rec.Parameters = map[string]float64{}
	}
	if rec.Tickers == nil {
		rec.Tickers = []string{}
	}

	paramsJSON, err := json.Marshal(rec.Parameters)
	if err != nil {
		return 0, fmt.Errorf("序列化参数失败: %w", err)
	}
	tickersJSON, err := json.Marshal(rec.Tickers)
	if err != nil {
		return 0, fmt.Errorf("序列化标的列表失败: %w", err)
	}

	sharpe := sql.NullFloat64{Float64: rec.SharpeRatio, Valid: !math.IsNaN(rec.SharpeRatio)}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO strategies
			(date_created, name, parameters, total_return, sharpe_ratio, max_drawdown, tickers, start_date, end_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.DateCreated, rec.Name, string(paramsJSON), rec.TotalReturn, sharpe,
		rec.MaxDrawdown, string(tickersJSON),
		rec.StartDate.Format("2006-01-02"), rec.EndDate.Format("2006-01-02"),
	)
	if err != nil {
		return 0, fmt.Errorf("写入运行记录失败: %w", err)
	}
	return result.LastInsertId()
}

// ListRuns 按创建时间倒序返回最近 limit 条运行记录。
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date_created, name, parameters, total_return, sharpe_ratio, max_drawdown, tickers, start_date, end_date
		 FROM strategies ORDER BY date_created DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("查询运行记录失败: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var (
			rec         RunRecord
			paramsJSON  string
			tickersJSON string
			sharpe      sql.NullFloat64
		)
		// DATE/TIMESTAMP 列由驱动直接转换为 time.Time。
		if err := rows.Scan(&rec.ID, &rec.DateCreated, &rec.Name, &paramsJSON,
			&rec.TotalReturn, &sharpe, &rec.MaxDrawdown, &tickersJSON, &rec.StartDate, &rec.EndDate); err != nil {
			return nil, fmt.Errorf("扫描运行记录失败: %w", err)
		}
		if err := json.Unmarshal([]byte(paramsJSON), &rec.Parameters); err != nil {
			return nil, fmt.Errorf("解析参数失败: %w", err)
		}
		if err := json.Unmarshal([]byte(tickersJSON), &rec.Tickers); err != nil {
			return nil, fmt.Errorf("解析标的列表失败: %w", err)
		}
		if sharpe.Valid {
			rec.SharpeRatio = sharpe.Float64
		} else {
			rec.SharpeRatio = math.NaN()
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear 清空全部运行记录并重建数据表，操作不可恢复。
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS strategies"); err != nil {
		return fmt.Errorf("删除数据表失败: %w", err)
	}
	return s.migrate()
}
