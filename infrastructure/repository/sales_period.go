package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

const (
	salesPeriodsTable = "sales_periods"
	salesRecordsTable = "sales_records"

	// insertBatchSize mantém o número de parâmetros abaixo do limite do Postgres
	insertBatchSize = 1000
)

type salesPeriodRepository struct {
	conn     *postgres.Connection
	location *time.Location
}

// NewSalesPeriodRepository cria o armazenamento em Postgres.
// O horário das vendas é gravado como hora local do fuso informado.
func NewSalesPeriodRepository(conn *postgres.Connection, location *time.Location) PeriodStore {
	if location == nil {
		location = time.UTC
	}
	return &salesPeriodRepository{
		conn:     conn,
		location: location,
	}
}

func (r *salesPeriodRepository) Put(period domain.Period, dataset *domain.PeriodDataset) error {
	var records []domain.SalesRecord
	if dataset != nil {
		records = dataset.Records
	}

	err := r.conn.RunInTransaction(context.Background(), func(tx *sql.Tx) error {
		upsert, args, err := squirrel.
			Insert(salesPeriodsTable).
			Columns("period_key", "month", "year", "record_count").
			Values(period.Key(), period.Month, period.Year, len(records)).
			Suffix(`ON CONFLICT (period_key) DO UPDATE SET
				record_count = EXCLUDED.record_count,
				updated_at = CURRENT_TIMESTAMP`).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("erro ao construir a query: %w", err)
		}
		if _, err := tx.Exec(upsert, args...); err != nil {
			return fmt.Errorf("erro ao gravar período: %w", err)
		}

		deleteQuery, args, err := squirrel.
			Delete(salesRecordsTable).
			Where(squirrel.Eq{"period_key": period.Key()}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("erro ao construir a query: %w", err)
		}
		if _, err := tx.Exec(deleteQuery, args...); err != nil {
			return fmt.Errorf("erro ao remover vendas anteriores: %w", err)
		}

		for start := 0; start < len(records); start += insertBatchSize {
			end := min(start+insertBatchSize, len(records))
			if err := r.insertRecords(tx, period, start, records[start:end]); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreFailure, err)
	}

	log.L.WithField("period", period.Key()).Debugf("Período gravado com %d vendas", len(records))
	return nil
}

func (r *salesPeriodRepository) insertRecords(tx postgres.Queryer, period domain.Period, offset int, records []domain.SalesRecord) error {
	query := squirrel.
		Insert(salesRecordsTable).
		Columns("period_key", "position", "amount", "payment_method", "terminal_type", "pdv", "serial", "occurred_at").
		PlaceholderFormat(squirrel.Dollar)

	for i, record := range records {
		query = query.Values(
			period.Key(),
			offset+i,
			record.Amount.String(),
			string(record.PaymentMethod),
			record.TerminalType,
			record.PDV,
			record.Serial,
			r.wallClock(record.Timestamp),
		)
	}

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir query de inserção: %w", err)
	}

	if _, err := tx.Exec(sqlQuery, args...); err != nil {
		return fmt.Errorf("erro ao executar query de inserção: %w", err)
	}

	return nil
}

func (r *salesPeriodRepository) Get(period domain.Period) (*domain.PeriodDataset, error) {
	exists, err := r.periodExists(period)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrPeriodNotFound, period.Key())
	}

	query, args, err := squirrel.
		Select("amount", "payment_method", "terminal_type", "pdv", "serial", "occurred_at").
		From(salesRecordsTable).
		Where(squirrel.Eq{"period_key": period.Key()}).
		OrderBy("position ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: erro ao executar a query: %w", domain.ErrStoreFailure, err)
	}
	defer rows.Close()

	records := make([]domain.SalesRecord, 0)
	for rows.Next() {
		record, err := r.scanSalesRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: erro ao escanear venda: %w", domain.ErrStoreFailure, err)
		}
		records = append(records, *record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: erro durante a iteração de linhas: %w", domain.ErrStoreFailure, err)
	}

	return domain.NewPeriodDataset(period, records), nil
}

func (r *salesPeriodRepository) periodExists(period domain.Period) (bool, error) {
	query, args, err := squirrel.
		Select("1").
		From(salesPeriodsTable).
		Where(squirrel.Eq{"period_key": period.Key()}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var found int
	if err := r.conn.QueryRow(query, args...).Scan(&found); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %w", domain.ErrStoreFailure, err)
	}

	return true, nil
}

func (r *salesPeriodRepository) Delete(period domain.Period) error {
	query, args, err := squirrel.
		Delete(salesPeriodsTable).
		Where(squirrel.Eq{"period_key": period.Key()}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("%w: erro ao remover período: %w", domain.ErrStoreFailure, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreFailure, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrPeriodNotFound, period.Key())
	}

	return nil
}

func (r *salesPeriodRepository) ListKeys() ([]domain.Period, error) {
	query, args, err := squirrel.
		Select("period_key").
		From(salesPeriodsTable).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: erro ao executar a query: %w", domain.ErrStoreFailure, err)
	}
	defer rows.Close()

	periods := make([]domain.Period, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrStoreFailure, err)
		}

		period, err := domain.ParsePeriodKey(key)
		if err != nil {
			log.L.WithField("period", key).Warn("Chave de período fora do padrão ignorada")
			continue
		}
		periods = append(periods, period)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreFailure, err)
	}

	domain.SortPeriods(periods)
	return periods, nil
}

func (r *salesPeriodRepository) scanSalesRecord(rows *sql.Rows) (*domain.SalesRecord, error) {
	var (
		amount        string
		paymentMethod string
		occurredAt    sql.NullTime
	)

	record := &domain.SalesRecord{}
	err := rows.Scan(
		&amount,
		&paymentMethod,
		&record.TerminalType,
		&record.PDV,
		&record.Serial,
		&occurredAt,
	)
	if err != nil {
		return nil, err
	}

	record.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, err
	}
	record.PaymentMethod = domain.PaymentMethod(paymentMethod)

	if occurredAt.Valid {
		local := r.fromWallClock(occurredAt.Time)
		record.Timestamp = &local
	}

	return record, nil
}

// wallClock grava a hora local sem fuso, já que a coluna é TIMESTAMP sem time zone
func (r *salesPeriodRepository) wallClock(ts *time.Time) interface{} {
	if ts == nil || ts.IsZero() {
		return nil
	}
	local := ts.In(r.location)
	return time.Date(local.Year(), local.Month(), local.Day(),
		local.Hour(), local.Minute(), local.Second(), local.Nanosecond(), time.UTC)
}

func (r *salesPeriodRepository) fromWallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(),
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), r.location)
}
