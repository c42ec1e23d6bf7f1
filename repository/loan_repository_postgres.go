package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"sanasa-loans/domain"
)

const createApplicationsTable = `
CREATE TABLE IF NOT EXISTS loan_applications (
	id                 UUID PRIMARY KEY,
	application_number TEXT NOT NULL UNIQUE,
	status             TEXT NOT NULL,
	created_at         TIMESTAMPTZ NOT NULL,
	updated_at         TIMESTAMPTZ NOT NULL,
	document           JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS loan_applications_status_created_idx
	ON loan_applications (status, created_at DESC);
`

// LoanApplicationPostgres stores applications as JSONB documents, keeping the
// columns used for lookups and ordering alongside.
type LoanApplicationPostgres struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

var _ LoanApplicationRepository = (*LoanApplicationPostgres)(nil)

func NewLoanApplicationPostgres(pool *pgxpool.Pool, logger *zap.Logger) *LoanApplicationPostgres {
	return &LoanApplicationPostgres{pool: pool, logger: logger}
}

// ConnectPostgres opens a connection pool and makes sure the applications
// table exists.
func ConnectPostgres(ctx context.Context, databaseURL string, logger *zap.Logger) (*LoanApplicationPostgres, error) {
	pool, err := pgxpool.Connect(ctx, databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to postgres")
	}
	if _, err := pool.Exec(ctx, createApplicationsTable); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "failed to create loan_applications table")
	}
	logger.Info("connected to postgres")
	return NewLoanApplicationPostgres(pool, logger), nil
}

func (r *LoanApplicationPostgres) Close() {
	r.pool.Close()
}

func (r *LoanApplicationPostgres) Create(ctx context.Context, app domain.LoanApplication) (domain.LoanApplication, error) {
	doc, err := json.Marshal(app)
	if err != nil {
		return domain.LoanApplication{}, errors.Wrap(err, "failed to encode loan application")
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO loan_applications (id, application_number, status, created_at, updated_at, document)
		 VALUES ($1, $2, $3, $4, $5, $6::jsonb)`,
		app.ID, app.ApplicationNumber, app.Status, app.CreatedAt, app.UpdatedAt, string(doc),
	)
	if err != nil {
		return domain.LoanApplication{}, errors.Wrapf(err, "failed to insert loan application %s", app.ApplicationNumber)
	}
	r.logger.Debug("inserted loan application", zap.String("applicationNumber", app.ApplicationNumber))
	return app, nil
}

func (r *LoanApplicationPostgres) Update(ctx context.Context, app domain.LoanApplication) (domain.LoanApplication, error) {
	doc, err := json.Marshal(app)
	if err != nil {
		return domain.LoanApplication{}, errors.Wrap(err, "failed to encode loan application")
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE loan_applications SET status = $2, updated_at = $3, document = $4::jsonb WHERE id = $1`,
		app.ID, app.Status, app.UpdatedAt, string(doc),
	)
	if err != nil {
		return domain.LoanApplication{}, errors.Wrapf(err, "failed to update loan application %s", app.ID)
	}
	if tag.RowsAffected() == 0 {
		return domain.LoanApplication{}, ErrNotFound
	}
	return app, nil
}

func (r *LoanApplicationPostgres) GetByID(ctx context.Context, id string) (domain.LoanApplication, error) {
	var doc []byte
	err := r.pool.QueryRow(ctx, `SELECT document FROM loan_applications WHERE id::text = $1`, id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.LoanApplication{}, ErrNotFound
	}
	if err != nil {
		return domain.LoanApplication{}, errors.Wrapf(err, "failed to query loan application %s", id)
	}
	return decodeApplication(doc)
}

func (r *LoanApplicationPostgres) List(ctx context.Context, filter domain.ApplicationFilter) ([]domain.LoanApplication, int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM loan_applications WHERE $1 = '' OR status = $1`, filter.Status,
	).Scan(&total)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to count loan applications")
	}

	rows, err := r.pool.Query(ctx,
		`SELECT document FROM loan_applications
		 WHERE $1 = '' OR status = $1
		 ORDER BY created_at DESC, application_number DESC
		 LIMIT $2 OFFSET $3`,
		filter.Status, filter.Limit, (filter.Page-1)*filter.Limit,
	)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list loan applications")
	}
	defer rows.Close()

	apps := make([]domain.LoanApplication, 0, filter.Limit)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, 0, errors.Wrap(err, "failed to scan loan application")
		}
		app, err := decodeApplication(doc)
		if err != nil {
			return nil, 0, err
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, "failed to iterate loan applications")
	}
	return apps, total, nil
}

func (r *LoanApplicationPostgres) CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM loan_applications WHERE created_at >= $1 AND created_at < $2`, from, to,
	).Scan(&count)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count loan applications")
	}
	return count, nil
}

func decodeApplication(doc []byte) (domain.LoanApplication, error) {
	var app domain.LoanApplication
	if err := json.Unmarshal(doc, &app); err != nil {
		return domain.LoanApplication{}, errors.Wrap(err, "failed to decode loan application")
	}
	return app, nil
}
