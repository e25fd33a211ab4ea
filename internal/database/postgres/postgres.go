package postgres

import (
	"fmt"
	"log"
	"time"

	"quoting-service/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

var schema = `
CREATE TABLE IF NOT EXISTS submitted_proposal (
	id UUID PRIMARY KEY,
	proposal_number VARCHAR(64) NOT NULL,
	session_id VARCHAR(64) NOT NULL,
	applicant_name VARCHAR(255) NOT NULL,
	applicant_cpf VARCHAR(14) NOT NULL,
	total_premium NUMERIC(12,2) NOT NULL,
	total_indemnity NUMERIC(14,2) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_submitted_proposal_number ON submitted_proposal (proposal_number);
CREATE INDEX IF NOT EXISTS idx_submitted_proposal_cpf ON submitted_proposal (applicant_cpf);
`

// Connect opens the submission-log database and ensures its schema. The
// external proposal endpoint is the system of record; this table is an
// operational log, so the service can start without it (see RetryOnFailed).
func Connect(cfg config.PostgresConfig) (*sqlx.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.DBname)

	db, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return db, nil
}

// RetryOnFailed keeps retrying the connection in the background until it
// succeeds, swapping the shared handle in place.
func RetryOnFailed(interval time.Duration, db **sqlx.DB, cfg config.PostgresConfig) {
	for {
		time.Sleep(interval)
		conn, err := Connect(cfg)
		if err != nil {
			log.Printf("postgres retry failed: %s", err)
			continue
		}
		*db = conn
		log.Printf("postgres connection established after retry")
		return
	}
}
