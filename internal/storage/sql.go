package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/hyunhan-cho/LT-GDG/internal/domain"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 5 * time.Minute
	pingTimeout            = 5 * time.Second
	defaultRecentLimit     = 50
)

// ErrUnsupportedDriver is returned for drivers other than postgres and sqlite3.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

var schema = map[string][]string{
	DriverPostgres: {
		`CREATE TABLE IF NOT EXISTS callguard_sessions (
			session_id           TEXT PRIMARY KEY,
			total_turns          INTEGER NOT NULL,
			failed_turns         INTEGER NOT NULL,
			max_turn_risk_score  DOUBLE PRECISION NOT NULL,
			special_label_counts TEXT NOT NULL,
			alert_count          INTEGER NOT NULL,
			analyzed_at          TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS callguard_turns (
			session_id                   TEXT NOT NULL REFERENCES callguard_sessions(session_id) ON DELETE CASCADE,
			turn_index                   INTEGER NOT NULL,
			customer_text                TEXT NOT NULL,
			customer_label               TEXT NOT NULL,
			label_type                   TEXT NOT NULL,
			confidence                   DOUBLE PRECISION NOT NULL,
			is_profanity                 BOOLEAN NOT NULL,
			profanity_category           TEXT NOT NULL,
			agent_text                   TEXT,
			emotion_label                TEXT,
			manual_compliance_score      DOUBLE PRECISION,
			customer_problem_score       DOUBLE PRECISION NOT NULL,
			agent_response_quality_score DOUBLE PRECISION NOT NULL,
			turn_risk_score              DOUBLE PRECISION NOT NULL,
			analyzed_at                  TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (session_id, turn_index)
		)`,
	},
	DriverSQLite: {
		`CREATE TABLE IF NOT EXISTS callguard_sessions (
			session_id           TEXT PRIMARY KEY,
			total_turns          INTEGER NOT NULL,
			failed_turns         INTEGER NOT NULL,
			max_turn_risk_score  REAL NOT NULL,
			special_label_counts TEXT NOT NULL,
			alert_count          INTEGER NOT NULL,
			analyzed_at          TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS callguard_turns (
			session_id                   TEXT NOT NULL REFERENCES callguard_sessions(session_id) ON DELETE CASCADE,
			turn_index                   INTEGER NOT NULL,
			customer_text                TEXT NOT NULL,
			customer_label               TEXT NOT NULL,
			label_type                   TEXT NOT NULL,
			confidence                   REAL NOT NULL,
			is_profanity                 BOOLEAN NOT NULL,
			profanity_category           TEXT NOT NULL,
			agent_text                   TEXT,
			emotion_label                TEXT,
			manual_compliance_score      REAL,
			customer_problem_score       REAL NOT NULL,
			agent_response_quality_score REAL NOT NULL,
			turn_risk_score              REAL NOT NULL,
			analyzed_at                  TIMESTAMP NOT NULL,
			PRIMARY KEY (session_id, turn_index)
		)`,
	},
}

// Open connects to the database and verifies the connection.
func Open(driver, dsn string) (*sqlx.DB, error) {
	if _, ok := schema[driver]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == DriverSQLite {
		// a single connection keeps in-memory databases intact and
		// serializes writers
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(defaultMaxOpenConns)
		db.SetMaxIdleConns(defaultMaxIdleConns)
		db.SetConnMaxLifetime(defaultConnMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if pingErr := db.PingContext(ctx); pingErr != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", pingErr)
	}

	return db, nil
}

// SQLStore keeps session summaries and turn rows.
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLStore creates a store over db.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Name implements pipeline.ResultSink.
func (s *SQLStore) Name() string { return "database" }

// Ping verifies the connection.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate creates the tables when missing.
func (s *SQLStore) Migrate(ctx context.Context) error {
	stmts, ok := schema[s.db.DriverName()]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedDriver, s.db.DriverName())
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// Save implements pipeline.ResultSink. A session saved twice replaces its
// earlier rows.
func (s *SQLStore) Save(ctx context.Context, result *domain.PipelineResult) (err error) {
	counts, err := json.Marshal(result.SpecialLabelCounts)
	if err != nil {
		return fmt.Errorf("marshal label counts: %w", err)
	}
	analyzedAt := result.Timestamp.UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, tx.Rebind(`DELETE FROM callguard_turns WHERE session_id = ?`), result.SessionID); err != nil {
		return fmt.Errorf("failed to clear turns: %w", err)
	}
	if _, err = tx.ExecContext(ctx, tx.Rebind(`DELETE FROM callguard_sessions WHERE session_id = ?`), result.SessionID); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO callguard_sessions (
			session_id, total_turns, failed_turns, max_turn_risk_score,
			special_label_counts, alert_count, analyzed_at
		) VALUES (
			:session_id, :total_turns, :failed_turns, :max_turn_risk_score,
			:special_label_counts, :alert_count, :analyzed_at
		)`,
		SessionRecord{
			SessionID:          result.SessionID,
			TotalTurns:         result.TotalTurns,
			FailedTurns:        result.FailedTurns,
			MaxTurnRiskScore:   result.MaxTurnRiskScore,
			SpecialLabelCounts: string(counts),
			AlertCount:         len(result.Alerts),
			AnalyzedAt:         analyzedAt,
		})
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	for _, tr := range result.TurnResults {
		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO callguard_turns (
				session_id, turn_index, customer_text, customer_label, label_type,
				confidence, is_profanity, profanity_category, agent_text, emotion_label,
				manual_compliance_score, customer_problem_score,
				agent_response_quality_score, turn_risk_score, analyzed_at
			) VALUES (
				:session_id, :turn_index, :customer_text, :customer_label, :label_type,
				:confidence, :is_profanity, :profanity_category, :agent_text, :emotion_label,
				:manual_compliance_score, :customer_problem_score,
				:agent_response_quality_score, :turn_risk_score, :analyzed_at
			)`,
			NewTurnDocument(tr, analyzedAt))
		if err != nil {
			return fmt.Errorf("failed to insert turn %d: %w", tr.TurnIndex, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	return nil
}

// Recent returns the latest sessions, newest first.
func (s *SQLStore) Recent(ctx context.Context, limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	var records []SessionRecord
	err := s.db.SelectContext(ctx, &records, s.db.Rebind(`
		SELECT session_id, total_turns, failed_turns, max_turn_risk_score,
			special_label_counts, alert_count, analyzed_at
		FROM callguard_sessions
		ORDER BY analyzed_at DESC, session_id
		LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return records, nil
}

// Turns returns the stored turns of a session in turn order.
func (s *SQLStore) Turns(ctx context.Context, sessionID string) ([]TurnDocument, error) {
	var docs []TurnDocument
	err := s.db.SelectContext(ctx, &docs, s.db.Rebind(`
		SELECT session_id, turn_index, customer_text, customer_label, label_type,
			confidence, is_profanity, profanity_category, agent_text, emotion_label,
			manual_compliance_score, customer_problem_score,
			agent_response_quality_score, turn_risk_score, analyzed_at
		FROM callguard_turns
		WHERE session_id = ?
		ORDER BY turn_index`), sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list turns: %w", err)
	}
	return docs, nil
}

// HighRisk returns turns whose risk score is at least threshold, riskiest first.
func (s *SQLStore) HighRisk(ctx context.Context, threshold float64, limit int) ([]TurnDocument, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	var docs []TurnDocument
	err := s.db.SelectContext(ctx, &docs, s.db.Rebind(`
		SELECT session_id, turn_index, customer_text, customer_label, label_type,
			confidence, is_profanity, profanity_category, agent_text, emotion_label,
			manual_compliance_score, customer_problem_score,
			agent_response_quality_score, turn_risk_score, analyzed_at
		FROM callguard_turns
		WHERE turn_risk_score >= ?
		ORDER BY turn_risk_score DESC, session_id, turn_index
		LIMIT ?`), threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list high risk turns: %w", err)
	}
	return docs, nil
}
