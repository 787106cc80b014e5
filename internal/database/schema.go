package database

import (
	"context"
	"database/sql"
)

// Schema statements executed at startup.  IF NOT EXISTS keeps the calls
// idempotent so restarting the server against an existing database is safe.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            CHAR(36)     NOT NULL,
		email         VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		name          VARCHAR(255) NULL,
		created_at    DATETIME(3)  NOT NULL,
		updated_at    DATETIME(3)  NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id          CHAR(36)     NOT NULL,
		title       VARCHAR(255) NOT NULL,
		description TEXT         NULL,
		status      ENUM('pending','in-progress','completed') NOT NULL DEFAULT 'pending',
		user_id     CHAR(36)     NOT NULL,
		created_at  DATETIME(3)  NOT NULL,
		updated_at  DATETIME(3)  NOT NULL,
		PRIMARY KEY (id),
		KEY idx_tasks_user_id (user_id),
		KEY idx_tasks_status (status),
		CONSTRAINT fk_tasks_user FOREIGN KEY (user_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates the users and tasks tables when they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
