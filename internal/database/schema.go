package database

import (
	"context"
	"database/sql"
)

// rebuildStatements drops and recreates every table. Statement
// order matters: children are dropped before parents and created
// after them so the foreign keys always resolve.
var rebuildStatements = []string{
	"DROP TABLE IF EXISTS shots",
	"DROP TABLE IF EXISTS blocks",
	"DROP TABLE IF EXISTS practice_sessions",
	"DROP TABLE IF EXISTS refresh_tokens",
	"DROP TABLE IF EXISTS users",

	`CREATE TABLE users (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		email         VARCHAR(255) NOT NULL,
		full_name     VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE refresh_tokens (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_refresh_tokens_hash (token_hash),
		CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE practice_sessions (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		started_at DATETIME NOT NULL,
		ended_at   DATETIME NULL,
		KEY idx_sessions_user (user_id, started_at),
		CONSTRAINT fk_sessions_user FOREIGN KEY (user_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE blocks (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		session_id    BIGINT UNSIGNED NOT NULL,
		target_area   VARCHAR(32) NOT NULL,
		shots_planned INT UNSIGNED NOT NULL,
		position      INT UNSIGNED NOT NULL,
		KEY idx_blocks_session (session_id, position),
		CONSTRAINT fk_blocks_session FOREIGN KEY (session_id) REFERENCES practice_sessions (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE shots (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		block_id   BIGINT UNSIGNED NOT NULL,
		session_id BIGINT UNSIGNED NOT NULL,
		shot_no    INT UNSIGNED NOT NULL,
		pos_x      DOUBLE NOT NULL,
		pos_y      DOUBLE NOT NULL,
		result     ENUM('MADE','MISSED') NOT NULL,
		taken_at   DATETIME NOT NULL,
		UNIQUE KEY uq_shots_session_no (session_id, shot_no),
		KEY idx_shots_block (block_id),
		CONSTRAINT fk_shots_block FOREIGN KEY (block_id) REFERENCES blocks (id),
		CONSTRAINT fk_shots_session FOREIGN KEY (session_id) REFERENCES practice_sessions (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Rebuild destroys and recreates the whole schema. It is invoked
// only by the cmd/rebuild binary as an explicit administrative
// action; normal request handling never calls it.
func Rebuild(ctx context.Context, db *sql.DB) error {
	for _, stmt := range rebuildStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
