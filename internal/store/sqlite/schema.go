package sqlite

import "database/sql"

// schema is applied idempotently at every open.
const schema = `
CREATE TABLE IF NOT EXISTS words (
	id         TEXT PRIMARY KEY,
	text       TEXT NOT NULL UNIQUE,
	rating     INTEGER NOT NULL DEFAULT 1500,
	tier       INTEGER NOT NULL DEFAULT 4,
	definition TEXT NOT NULL DEFAULT '',
	hint       TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_words_rating ON words(rating);

CREATE TABLE IF NOT EXISTS learners (
	id                  TEXT PRIMARY KEY,
	name                TEXT NOT NULL UNIQUE,
	rating              INTEGER NOT NULL DEFAULT 1500,
	tier                INTEGER NOT NULL DEFAULT 4,
	total_attempts      INTEGER NOT NULL DEFAULT 0,
	successful_attempts INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS sessions (
	id                  TEXT PRIMARY KEY,
	learner_id          TEXT NOT NULL REFERENCES learners(id),
	start_tier          INTEGER NOT NULL,
	current_tier        INTEGER NOT NULL,
	word_ids            TEXT NOT NULL DEFAULT '[]',
	current_index       INTEGER NOT NULL DEFAULT 0,
	mini_sets_completed INTEGER NOT NULL DEFAULT 0,
	attempts_total      INTEGER NOT NULL DEFAULT 0,
	correct_total       INTEGER NOT NULL DEFAULT 0,
	final_rating        INTEGER NOT NULL DEFAULT 0,
	started_at          TIMESTAMP NOT NULL,
	ended_at            TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_sessions_learner ON sessions(learner_id);

CREATE TABLE IF NOT EXISTS attempts (
	id                  TEXT PRIMARY KEY,
	session_id          TEXT NOT NULL REFERENCES sessions(id),
	learner_id          TEXT NOT NULL REFERENCES learners(id),
	word_id             TEXT NOT NULL REFERENCES words(id),
	word_text           TEXT NOT NULL,
	typed_text          TEXT NOT NULL,
	correct             INTEGER NOT NULL,
	latency_ms          INTEGER NOT NULL DEFAULT 0,
	replay_count        INTEGER NOT NULL DEFAULT 0,
	edit_count          INTEGER NOT NULL DEFAULT 0,
	prompt_mode         TEXT NOT NULL DEFAULT 'audio',
	delta               INTEGER NOT NULL DEFAULT 0,
	learner_rating_post INTEGER NOT NULL DEFAULT 0,
	word_rating_post    INTEGER NOT NULL DEFAULT 0,
	created_at          TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_attempts_session ON attempts(session_id, created_at);
CREATE INDEX IF NOT EXISTS idx_attempts_learner ON attempts(learner_id, created_at);

CREATE TABLE IF NOT EXISTS mini_set_summaries (
	id               TEXT PRIMARY KEY,
	session_id       TEXT NOT NULL REFERENCES sessions(id),
	set_number       INTEGER NOT NULL,
	word_ids         TEXT NOT NULL DEFAULT '[]',
	correct_count    INTEGER NOT NULL,
	confidence_delta INTEGER NOT NULL,
	action           TEXT NOT NULL,
	created_at       TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_summaries_session ON mini_set_summaries(session_id, set_number);

CREATE TABLE IF NOT EXISTS mastery (
	learner_id      TEXT NOT NULL REFERENCES learners(id),
	word_id         TEXT NOT NULL REFERENCES words(id),
	score           INTEGER NOT NULL DEFAULT 0,
	last_correct    INTEGER NOT NULL DEFAULT 0,
	last_attempt_at TIMESTAMP NOT NULL,
	PRIMARY KEY (learner_id, word_id)
);

CREATE TABLE IF NOT EXISTS custom_lists (
	id         TEXT PRIMARY KEY,
	learner_id TEXT NOT NULL REFERENCES learners(id),
	name       TEXT NOT NULL,
	enabled    INTEGER NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS idx_lists_learner ON custom_lists(learner_id);

CREATE TABLE IF NOT EXISTS custom_list_words (
	list_id TEXT NOT NULL REFERENCES custom_lists(id),
	word_id TEXT NOT NULL REFERENCES words(id),
	PRIMARY KEY (list_id, word_id)
);
`

func migrate(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
