package history

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id              TEXT PRIMARY KEY,
    mode            TEXT NOT NULL,
    rule_file       TEXT NOT NULL,
    status          TEXT NOT NULL,
    exit_code       INTEGER NOT NULL DEFAULT 0,
    total_lines     INTEGER NOT NULL DEFAULT 0,
    duration_ticks  INTEGER NOT NULL DEFAULT 0,
    counts_json     TEXT,
    started_at      TEXT NOT NULL,
    finished_at     TEXT
);

CREATE TABLE IF NOT EXISTS run_actions (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id           TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    seq              INTEGER NOT NULL,
    kind             TEXT NOT NULL,
    rule_name        TEXT,
    source_path      TEXT,
    destination_path TEXT,
    message          TEXT NOT NULL,
    simulated        INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_run_actions_run_seq ON run_actions(run_id, seq);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`
