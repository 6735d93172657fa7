package sqlite

const schema = `
-- Alerts produced by the heuristics engine
CREATE TABLE IF NOT EXISTS alerts (
    id TEXT PRIMARY KEY,
    workspace TEXT NOT NULL,
    type TEXT NOT NULL,
    severity TEXT NOT NULL,
    title TEXT NOT NULL CHECK(length(title) <= 500),
    description TEXT NOT NULL DEFAULT '',
    metadata TEXT NOT NULL DEFAULT '{}',
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    resolved INTEGER NOT NULL DEFAULT 0,
    resolved_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_alerts_dedup ON alerts(workspace, type, title, created_at);
CREATE INDEX IF NOT EXISTS idx_alerts_workspace ON alerts(workspace, resolved);
CREATE INDEX IF NOT EXISTS idx_alerts_severity ON alerts(severity, resolved, created_at);

-- Read-side tables populated by the ingestion layer

CREATE TABLE IF NOT EXISTS branches (
    workspace TEXT NOT NULL,
    name TEXT NOT NULL,
    author TEXT NOT NULL DEFAULT '',
    last_commit_at DATETIME NOT NULL,
    merged INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (workspace, name)
);

CREATE TABLE IF NOT EXISTS pull_requests (
    workspace TEXT NOT NULL,
    number INTEGER NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    author TEXT NOT NULL DEFAULT '',
    state TEXT NOT NULL DEFAULT 'open',
    first_commit_at DATETIME,
    opened_at DATETIME,
    first_review_at DATETIME,
    merged_at DATETIME,
    closed_at DATETIME,
    deployed_at DATETIME,
    PRIMARY KEY (workspace, number)
);

CREATE INDEX IF NOT EXISTS idx_pull_requests_state ON pull_requests(workspace, state);

CREATE TABLE IF NOT EXISTS issues (
    workspace TEXT NOT NULL,
    number INTEGER NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    assignee TEXT NOT NULL DEFAULT '',
    state TEXT NOT NULL DEFAULT 'open',
    opened_at DATETIME NOT NULL,
    PRIMARY KEY (workspace, number)
);

CREATE TABLE IF NOT EXISTS commits (
    workspace TEXT NOT NULL,
    commit_id TEXT NOT NULL,
    author TEXT NOT NULL DEFAULT '',
    timestamp DATETIME NOT NULL,
    PRIMARY KEY (workspace, commit_id)
);

CREATE INDEX IF NOT EXISTS idx_commits_author ON commits(workspace, author, timestamp);
CREATE INDEX IF NOT EXISTS idx_commits_timestamp ON commits(workspace, timestamp);

CREATE TABLE IF NOT EXISTS commit_files (
    workspace TEXT NOT NULL,
    commit_id TEXT NOT NULL,
    file TEXT NOT NULL,
    PRIMARY KEY (workspace, commit_id, file),
    FOREIGN KEY (workspace, commit_id) REFERENCES commits(workspace, commit_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_commit_files_file ON commit_files(workspace, file);

CREATE TABLE IF NOT EXISTS messages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    workspace TEXT NOT NULL,
    author TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL DEFAULT '',
    intent TEXT NOT NULL DEFAULT '',
    sent_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_messages_intent ON messages(workspace, intent, sent_at);

CREATE TABLE IF NOT EXISTS file_contributions (
    workspace TEXT NOT NULL,
    file TEXT NOT NULL,
    author TEXT NOT NULL,
    lines_added INTEGER NOT NULL DEFAULT 0,
    lines_modified INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_file_contributions_file ON file_contributions(workspace, file);
`
