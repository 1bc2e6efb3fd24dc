package sqlite

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
    id           TEXT PRIMARY KEY,
    email        TEXT NOT NULL UNIQUE,
    display_name TEXT,
    imap_host    TEXT,
    imap_port    INTEGER,
    use_tls      BOOLEAN DEFAULT TRUE,
    created_at   DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS messages (
    id           TEXT PRIMARY KEY,
    account_id   TEXT REFERENCES accounts(id) ON DELETE CASCADE,
    uid          INTEGER NOT NULL,
    folder       TEXT NOT NULL,
    message_id   TEXT,
    thread_id    TEXT,
    from_addr    TEXT NOT NULL,
    from_name    TEXT,
    to_addrs     TEXT,
    cc_addrs     TEXT,
    subject      TEXT,
    body_text    TEXT,
    body_html    TEXT,
    date         DATETIME NOT NULL,
    is_read      BOOLEAN DEFAULT FALSE,
    is_spam      BOOLEAN DEFAULT FALSE,
    is_starred   BOOLEAN DEFAULT FALSE,
    is_flagged   BOOLEAN DEFAULT FALSE,
    is_important BOOLEAN DEFAULT FALSE,
    is_deleted   BOOLEAN DEFAULT FALSE,
    deleted_at   DATETIME,
    created_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(uid, folder)
);

CREATE TABLE IF NOT EXISTS attachments (
    id          TEXT PRIMARY KEY,
    message_id  TEXT NOT NULL REFERENCES messages(id) ON DELETE CASCADE,
    filename    TEXT,
    mime_type   TEXT,
    size        INTEGER,
    path        TEXT
);

CREATE TABLE IF NOT EXISTS tags (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS message_tags (
    message_id  TEXT NOT NULL REFERENCES messages(id) ON DELETE CASCADE,
    tag_id      TEXT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
    PRIMARY KEY (message_id, tag_id)
);

CREATE TABLE IF NOT EXISTS filters (
    id          TEXT PRIMARY KEY,
    account_id  TEXT,
    name        TEXT NOT NULL,
    priority    INTEGER DEFAULT 0,
    match_all   BOOLEAN DEFAULT TRUE,
    is_enabled  BOOLEAN DEFAULT TRUE,
    created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS filter_conditions (
    id          TEXT PRIMARY KEY,
    filter_id   TEXT NOT NULL REFERENCES filters(id) ON DELETE CASCADE,
    field       TEXT NOT NULL,
    operator    TEXT NOT NULL,
    value       TEXT,
    position    INTEGER DEFAULT 0
);

CREATE TABLE IF NOT EXISTS filter_actions (
    id          TEXT PRIMARY KEY,
    filter_id   TEXT NOT NULL REFERENCES filters(id) ON DELETE CASCADE,
    type        TEXT NOT NULL,
    value       TEXT,
    position    INTEGER DEFAULT 0
);

CREATE TABLE IF NOT EXISTS spam_rules (
    id          TEXT PRIMARY KEY,
    rule_type   TEXT NOT NULL,
    pattern     TEXT NOT NULL,
    priority    INTEGER DEFAULT 0,
    is_enabled  BOOLEAN DEFAULT TRUE,
    description TEXT,
    created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS list_entries (
    id            TEXT PRIMARY KEY,
    kind          TEXT NOT NULL,
    email_address TEXT NOT NULL,
    domain        TEXT NOT NULL,
    created_at    DATETIME DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(kind, email_address)
);

CREATE TABLE IF NOT EXISTS contacts (
    id           TEXT PRIMARY KEY,
    email        TEXT NOT NULL UNIQUE,
    name         TEXT,
    times_seen   INTEGER DEFAULT 1,
    last_seen_at DATETIME
);

CREATE TABLE IF NOT EXISTS drafts (
    id          TEXT PRIMARY KEY,
    account_id  TEXT,
    uid         INTEGER UNIQUE,
    message_id  TEXT,
    to_addrs    TEXT,
    cc_addrs    TEXT,
    subject     TEXT,
    body_text   TEXT,
    date        DATETIME,
    created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS folder_sync_state (
    folder      TEXT PRIMARY KEY,
    last_sync   DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_messages_account ON messages(account_id);
CREATE INDEX IF NOT EXISTS idx_messages_folder ON messages(folder);
CREATE INDEX IF NOT EXISTS idx_messages_message_id ON messages(message_id);
CREATE INDEX IF NOT EXISTS idx_messages_date ON messages(date DESC);
CREATE INDEX IF NOT EXISTS idx_filters_priority ON filters(priority DESC);
CREATE INDEX IF NOT EXISTS idx_list_entries_domain ON list_entries(kind, domain);
`

const ftsSchema = `
CREATE VIRTUAL TABLE IF NOT EXISTS messages_fts USING fts5(
    subject, body_text, from_addr, from_name,
    content='messages', content_rowid='rowid'
);

CREATE TRIGGER IF NOT EXISTS messages_ai AFTER INSERT ON messages BEGIN
    INSERT INTO messages_fts(rowid, subject, body_text, from_addr, from_name)
    VALUES (new.rowid, new.subject, new.body_text, new.from_addr, new.from_name);
END;

CREATE TRIGGER IF NOT EXISTS messages_ad AFTER DELETE ON messages BEGIN
    INSERT INTO messages_fts(messages_fts, rowid, subject, body_text, from_addr, from_name)
    VALUES ('delete', old.rowid, old.subject, old.body_text, old.from_addr, old.from_name);
END;

CREATE TRIGGER IF NOT EXISTS messages_au AFTER UPDATE ON messages BEGIN
    INSERT INTO messages_fts(messages_fts, rowid, subject, body_text, from_addr, from_name)
    VALUES ('delete', old.rowid, old.subject, old.body_text, old.from_addr, old.from_name);
    INSERT INTO messages_fts(rowid, subject, body_text, from_addr, from_name)
    VALUES (new.rowid, new.subject, new.body_text, new.from_addr, new.from_name);
END;
`

// Default spam rules shipped with a fresh database. The header rule is
// kept for compatibility with existing rule data even though header
// matching is not yet wired to real header data.
const seedData = `
INSERT OR IGNORE INTO spam_rules (id, rule_type, pattern, priority, is_enabled, description)
VALUES
    ('seed-keyword-lottery', 'keyword', '(?i)(lottery|jackpot)', 10, TRUE, 'Lottery spam'),
    ('seed-keyword-viagra',  'keyword', '(?i)viagra', 20, TRUE, 'Pharma spam'),
    ('seed-link-shortener',  'link', '', 15, TRUE, 'Suspicious links'),
    ('seed-header-spamflag', 'header', 'X-Spam-Flag: YES', 50, TRUE, 'Upstream spam flag');
`
