package store

// Schema is the knowledge store DDL. Every statement is idempotent so the
// same schema can run on every open.
//
// concepts and patterns each carry a contentless-sync FTS5 shadow table
// kept aligned by triggers: any INSERT, DELETE or UPDATE on the primary
// table updates the index inside the same statement, so a row is never
// visible in one and missing from the other.
const Schema = `
CREATE TABLE IF NOT EXISTS concepts (
    id TEXT PRIMARY KEY,
    topic TEXT NOT NULL,
    title TEXT NOT NULL,
    explanation TEXT NOT NULL,
    code_examples TEXT NOT NULL,
    common_mistakes TEXT NOT NULL,
    related_concepts TEXT NOT NULL,
    tags TEXT NOT NULL,
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE VIRTUAL TABLE IF NOT EXISTS concepts_fts USING fts5(
    topic, title, explanation, tags,
    content='concepts', content_rowid='rowid'
);

CREATE TRIGGER IF NOT EXISTS concepts_ai AFTER INSERT ON concepts BEGIN
    INSERT INTO concepts_fts(rowid, topic, title, explanation, tags)
    VALUES (new.rowid, new.topic, new.title, new.explanation, new.tags);
END;

CREATE TRIGGER IF NOT EXISTS concepts_ad AFTER DELETE ON concepts BEGIN
    INSERT INTO concepts_fts(concepts_fts, rowid, topic, title, explanation, tags)
    VALUES ('delete', old.rowid, old.topic, old.title, old.explanation, old.tags);
END;

CREATE TRIGGER IF NOT EXISTS concepts_au AFTER UPDATE ON concepts BEGIN
    INSERT INTO concepts_fts(concepts_fts, rowid, topic, title, explanation, tags)
    VALUES ('delete', old.rowid, old.topic, old.title, old.explanation, old.tags);
    INSERT INTO concepts_fts(rowid, topic, title, explanation, tags)
    VALUES (new.rowid, new.topic, new.title, new.explanation, new.tags);
END;

CREATE TABLE IF NOT EXISTS patterns (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL,
    template TEXT NOT NULL,
    when_to_use TEXT NOT NULL,
    when_not_to_use TEXT NOT NULL,
    examples TEXT NOT NULL,
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE VIRTUAL TABLE IF NOT EXISTS patterns_fts USING fts5(
    name, description, when_to_use,
    content='patterns', content_rowid='rowid'
);

CREATE TRIGGER IF NOT EXISTS patterns_ai AFTER INSERT ON patterns BEGIN
    INSERT INTO patterns_fts(rowid, name, description, when_to_use)
    VALUES (new.rowid, new.name, new.description, new.when_to_use);
END;

CREATE TRIGGER IF NOT EXISTS patterns_ad AFTER DELETE ON patterns BEGIN
    INSERT INTO patterns_fts(patterns_fts, rowid, name, description, when_to_use)
    VALUES ('delete', old.rowid, old.name, old.description, old.when_to_use);
END;

CREATE TRIGGER IF NOT EXISTS patterns_au AFTER UPDATE ON patterns BEGIN
    INSERT INTO patterns_fts(patterns_fts, rowid, name, description, when_to_use)
    VALUES ('delete', old.rowid, old.name, old.description, old.when_to_use);
    INSERT INTO patterns_fts(rowid, name, description, when_to_use)
    VALUES (new.rowid, new.name, new.description, new.when_to_use);
END;

CREATE TABLE IF NOT EXISTS errors (
    error_code TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    explanation TEXT NOT NULL,
    example_bad TEXT NOT NULL,
    example_good TEXT NOT NULL,
    fix_strategies TEXT NOT NULL,
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS commands (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    tool TEXT NOT NULL,
    command TEXT NOT NULL,
    description TEXT NOT NULL,
    flags TEXT NOT NULL,
    examples TEXT NOT NULL,
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_commands_tool ON commands(tool);

CREATE TABLE IF NOT EXISTS search_log (
    id TEXT PRIMARY KEY,
    query TEXT NOT NULL,
    result_count INTEGER NOT NULL,
    searched_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`
