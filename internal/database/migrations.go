package database

const createTablesSQL = `
CREATE TABLE IF NOT EXISTS categorization_rules (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    category TEXT NOT NULL,
    keyword TEXT NOT NULL,
    position INTEGER NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (category, keyword)
);

CREATE INDEX IF NOT EXISTS idx_categorization_rules_category ON categorization_rules(category);
CREATE INDEX IF NOT EXISTS idx_categorization_rules_position ON categorization_rules(position);
`
