package database

const (
	// Schema version for migrations
	SchemaVersion = 2
)

// CreateTablesSQL contains all table creation statements
var CreateTablesSQL = []string{
	// Roman Martyrology
	`CREATE TABLE IF NOT EXISTS roman_martyrology (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		month INTEGER NOT NULL CHECK (month BETWEEN 1 AND 12),
		day INTEGER NOT NULL CHECK (day BETWEEN 1 AND 31),
		year INTEGER,
		description TEXT NOT NULL,
		source_text TEXT
	)`,

	// New Calendar (General Roman Calendar)
	`CREATE TABLE IF NOT EXISTS new_calendar (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		month INTEGER NOT NULL CHECK (month BETWEEN 1 AND 12),
		day INTEGER NOT NULL CHECK (day BETWEEN 1 AND 31),
		celebration TEXT NOT NULL,
		rank TEXT NOT NULL,
		color TEXT,
		proper_text TEXT,
		year_introduced INTEGER
	)`,

	// Tridentine Calendar
	`CREATE TABLE IF NOT EXISTS tridentine_calendar (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		month INTEGER NOT NULL CHECK (month BETWEEN 1 AND 12),
		day INTEGER NOT NULL CHECK (day BETWEEN 1 AND 31),
		celebration TEXT NOT NULL,
		rank TEXT NOT NULL,
		color TEXT,
		proper_text TEXT
	)`,

	// Error logs
	`CREATE TABLE IF NOT EXISTS error_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp INTEGER NOT NULL,
		error_type TEXT NOT NULL,
		error_message TEXT NOT NULL,
		additional_info TEXT
	)`,

	// Metadata table for schema version
	`CREATE TABLE IF NOT EXISTS metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
}

// DropIndexesSQL removes indexes of earlier schema versions. Version 1 made
// the natural keys unique, which stores written by older importers violate.
var DropIndexesSQL = []string{
	`DROP INDEX IF EXISTS uq_new_calendar_natural`,
	`DROP INDEX IF EXISTS uq_tridentine_calendar_natural`,
	`DROP INDEX IF EXISTS uq_roman_martyrology_natural`,
}

// CreateIndexesSQL contains all index creation statements.
// The natural-key indexes serve bulk import's replace lookup; they are not
// unique, so legacy duplicates and admin-added repeats are kept.
var CreateIndexesSQL = []string{
	`CREATE INDEX IF NOT EXISTS idx_new_calendar_date ON new_calendar(month, day)`,
	`CREATE INDEX IF NOT EXISTS idx_tridentine_calendar_date ON tridentine_calendar(month, day)`,
	`CREATE INDEX IF NOT EXISTS idx_roman_martyrology_date ON roman_martyrology(month, day)`,
	`CREATE INDEX IF NOT EXISTS idx_new_calendar_natural ON new_calendar(month, day, celebration)`,
	`CREATE INDEX IF NOT EXISTS idx_tridentine_calendar_natural ON tridentine_calendar(month, day, celebration)`,
	`CREATE INDEX IF NOT EXISTS idx_roman_martyrology_natural ON roman_martyrology(month, day, description)`,
	`CREATE INDEX IF NOT EXISTS idx_error_logs_timestamp ON error_logs(timestamp)`,
}
