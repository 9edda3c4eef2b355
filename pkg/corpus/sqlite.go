package corpus

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"autoblog-go/pkg/logger"
)

// Post is one accepted draft as persisted for duplicate comparison and
// bookkeeping.
type Post struct {
	ID          int64     `json:"id"`
	Keyword     string    `json:"keyword"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	PublishedAt time.Time `json:"published_at"`
}

// Store is the SQLite-backed record store for published posts and collected
// keywords. A single database file serves both tables; SQLite needs only
// one writer, which matches the single-sequence pipeline.
type Store struct {
	db     *sql.DB
	dbPath string
	log    *logger.Logger
}

// Open opens or creates the store at dir/autoblog.db.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dir, "autoblog.db")
	db, err := sql.Open("sqlite", dbPath+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &Store{
		db:     db,
		dbPath: dbPath,
		log:    logger.GetLogger().WithComponent("corpus_store"),
	}

	if err := store.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS published_posts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		keyword TEXT NOT NULL,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		category TEXT,
		tags TEXT,
		published_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_posts_published ON published_posts(published_at);

	CREATE TABLE IF NOT EXISTS keywords (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		keyword TEXT NOT NULL,
		trend_score INTEGER DEFAULT 0,
		collection_date DATE,
		used_for_post BOOLEAN DEFAULT FALSE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(keyword, collection_date)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SavePost appends an accepted draft to the corpus. This must happen after
// a successful publish so future duplicate checks see it.
func (s *Store) SavePost(ctx context.Context, post Post) error {
	publishedAt := post.PublishedAt
	if publishedAt.IsZero() {
		publishedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO published_posts (keyword, title, content, category, tags, published_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		post.Keyword, post.Title, post.Content, post.Category,
		strings.Join(post.Tags, ","), publishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save post: %w", err)
	}

	s.log.WithField("keyword", post.Keyword).Debug("Post recorded in corpus")
	return nil
}

// RecentContents returns up to limit published contents, most recent first.
// An empty corpus yields an empty slice, not an error.
func (s *Store) RecentContents(ctx context.Context, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT content FROM published_posts
		ORDER BY published_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query corpus: %w", err)
	}
	defer rows.Close()

	var contents []string
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("failed to scan corpus row: %w", err)
		}
		contents = append(contents, content)
	}
	return contents, rows.Err()
}

// SaveKeywords records collected keywords for today's date, skipping ones
// already collected today.
func (s *Store) SaveKeywords(ctx context.Context, keywords []string, score int) error {
	if len(keywords) == 0 {
		return nil
	}

	today := time.Now().Format("2006-01-02")
	saved := 0
	for _, keyword := range keywords {
		res, err := s.db.ExecContext(ctx, `
			INSERT OR IGNORE INTO keywords (keyword, trend_score, collection_date)
			VALUES (?, ?, ?)`, keyword, score, today)
		if err != nil {
			return fmt.Errorf("failed to save keyword %q: %w", keyword, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			saved++
		}
	}

	s.log.WithFields(map[string]interface{}{
		"collected": len(keywords),
		"new":       saved,
	}).Info("Keywords saved")
	return nil
}

// MarkKeywordUsed flags a keyword as consumed by a published post.
func (s *Store) MarkKeywordUsed(ctx context.Context, keyword string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE keywords SET used_for_post = TRUE
		WHERE keyword = ? AND used_for_post = FALSE`, keyword)
	if err != nil {
		return fmt.Errorf("failed to mark keyword used: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		s.log.WithField("keyword", keyword).Warn("Keyword not found or already used")
	}
	return nil
}

// UnusedKeywords returns today's unused keywords, best trend score first.
func (s *Store) UnusedKeywords(ctx context.Context, limit int) ([]string, error) {
	today := time.Now().Format("2006-01-02")
	rows, err := s.db.QueryContext(ctx, `
		SELECT keyword FROM keywords
		WHERE collection_date = ? AND used_for_post = FALSE
		ORDER BY trend_score DESC, created_at ASC
		LIMIT ?`, today, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query keywords: %w", err)
	}
	defer rows.Close()

	var keywords []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("failed to scan keyword row: %w", err)
		}
		keywords = append(keywords, k)
	}
	return keywords, rows.Err()
}
