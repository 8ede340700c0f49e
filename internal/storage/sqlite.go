// Package storage persists high scores, online match results and room
// records in SQLite through the pure-Go modernc.org/sqlite driver.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure Go driver, registers "sqlite"

	"github.com/vovakirdan/blockfall/internal/multiplayer"
)

const sqliteTime = "2006-01-02 15:04:05"

// Store wraps the database handle. Safe for concurrent use.
type Store struct {
	db *sql.DB
}

// ScoreEntry is one finished game.
type ScoreEntry struct {
	ID        int64
	GameID    string
	Score     int
	Lines     int
	Level     int
	CreatedAt time.Time
}

// OnlineMatchResult is the outcome of one online match.
type OnlineMatchResult struct {
	ID             int64
	MatchID        string
	GameID         string
	Player1Session string
	Player2Session string
	Score1         int
	Score2         int
	WinnerSession  string // empty on a tie
	EndReason      string // "score", "survival", "tie", "disconnect"
	Duration       int    // seconds
	CreatedAt      time.Time
}

// Room is a persisted room record.
type Room struct {
	Code         string
	Status       string
	HostSession  string
	GuestSession string
	CreatedAt    time.Time
	StartedAt    time.Time // zero while waiting
}

// Open creates or opens the database at dbPath, creating parent
// directories and running migrations. A leading ~ expands to $HOME.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			lines INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(game_id, score DESC);

		CREATE TABLE IF NOT EXISTS online_matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			game_id TEXT NOT NULL,
			player1_session TEXT NOT NULL,
			player2_session TEXT NOT NULL,
			score1 INTEGER NOT NULL DEFAULT 0,
			score2 INTEGER NOT NULL DEFAULT 0,
			winner_session TEXT,
			end_reason TEXT NOT NULL,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_online_matches_player1 ON online_matches(player1_session);
		CREATE INDEX IF NOT EXISTS idx_online_matches_player2 ON online_matches(player2_session);

		CREATE TABLE IF NOT EXISTS rooms (
			code TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			host_session TEXT NOT NULL,
			guest_session TEXT,
			created_at DATETIME NOT NULL,
			started_at DATETIME
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// parseTime accepts what the driver hands back for a DATETIME column.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(sqliteTime, t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func formatTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(sqliteTime)
}

// SaveScore records a finished game and returns its row ID.
func (s *Store) SaveScore(e ScoreEntry) (int64, error) {
	if e.Level < 1 {
		e.Level = 1
	}
	result, err := s.db.Exec(
		"INSERT INTO scores (game_id, score, lines, level) VALUES (?, ?, ?, ?)",
		e.GameID, e.Score, e.Lines, e.Level,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// TopScores returns up to limit scores for gameID, best first.
// A non-positive limit means 10.
func (s *Store) TopScores(gameID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryScores(
		`SELECT id, game_id, score, lines, level, created_at
		 FROM scores
		 WHERE game_id = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		gameID, limit,
	)
}

// AllScores returns every score for gameID, best first.
func (s *Store) AllScores(gameID string) ([]ScoreEntry, error) {
	return s.queryScores(
		`SELECT id, game_id, score, lines, level, created_at
		 FROM scores
		 WHERE game_id = ?
		 ORDER BY score DESC, id ASC`,
		gameID,
	)
}

func (s *Store) queryScores(query string, args ...any) ([]ScoreEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.GameID, &e.Score, &e.Lines, &e.Level, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// HighScore returns the best score for gameID, or 0 when there is none.
func (s *Store) HighScore(gameID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow("SELECT MAX(score) FROM scores WHERE game_id = ?", gameID).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// ClearScores deletes all scores for gameID.
func (s *Store) ClearScores(gameID string) error {
	if _, err := s.db.Exec("DELETE FROM scores WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// GameStats aggregates the scores of one mode.
type GameStats struct {
	GameID     string
	GamesCount int
	HighScore  int
	AvgScore   float64
	TotalLines int
	LastPlayed time.Time
}

// GetGameStats aggregates scores for one mode. A mode that was never played
// yields zero stats.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}
	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(SUM(lines), 0), MAX(created_at)
		 FROM scores WHERE game_id = ?`,
		gameID,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore, &stats.TotalLines, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)
	return stats, nil
}

// GetAllGamesStats aggregates scores for every mode that has any.
func (s *Store) GetAllGamesStats() (map[string]*GameStats, error) {
	rows, err := s.db.Query(
		`SELECT game_id, COUNT(*), MAX(score), AVG(score), SUM(lines), MAX(created_at)
		 FROM scores
		 GROUP BY game_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all games stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*GameStats)
	for rows.Next() {
		var st GameStats
		var lastPlayed any
		if err := rows.Scan(&st.GameID, &st.GamesCount, &st.HighScore, &st.AvgScore, &st.TotalLines, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.GameID] = &st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

// SaveOnlineMatch records a finished online match and returns its row ID.
func (s *Store) SaveOnlineMatch(result OnlineMatchResult) (int64, error) {
	var winner any
	if result.WinnerSession != "" {
		winner = result.WinnerSession
	}
	res, err := s.db.Exec(
		`INSERT INTO online_matches
		 (match_id, game_id, player1_session, player2_session, score1, score2, winner_session, end_reason, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.MatchID,
		result.GameID,
		result.Player1Session,
		result.Player2Session,
		result.Score1,
		result.Score2,
		winner,
		result.EndReason,
		result.Duration,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save online match: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

const matchColumns = `id, match_id, game_id, player1_session, player2_session,
		score1, score2, winner_session, end_reason, duration_secs, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (OnlineMatchResult, error) {
	var result OnlineMatchResult
	var createdAt any
	var winner sql.NullString
	err := row.Scan(
		&result.ID,
		&result.MatchID,
		&result.GameID,
		&result.Player1Session,
		&result.Player2Session,
		&result.Score1,
		&result.Score2,
		&winner,
		&result.EndReason,
		&result.Duration,
		&createdAt,
	)
	if err != nil {
		return result, err
	}
	result.WinnerSession = winner.String
	result.CreatedAt = parseTime(createdAt)
	return result, nil
}

// OnlineMatchByID returns the match with matchID, or nil when unknown.
func (s *Store) OnlineMatchByID(matchID string) (*OnlineMatchResult, error) {
	row := s.db.QueryRow("SELECT "+matchColumns+" FROM online_matches WHERE match_id = ?", matchID)
	result, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query online match: %w", err)
	}
	return &result, nil
}

// RecentOnlineMatches returns the newest matches first. A non-positive
// limit means 20.
func (s *Store) RecentOnlineMatches(limit int) ([]OnlineMatchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryMatches(
		"SELECT "+matchColumns+" FROM online_matches ORDER BY created_at DESC, id DESC LIMIT ?",
		limit,
	)
}

// PlayerMatchHistory returns the newest matches sessionID took part in.
func (s *Store) PlayerMatchHistory(sessionID string, limit int) ([]OnlineMatchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryMatches(
		"SELECT "+matchColumns+` FROM online_matches
		 WHERE player1_session = ? OR player2_session = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		sessionID, sessionID, limit,
	)
}

func (s *Store) queryMatches(query string, args ...any) ([]OnlineMatchResult, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query online matches: %w", err)
	}
	defer rows.Close()

	var results []OnlineMatchResult
	for rows.Next() {
		result, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return results, nil
}

// SaveMatchResult implements multiplayer.MatchResultSaver.
func (s *Store) SaveMatchResult(data multiplayer.MatchResultData) error {
	_, err := s.SaveOnlineMatch(OnlineMatchResult{
		MatchID:        data.MatchID,
		GameID:         data.GameID,
		Player1Session: data.Player1Session,
		Player2Session: data.Player2Session,
		Score1:         data.Score1,
		Score2:         data.Score2,
		WinnerSession:  data.WinnerSession,
		EndReason:      data.EndReason,
		Duration:       data.DurationSecs,
	})
	return err
}

// SaveRoom implements multiplayer.RoomStore. It inserts or replaces the
// record keyed by its code.
func (s *Store) SaveRoom(rec multiplayer.RoomRecord) error {
	var guest any
	if rec.GuestSession != "" {
		guest = rec.GuestSession
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := s.db.Exec(
		`INSERT INTO rooms (code, status, host_session, guest_session, created_at, started_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(code) DO UPDATE SET
		   status = excluded.status,
		   guest_session = excluded.guest_session,
		   started_at = excluded.started_at`,
		rec.Code, string(rec.Status), rec.HostSession, guest,
		formatTime(createdAt), formatTime(rec.StartedAt),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save room %s: %w", rec.Code, err)
	}
	return nil
}

// DeleteRoom implements multiplayer.RoomStore. Deleting an unknown room is
// not an error.
func (s *Store) DeleteRoom(code string) error {
	if _, err := s.db.Exec("DELETE FROM rooms WHERE code = ?", code); err != nil {
		return fmt.Errorf("storage: cannot delete room %s: %w", code, err)
	}
	return nil
}

// GetRoom returns the room with code, or nil when unknown.
func (s *Store) GetRoom(code string) (*Room, error) {
	rooms, err := s.queryRooms(
		`SELECT code, status, host_session, guest_session, created_at, started_at
		 FROM rooms WHERE code = ?`,
		code,
	)
	if err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return nil, nil
	}
	return &rooms[0], nil
}

// OpenRooms returns every stored room, oldest first.
func (s *Store) OpenRooms() ([]Room, error) {
	return s.queryRooms(
		`SELECT code, status, host_session, guest_session, created_at, started_at
		 FROM rooms ORDER BY created_at ASC, code ASC`,
	)
}

// ClearRooms deletes every stored room. The server calls it on startup
// since rooms do not survive a restart.
func (s *Store) ClearRooms() error {
	if _, err := s.db.Exec("DELETE FROM rooms"); err != nil {
		return fmt.Errorf("storage: cannot clear rooms: %w", err)
	}
	return nil
}

func (s *Store) queryRooms(query string, args ...any) ([]Room, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query rooms: %w", err)
	}
	defer rows.Close()

	var rooms []Room
	for rows.Next() {
		var r Room
		var guest sql.NullString
		var createdAt, startedAt any
		if err := rows.Scan(&r.Code, &r.Status, &r.HostSession, &guest, &createdAt, &startedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan room: %w", err)
		}
		r.GuestSession = guest.String
		r.CreatedAt = parseTime(createdAt)
		r.StartedAt = parseTime(startedAt)
		rooms = append(rooms, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return rooms, nil
}

var (
	_ multiplayer.MatchResultSaver = (*Store)(nil)
	_ multiplayer.RoomStore        = (*Store)(nil)
)
