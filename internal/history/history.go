package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nerrad567/sound-logic-core/internal/infrastructure/config"
	"github.com/nerrad567/sound-logic-core/internal/infrastructure/database"
)

// recordTimeout bounds a single insert so a wedged disk cannot stall
// the writer indefinitely.
const recordTimeout = 5 * time.Second

// pruneEvery is how many inserts pass between retention sweeps.
const pruneEvery = 256

// recordQueueSize buffers a full refresh dump worth of changes while
// the writer catches up.
const recordQueueSize = 1024

const schema = `
CREATE TABLE IF NOT EXISTS parameter_changes (
    id        INTEGER PRIMARY KEY AUTOINCREMENT,
    register  INTEGER NOT NULL,
    address   TEXT    NOT NULL,
    previous  INTEGER NOT NULL,
    current   INTEGER NOT NULL,
    first_seen INTEGER NOT NULL,
    changed_at TEXT   NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_changes_address ON parameter_changes(address);
CREATE INDEX IF NOT EXISTS idx_changes_changed_at ON parameter_changes(changed_at);
`

// Change is one logged parameter change.
type Change struct {
	ID        int64
	Register  uint16
	Address   string
	Previous  int
	Current   int
	First     bool
	ChangedAt time.Time
}

// Logger is the logging surface Store needs.
type Logger interface {
	Error(msg string, args ...any)
}

// record is one queued change awaiting insertion.
type record struct {
	register  uint16
	address   string
	previous  int
	current   int
	first     bool
	changedAt time.Time
}

// Store records parameter changes. It satisfies the bridge's Recorder
// interface. The bridge invokes recorders with its dispatch lock held,
// so RecordChange only enqueues; a single writer goroutine does the
// inserts. Failures are logged rather than returned.
type Store struct {
	db     *database.DB
	retain int
	logger Logger

	queue chan record
	done  chan struct{}
}

// Open opens (or creates) the history database, ensures the schema and
// starts the writer. Logger is optional - if nil, write failures are
// dropped. Call Close to drain queued changes and release the database.
func Open(cfg config.HistoryConfig, logger Logger) (*Store, error) {
	db, err := database.Open(database.Config{
		Path:        cfg.Path,
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		db.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("history: creating schema: %w", err)
	}

	s := &Store{
		db:     db,
		retain: cfg.Retain,
		logger: logger,
		queue:  make(chan record, recordQueueSize),
		done:   make(chan struct{}),
	}
	go s.writeLoop()
	return s, nil
}

// RecordChange enqueues one change row. Never blocks: when the queue
// is full the change is dropped, so a wedged disk cannot back up into
// the dispatch path.
func (s *Store) RecordChange(register uint16, address string, previous, current int, first bool) {
	rec := record{
		register:  register,
		address:   address,
		previous:  previous,
		current:   current,
		first:     first,
		changedAt: time.Now().UTC(),
	}
	select {
	case s.queue <- rec:
	default:
		if s.logger != nil {
			s.logger.Error("history queue full, dropping change", "address", address)
		}
	}
}

// writeLoop drains the queue. The single writer also owns the insert
// counter driving retention sweeps.
func (s *Store) writeLoop() {
	defer close(s.done)
	inserts := 0
	for rec := range s.queue {
		if s.insert(rec) {
			inserts++
			if s.retain > 0 && inserts%pruneEvery == 0 {
				ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
				s.prune(ctx)
				cancel()
			}
		}
	}
}

// insert writes one change row, reporting whether it landed.
func (s *Store) insert(rec record) bool {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	firstSeen := 0
	if rec.first {
		firstSeen = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO parameter_changes (register, address, previous, current, first_seen, changed_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.register, rec.address, rec.previous, rec.current, firstSeen,
		rec.changedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("history write failed", "address", rec.address, "error", err)
		}
		return false
	}
	return true
}

// prune deletes the oldest rows beyond the retention cap.
func (s *Store) prune(ctx context.Context) {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM parameter_changes WHERE id NOT IN (
		     SELECT id FROM parameter_changes ORDER BY id DESC LIMIT ?
		 )`,
		s.retain,
	)
	if err != nil && s.logger != nil {
		s.logger.Error("history prune failed", "error", err)
	}
}

// Recent returns the most recent changes, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Change, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, register, address, previous, current, first_seen, changed_at
		 FROM parameter_changes ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	return scanChanges(rows)
}

// AddressChanges returns the most recent changes for one OSC address.
func (s *Store) AddressChanges(ctx context.Context, address string, limit int) ([]Change, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, register, address, previous, current, first_seen, changed_at
		 FROM parameter_changes WHERE address = ? ORDER BY id DESC LIMIT ?`,
		address, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	return scanChanges(rows)
}

func scanChanges(rows *sql.Rows) ([]Change, error) {
	defer rows.Close() //nolint:errcheck // Read-only cursor

	var changes []Change
	for rows.Next() {
		var (
			c         Change
			register  int
			firstSeen int
			changedAt string
		)
		if err := rows.Scan(&c.ID, &register, &c.Address, &c.Previous, &c.Current, &firstSeen, &changedAt); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		c.Register = uint16(register)
		c.First = firstSeen != 0
		if t, err := time.Parse(time.RFC3339Nano, changedAt); err == nil {
			c.ChangedAt = t
		}
		changes = append(changes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: rows: %w", err)
	}
	return changes, nil
}

// Close drains queued changes, stops the writer and closes the
// database. The Store must not be used afterwards.
func (s *Store) Close() error {
	close(s.queue)
	<-s.done
	return s.db.Close()
}
