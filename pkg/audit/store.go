package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	_ "github.com/lib/pq"
)

// ErrStoreDisabled is returned by OpenStore when no audit database is
// configured. Callers treat it as "log to syslog only".
var ErrStoreDisabled = errors.New("audit database not configured")

const insertMessage = `INSERT INTO messages (facility, severity, timestamp, hostname, appname, procid, msgid, sdata, message)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

// Store writes audit events to the messages table.
type Store struct {
	db       *sql.DB
	hostname string
	procID   string
	now      func() time.Time
}

// OpenStore connects to the audit database at databaseURL. An empty URL
// yields ErrStoreDisabled.
func OpenStore(databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, ErrStoreDisabled
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening audit database: %w", err)
	}
	return NewStoreWithDB(db), nil
}

// NewStoreWithDB wraps an existing connection.
func NewStoreWithDB(db *sql.DB) *Store {
	hostname, _ := os.Hostname()
	return &Store{
		db:       db,
		hostname: hostname,
		procID:   strconv.Itoa(os.Getpid()),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save inserts event as one row. The insert is bound to ctx, so a cancelled
// request abandons its audit write.
func (s *Store) Save(ctx context.Context, event Event) error {
	if s == nil || s.db == nil {
		return nil
	}
	sdata, err := json.Marshal(event.StructuredData())
	if err != nil {
		return fmt.Errorf("encoding structured data for %s: %w", event.MessageID(), err)
	}
	_, err = s.db.ExecContext(ctx, insertMessage,
		event.Facility(),
		int(event.Severity()),
		s.now(),
		s.hostname,
		AppName,
		s.procID,
		event.MessageID(),
		sdata,
		event.Message(),
	)
	if err != nil {
		return fmt.Errorf("saving %s: %w", event.MessageID(), err)
	}
	return nil
}
