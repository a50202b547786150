package calibration

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Record is one saved calibration.
type Record struct {
	Device  string
	Offset  float64
	Samples []float64
	Created time.Time
}

// Store keeps calibrations in sqlite.
type Store struct {
	db *sql.DB
}

// Open creates the offsets table if needed. ":memory:" gives a private
// in-memory database.
func Open(file string) (*Store, error) {
	db, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, err
	}
	if file == ":memory:" {
		// every connection would see its own empty database
		db.SetMaxOpenConns(1)
	}

	initStatement := `
	create table if not exists offsets 
	  (
		  id integer not null primary key, 
		  device text not null,
		  seconds real not null,
		  samples blob,
		  created integer not null
	  );
	`
	if _, err = db.Exec(initStatement); nil != err {
		db.Close()
		return nil, fmt.Errorf("unable to create offsets table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if nil == s.db {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Save(device string, offset float64, samples []float64) error {
	data, err := json.Marshal(samples)
	if nil != err {
		return fmt.Errorf("unable to marshal samples: %w", err)
	}
	_, err = s.db.Exec(
		"insert into offsets(device, seconds, samples, created) values(?, ?, ?, ?)",
		device, offset, data, time.Now().UnixNano(),
	)
	if nil != err {
		return fmt.Errorf("unable to save offset: %w", err)
	}
	return nil
}

// Latest is the most recent offset for device; ok is false when none exists.
func (s *Store) Latest(device string) (offset float64, ok bool, err error) {
	err = s.db.QueryRow(
		"select seconds from offsets where device = ? order by id desc limit 1", device,
	).Scan(&offset)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if nil != err {
		return 0, false, fmt.Errorf("unable to load offset: %w", err)
	}
	return offset, true, nil
}

// History lists every calibration of device, oldest first.
func (s *Store) History(device string) ([]Record, error) {
	rows, err := s.db.Query(
		"select seconds, samples, created from offsets where device = ? order by id", device,
	)
	if nil != err {
		return nil, fmt.Errorf("unable to load offsets: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var (
			r       = Record{Device: device}
			data    []byte
			created int64
		)
		if err := rows.Scan(&r.Offset, &data, &created); nil != err {
			return nil, err
		}
		if len(data) > 0 {
			if err := json.Unmarshal(data, &r.Samples); nil != err {
				return nil, fmt.Errorf("unable to unmarshal samples: %w", err)
			}
		}
		r.Created = time.Unix(0, created)
		records = append(records, r)
	}
	return records, rows.Err()
}
