// Package restart persists walker-list snapshots in SQLite, letting a run
// terminated by a soft exit resume from its last report boundary.
package restart

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/robertodr/hande/det"
	"github.com/robertodr/hande/fciqmc"
)

const (
	tableWalkers = "walkers"
	tableMeta    = "meta"
)

// Snapshot is the full restartable state at a report boundary.
type Snapshot struct {
	NBasis        int
	NCyclesDone   int
	NParticlesOld int64
	Shift         float64
	Walkers       []fciqmc.Walker
}

func Save(path string, snap *Snapshot) error {
	db, err := newDB(path)
	if err != nil {
		return errors.Wrap(err, "")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 48*time.Hour)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "")
	}
	sqlStr := fmt.Sprintf(`INSERT INTO %s (det, pop0, pop1) VALUES (?, ?, ?)`, tableWalkers)
	for _, w := range snap.Walkers {
		if _, err := tx.ExecContext(ctx, sqlStr, w.Det.AppendBytes(nil), w.Pops[0], w.Pops[1]); err != nil {
			tx.Rollback()
			return errors.Wrap(err, "")
		}
	}
	metas := [][2]string{
		{"nbasis", strconv.Itoa(snap.NBasis)},
		{"ncycles_done", strconv.Itoa(snap.NCyclesDone)},
		{"nparticles_old", strconv.FormatInt(snap.NParticlesOld, 10)},
		{"shift", strconv.FormatFloat(snap.Shift, 'g', -1, 64)},
	}
	sqlStr = fmt.Sprintf(`INSERT INTO %s (k, v) VALUES (?, ?)`, tableMeta)
	for _, kv := range metas {
		if _, err := tx.ExecContext(ctx, sqlStr, kv[0], kv[1]); err != nil {
			tx.Rollback()
			return errors.Wrap(err, "")
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

func Load(path string) (*Snapshot, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s", path))
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 48*time.Hour)
	defer cancel()

	snap := &Snapshot{}
	if snap.NBasis, err = metaInt(ctx, db, "nbasis"); err != nil {
		return nil, errors.Wrap(err, "")
	}
	if snap.NCyclesDone, err = metaInt(ctx, db, "ncycles_done"); err != nil {
		return nil, errors.Wrap(err, "")
	}
	np, err := metaString(ctx, db, "nparticles_old")
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	if snap.NParticlesOld, err = strconv.ParseInt(np, 10, 64); err != nil {
		return nil, errors.Wrap(err, np)
	}
	sh, err := metaString(ctx, db, "shift")
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	if snap.Shift, err = strconv.ParseFloat(sh, 64); err != nil {
		return nil, errors.Wrap(err, sh)
	}

	sqlStr := fmt.Sprintf(`SELECT det, pop0, pop1 FROM %s`, tableWalkers)
	rows, err := db.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	defer rows.Close()
	wantLen := 8 * det.BasisLength(snap.NBasis)
	for rows.Next() {
		var blob []byte
		var w fciqmc.Walker
		if err := rows.Scan(&blob, &w.Pops[0], &w.Pops[1]); err != nil {
			return nil, errors.Wrap(err, "")
		}
		if len(blob) != wantLen {
			return nil, errors.Errorf("%d bytes, expected %d", len(blob), wantLen)
		}
		w.Det = det.FromBytes(blob)
		snap.Walkers = append(snap.Walkers, w)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "")
	}
	return snap, nil
}

func newDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s", path))
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	if err := prepareDB(db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "")
	}
	return db, nil
}

func prepareDB(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	for _, sqlStr := range []string{
		fmt.Sprintf(`DROP TABLE IF EXISTS %s`, tableWalkers),
		fmt.Sprintf(`DROP TABLE IF EXISTS %s`, tableMeta),
		fmt.Sprintf(`CREATE TABLE %s (det BLOB PRIMARY KEY, pop0 INTEGER, pop1 INTEGER) STRICT`, tableWalkers),
		fmt.Sprintf(`CREATE TABLE %s (k TEXT PRIMARY KEY, v TEXT) STRICT`, tableMeta),
	} {
		if _, err := db.ExecContext(ctx, sqlStr); err != nil {
			return errors.Wrap(err, sqlStr)
		}
	}
	return nil
}

func metaString(ctx context.Context, db *sql.DB, key string) (string, error) {
	sqlStr := fmt.Sprintf(`SELECT v FROM %s WHERE k=?`, tableMeta)
	var v string
	if err := db.QueryRowContext(ctx, sqlStr, key).Scan(&v); err != nil {
		return "", errors.Wrap(err, key)
	}
	return v, nil
}

func metaInt(ctx context.Context, db *sql.DB, key string) (int, error) {
	s, err := metaString(ctx, db, key)
	if err != nil {
		return -1, errors.Wrap(err, "")
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return -1, errors.Wrap(err, s)
	}
	return v, nil
}
