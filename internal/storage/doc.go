// Package storage provides SQLite-based persistence for scan history.
//
// Saving is opt-in. A saved run is a record of what a scan reported; it is
// never read back to skip work on a later scan.
//
// # Database Schema
//
// Tables:
//   - runs: one row per saved scan (input paths, options, grand totals)
//   - run_files: per-file counts in traversal order, with a BLAKE3 digest
//     of the file content
//   - schema_version: applied migrations (semver ordered)
//
// # Basic Usage
//
//	db, err := storage.NewSQLiteStorage("~/.uloc/history.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	run, files := storage.NewRun(paths, optsJSON, result.Records, result.Report, len(result.Errors))
//	if err := storage.SaveRun(ctx, db, run, files); err != nil {
//	    return err
//	}
//
//	recent, _ := db.ListRuns(ctx, 10)
//
// # Transactions
//
// SaveRun writes a run and all of its files atomically:
//
//	tx, err := db.BeginTx(ctx)
//	if err != nil {
//	    return err
//	}
//	defer tx.Rollback()
//
//	_ = tx.CreateRun(ctx, run)
//	_ = tx.InsertRunFile(ctx, file)
//
//	return tx.Commit()
//
// Deleting a run cascades to its files.
//
// # Build Modes
//
// The default build uses modernc.org/sqlite (pure Go, CGO_ENABLED=0 works).
// Building with -tags sqlite_cgo switches to github.com/mattn/go-sqlite3.
// BuildMode and DriverName report which one is linked.
package storage
