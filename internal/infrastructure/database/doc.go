// Package database provides the SQLite store backing the monitor's
// persisted settings (battery threshold and excluded devices).
//
// The engine itself is schema-agnostic: it opens the connection,
// applies the embedded migrations registered by the migrations
// package, and hands the bare sql.DB to the settings repository.
// Battery readings are never written here; the database holds
// operator intent only, so losing it costs a threshold and an
// exclusion list, not telemetry.
//
// Operational notes:
//   - WAL mode lets the API read settings while an update commits
//   - the busy timeout absorbs lock contention between store and migrations
//   - the file is chmod 0600; it contains device identifiers
//   - all queries use parameterised statements
//
// Usage:
//
//	db, err := database.Open(cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
// Migrations are additive where possible; every file ships both an
// .up.sql and a .down.sql so a release can be stepped back.
package database
