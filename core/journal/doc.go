// Package journal persists registration runs in a local database.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to properly
// configure the connection based on the application's configuration. SQLite is
// the default driver so the CLI works without any server; MySQL is supported
// for shared deployments.
//
// # Model
//
// A Run records one invocation of the registration engine (device, timing,
// status, action counters). Each Run owns a list of Actions, the individual
// creates and updates the engine performed or, in dry-run mode, would have
// performed.
//
// # Usage
//
//	db, err := journal.Connect(cfg.Journal)
//	if err != nil {
//	    log.Fatal("Journal connection failed", err)
//	}
//	j, err := journal.New(db)
//	err = j.Record(ctx, run)
package journal
