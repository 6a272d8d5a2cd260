// Package things reads the Things 3 database and projects its rows into
// a stable, list-oriented task model.
//
// # Schema caveat
//
// The schema is owned by the Things app and is not documented or stable
// across versions. Every query here is read-only, and every decode step
// degrades to a safe default instead of failing the request: unknown
// status or type codes map to the most common case, an unparseable
// recurrence rule still marks the task as recurring, and a missing
// calibration reference falls back to a fixed offset.
//
// # Date encodings
//
// The database mixes two date families. Creation, modification, stop
// and reminder timestamps are seconds since the Cocoa reference date
// (2001-01-01 UTC) and convert directly. Start dates, deadlines and
// next-occurrence values use an origin that is not recorded anywhere;
// the Calibrator infers the offset at runtime from the most recently
// scheduled active task, assuming it is dated today or very close to
// it.
//
// # Recurring tasks
//
// Things keeps recurring work in two shapes: a template row carrying
// the rule blob, and concrete instance rows it materializes shortly
// before each occurrence. Today and Upcoming merge both shapes into a
// single view, with concrete rows winning over their template when both
// are present.
package things
