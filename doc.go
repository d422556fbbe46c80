// Package ora is a safe, idiomatic driver over the Oracle Call
// Interface (OCI) client library.
//
// It exposes connections (Session), prepared statements (Stmt),
// parameter binding, row fetching, and typed column values —
// including nested cursors (Cursor) and LOB locators (Lob, BFile) —
// in both a blocking and a future-driven nonblocking flavor (see
// package async.go).
//
// The package is a thin, safety-preserving facade over the vendor
// client: it does not reimplement the wire protocol, parse SQL, or
// offer cross-database portability.
package ora

// Version identifies this driver build in OCI_ATTR_DRIVER_NAME.
const Version = "1.0"
