// Package core provides the data explorer pipeline: import, classification,
// and the Overview and Analysis renderers, plus the shell that ties them to
// uploads.
//
// This package has no HTML or transport dependencies. Web handlers, tests, or
// other frontends call it directly.
//
// # Pipeline
//
// Every interaction runs the whole pipeline on the uploaded bytes:
//
//  1. [Importer.Import] parses CSV (encoding/csv) or XLSX (excelize) into a
//     [Table] backed by a gota DataFrame, with a [ColumnType] per column
//  2. [NumericColumns] selects the Integer and Float columns
//  3. [BuildOverview] and [BuildAnalysis] compute the view models
//
// Tables are never cached. The [UploadStore] keeps only the raw bytes, so a
// tab switch re-imports the file.
//
// # Shell
//
// [Shell] is a two-state machine. [Shell.Load] moves Idle to Loaded, or stays
// Idle with the import error attached. [Shell.Unload] returns to Idle.
// [Shell.Render] is a pure function of the State and the selected [Tab].
//
// [Service] wraps the Shell with the upload store, a concurrency limiter
// ([UploadLimiter]) and a store janitor.
//
// # Error Handling
//
// Parse failures are [*ImportError] values whose reason is one of the Err*
// sentinels. Technical errors are mapped to user-friendly messages using
// [MapError]. Each category has a code for support reference:
//
//   - IMP001-IMP003: Import errors (unsupported type, malformed CSV, corrupt spreadsheet)
//   - FILE001-FILE005: File errors (size, encoding, missing, empty)
//   - UPL002-UPL005: Upload errors (busy, not found, cancelled, timeout)
//   - RATE001: Rate limiting
package core
