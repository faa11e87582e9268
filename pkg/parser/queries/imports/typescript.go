package imports

// TSQueries matches import statements so that re-exported bindings can
// be traced back to the module they came from.
//
// Captures:
//   - @import.statement - the whole statement; its import_clause is walked
//     by the caller
//   - @import.source    - the quoted module specifier
const TSQueries = `
(import_statement
  source: (string) @import.source) @import.statement
`
