package imports

// JSQueries matches import statements in JavaScript sources.
const JSQueries = `
(import_statement
  source: (string) @import.source) @import.statement
`
