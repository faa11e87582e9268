package events

// JSQueries is the JavaScript counterpart of TSQueries. The JavaScript
// grammar has no type arguments, so dispatchers are always untyped.
const JSQueries = `
(variable_declarator
  name: (identifier) @dispatcher.name
  value: (call_expression
    function: (identifier) @dispatcher.factory)) @dispatcher.definition

(call_expression
  function: (identifier) @dispatch.function
  arguments: (arguments
    .
    (string) @dispatch.event)) @dispatch.call
`
