package events

// TSQueries matches the event dispatch plumbing of a component script.
//
// Captures:
//   - @dispatcher.* - a variable initialized by a call; the caller keeps
//     only calls to createEventDispatcher
//   - @dispatch.*   - a call whose first argument is a string literal; the
//     caller keeps only calls through a known dispatcher
const TSQueries = `
; const dispatch = createEventDispatcher<{ change: string }>();
(variable_declarator
  name: (identifier) @dispatcher.name
  value: (call_expression
    function: (identifier) @dispatcher.factory)) @dispatcher.definition

; dispatch('change', value)
(call_expression
  function: (identifier) @dispatch.function
  arguments: (arguments
    .
    (string) @dispatch.event)) @dispatch.call
`
