// Package taipu resolves and renders types for a TypeScript-like source
// language. It parses a file, binds names to lexical scopes, and checks
// declarations and expressions against a session-scoped type table, producing
// rendered types, type complaints, and a record of every construct it does
// not model.
//
//	taipu checks a deliberate subset of the language: primitives, literal
//	types, unions, type aliases, object literals and object type annotations,
//	and the everyday operators. Constructs outside the subset (generics,
//	arrays, calls, index signatures) still parse and bind; they resolve to
//	any and are noted as Degradations on the result instead of failing the
//	file.
//
//	Type complaints are data on the Result, not Go errors. Only malformed
//	source, an unreadable file, or an internal limit produces an error from
//	the entry points.
package taipu
