/*
Package errors implements coded errors for the ledger.

Every error returned from a handler or a model must wrap one of the
root errors declared in this package (or registered by an extension).
Context is attached with Wrap and a kind is tested with the root error
Is method. Error codes are stable and safe to return to a client, while
the full message chain (including a stack trace attached at the
innermost wrap) stays server side.
*/
package errors
