/*
Package ledgertest provides mocks and helpers for testing ledger
extensions.

Structures provided by this package implement the core interfaces
(Tx, Authenticator, Handler) with the minimum behavior tests need,
plus counters to assert on interactions.
*/
package ledgertest
