/*
Package token implements a minimal asset layer: a registry of mints and
per-owner holdings of each mint.

A holding is stored under a deterministic address derived from the pair
(owner, mint), so any party can locate the holding of any owner for any
asset without an index. The Controller is the only write path. Other
extensions embed it to move funds as part of their own state
transitions.
*/
package token
