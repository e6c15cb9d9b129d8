/*
Package ledger defines all common interfaces that tie together the
subpackages of the escrow ledger, as well as implementations of some of
the simpler components (when interfaces would be too much overhead).

The ledger is modeled as an explicit key-value store of accounts.
Instructions arrive as messages wrapped in transactions, are routed to
handlers, and are applied one at a time: each instruction either
commits all of its writes or none of them.

Authorization is expressed through Conditions. A Condition describes
who (or what) may authorize an action and deterministically maps to an
Address. Addresses derived from conditions have no corresponding
signing key, which is what lets protocol logic - rather than any
keypair - hold custody of an account.
*/
package ledger
