/*
Package swap implements a trustless two party asset exchange.

A maker locks a deposit of one asset in a vault and names the price in
another asset. Any taker can atomically pay the price to the maker and
collect the deposit. Until that happens the maker can refund. Exactly
one of take and refund closes a given escrow.

Custody is structural. The escrow record lives under an address derived
from (maker, seed, bump) and the vault is the record's own holding of
the deposited asset. No private key controls either address, so funds
can only leave through the handlers in this package, which re-derive
and compare every supplied address before moving anything.
*/
package swap
