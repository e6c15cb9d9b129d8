/*
Package x contains extensions to the ledger kernel along with shared
authentication helpers. Each extension lives in its own subpackage and
registers message handlers on a router. Nothing in a subpackage may be
imported by the kernel itself.
*/
package x
