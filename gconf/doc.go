/*
Package gconf provides a toolset for managing an extension
configuration.

Each extension can store exactly one configuration object, as a
singleton, in the store. The object is initialized from the genesis
options and can be loaded by any handler that needs it.
*/
package gconf
