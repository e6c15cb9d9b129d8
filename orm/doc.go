/*
Package orm provides an easy to use db wrapper.

It breaks the state space into prefixed sections called Buckets. Each
bucket contains only one type of object, addressed by a primary key.
Objects are protobuf-persisted and validated before every save.
*/
package orm
