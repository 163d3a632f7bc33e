/*
Package session serializes actions on live editing sessions.

Hosts that serve several clients (HTTP, MCP) keep one State per document in a
ports.StateStore. The Manager runs every read-modify-write under a per-document
mutex (reference counted, so idle documents hold no lock entry) and, when a
ports.DistributedLocker is configured, under a lock shared with other replicas.
*/
package session
