/*
Package ports defines the driven ports (interfaces) for the verdict editor.

These interfaces decouple the document core from hosts, allowing the same engine
to serve an in-process renderer, the HTTP API and the MCP server.

# Key Interfaces

  - DocumentEngine: Stateless conversion/classification core (runtime.Engine).
  - Renderer: Commits documents and reports item positions for animation.
  - StateStore: Holds live session State for multi-client hosts.
  - DistributedLocker: Serializes actions on one document across replicas.
*/
package ports
