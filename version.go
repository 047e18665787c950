// Package myterminal is the backend of the myterminal desktop application.
package myterminal

// Version is the release version reported by the CLI and the MCP server.
const Version = "v0.1.0"
