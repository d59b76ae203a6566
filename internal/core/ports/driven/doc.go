// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports). The pipeline core depends only on these
// contracts; each external capability is substitutable independently.
package driven
