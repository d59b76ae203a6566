// Package domain contains the core business types for the FinBot
// retrieval-augmented generation pipeline. These types carry no
// dependencies on adapters or external services.
package domain
