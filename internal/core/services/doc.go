// Package services contains the core application logic: retrieval,
// context assembly, the RAG orchestrator and document ingestion.
// Services depend only on ports, never on concrete adapters.
package services
