// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - CorpusSource: Supplies raw policy documents and change stamps
//   - LexicalIndex: BM25 keyword ranking over the chunked corpus
//   - VectorIndex: Embedding similarity search over the chunked corpus
//   - EmbeddingService: Generates deterministic vector embeddings
//   - IndexStore: Persistence for index generations and retrieval results
//   - AnswerCache: Two-tier cache for generated answers
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Reranker: Cross-encoder rescoring of fused candidates. Any fault
//     falls back silently to the fused ordering.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
