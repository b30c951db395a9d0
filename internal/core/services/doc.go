// Package services implements the core retrieval logic behind the
// driving ports. The Indexer owns corpus fingerprinting and index
// generation lifecycle; the Retriever owns the hybrid search pipeline
// (query reformulation, rank fusion, composite rescoring, adjacent
// chunk merging, optional cross-encoder reranking) and the formatted
// output contract consumed by the agent boundary.
//
// Services depend only on ports and domain types. All adapters are
// injected at construction.
package services
