// Package rank scores embedded authors against an embedded query and
// produces a deterministic fitness ordering.
//
// Scores are cosine similarities. Because the profile builder and
// ResolveQuery both emit L2-normalized vectors, the similarity reduces
// to a dot product, but CosineSimilarity normalizes explicitly so
// arbitrary vectors are also safe to compare.
package rank
