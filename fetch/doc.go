// Package fetch resolves publication URLs into title and abstract
// metadata ahead of a scoring run. Only arXiv abstract URLs are
// supported; other hosts are skipped with a warning.
package fetch
