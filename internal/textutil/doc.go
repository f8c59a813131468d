// Package textutil provides text processing utilities for fingerprinting,
// similarity, and filename sanitization.
//
// Fingerprints are term-frequency vectors built from lowercased tokens; they
// back the string-similarity fallback used when no embedding model is
// configured for image association. Sanitization helpers normalize image
// filenames before matching.
package textutil
