// Package generator builds deterministic audit reports from a URL.
//
// No website is fetched. Every score, metric, detected technology, issue and
// business figure is derived from the URL alone:
//
//	seed  = sum of the UTF-16 code units of the URL
//	r(k)  = frac(sin(seed + k) * 10000)
//
// where k is a fixed offset assigned to each use site (scores 1-4, tech
// detection 5-9, metrics 12-16, issue inclusion 20-24, business 30-32).
//
// Design decision: We use the stateless sine hash rather than math/rand
// seeded from the URL. Each value depends only on (seed, offset), so adding or
// removing a draw never shifts the others, and reports stay reproducible
// across releases as long as the offset table is unchanged.
//
// Only the report ID and timestamp differ between two generations for the
// same URL.
package generator
