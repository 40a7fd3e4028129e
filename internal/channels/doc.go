// Package channels resolves user-supplied channel references to TMDB watch
// providers.
//
// A Directory lists the providers available in the configured region and
// memoizes the listing per kind for a TTL. A reference may be a numeric
// provider id or a name. Names are matched case-insensitively first and then
// fuzzily; a fuzzy match must be unambiguous to resolve.
package channels
