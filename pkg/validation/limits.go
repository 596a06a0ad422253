package validation

// MaxBodySize is the default cap on request bodies (64 KB).
const MaxBodySize = 64 * 1024
