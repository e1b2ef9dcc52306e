package lang

// Package lang resolves language and locale codes to display names and back,
// using two static code tables embedded as JSON data files. Lookups never
// fail; anything unrecognized passes through unchanged.
