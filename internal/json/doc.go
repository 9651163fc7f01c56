// Package json is the JSON codec used for reports. It is backed by
// [sonic] on the platforms sonic's JIT supports and by encoding/json
// elsewhere, behind the same small API.
package json
