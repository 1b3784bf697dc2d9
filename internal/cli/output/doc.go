// Package output renders RESP replies for rediskv-cli.
//
// The text format follows redis-cli: quoted bulk strings, (nil),
// (integer) and (error) prefixes and numbered array elements. The raw
// format prints payloads verbatim, and json renders a JSON document.
package output
