// Package resp implements the RESP wire codec used by rediskv.
//
// Supported types:
//
//	+<text>\r\n              simple string
//	-<text>\r\n              simple error
//	:<int>\r\n               integer
//	$<len>\r\n<bytes>\r\n    bulk string ($-1 is the null bulk string)
//	*<count>\r\n<values>     array (*-1 is the null array)
//	_\r\n                    null
//
// The remaining RESP3 types (maps, sets, booleans, doubles, big numbers,
// verbatim strings, attributes, pushes and bulk errors) are recognized by
// their leading byte and rejected with ErrUnsupportedType. Input is never
// read past a declared length.
package resp
