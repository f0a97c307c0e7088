// Package certificate defines the Certificate record and its fixed binary layout.
//
// The layout is borsh: text fields are a little-endian u32 length followed by
// UTF-8 bytes, IssueDate is a little-endian i64, Issuer is the 32 raw key bytes
// and IsRevoked is a single 0/1 byte. Field order never changes; there is no
// version marker.
package certificate
