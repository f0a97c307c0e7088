// Package model defines the JSON boundary types exchanged with clients.
//
// Canonical state is the borsh bytes held in ledger accounts; these structs
// are projections of it and carry no identity of their own.
package model
