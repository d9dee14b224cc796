// Package authservice issues and verifies bearer tokens for bookshelf.
//
// Only a single demo credential is supported. Login outcomes and token
// expiry are published as notifications.
package authservice
