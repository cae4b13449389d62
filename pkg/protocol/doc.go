// Package protocol generates the registration protocol numbers handed back to
// citizens, e.g. CANAA-20240102030405-123.
package protocol
