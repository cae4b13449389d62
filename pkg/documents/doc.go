// Package documents handles the supporting files attached to a registration.
//
// Uploads are filtered by extension (pdf, png, jpg, jpeg, gif), renamed to
// SecureFilename(protocolo + "_" + original) and written to a blob.Store.
package documents
