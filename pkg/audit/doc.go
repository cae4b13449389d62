// Package audit records access to registration data.
//
// Every create, lookup, list, lookup-code download and document download is
// written as an RFC5424 syslog line and, when AUDIT_DATABASE_URL is set,
// inserted into the messages table.
//
// # Event Types
//
//   - cadastro-create: a submission, successful or not
//   - cadastro-fetch: a lookup by protocol
//   - cadastro-list: a page of the registration list
//   - qrcode-fetch: a lookup-code download
//   - upload-fetch: a supporting document download
//
// # Usage
//
//	auditor := audit.New(audit.NewLogger(), store, true, logger)
//	auditor.Log(ctx, audit.CadastroFetchEvent{Protocolo: p, ClientIP: ip, Success: true})
package audit
