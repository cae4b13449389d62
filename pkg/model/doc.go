// Package model defines the registration record and its representations.
//
// # Models
//
//   - Cadastro: a social-assistance registration, stored in the cadastros table
//   - Answer: the sim/nao replies for possui_imovel and programa_social
//   - FileList: stored document names, persisted as a JSON array
//
// # Representations
//
// A Submission is the flat field set posted by the registration form (or the
// equivalent JSON body). Submission.Cadastro decodes it, returning a
// *FieldError for keys that are missing or do not parse.
//
// Transfer is the JSON shape returned by the API. Cadastro.Transfer and
// Transfer.Cadastro are inverses.
package model
