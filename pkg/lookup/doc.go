// Package lookup renders the QR codes given to citizens after registering.
// Each code encodes <base>/consulta/<protocolo>.
package lookup
