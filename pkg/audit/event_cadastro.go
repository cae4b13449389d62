package audit

import (
	"fmt"
	"strconv"
)

// CadastroCreateEvent records a registration submission.
type CadastroCreateEvent struct {
	Protocolo    string
	ClientIP     string
	Documents    int
	Success      bool
	ErrorMessage string
}

func (e CadastroCreateEvent) MessageID() string {
	return "cadastro-create"
}

func (e CadastroCreateEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s registered cadastro %s with %d document(s)", e.ClientIP, e.Protocolo, e.Documents)
	}
	return withError(fmt.Sprintf("%s failed to register cadastro", e.ClientIP), e.ErrorMessage)
}

func (e CadastroCreateEvent) Severity() Severity {
	return severity(e.Success)
}

func (e CadastroCreateEvent) Facility() int {
	return FacilityLocal0
}

func (e CadastroCreateEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDSubject: {
			"documents": strconv.Itoa(e.Documents),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "create",
			"result":    result(e.Success),
		},
	}
	if e.Protocolo != "" {
		sd[SDIDSubject]["protocolo"] = e.Protocolo
	}
	return sd
}

// CadastroFetchEvent records a lookup of one registration by protocol.
type CadastroFetchEvent struct {
	Protocolo    string
	ClientIP     string
	Success      bool
	ErrorMessage string
}

func (e CadastroFetchEvent) MessageID() string {
	return "cadastro-fetch"
}

func (e CadastroFetchEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s fetched cadastro %s", e.ClientIP, e.Protocolo)
	}
	return withError(fmt.Sprintf("%s tried to fetch cadastro %s", e.ClientIP, e.Protocolo), e.ErrorMessage)
}

func (e CadastroFetchEvent) Severity() Severity {
	return severity(e.Success)
}

func (e CadastroFetchEvent) Facility() int {
	return FacilityAuthPriv
}

func (e CadastroFetchEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDSubject: {
			"protocolo": e.Protocolo,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "fetch",
			"result":    result(e.Success),
		},
	}
}

// CadastroListEvent records a page read of the registration list.
type CadastroListEvent struct {
	ClientIP     string
	Page         int
	PerPage      int
	Returned     int
	Success      bool
	ErrorMessage string
}

func (e CadastroListEvent) MessageID() string {
	return "cadastro-list"
}

func (e CadastroListEvent) Message() string {
	params := fmt.Sprintf("page=%d, per_page=%d", e.Page, e.PerPage)
	if e.Success {
		return fmt.Sprintf("%s listed %d cadastro(s) with parameters: %s", e.ClientIP, e.Returned, params)
	}
	return withError(fmt.Sprintf("%s failed to list cadastros with parameters: %s", e.ClientIP, params), e.ErrorMessage)
}

func (e CadastroListEvent) Severity() Severity {
	return severity(e.Success)
}

func (e CadastroListEvent) Facility() int {
	return FacilityAuthPriv
}

func (e CadastroListEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDPaginate: {
			"page":     strconv.Itoa(e.Page),
			"per_page": strconv.Itoa(e.PerPage),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "list",
			"result":    result(e.Success),
		},
	}
}
