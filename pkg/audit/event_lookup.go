package audit

import "fmt"

// QRCodeFetchEvent records a lookup-code download.
type QRCodeFetchEvent struct {
	Protocolo    string
	ClientIP     string
	Success      bool
	ErrorMessage string
}

func (e QRCodeFetchEvent) MessageID() string {
	return "qrcode-fetch"
}

func (e QRCodeFetchEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s downloaded the lookup code of %s", e.ClientIP, e.Protocolo)
	}
	return withError(fmt.Sprintf("%s tried to download the lookup code of %s", e.ClientIP, e.Protocolo), e.ErrorMessage)
}

func (e QRCodeFetchEvent) Severity() Severity {
	return severity(e.Success)
}

func (e QRCodeFetchEvent) Facility() int {
	return FacilityLocal0
}

func (e QRCodeFetchEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDSubject: {
			"protocolo": e.Protocolo,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "qrcode",
			"result":    result(e.Success),
		},
	}
}

// UploadFetchEvent records a download of a stored supporting document.
type UploadFetchEvent struct {
	Filename     string
	ClientIP     string
	Success      bool
	ErrorMessage string
}

func (e UploadFetchEvent) MessageID() string {
	return "upload-fetch"
}

func (e UploadFetchEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s fetched document %s", e.ClientIP, e.Filename)
	}
	return withError(fmt.Sprintf("%s tried to fetch document %s", e.ClientIP, e.Filename), e.ErrorMessage)
}

func (e UploadFetchEvent) Severity() Severity {
	return severity(e.Success)
}

func (e UploadFetchEvent) Facility() int {
	return FacilityAuthPriv
}

func (e UploadFetchEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDSubject: {
			"document": e.Filename,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "download",
			"result":    result(e.Success),
		},
	}
}
