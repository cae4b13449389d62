package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/cucumber/godog"

	"github.com/projeto-canaa/cadastro/pkg/protocol"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	protocolo    string
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{tc: tc}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the registration service is running$`, s.theRegistrationServiceIsRunning)

	// Registration steps
	sc.Step(`^I submit a registration for "([^"]*)"$`, s.iSubmitARegistrationFor)
	sc.Step(`^I submit a registration for "([^"]*)" with documents "([^"]*)"$`, s.iSubmitARegistrationWithDocuments)
	sc.Step(`^I submit a registration without form data$`, s.iSubmitARegistrationWithoutFormData)
	sc.Step(`^I submit a registration for "([^"]*)" born on "([^"]*)"$`, s.iSubmitARegistrationBornOn)
	sc.Step(`^(\d+) registrations have been submitted$`, s.registrationsHaveBeenSubmitted)

	// Lookup steps
	sc.Step(`^I look up the registration$`, s.iLookUpTheRegistration)
	sc.Step(`^I look up the protocol "([^"]*)"$`, s.iLookUpTheProtocol)
	sc.Step(`^I download the lookup code$`, s.iDownloadTheLookupCode)
	sc.Step(`^I download the stored document "([^"]*)"$`, s.iDownloadTheStoredDocument)
	sc.Step(`^I list registrations with "([^"]*)"$`, s.iListRegistrationsWith)
	sc.Step(`^I check the service health$`, s.iCheckTheServiceHealth)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response should contain a protocol number$`, s.theResponseShouldContainAProtocolNumber)
	sc.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, s.theResponseFieldShouldBe)
	sc.Step(`^the response content type should be "([^"]*)"$`, s.theResponseContentTypeShouldBe)
	sc.Step(`^the response body should be "([^"]*)"$`, s.theResponseBodyShouldBe)
	sc.Step(`^the response error should be "([^"]*)"$`, s.theResponseErrorShouldBe)
	sc.Step(`^the listing should report (\d+) total, (\d+) pages and (\d+) items$`, s.theListingShouldReport)

	// Database steps
	sc.Step(`^the registration should be stored in the database$`, s.theRegistrationShouldBeStored)
	sc.Step(`^(\d+) registrations should be stored in the database$`, s.registrationsShouldBeStored)
}

func (s *StepsContext) theRegistrationServiceIsRunning() error {
	return s.tc.Reset()
}

func registrationFields(nome string) map[string]string {
	return map[string]string{
		"nomeCompleto":      nome,
		"cpf":               "123.456.789-00",
		"rg":                "12.345.678-9",
		"dataNascimento":    "1980-05-17",
		"endereco":          `{"rua":"Rua das Flores","numero":"42","bairro":"Centro","cep":"18240-000"}`,
		"telefone":          "(15) 99999-0000",
		"tempoFixacao":      "12",
		"quantidadePessoas": "3",
		"moradores":         "Ana, Pedro",
		"rendaFamiliar":     "1850.50",
		"possuiImovel":      "nao",
		"programaSocial":    "sim",
		"autoDeclaracao":    `{"pcd":false,"idoso":false,"outros":false,"outrosDescricao":""}`,
	}
}

func (s *StepsContext) submit(fields map[string]string, documents []string) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return err
		}
	}
	for _, name := range documents {
		part, err := mw.CreateFormFile("documentos", name)
		if err != nil {
			return err
		}
		if _, err := part.Write([]byte("conteudo de " + name)); err != nil {
			return err
		}
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequest("POST", s.tc.ServerURL()+"/cadastro", &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if err := s.do(req); err != nil {
		return err
	}

	if s.response.StatusCode == http.StatusCreated {
		var created struct {
			Protocolo string `json:"protocolo"`
		}
		if err := json.Unmarshal(s.responseBody, &created); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
		s.protocolo = created.Protocolo
	}
	return nil
}

func (s *StepsContext) do(req *http.Request) error {
	var err error
	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}

	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	return err
}

func (s *StepsContext) get(path string) error {
	req, err := http.NewRequest("GET", s.tc.ServerURL()+path, nil)
	if err != nil {
		return err
	}
	return s.do(req)
}

// Registration steps

func (s *StepsContext) iSubmitARegistrationFor(nome string) error {
	return s.submit(registrationFields(nome), nil)
}

func (s *StepsContext) iSubmitARegistrationWithDocuments(nome, documents string) error {
	var names []string
	for _, n := range strings.Split(documents, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return s.submit(registrationFields(nome), names)
}

func (s *StepsContext) iSubmitARegistrationWithoutFormData() error {
	req, err := http.NewRequest("POST", s.tc.ServerURL()+"/cadastro", nil)
	if err != nil {
		return err
	}
	return s.do(req)
}

func (s *StepsContext) iSubmitARegistrationBornOn(nome, date string) error {
	fields := registrationFields(nome)
	fields["dataNascimento"] = date
	return s.submit(fields, nil)
}

func (s *StepsContext) registrationsHaveBeenSubmitted(n int) error {
	for i := 0; i < n; i++ {
		if err := s.iSubmitARegistrationFor(fmt.Sprintf("Pessoa %d", i+1)); err != nil {
			return err
		}
		if s.response.StatusCode != http.StatusCreated {
			return fmt.Errorf("registration %d failed with %d: %s", i+1, s.response.StatusCode, s.responseBody)
		}
	}
	return nil
}

// Lookup steps

func (s *StepsContext) iLookUpTheRegistration() error {
	return s.get("/consulta/" + s.protocolo)
}

func (s *StepsContext) iLookUpTheProtocol(protocolo string) error {
	return s.get("/consulta/" + protocolo)
}

func (s *StepsContext) iDownloadTheLookupCode() error {
	return s.get("/qrcode/" + s.protocolo)
}

func (s *StepsContext) iDownloadTheStoredDocument(name string) error {
	return s.get("/uploads/" + s.protocolo + "_" + name)
}

func (s *StepsContext) iListRegistrationsWith(query string) error {
	path := "/cadastros"
	if query != "" {
		path += "?" + query
	}
	return s.get(path)
}

func (s *StepsContext) iCheckTheServiceHealth() error {
	return s.get("/health")
}

// Response steps

func (s *StepsContext) theResponseStatusShouldBe(expectedStatus int) error {
	if s.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d: %s", expectedStatus, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseShouldContainAProtocolNumber() error {
	if !protocol.Pattern.MatchString(s.protocolo) {
		return fmt.Errorf("malformed protocol %q in %s", s.protocolo, s.responseBody)
	}
	return nil
}

// theResponseFieldShouldBe compares a dotted path into the JSON body, e.g.
// "cadastro.endereco.cidade".
func (s *StepsContext) theResponseFieldShouldBe(path, expected string) error {
	var doc interface{}
	if err := json.Unmarshal(s.responseBody, &doc); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	cur := doc
	for _, key := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]interface{})
		if !ok {
			return fmt.Errorf("%s: %q is not an object", path, key)
		}
		if cur, ok = obj[key]; !ok {
			return fmt.Errorf("%s: missing %q", path, key)
		}
	}

	if actual := fmt.Sprint(cur); actual != expected {
		return fmt.Errorf("expected %s to be %q, got %q", path, expected, actual)
	}
	return nil
}

func (s *StepsContext) theResponseContentTypeShouldBe(expected string) error {
	if actual := s.response.Header.Get("Content-Type"); actual != expected {
		return fmt.Errorf("expected content type %q, got %q", expected, actual)
	}
	return nil
}

func (s *StepsContext) theResponseBodyShouldBe(expected string) error {
	actual := strings.TrimSpace(string(s.responseBody))
	if actual != expected {
		return fmt.Errorf("expected body %q, got %q", expected, actual)
	}
	return nil
}

func (s *StepsContext) theResponseErrorShouldBe(expected string) error {
	return s.theResponseFieldShouldBe("error", expected)
}

func (s *StepsContext) theListingShouldReport(total, pages, items int) error {
	var listing struct {
		Cadastros []json.RawMessage `json:"cadastros"`
		Total     int               `json:"total"`
		Pages     int               `json:"pages"`
	}
	if err := json.Unmarshal(s.responseBody, &listing); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if listing.Total != total || listing.Pages != pages || len(listing.Cadastros) != items {
		return fmt.Errorf("expected %d total, %d pages and %d items, got %d, %d and %d",
			total, pages, items, listing.Total, listing.Pages, len(listing.Cadastros))
	}
	return nil
}

// Database steps

func (s *StepsContext) theRegistrationShouldBeStored() error {
	var count int64
	if err := s.tc.DB.Raw(`SELECT COUNT(*) FROM cadastros WHERE protocolo = ?`, s.protocolo).Scan(&count).Error; err != nil {
		return err
	}
	if count != 1 {
		return fmt.Errorf("registration %s not found", s.protocolo)
	}
	return nil
}

func (s *StepsContext) registrationsShouldBeStored(expected int) error {
	var count int64
	if err := s.tc.DB.Raw(`SELECT COUNT(*) FROM cadastros`).Scan(&count).Error; err != nil {
		return err
	}
	if count != int64(expected) {
		return fmt.Errorf("expected %d registrations, found %d", expected, count)
	}
	return nil
}
