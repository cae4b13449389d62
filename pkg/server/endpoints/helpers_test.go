package endpoints

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/projeto-canaa/cadastro/pkg/audit"
	"github.com/projeto-canaa/cadastro/pkg/blob"
	"github.com/projeto-canaa/cadastro/pkg/config"
	"github.com/projeto-canaa/cadastro/pkg/documents"
	"github.com/projeto-canaa/cadastro/pkg/logging"
	"github.com/projeto-canaa/cadastro/pkg/model"
	"github.com/projeto-canaa/cadastro/pkg/protocol"
	"github.com/projeto-canaa/cadastro/pkg/server"
)

var fixedNow = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

type testEnv struct {
	server    *server.Server
	cadastros *MockCadastrosStore
	health    *MockHealthStore
	blobs     *blob.Memory
	audit     *bytes.Buffer
}

// newTestEnv builds a server over mock stores and an in-memory blob store.
// suffixes, when given, are handed out in order as protocol suffixes.
func newTestEnv(t *testing.T, suffixes ...int) *testEnv {
	t.Helper()

	blobs := blob.NewMemory()
	intake := documents.NewIntake(blobs, logging.Discard())
	s := server.NewServer(nil, config.Static(config.Default()), intake, logging.Discard(), "127.0.0.1", "0")

	env := &testEnv{
		server:    s,
		cadastros: NewMockCadastrosStore(),
		health:    NewMockHealthStore(),
		blobs:     blobs,
		audit:     &bytes.Buffer{},
	}
	s.CadastrosStore = env.cadastros
	s.HealthStore = env.health

	auditLogger := audit.NewLogger()
	auditLogger.SetWriter(env.audit)
	s.Audit = audit.New(auditLogger, nil, true, logging.Discard())

	s.Protocols = func() *protocol.Generator {
		g := protocol.NewGenerator(protocol.DefaultPrefix)
		g.Now = func() time.Time { return fixedNow }
		if len(suffixes) > 0 {
			next := 0
			g.Suffix = func() int {
				v := suffixes[next%len(suffixes)]
				next++
				return v
			}
		}
		return g
	}

	RegisterAll(s)
	return env
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.server.Router.ServeHTTP(w, req)
	return w
}

type upload struct {
	name    string
	content []byte
}

func validFields() map[string]string {
	return map[string]string{
		"nomeCompleto":      "Maria da Silva",
		"cpf":               "123.456.789-00",
		"rg":                "12.345.678-9",
		"dataNascimento":    "1980-05-17",
		"endereco":          `{"rua":"Rua das Flores","numero":"42","bairro":"Centro","cidade":"Angatuba","estado":"SP","cep":"18240-000"}`,
		"telefone":          "(15) 99999-0000",
		"tempoFixacao":      "12",
		"quantidadePessoas": "4",
		"moradores":         "João, Ana, Pedro",
		"rendaFamiliar":     "1850.50",
		"possuiImovel":      "sim",
		"programaSocial":    "nao",
		"autoDeclaracao":    `{"pcd":true,"idoso":false,"outros":false,"outrosDescricao":""}`,
	}
}

func multipartRequest(t *testing.T, fields map[string]string, files ...upload) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		part, err := mw.CreateFormFile("documentos", f.name)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/cadastro", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, r io.Reader, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(r).Decode(v))
}

func sampleCadastro(protocolo string, docs ...string) *model.Cadastro {
	return &model.Cadastro{
		ID:                1,
		Protocolo:         protocolo,
		NomeCompleto:      "Maria da Silva",
		CPF:               "123.456.789-00",
		RG:                "12.345.678-9",
		DataNascimento:    time.Date(1980, 5, 17, 0, 0, 0, 0, time.UTC),
		EnderecoRua:       "Rua das Flores",
		EnderecoNumero:    "42",
		EnderecoBairro:    "Centro",
		EnderecoCidade:    "Angatuba",
		EnderecoEstado:    "SP",
		EnderecoCEP:       "18240-000",
		Telefone:          "(15) 99999-0000",
		TempoFixacao:      12,
		QuantidadePessoas: 4,
		RendaFamiliar:     1850.5,
		PossuiImovel:      model.AnswerSim,
		ProgramaSocial:    model.AnswerNao,
		AutoDeclaracaoPCD: true,
		Documentos:        model.FileList(docs),
		DataCadastro:      fixedNow,
	}
}
