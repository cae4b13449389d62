package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format of data_nascimento.
const DateLayout = "2006-01-02"

// ErrMissingField is wrapped by FieldError when a required key is absent.
var ErrMissingField = errors.New("campo obrigatório ausente")

// ErrNotFinite is wrapped by FieldError for NaN and infinite numbers.
var ErrNotFinite = errors.New("valor numérico não finito")

// FieldError reports a submission field that is missing or does not parse.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	if errors.Is(e.Err, ErrMissingField) {
		return fmt.Sprintf("%s: %s", ErrMissingField, e.Field)
	}
	return fmt.Sprintf("campo inválido %s: %s", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Defaults supplies address values used when the submission leaves them out.
type Defaults struct {
	Cidade string
	Estado string
}

type enderecoFields struct {
	Rua    *string `json:"rua"`
	Numero *string `json:"numero"`
	Bairro *string `json:"bairro"`
	Cidade *string `json:"cidade"`
	Estado *string `json:"estado"`
	CEP    *string `json:"cep"`
}

type autoDeclaracaoFields struct {
	PCD             *bool   `json:"pcd"`
	Idoso           *bool   `json:"idoso"`
	Outros          *bool   `json:"outros"`
	OutrosDescricao *string `json:"outrosDescricao"`
}

// Submission is the flat set of fields sent by the registration form.
// Endereco and AutoDeclaracao carry JSON documents.
type Submission map[string]string

// SubmissionFromForm copies the first value of every form key.
func SubmissionFromForm(values url.Values) Submission {
	s := make(Submission, len(values))
	for key, vals := range values {
		if len(vals) > 0 {
			s[key] = vals[0]
		}
	}
	return s
}

// SubmissionFromJSON reads a JSON object with the same keys as the form.
// Scalars may be strings, numbers or booleans; endereco and autoDeclaracao
// are objects.
func SubmissionFromJSON(r io.Reader) (Submission, error) {
	var raw map[string]json.RawMessage
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("corpo JSON inválido: %w", err)
	}

	s := make(Submission, len(raw))
	for key, value := range raw {
		value = bytes.TrimSpace(value)
		if len(value) == 0 || bytes.Equal(value, []byte("null")) {
			continue
		}
		switch value[0] {
		case '"':
			var str string
			if err := json.Unmarshal(value, &str); err != nil {
				return nil, &FieldError{Field: key, Err: err}
			}
			s[key] = str
		default:
			s[key] = string(value)
		}
	}
	return s, nil
}

func (s Submission) require(key string) (string, error) {
	v, ok := s[key]
	if !ok {
		return "", &FieldError{Field: key, Err: ErrMissingField}
	}
	return v, nil
}

func (s Submission) requireInt(key string) (int, error) {
	v, err := s.require(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, &FieldError{Field: key, Err: err}
	}
	return n, nil
}

func (s Submission) requireFloat(key string) (float64, error) {
	v, err := s.require(key)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, &FieldError{Field: key, Err: err}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &FieldError{Field: key, Err: ErrNotFinite}
	}
	return f, nil
}

func (s Submission) requireAnswer(key string) (Answer, error) {
	v, err := s.require(key)
	if err != nil {
		return 0, err
	}
	a, err := ParseAnswer(strings.TrimSpace(v))
	if err != nil {
		return 0, &FieldError{Field: key, Err: err}
	}
	return a, nil
}

func (s Submission) requireDate(key string) (time.Time, error) {
	v, err := s.require(key)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(DateLayout, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, &FieldError{Field: key, Err: err}
	}
	return t, nil
}

func (s Submission) requireJSON(key string, into interface{}) error {
	v, err := s.require(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(v), into); err != nil {
		return &FieldError{Field: key, Err: err}
	}
	return nil
}

func nested(parent, key string, v *string) (string, error) {
	if v == nil {
		return "", &FieldError{Field: parent + "." + key, Err: ErrMissingField}
	}
	return *v, nil
}

func nestedBool(parent, key string, v *bool) (bool, error) {
	if v == nil {
		return false, &FieldError{Field: parent + "." + key, Err: ErrMissingField}
	}
	return *v, nil
}

// Cadastro decodes the submission into a record for the given protocol.
// Documentos is left for the caller.
func (s Submission) Cadastro(protocolo string, defaults Defaults) (*Cadastro, error) {
	c := &Cadastro{Protocolo: protocolo}

	var err error
	if c.DataNascimento, err = s.requireDate("dataNascimento"); err != nil {
		return nil, err
	}

	var endereco enderecoFields
	if err := s.requireJSON("endereco", &endereco); err != nil {
		return nil, err
	}
	var auto autoDeclaracaoFields
	if err := s.requireJSON("autoDeclaracao", &auto); err != nil {
		return nil, err
	}

	if c.NomeCompleto, err = s.require("nomeCompleto"); err != nil {
		return nil, err
	}
	if c.CPF, err = s.require("cpf"); err != nil {
		return nil, err
	}
	if c.RG, err = s.require("rg"); err != nil {
		return nil, err
	}

	if c.EnderecoRua, err = nested("endereco", "rua", endereco.Rua); err != nil {
		return nil, err
	}
	if c.EnderecoNumero, err = nested("endereco", "numero", endereco.Numero); err != nil {
		return nil, err
	}
	if c.EnderecoBairro, err = nested("endereco", "bairro", endereco.Bairro); err != nil {
		return nil, err
	}
	if c.EnderecoCEP, err = nested("endereco", "cep", endereco.CEP); err != nil {
		return nil, err
	}
	c.EnderecoCidade = defaults.Cidade
	if endereco.Cidade != nil && *endereco.Cidade != "" {
		c.EnderecoCidade = *endereco.Cidade
	}
	c.EnderecoEstado = defaults.Estado
	if endereco.Estado != nil && *endereco.Estado != "" {
		c.EnderecoEstado = *endereco.Estado
	}

	if c.Telefone, err = s.require("telefone"); err != nil {
		return nil, err
	}
	if c.TempoFixacao, err = s.requireInt("tempoFixacao"); err != nil {
		return nil, err
	}
	if c.QuantidadePessoas, err = s.requireInt("quantidadePessoas"); err != nil {
		return nil, err
	}
	c.Moradores = s["moradores"]
	if c.RendaFamiliar, err = s.requireFloat("rendaFamiliar"); err != nil {
		return nil, err
	}
	if c.PossuiImovel, err = s.requireAnswer("possuiImovel"); err != nil {
		return nil, err
	}
	if c.ProgramaSocial, err = s.requireAnswer("programaSocial"); err != nil {
		return nil, err
	}

	if c.AutoDeclaracaoPCD, err = nestedBool("autoDeclaracao", "pcd", auto.PCD); err != nil {
		return nil, err
	}
	if c.AutoDeclaracaoIdoso, err = nestedBool("autoDeclaracao", "idoso", auto.Idoso); err != nil {
		return nil, err
	}
	if c.AutoDeclaracaoOutros, err = nestedBool("autoDeclaracao", "outros", auto.Outros); err != nil {
		return nil, err
	}
	if auto.OutrosDescricao != nil {
		c.AutoDeclaracaoOutrosDescricao = *auto.OutrosDescricao
	}

	c.Documentos = FileList{}
	return c, nil
}
