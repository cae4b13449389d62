package model

import (
	"fmt"
	"time"
)

type EnderecoTransfer struct {
	Rua    string `json:"rua"`
	Numero string `json:"numero"`
	Bairro string `json:"bairro"`
	Cidade string `json:"cidade"`
	Estado string `json:"estado"`
	CEP    string `json:"cep"`
}

type AutoDeclaracaoTransfer struct {
	PCD             bool   `json:"pcd"`
	Idoso           bool   `json:"idoso"`
	Outros          bool   `json:"outros"`
	OutrosDescricao string `json:"outros_descricao"`
}

// Transfer is the JSON representation of a Cadastro returned by the API.
type Transfer struct {
	ID                uint                   `json:"id"`
	Protocolo         string                 `json:"protocolo"`
	NomeCompleto      string                 `json:"nome_completo"`
	CPF               string                 `json:"cpf"`
	RG                string                 `json:"rg"`
	DataNascimento    *string                `json:"data_nascimento"`
	Endereco          EnderecoTransfer       `json:"endereco"`
	Telefone          string                 `json:"telefone"`
	TempoFixacao      int                    `json:"tempo_fixacao"`
	QuantidadePessoas int                    `json:"quantidade_pessoas"`
	Moradores         string                 `json:"moradores"`
	RendaFamiliar     float64                `json:"renda_familiar"`
	PossuiImovel      Answer                 `json:"possui_imovel"`
	ProgramaSocial    Answer                 `json:"programa_social"`
	AutoDeclaracao    AutoDeclaracaoTransfer `json:"auto_declaracao"`
	Documentos        FileList               `json:"documentos"`
	DataCadastro      *string                `json:"data_cadastro"`
}

func formatTime(t time.Time, layout string) *string {
	if t.IsZero() {
		return nil
	}
	s := t.Format(layout)
	return &s
}

func (c *Cadastro) Transfer() Transfer {
	docs := c.Documentos
	if docs == nil {
		docs = FileList{}
	}
	return Transfer{
		ID:             c.ID,
		Protocolo:      c.Protocolo,
		NomeCompleto:   c.NomeCompleto,
		CPF:            c.CPF,
		RG:             c.RG,
		DataNascimento: formatTime(c.DataNascimento, DateLayout),
		Endereco: EnderecoTransfer{
			Rua:    c.EnderecoRua,
			Numero: c.EnderecoNumero,
			Bairro: c.EnderecoBairro,
			Cidade: c.EnderecoCidade,
			Estado: c.EnderecoEstado,
			CEP:    c.EnderecoCEP,
		},
		Telefone:          c.Telefone,
		TempoFixacao:      c.TempoFixacao,
		QuantidadePessoas: c.QuantidadePessoas,
		Moradores:         c.Moradores,
		RendaFamiliar:     c.RendaFamiliar,
		PossuiImovel:      c.PossuiImovel,
		ProgramaSocial:    c.ProgramaSocial,
		AutoDeclaracao: AutoDeclaracaoTransfer{
			PCD:             c.AutoDeclaracaoPCD,
			Idoso:           c.AutoDeclaracaoIdoso,
			Outros:          c.AutoDeclaracaoOutros,
			OutrosDescricao: c.AutoDeclaracaoOutrosDescricao,
		},
		Documentos:   docs,
		DataCadastro: formatTime(c.DataCadastro.UTC(), time.RFC3339),
	}
}

// Cadastro rebuilds the record a Transfer was produced from.
func (t Transfer) Cadastro() (*Cadastro, error) {
	c := &Cadastro{
		ID:                            t.ID,
		Protocolo:                     t.Protocolo,
		NomeCompleto:                  t.NomeCompleto,
		CPF:                           t.CPF,
		RG:                            t.RG,
		EnderecoRua:                   t.Endereco.Rua,
		EnderecoNumero:                t.Endereco.Numero,
		EnderecoBairro:                t.Endereco.Bairro,
		EnderecoCidade:                t.Endereco.Cidade,
		EnderecoEstado:                t.Endereco.Estado,
		EnderecoCEP:                   t.Endereco.CEP,
		Telefone:                      t.Telefone,
		TempoFixacao:                  t.TempoFixacao,
		QuantidadePessoas:             t.QuantidadePessoas,
		Moradores:                     t.Moradores,
		RendaFamiliar:                 t.RendaFamiliar,
		PossuiImovel:                  t.PossuiImovel,
		ProgramaSocial:                t.ProgramaSocial,
		AutoDeclaracaoPCD:             t.AutoDeclaracao.PCD,
		AutoDeclaracaoIdoso:           t.AutoDeclaracao.Idoso,
		AutoDeclaracaoOutros:          t.AutoDeclaracao.Outros,
		AutoDeclaracaoOutrosDescricao: t.AutoDeclaracao.OutrosDescricao,
		Documentos:                    t.Documentos,
	}
	if c.Documentos == nil {
		c.Documentos = FileList{}
	}

	if t.DataNascimento != nil {
		d, err := time.Parse(DateLayout, *t.DataNascimento)
		if err != nil {
			return nil, fmt.Errorf("data_nascimento: %w", err)
		}
		c.DataNascimento = d
	}
	if t.DataCadastro != nil {
		d, err := time.Parse(time.RFC3339, *t.DataCadastro)
		if err != nil {
			return nil, fmt.Errorf("data_cadastro: %w", err)
		}
		c.DataCadastro = d.UTC()
	}
	return c, nil
}
