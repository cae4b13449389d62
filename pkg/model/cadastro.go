package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	DefaultCidade = "Angatuba"
	DefaultEstado = "SP"
)

// Cadastro is a social-assistance registration. Rows are written once at
// submission time and never updated through the API.
type Cadastro struct {
	ID        uint   `gorm:"column:id;primaryKey"`
	Protocolo string `gorm:"column:protocolo;type:varchar(50);uniqueIndex;not null"`

	NomeCompleto   string    `gorm:"column:nome_completo;type:varchar(200);not null"`
	CPF            string    `gorm:"column:cpf;type:varchar(14);not null"`
	RG             string    `gorm:"column:rg;type:varchar(20);not null"`
	DataNascimento time.Time `gorm:"column:data_nascimento;type:date;not null"`

	EnderecoRua    string `gorm:"column:endereco_rua;type:varchar(200);not null"`
	EnderecoNumero string `gorm:"column:endereco_numero;type:varchar(10);not null"`
	EnderecoBairro string `gorm:"column:endereco_bairro;type:varchar(100);not null"`
	EnderecoCidade string `gorm:"column:endereco_cidade;type:varchar(100);not null"`
	EnderecoEstado string `gorm:"column:endereco_estado;type:varchar(2);not null"`
	EnderecoCEP    string `gorm:"column:endereco_cep;type:varchar(9);not null"`

	Telefone     string `gorm:"column:telefone;type:varchar(15);not null"`
	TempoFixacao int    `gorm:"column:tempo_fixacao;not null"`

	QuantidadePessoas int     `gorm:"column:quantidade_pessoas;not null"`
	Moradores         string  `gorm:"column:moradores;type:text"`
	RendaFamiliar     float64 `gorm:"column:renda_familiar;not null"`

	PossuiImovel   Answer `gorm:"column:possui_imovel;type:varchar(3);not null"`
	ProgramaSocial Answer `gorm:"column:programa_social;type:varchar(3);not null"`

	AutoDeclaracaoPCD             bool   `gorm:"column:auto_declaracao_pcd"`
	AutoDeclaracaoIdoso           bool   `gorm:"column:auto_declaracao_idoso"`
	AutoDeclaracaoOutros          bool   `gorm:"column:auto_declaracao_outros"`
	AutoDeclaracaoOutrosDescricao string `gorm:"column:auto_declaracao_outros_descricao;type:text"`

	Documentos FileList `gorm:"column:documentos;type:text"`

	DataCadastro time.Time `gorm:"column:data_cadastro"`
}

func (Cadastro) TableName() string {
	return "cadastros"
}

// BeforeCreate fills the insert-time defaults.
func (c *Cadastro) BeforeCreate(tx *gorm.DB) error {
	if c.DataCadastro.IsZero() {
		c.DataCadastro = time.Now().UTC()
	}
	if c.EnderecoCidade == "" {
		c.EnderecoCidade = DefaultCidade
	}
	if c.EnderecoEstado == "" {
		c.EnderecoEstado = DefaultEstado
	}
	if c.Documentos == nil {
		c.Documentos = FileList{}
	}
	return nil
}
