package gorm

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/projeto-canaa/cadastro/pkg/model"
	"github.com/projeto-canaa/cadastro/pkg/server/store"
)

var cadastroColumns = []string{
	"id", "protocolo", "nome_completo", "cpf", "rg", "data_nascimento",
	"endereco_rua", "endereco_numero", "endereco_bairro", "endereco_cidade", "endereco_estado", "endereco_cep",
	"telefone", "tempo_fixacao", "quantidade_pessoas", "moradores", "renda_familiar",
	"possui_imovel", "programa_social",
	"auto_declaracao_pcd", "auto_declaracao_idoso", "auto_declaracao_outros", "auto_declaracao_outros_descricao",
	"documentos", "data_cadastro",
}

func addCadastroRow(rows *sqlmock.Rows, id int, protocolo string, documentos string) *sqlmock.Rows {
	return rows.AddRow(
		id, protocolo, "Maria da Silva", "123.456.789-00", "12.345.678-9",
		time.Date(1980, 5, 17, 0, 0, 0, 0, time.UTC),
		"Rua das Flores", "42", "Centro", "Angatuba", "SP", "18240-000",
		"(15) 99999-0000", 12, 4, "João, Ana", 1850.5,
		"sim", "nao",
		true, false, false, "",
		documentos, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	)
}

type CadastrosSuite struct {
	suite.Suite
	db    *sql.DB
	mock  sqlmock.Sqlmock
	store *CadastrosStore
}

func (s *CadastrosSuite) SetupTest() {
	var err error
	s.db, s.mock, err = sqlmock.New()
	require.NoError(s.T(), err)

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 s.db,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	require.NoError(s.T(), err)
	s.store = NewCadastrosStore(gormDB)
}

func (s *CadastrosSuite) TearDownTest() {
	require.NoError(s.T(), s.mock.ExpectationsWereMet())
	_ = s.db.Close()
}

func TestCadastrosStore(t *testing.T) {
	suite.Run(t, new(CadastrosSuite))
}

func (s *CadastrosSuite) newCadastro() *model.Cadastro {
	return &model.Cadastro{
		Protocolo:         "CANAA-20240102030405-123",
		NomeCompleto:      "Maria da Silva",
		CPF:               "123.456.789-00",
		RG:                "12.345.678-9",
		DataNascimento:    time.Date(1980, 5, 17, 0, 0, 0, 0, time.UTC),
		EnderecoRua:       "Rua das Flores",
		EnderecoNumero:    "42",
		EnderecoBairro:    "Centro",
		EnderecoCEP:       "18240-000",
		Telefone:          "(15) 99999-0000",
		TempoFixacao:      12,
		QuantidadePessoas: 4,
		RendaFamiliar:     1850.5,
		PossuiImovel:      model.AnswerSim,
		ProgramaSocial:    model.AnswerNao,
	}
}

func (s *CadastrosSuite) TestCreate() {
	s.mock.ExpectBegin()
	s.mock.ExpectQuery(`INSERT INTO "cadastros"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	s.mock.ExpectCommit()

	c := s.newCadastro()
	err := s.store.Create(context.Background(), c)

	require.NoError(s.T(), err)
	assert.Equal(s.T(), uint(7), c.ID)
	assert.Equal(s.T(), model.DefaultCidade, c.EnderecoCidade)
	assert.Equal(s.T(), model.DefaultEstado, c.EnderecoEstado)
	assert.Equal(s.T(), model.FileList{}, c.Documentos)
	assert.False(s.T(), c.DataCadastro.IsZero())
}

func (s *CadastrosSuite) TestCreateRollsBackOnError() {
	s.mock.ExpectBegin()
	s.mock.ExpectQuery(`INSERT INTO "cadastros"`).
		WillReturnError(errors.New(`duplicate key value violates unique constraint "cadastros_protocolo_key"`))
	s.mock.ExpectRollback()

	err := s.store.Create(context.Background(), s.newCadastro())

	require.Error(s.T(), err)
	assert.Contains(s.T(), err.Error(), "CANAA-20240102030405-123")
	assert.Contains(s.T(), err.Error(), "duplicate key")
}

func (s *CadastrosSuite) TestFetchByProtocol() {
	protocolo := "CANAA-20240102030405-123"
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "cadastros" WHERE protocolo = $1`)).
		WithArgs(protocolo).
		WillReturnRows(addCadastroRow(sqlmock.NewRows(cadastroColumns), 1, protocolo, `["CANAA-20240102030405-123_rg.pdf"]`))

	c, err := s.store.FetchByProtocol(context.Background(), protocolo)

	require.NoError(s.T(), err)
	assert.Equal(s.T(), protocolo, c.Protocolo)
	assert.Equal(s.T(), model.AnswerSim, c.PossuiImovel)
	assert.Equal(s.T(), model.AnswerNao, c.ProgramaSocial)
	assert.True(s.T(), c.AutoDeclaracaoPCD)
	assert.Equal(s.T(), model.FileList{"CANAA-20240102030405-123_rg.pdf"}, c.Documentos)
}

func (s *CadastrosSuite) TestFetchByProtocolNotFound() {
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "cadastros" WHERE protocolo = $1`)).
		WithArgs("CANAA-00000000000000-000").
		WillReturnRows(sqlmock.NewRows(cadastroColumns))

	c, err := s.store.FetchByProtocol(context.Background(), "CANAA-00000000000000-000")

	assert.Nil(s.T(), c)
	assert.ErrorIs(s.T(), err, store.ErrCadastroNotFound)
}

func (s *CadastrosSuite) TestFetchByProtocolDatabaseError() {
	s.mock.ExpectQuery(`SELECT \* FROM "cadastros"`).
		WillReturnError(sql.ErrConnDone)

	_, err := s.store.FetchByProtocol(context.Background(), "CANAA-20240102030405-123")

	assert.ErrorIs(s.T(), err, sql.ErrConnDone)
	assert.NotErrorIs(s.T(), err, store.ErrCadastroNotFound)
}

func (s *CadastrosSuite) TestProtocolExists() {
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "cadastros" WHERE protocolo = $1`)).
		WithArgs("taken").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "cadastros" WHERE protocolo = $1`)).
		WithArgs("free").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	taken, err := s.store.ProtocolExists(context.Background(), "taken")
	require.NoError(s.T(), err)
	assert.True(s.T(), taken)

	free, err := s.store.ProtocolExists(context.Background(), "free")
	require.NoError(s.T(), err)
	assert.False(s.T(), free)
}

func (s *CadastrosSuite) TestList() {
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "cadastros"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))

	rows := sqlmock.NewRows(cadastroColumns)
	for i := 11; i <= 20; i++ {
		addCadastroRow(rows, i, fmt.Sprintf("CANAA-20240102030405-%03d", 100+i), "")
	}
	s.mock.ExpectQuery(`SELECT \* FROM "cadastros" ORDER BY id LIMIT`).
		WillReturnRows(rows)

	page, err := s.store.List(context.Background(), 2, 10)

	require.NoError(s.T(), err)
	assert.Len(s.T(), page.Items, 10)
	assert.Equal(s.T(), int64(25), page.Total)
	assert.Equal(s.T(), 3, page.Pages)
	assert.Equal(s.T(), 2, page.Page)
	assert.Equal(s.T(), 10, page.PerPage)
	assert.Equal(s.T(), uint(11), page.Items[0].ID)
	assert.Equal(s.T(), model.FileList{}, page.Items[0].Documentos)
}

func (s *CadastrosSuite) TestListPastLastPage() {
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "cadastros"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	page, err := s.store.List(context.Background(), 5, 10)

	require.NoError(s.T(), err)
	assert.Empty(s.T(), page.Items)
	assert.NotNil(s.T(), page.Items)
	assert.Equal(s.T(), int64(3), page.Total)
	assert.Equal(s.T(), 1, page.Pages)
	assert.Equal(s.T(), 5, page.Page)
}

func (s *CadastrosSuite) TestListEmpty() {
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "cadastros"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	page, err := s.store.List(context.Background(), 0, 0)

	require.NoError(s.T(), err)
	assert.Empty(s.T(), page.Items)
	assert.Equal(s.T(), 0, page.Pages)
	assert.Equal(s.T(), 1, page.Page)
	assert.Equal(s.T(), 1, page.PerPage)
}

func (s *CadastrosSuite) TestCountError() {
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "cadastros"`)).
		WillReturnError(sql.ErrConnDone)

	_, err := s.store.List(context.Background(), 1, 10)
	assert.ErrorIs(s.T(), err, sql.ErrConnDone)
}
