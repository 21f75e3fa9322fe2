// Package remotegorm is the gorm-backed remote record store. The driver is
// picked by config: sqlite for local setups, mysql when a DSN points at a
// shared server.
package remotegorm

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"nexus-intake/internal/domain/remote"
)

// Open connects, migrates the projections and returns a gorm handle.
func Open(driver, dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	var dial gorm.Dialector
	switch driver {
	case "sqlite":
		dial = sqlite.Open(dsn)
	case "mysql":
		dial = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("remotegorm: unknown driver %q", driver)
	}

	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Cliente{}, &Venda{}); err != nil {
		return nil, err
	}
	return db, nil
}

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store { return &Store{db: db} }

var _ remote.Store = (*Store)(nil)

func (s *Store) UpsertCustomer(ctx context.Context, c remote.CustomerRecord) (string, error) {
	row := Cliente{
		ID:             uuid.NewString(),
		Nome:           c.Nome,
		Email:          c.Email,
		Telefone:       c.Telefone,
		CPF:            c.CPF,
		DataNascimento: c.DataNascimento,
		NomeMae:        c.NomeMae,
		Rua:            c.Rua,
		Numero:         c.Numero,
		Complemento:    c.Complemento,
		Bairro:         c.Bairro,
		Cidade:         c.Cidade,
		Estado:         c.Estado,
		CEP:            c.CEP,
		Plano:          c.Plano,
		VencimentoDia:  c.VencimentoDia,
		Anotacoes:      c.Anotacoes,

		AudioURL:                     c.AudioURL,
		FotoFrenteURL:                c.FotoFrenteURL,
		FotoVersoURL:                 c.FotoVersoURL,
		FotoCTPSURL:                  c.FotoCTPSURL,
		FotoComprovanteResidenciaURL: c.FotoComprovanteResidenciaURL,

		DataCadastro: c.DataCadastro,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns(customerUpdateColumns),
		}).Create(&row)
		if res.Error != nil {
			return res.Error
		}
		// On conflict the generated id was discarded; read back the winner.
		var existing Cliente
		if err := tx.Where("email = ?", c.Email).First(&existing).Error; err != nil {
			return err
		}
		row.ID = existing.ID
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("remotegorm: upsert customer %s: %w", c.Email, err)
	}
	return row.ID, nil
}

var customerUpdateColumns = []string{
	"nome", "telefone", "cpf", "data_nascimento", "nome_mae",
	"rua", "numero", "complemento", "bairro", "cidade", "estado", "cep",
	"plano", "vencimento_dia", "anotacoes",
	"audio_url", "foto_frente_url", "foto_verso_url", "foto_ctps_url",
	"foto_comprovante_residencia_url",
}

func (s *Store) UpsertSale(ctx context.Context, r remote.SaleRecord) error {
	row := Venda{
		ID:            r.ID,
		ClienteID:     r.CustomerID,
		SellerID:      r.SellerID,
		SellerName:    r.SellerName,
		Status:        r.Status,
		StatusHistory: r.StatusHistory,
		ReturnReason:  r.ReturnReason,
		CreatedAt:     r.CreatedAt,
	}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"cliente_id", "seller_id", "seller_name", "status",
			"status_history", "return_reason",
		}),
	}).Create(&row)
	if res.Error != nil {
		return fmt.Errorf("remotegorm: upsert sale %s: %w", r.ID, res.Error)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	var one int
	return s.db.WithContext(ctx).Raw("SELECT 1").Scan(&one).Error
}
