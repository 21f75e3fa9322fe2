package remote

import (
	"context"
	"time"
)

// CustomerRecord is the normalized customer projection pushed to the remote
// store. Email is the stable natural key used for upserts.
type CustomerRecord struct {
	Nome           string
	Email          string
	Telefone       string
	CPF            string
	DataNascimento string
	NomeMae        string
	Rua            string
	Numero         string
	Complemento    string
	Bairro         string
	Cidade         string
	Estado         string
	CEP            string
	Plano          string
	VencimentoDia  int
	Anotacoes      string

	AudioURL                     string
	FotoFrenteURL                string
	FotoVersoURL                 string
	FotoCTPSURL                  string
	FotoComprovanteResidenciaURL string

	DataCadastro time.Time
}

// SaleRecord is the sale projection, linked to the upserted customer.
type SaleRecord struct {
	ID            string
	CustomerID    string
	SellerID      string
	SellerName    string
	Status        string
	StatusHistory []byte // JSON-encoded audit trail
	ReturnReason  string
	CreatedAt     time.Time
}

// Store is the remote record store consumed by the synchronizer. It is a
// generic upsert/query capability; the concrete wire schema lives in the
// adapter.
type Store interface {
	// UpsertCustomer writes the customer keyed by email and returns the
	// remote customer identity.
	UpsertCustomer(ctx context.Context, c CustomerRecord) (string, error)
	// UpsertSale writes the sale projection keyed by sale id.
	UpsertSale(ctx context.Context, s SaleRecord) error
	// Ping is the connectivity probe. An error means the store is
	// unreachable and callers should degrade to local-only mode.
	Ping(ctx context.Context) error
}
