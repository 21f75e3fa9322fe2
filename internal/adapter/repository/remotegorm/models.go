package remotegorm

import "time"

// Cliente mirrors the remote "clientes" projection. Email is the natural key
// the synchronizer upserts on.
type Cliente struct {
	ID             string `gorm:"primaryKey;size:36"`
	Nome           string `gorm:"size:160"`
	Email          string `gorm:"size:160;uniqueIndex:ux_clientes_email"`
	Telefone       string `gorm:"size:32"`
	CPF            string `gorm:"column:cpf;size:18"`
	DataNascimento string `gorm:"size:16"`
	NomeMae        string `gorm:"size:160"`
	Rua            string `gorm:"size:160"`
	Numero         string `gorm:"size:16"`
	Complemento    string `gorm:"size:80"`
	Bairro         string `gorm:"size:80"`
	Cidade         string `gorm:"size:80"`
	Estado         string `gorm:"size:4"`
	CEP            string `gorm:"column:cep;size:16"`
	Plano          string `gorm:"size:80"`
	VencimentoDia  int
	Anotacoes      string `gorm:"type:text"`

	AudioURL                     string `gorm:"type:text"`
	FotoFrenteURL                string `gorm:"type:text"`
	FotoVersoURL                 string `gorm:"type:text"`
	FotoCTPSURL                  string `gorm:"column:foto_ctps_url;type:text"`
	FotoComprovanteResidenciaURL string `gorm:"type:text"`

	DataCadastro time.Time
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (Cliente) TableName() string { return "clientes" }

// Venda mirrors the remote "vendas" projection, linked to clientes by id.
type Venda struct {
	ID            string `gorm:"primaryKey;size:16"`
	ClienteID     string `gorm:"size:36;index"`
	SellerID      string `gorm:"size:64;index"`
	SellerName    string `gorm:"size:160"`
	Status        string `gorm:"size:24"`
	StatusHistory []byte `gorm:"type:text"`
	ReturnReason  string `gorm:"type:text"`
	CreatedAt     time.Time
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (Venda) TableName() string { return "vendas" }
