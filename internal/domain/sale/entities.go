package sale

import "time"

type Status string

const (
	StatusDraft      Status = "RASCUNHO"
	StatusInProgress Status = "EM_ANDAMENTO"
	StatusAnalyzed   Status = "ANALISADA"
	StatusFinished   Status = "FINALIZADA"
)

// Valid reports whether s is one of the four pipeline states.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusInProgress, StatusAnalyzed, StatusFinished:
		return true
	}
	return false
}

// HistoryEntry is one audit record. The sequence is append-only; the tail
// entry always matches the sale's current status.
type HistoryEntry struct {
	Status    Status    `json:"status"`
	UpdatedBy string    `json:"updatedBy"`
	UpdatedAt time.Time `json:"updatedAt"`
	Reason    string    `json:"reason,omitempty"`
}

// CustomerData carries the enrollment form. Field names follow the intake
// form's wire schema. Consent artifacts are opaque URLs produced elsewhere.
type CustomerData struct {
	Nome           string `json:"nome" validate:"required,trimlongerthan=3"`
	CPF            string `json:"cpf" validate:"required,cpfcnpj"`
	DataNascimento string `json:"data_nascimento,omitempty"`
	NomeMae        string `json:"nome_mae" validate:"required,trimlongerthan=3"`
	Contato        string `json:"contato,omitempty"`
	Email          string `json:"email" validate:"required,email"`
	Rua            string `json:"rua" validate:"required"`
	Numero         string `json:"numero" validate:"required"`
	Complemento    string `json:"complemento,omitempty"`
	Bairro         string `json:"bairro,omitempty"`
	Cidade         string `json:"cidade,omitempty"`
	Estado         string `json:"estado,omitempty"`
	CEP            string `json:"cep" validate:"required"`
	Plano          string `json:"plano" validate:"required"`
	VencimentoDia  int    `json:"vencimento_dia,omitempty"`
	Anotacoes      string `json:"anotacoes,omitempty"`

	AudioURL                     string `json:"audio_url" validate:"required"`
	FotoFrenteURL                string `json:"foto_frente_url,omitempty"`
	FotoVersoURL                 string `json:"foto_verso_url,omitempty"`
	FotoCTPSURL                  string `json:"foto_ctps_url,omitempty"`
	FotoComprovanteResidenciaURL string `json:"foto_comprovante_residencia_url,omitempty"`
}

// Sale is the central entity. A Sale is exclusively owned by one seller;
// ExpiresAt is set only while the record is a cached draft.
type Sale struct {
	ID            string         `json:"id"`
	SellerID      string         `json:"sellerId"`
	SellerName    string         `json:"sellerName"`
	CustomerData  CustomerData   `json:"customerData"`
	Status        Status         `json:"status"`
	StatusHistory []HistoryEntry `json:"statusHistory"`
	CreatedAt     time.Time      `json:"createdAt"`
	ExpiresAt     *time.Time     `json:"expiresAt,omitempty"`
	ReturnReason  string         `json:"returnReason,omitempty"`
}

// CurrentEntry returns the tail audit record, or nil for an empty history.
func (s *Sale) CurrentEntry() *HistoryEntry {
	if len(s.StatusHistory) == 0 {
		return nil
	}
	return &s.StatusHistory[len(s.StatusHistory)-1]
}

// EverReached reports whether the history contains an entry at st.
func (s *Sale) EverReached(st Status) bool {
	for _, h := range s.StatusHistory {
		if h.Status == st {
			return true
		}
	}
	return false
}

// Regressed reports whether the sale moved back to EM_ANDAMENTO after having
// previously reached ANALISADA or FINALIZADA. Derived, never stored.
func (s *Sale) Regressed() bool {
	return s.Status == StatusInProgress &&
		(s.EverReached(StatusAnalyzed) || s.EverReached(StatusFinished))
}

// Expired reports whether the draft's expiry instant is in the past.
// Records without an expiry never expire.
func (s *Sale) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && now.After(*s.ExpiresAt)
}

// Clone returns a deep copy, so callers can mutate without aliasing the
// store's in-memory slice.
func (s Sale) Clone() Sale {
	out := s
	out.StatusHistory = make([]HistoryEntry, len(s.StatusHistory))
	copy(out.StatusHistory, s.StatusHistory)
	if s.ExpiresAt != nil {
		t := *s.ExpiresAt
		out.ExpiresAt = &t
	}
	return out
}
