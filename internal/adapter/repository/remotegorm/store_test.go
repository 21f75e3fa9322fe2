package remotegorm

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus-intake/internal/domain/remote"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	// one named in-memory database per test, so rows never leak across tests
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := Open("sqlite", dsn)
	require.NoError(t, err)
	return New(db)
}

func customer(email string) remote.CustomerRecord {
	return remote.CustomerRecord{
		Nome:         "João Cliente",
		Email:        email,
		CPF:          "529.982.247-25",
		Plano:        "Fibra 500MB",
		DataCadastro: time.Date(2025, 8, 10, 9, 0, 0, 0, time.UTC),
	}
}

func TestUpsertCustomerKeyedByEmail(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	id1, err := st.UpsertCustomer(ctx, customer("joao@example.com"))
	require.NoError(t, err)
	require.NotEmpty(t, id1)

	// same email again with changed fields keeps the identity
	c := customer("joao@example.com")
	c.Plano = "Fibra 1GB"
	id2, err := st.UpsertCustomer(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	var row Cliente
	require.NoError(t, st.db.Where("email = ?", "joao@example.com").First(&row).Error)
	assert.Equal(t, "Fibra 1GB", row.Plano)

	var n int64
	require.NoError(t, st.db.Model(&Cliente{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestUpsertSale(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	cid, err := st.UpsertCustomer(ctx, customer("maria@example.com"))
	require.NoError(t, err)

	rec := remote.SaleRecord{
		ID:            "A1B2C3D4E",
		CustomerID:    cid,
		SellerID:      "u3",
		SellerName:    "Ana Vendedora",
		Status:        "EM_ANDAMENTO",
		StatusHistory: []byte(`[{"status":"EM_ANDAMENTO"}]`),
		CreatedAt:     time.Date(2025, 8, 10, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, st.UpsertSale(ctx, rec))

	rec.Status = "ANALISADA"
	require.NoError(t, st.UpsertSale(ctx, rec))

	var row Venda
	require.NoError(t, st.db.Where("id = ?", "A1B2C3D4E").First(&row).Error)
	assert.Equal(t, "ANALISADA", row.Status)
	assert.Equal(t, cid, row.ClienteID)

	var n int64
	require.NoError(t, st.db.Model(&Venda{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestPing(t *testing.T) {
	st := newStore(t)
	assert.NoError(t, st.Ping(context.Background()))
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("postgres", "dsn")
	assert.Error(t, err)
}
