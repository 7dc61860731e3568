package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
	"gorm.io/datatypes"

	"storefront_backend/internal/models"
)

func TestOrdersWorkbook(t *testing.T) {
	order := models.Order{
		OrderNumber:     "ORD-2025-42",
		CustomerName:    "Asha",
		CustomerEmail:   "asha@example.com",
		ShippingAddress: datatypes.NewJSONType(models.ShippingAddress{Name: "Asha", City: "Pune", Pincode: "411001"}),
		Subtotal:        decimal.RequireFromString("998"),
		Total:           decimal.RequireFromString("998"),
		Status:          models.OrderStatusPending,
		PaymentMethod:   models.PaymentMethodCOD,
		PaymentStatus:   models.PaymentStatusCOD,
		Items: []models.OrderItem{
			{ProductName: "Mala", Quantity: 2},
		},
	}
	order.CreatedAt = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	file, err := OrdersWorkbook([]models.Order{order})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, file))

	parsed, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	sheet := parsed.Sheet["Orders"]
	require.NotNil(t, sheet)
	require.Len(t, sheet.Rows, 2)

	row := sheet.Rows[1]
	assert.Equal(t, "Order Number", sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "ORD-2025-42", row.Cells[0].String())
	assert.Equal(t, "2025-01-02 03:04:05", row.Cells[1].String())
	assert.Equal(t, "Pune", row.Cells[5].String())
	assert.Equal(t, "Mala x 2", row.Cells[7].String())
	assert.Equal(t, "cod", row.Cells[14].String())
}

func TestProductsWorkbook(t *testing.T) {
	discount := decimal.RequireFromString("80")
	product := models.Product{
		Slug:          "mala",
		Name:          "Mala",
		Price:         decimal.RequireFromString("100"),
		DiscountPrice: &discount,
		Stock:         3,
		Status:        models.ProductStatusActive,
		Facets: []models.ProductFacet{
			{FacetKey: models.FacetPurposes, Value: "Peace"},
			{FacetKey: models.FacetPurposes, Value: "Health"},
		},
	}

	file, err := ProductsWorkbook([]models.Product{product})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, file))
	parsed, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)

	row := parsed.Sheet["Products"].Rows[1]
	assert.Equal(t, "mala", row.Cells[1].String())
	assert.Equal(t, "80.00", row.Cells[6].String())
	assert.Equal(t, "80", row.Cells[7].String())
	assert.Equal(t, "Health, Peace", row.Cells[13].String())
}
