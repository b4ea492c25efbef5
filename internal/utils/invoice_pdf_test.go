package utils

import (
	"strings"
	"testing"
	"time"

	"techmart_back_end/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSepaQR(t *testing.T) {
	qr, err := GenerateSepaQR("BE12345678901234", "KREDBEBB", "TechMart SRL", "FACT-42", 55.50)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(qr, "data:image/png;base64,"))
}

func TestBuildInvoiceHTML(t *testing.T) {
	order := models.Order{
		ID:        "o-1",
		UserEmail: "client@example.com",
		Lines: []models.CartLine{
			{ProductID: "p1", Name: "Souris sans fil", UnitPrice: 20.00, Quantity: 2},
			{ProductID: "p2", Name: "Hub USB-C", UnitPrice: 15.50, Quantity: 1},
		},
		Total:     55.50,
		Status:    models.OrderStatusPaid,
		CreatedAt: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
	}

	html := buildInvoiceHTML(order, order.UserEmail, "TechMart SRL", "FACT-o-1", "data:image/png;base64,x")

	assert.Contains(t, html, "Souris sans fil")
	assert.Contains(t, html, "Hub USB-C")
	assert.Contains(t, html, "55.50€")
	assert.Contains(t, html, "client@example.com")
	assert.Contains(t, html, "14/03/2026")
}
