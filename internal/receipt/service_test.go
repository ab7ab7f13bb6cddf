package receipt

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shoplite/shoplite/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateWritesReceiptFile(t *testing.T) {
	svc := NewService(t.TempDir())
	order := &domain.Order{
		ID:          42,
		TotalAmount: 180,
		OrderDate:   time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
	}
	items := []*domain.OrderItem{
		{OrderID: 42, ProductName: "widget", Quantity: 2, Price: 100},
	}
	txn := &domain.Transaction{OrderID: 42, Method: "CREDIT_CARD"}
	buyer := &domain.User{Username: "alice", Realname: "Alice Liddell"}

	path, err := svc.Generate(order, items, txn, buyer)
	require.NoError(t, err)
	assert.Equal(t, "receipt_42.html", filepath.Base(path))

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(body)
	assert.Contains(t, html, "Order #42")
	assert.Contains(t, html, "Alice Liddell")
	assert.Contains(t, html, "widget")
	assert.Contains(t, html, "180.00")
	assert.Contains(t, html, "CREDIT_CARD")
}

func TestGenerateFallsBackToUsername(t *testing.T) {
	svc := NewService(t.TempDir())
	order := &domain.Order{ID: 1, OrderDate: time.Now()}
	buyer := &domain.User{Username: "bob"}

	path, err := svc.Generate(order, nil, nil, buyer)
	require.NoError(t, err)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(body), "bob")
}

func TestGenerateToleratesNilTransactionAndBuyer(t *testing.T) {
	svc := NewService(t.TempDir())
	order := &domain.Order{ID: 2, OrderDate: time.Now()}

	_, err := svc.Generate(order, nil, nil, nil)
	assert.NoError(t, err)
}

func TestGenerateCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "receipts")
	svc := NewService(dir)
	order := &domain.Order{ID: 3, OrderDate: time.Now()}

	path, err := svc.Generate(order, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
}

func TestGenerateFailsOnUnwritableDir(t *testing.T) {
	// a regular file in place of the directory forces MkdirAll to fail
	base := t.TempDir()
	blocked := filepath.Join(base, "receipts")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0o644))
	svc := NewService(blocked)
	order := &domain.Order{ID: 4, OrderDate: time.Now()}

	_, err := svc.Generate(order, nil, nil, nil)
	assert.Error(t, err)
}
