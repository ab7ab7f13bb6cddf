// Package receipt renders order receipt artifacts into a configured
// directory and hands back the file path for email attachment.
package receipt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shoplite/shoplite/internal/domain"
)

type Service struct {
	dir string
}

func NewService(dir string) *Service {
	return &Service{dir: dir}
}

// Generate writes an HTML receipt for the order and returns its path. A
// directory-create or write failure is returned to the caller, which treats
// it as a soft failure.
func (s *Service) Generate(order *domain.Order, items []*domain.OrderItem, txn *domain.Transaction, buyer *domain.User) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create receipt dir: %w", err)
	}

	path := filepath.Join(s.dir, fmt.Sprintf("receipt_%d.html", order.ID))
	body := buildReceiptBody(order, items, txn, buyer)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("write receipt: %w", err)
	}
	return path, nil
}

func buildReceiptBody(order *domain.Order, items []*domain.OrderItem, txn *domain.Transaction, buyer *domain.User) string {
	var rows strings.Builder
	for _, item := range items {
		rows.WriteString(fmt.Sprintf(
			`<tr>
				<td style="padding: 8px; border-bottom: 1px solid #eee;">%s</td>
				<td style="padding: 8px; border-bottom: 1px solid #eee; text-align: center;">%d</td>
				<td style="padding: 8px; border-bottom: 1px solid #eee; text-align: right;">%.2f</td>
				<td style="padding: 8px; border-bottom: 1px solid #eee; text-align: right;">%.2f</td>
			</tr>`,
			item.ProductName,
			item.Quantity,
			item.Price,
			item.Price*float64(item.Quantity),
		))
	}

	buyerName := ""
	if buyer != nil {
		buyerName = buyer.Realname
		if buyerName == "" {
			buyerName = buyer.Username
		}
	}
	method := ""
	if txn != nil {
		method = txn.Method
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<h1 style="font-size: 22px;">Order Receipt</h1>
	<p>Order #%d placed %s for %s</p>
	<table style="width: 100%%; border-collapse: collapse;">
		<thead>
			<tr style="background: #f8f9fa;">
				<th style="padding: 8px; text-align: left;">Item</th>
				<th style="padding: 8px; text-align: center;">Qty</th>
				<th style="padding: 8px; text-align: right;">Unit</th>
				<th style="padding: 8px; text-align: right;">Subtotal</th>
			</tr>
		</thead>
		<tbody>
			%s
		</tbody>
	</table>
	<p style="text-align: right; font-size: 18px;"><b>Total: %.2f</b></p>
	<p style="font-size: 13px; color: #666;">Payment method: %s</p>
</body>
</html>`,
		order.ID,
		order.OrderDate.Format("2006-01-02 15:04"),
		buyerName,
		rows.String(),
		order.TotalAmount,
		method,
	)
}
