package utils

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"techmart_back_end/internal/models"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/skip2/go-qrcode"
)

// GenerateSepaQR génère un QR SEPA (EPC) en base64 prêt à mettre dans <img src="...">
func GenerateSepaQR(iban, bic, name, ref string, amount float64) (string, error) {
	// format EPC basique
	sepa := fmt.Sprintf(`BCD
001
1
SCT
%s
%s
%s
EUR%.2f
%s`, bic, name, iban, amount, ref)

	png, err := qrcode.Encode(sepa, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// GenerateInvoicePDF rend la facture HTML dans un Chrome headless et l'imprime en PDF.
func GenerateInvoicePDF(order models.Order, userEmail string) ([]byte, error) {
	iban := os.Getenv("COMPANY_IBAN")
	if iban == "" {
		iban = "BE12345678901234"
	}
	bic := os.Getenv("COMPANY_BIC")
	if bic == "" {
		bic = "KREDBEBB"
	}
	companyName := os.Getenv("COMPANY_NAME")
	if companyName == "" {
		companyName = "TechMart SRL"
	}
	ref := fmt.Sprintf("FACT-%s", order.ID)

	qrBase64, err := GenerateSepaQR(iban, bic, companyName, ref, order.Total)
	if err != nil {
		return nil, fmt.Errorf("erreur génération QR: %v", err)
	}

	html := buildInvoiceHTML(order, userEmail, companyName, ref, qrBase64)
	return renderHTMLToPDF(html)
}

// renderHTMLToPDF charge le HTML via une data URL et imprime en PDF via le CDP.
func renderHTMLToPDF(html string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	// timeout pour éviter de bloquer
	ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(html))

	var pdfBuf []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate(dataURL),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).  // A4
				WithPaperHeight(11.69).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}

	return pdfBuf, nil
}

func buildInvoiceHTML(order models.Order, userEmail, companyName, ref, qrBase64 string) string {
	linesHTML := ""
	for _, line := range order.Lines {
		linesHTML += fmt.Sprintf(`
			<tr>
				<td style="padding: 8px; border-bottom: 1px solid #eee;">%s</td>
				<td style="padding: 8px; border-bottom: 1px solid #eee; text-align: center;">%d</td>
				<td style="padding: 8px; border-bottom: 1px solid #eee; text-align: right;">%.2f€</td>
				<td style="padding: 8px; border-bottom: 1px solid #eee; text-align: right;">%.2f€</td>
			</tr>`, line.Name, line.Quantity, line.UnitPrice, line.Subtotal())
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head>
	<meta charset="UTF-8">
	<title>Facture %s</title>
</head>
<body style="font-family: Arial, sans-serif; color: #333; padding: 40px;">
	<table style="width: 100%%;">
		<tr>
			<td><h1 style="margin: 0; color: #667eea;">%s</h1></td>
			<td style="text-align: right;">
				<h2 style="margin: 0;">Facture</h2>
				<p style="margin: 5px 0 0 0; color: #666;">%s</p>
			</td>
		</tr>
	</table>

	<p style="margin: 30px 0 5px 0;"><strong>Facturé à :</strong> %s</p>
	<p style="margin: 0 0 30px 0; color: #666;">Date : %s</p>

	<table style="width: 100%%; border-collapse: collapse;">
		<thead>
			<tr style="background-color: #f0f0f0;">
				<th style="padding: 10px; text-align: left;">Produit</th>
				<th style="padding: 10px; text-align: center;">Quantité</th>
				<th style="padding: 10px; text-align: right;">Prix unitaire</th>
				<th style="padding: 10px; text-align: right;">Total</th>
			</tr>
		</thead>
		<tbody>%s</tbody>
		<tfoot>
			<tr>
				<td colspan="3" style="padding: 12px; text-align: right; font-weight: bold;">Total TTC :</td>
				<td style="padding: 12px; text-align: right; font-weight: bold; font-size: 18px;">%.2f€</td>
			</tr>
		</tfoot>
	</table>

	<div style="margin-top: 40px; text-align: center;">
		<p style="color: #666;">Paiement par virement : scannez le QR code SEPA</p>
		<img src="%s" alt="QR SEPA" style="width: 160px; height: 160px;">
	</div>
</body>
</html>`, ref, companyName, ref, userEmail, order.CreatedAt.Format("02/01/2006"), linesHTML, order.Total, qrBase64)
}
