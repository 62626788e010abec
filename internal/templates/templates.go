// Package templates produces the fixed-layout sample trade documents offered for download.
package templates

import (
	"fmt"
	"time"

	"tradedesk/internal/model"
)

// DateLayout is the date format interpolated into every template.
const DateLayout = "1/2/2006"

// Kinds lists the tags that have a template, in display order.
var Kinds = []model.DocType{
	model.CommercialInvoice,
	model.PackingList,
	model.BillOfLading,
	model.CertificateOfOrigin,
}

var layouts = map[model.DocType]string{
	model.CommercialInvoice: `COMMERCIAL INVOICE

Date: %[1]s
Invoice No: INV-2024-001

Seller: Your Export Co.
Buyer: Overseas Importer Ltd.

Description: Electronic Components
Quantity: 500 Units
Unit Price: $10.00
Total: $5,000.00

Terms: FOB Shanghai Port

Signature: ________________`,

	model.PackingList: `PACKING LIST

Date: %[1]s
Shipment ID: SHP-2024-001

Item: Widget Model X
Total Cartons: 10
Gross Weight: 200 kg
Net Weight: 180 kg
Dimensions: 50x40x30 cm per carton

Marks & Numbers: "FRAGILE - HANDLE WITH CARE"

Prepared by: Logistics Dept.`,

	model.BillOfLading: `BILL OF LADING (B/L)

B/L No: BL-2024-M-1001
Vessel: MSC Orion
Port of Loading: Shanghai
Port of Discharge: Los Angeles

Shipper: Your Export Co.
Consignee: Overseas Importer Ltd.

Description of Goods: 10 Cartons Electronic Goods

Freight: Prepaid

Issue Date: %[1]s

Signed: ___________________ (Carrier)`,

	model.CertificateOfOrigin: `CERTIFICATE OF ORIGIN

Issued on: %[1]s

Exporter: Your Export Co., Shanghai, China
Importer: Overseas Importer Ltd., California, USA

Product: Electronic Components
HS Code: 8542.31
Origin Criteria: Wholly Obtained in China

Certified by:
Chamber of Commerce
Signature & Stamp: ________________`,
}

// Defined reports whether tag has a template.
func Defined(tag string) bool {
	_, ok := layouts[model.DocType(tag)]
	return ok
}

// Generate returns the template text for tag dated now.
// Unknown tags produce a "not defined" line instead of an error.
func Generate(tag string, now time.Time) string {
	layout, ok := layouts[model.DocType(tag)]
	if !ok {
		return fmt.Sprintf("Template for %s not defined.", tag)
	}
	return fmt.Sprintf(layout, now.Format(DateLayout))
}

// FileName returns the download name {tag}_{epochMillis}.txt.
func FileName(tag string, now time.Time) string {
	return fmt.Sprintf("%s_%d.txt", tag, now.UnixMilli())
}
