package model

// DocType tags the kind of trade document.
type DocType string

const (
	CommercialInvoice   DocType = "commercial_invoice"
	PackingList         DocType = "packing_list"
	BillOfLading        DocType = "bill_of_lading"
	CertificateOfOrigin DocType = "certificate_of_origin"
	ImportExportLicense DocType = "import_export_license"
	CustomsDeclaration  DocType = "customs_declaration"
)

// DocTypes lists every known tag in display order.
var DocTypes = []DocType{
	CommercialInvoice,
	PackingList,
	BillOfLading,
	CertificateOfOrigin,
	ImportExportLicense,
	CustomsDeclaration,
}

var docTypeLabels = map[DocType]string{
	CommercialInvoice:   "Commercial Invoice",
	PackingList:         "Packing List",
	BillOfLading:        "Bill of Lading",
	CertificateOfOrigin: "Certificate of Origin",
	ImportExportLicense: "Import/Export License",
	CustomsDeclaration:  "Customs Declaration",
}

// Valid reports whether t is one of the known tags.
func (t DocType) Valid() bool {
	_, ok := docTypeLabels[t]
	return ok
}

// Label returns the display name, or the raw tag when it is unknown.
func (t DocType) Label() string {
	if l, ok := docTypeLabels[t]; ok {
		return l
	}
	return string(t)
}
