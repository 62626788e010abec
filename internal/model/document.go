package model

// Document is an uploaded piece of trade paperwork.
// The file itself is embedded in Content as a data URI; there is no separate blob storage.
// Documents have no id: a document is addressed by its position in the list.
type Document struct {
	Name       string  `json:"name"`
	Type       DocType `json:"type"`
	Size       int64   `json:"size"`
	Content    string  `json:"content"`
	UploadedAt string  `json:"uploadedAt"`
}
