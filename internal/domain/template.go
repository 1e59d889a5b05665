package domain

import "time"

// TemplateID is the fixed key of the certificate template singleton.
const TemplateID = 1

// CertificateTemplate holds the editor design blob and the exported HTML.
type CertificateTemplate struct {
	ID         int       `json:"id"`
	DesignJSON string    `json:"-"`
	HTML       string    `json:"-"`
	Version    int64     `json:"version"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Saved reports whether an HTML export has ever been stored.
func (t CertificateTemplate) Saved() bool {
	return t.HTML != ""
}
