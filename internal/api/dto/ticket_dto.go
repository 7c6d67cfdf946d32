package dto

// CreateTicketRequest payload. All fields are optional; defaults are
// substituted server-side for absent filename/content_type.
type CreateTicketRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	FileSize    int64  `json:"file_size"`
}

// CreateTicketResponse returns the ticket id and the upload authorization.
type CreateTicketResponse struct {
	TicketID  string `json:"ticket_id"`
	UploadURL string `json:"upload_url"`
}

// RedeemTicketResponse returns the download authorization.
type RedeemTicketResponse struct {
	DownloadURL string `json:"download_url"`
}
