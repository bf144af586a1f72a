package n8n

// JobPayload is the body the outreach workflow receives. Field names are
// part of the workflow contract.
type JobPayload struct {
	JobID            string `json:"jobId"`
	Action           string `json:"action"`
	UserID           string `json:"userId"`
	CallbackURL      string `json:"callbackUrl"`
	CallbackToken    string `json:"callbackToken"`
	SignatureContent string `json:"signatureContent"`
	Leads            []Lead `json:"leads"`
}

type Lead struct {
	RowID         string  `json:"row_id"`
	BusinessEmail *string `json:"businessEmail"`
	WebsiteURL    *string `json:"websiteUrl"`
}
