package kommo

type updateLeadRequest struct {
	StatusID int `json:"status_id"`
}

type LeadResponse struct {
	ID       int `json:"id"`
	StatusID int `json:"status_id"`
}
