package kommo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

var ErrNotConfigured = errors.New("kommo não configurado")

type Client struct {
	apiToken   string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiToken, baseURL string) *Client {
	return &Client{
		apiToken:   apiToken,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// UpdateLeadStatus move o lead para o status_id da etapa correspondente no pipeline do Kommo.
func (c *Client) UpdateLeadStatus(ctx context.Context, leadID, statusID int) error {
	if c.apiToken == "" {
		log.Println("⚠️ Kommo: API_TOKEN não configurado")
		return ErrNotConfigured
	}

	payload, err := json.Marshal(updateLeadRequest{StatusID: statusID})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/leads/%d", c.baseURL, leadID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	c.addAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("erro ao atualizar lead: %d - %s", resp.StatusCode, string(body))
	}

	var lead LeadResponse
	if err := json.Unmarshal(body, &lead); err != nil {
		return err
	}

	log.Printf("✅ Kommo: Lead #%d movido para status %d", lead.ID, lead.StatusID)
	return nil
}

func (c *Client) addAuthHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiToken))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
