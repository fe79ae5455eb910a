package mint

import (
	"context"
	"fmt"
	"net/http"

	errmsg "github.com/webmint/mint-go-cli/internal/errors"
)

// BankDetail holds the bank account information of a developer. It is loaded
// lazily on first access via Developer.BankDetails.
type BankDetail struct {
	developerEmail string
	client         *Client

	ID            string   `json:"id,omitempty"`
	AccountName   string   `json:"name,omitempty"`
	AccountNumber string   `json:"accountNumber,omitempty"`
	BankName      string   `json:"aban,omitempty"`
	SortCode      string   `json:"sortCode,omitempty"`
	Currency      string   `json:"currency,omitempty"`
	IbanNumber    string   `json:"ibanNumber,omitempty"`
	Address       *Address `json:"address,omitempty"`
}

func newBankDetail(email string, client *Client) *BankDetail {
	return &BankDetail{developerEmail: email, client: client}
}

// Load fetches the bank detail for the bound developer
func (b *BankDetail) Load(ctx context.Context) error {
	req := b.client.http.R().
		SetContext(ctx).
		SetResult(b)
	b.client.setAuth(req)

	resp, err := req.Get("/" + buildPath(b.developerEmail, "bank-details"))
	if err != nil {
		return fmt.Errorf("%s: %w", errmsg.MsgFailedToLoadBankDetail, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return b.client.handleError(resp, nil)
	}
	return nil
}
