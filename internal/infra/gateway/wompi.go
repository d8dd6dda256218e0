package gateway

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"checkout-service/internal/pkg/config"
	"checkout-service/internal/pkg/errs"
	"checkout-service/internal/usecase/commands"
)

// WompiGateway is the production payment gateway adapter. Card payments go
// through three provider calls: fetch the merchant's acceptance token,
// tokenize the card (public key), then create the charge (private key) with
// an integrity signature over reference, amount, currency and the merchant
// secret.
type WompiGateway struct {
	apiURL          string
	publicKey       string
	privateKey      string
	integritySecret string
	client          *http.Client
}

func NewWompiGateway(cfg config.GatewayConfig) *WompiGateway {
	return &WompiGateway{
		apiURL:          cfg.APIURL,
		publicKey:       cfg.PublicKey,
		privateKey:      cfg.PrivateKey,
		integritySecret: cfg.IntegritySecret,
		client:          &http.Client{Timeout: cfg.Timeout},
	}
}

type cardTokenRequest struct {
	Number   string `json:"number"`
	CVC      string `json:"cvc"`
	ExpMonth string `json:"exp_month"`
	ExpYear  string `json:"exp_year"`
	Holder   string `json:"card_holder"`
}

type cardTokenResponse struct {
	Data struct {
		ID       string `json:"id"`
		Brand    string `json:"brand"`
		LastFour string `json:"last_four"`
	} `json:"data"`
}

func (g *WompiGateway) TokenizeCard(ctx context.Context, card commands.CardData) (commands.TokenizedCard, error) {
	var resp cardTokenResponse
	err := g.do(ctx, http.MethodPost, "/tokens/cards", g.publicKey, cardTokenRequest{
		Number:   card.Number,
		CVC:      card.CVC,
		ExpMonth: card.ExpMonth,
		ExpYear:  card.ExpYear,
		Holder:   card.CardHolder,
	}, &resp)
	if err != nil {
		return commands.TokenizedCard{}, err
	}
	return commands.TokenizedCard{
		Token:    resp.Data.ID,
		Brand:    resp.Data.Brand,
		LastFour: resp.Data.LastFour,
	}, nil
}

type paymentMethodBody struct {
	Type         string `json:"type"`
	Installments int    `json:"installments"`
	Token        string `json:"token"`
}

type createPaymentRequest struct {
	AmountInCents   int64             `json:"amount_in_cents"`
	Currency        string            `json:"currency"`
	CustomerEmail   string            `json:"customer_email"`
	PaymentMethod   paymentMethodBody `json:"payment_method"`
	Reference       string            `json:"reference"`
	AcceptanceToken string            `json:"acceptance_token"`
	Signature       string            `json:"signature"`
}

type paymentResponse struct {
	Data struct {
		ID            string `json:"id"`
		Status        string `json:"status"`
		StatusMessage string `json:"status_message"`
	} `json:"data"`
}

func (g *WompiGateway) CreatePayment(ctx context.Context, req commands.PaymentRequest) (commands.PaymentResult, error) {
	acceptanceToken, err := g.fetchAcceptanceToken(ctx)
	if err != nil {
		return commands.PaymentResult{}, err
	}

	var resp paymentResponse
	err = g.do(ctx, http.MethodPost, "/transactions", g.privateKey, createPaymentRequest{
		AmountInCents: req.AmountInCents,
		Currency:      req.Currency,
		CustomerEmail: req.CustomerEmail,
		PaymentMethod: paymentMethodBody{
			Type:         req.PaymentMethod.Type,
			Installments: req.PaymentMethod.Installments,
			Token:        req.PaymentMethod.Token,
		},
		Reference:       req.Reference,
		AcceptanceToken: acceptanceToken,
		Signature:       g.integritySignature(req.Reference, req.AmountInCents, req.Currency),
	}, &resp)
	if err != nil {
		return commands.PaymentResult{}, err
	}
	return commands.PaymentResult{
		ID:            resp.Data.ID,
		Status:        resp.Data.Status,
		StatusMessage: resp.Data.StatusMessage,
	}, nil
}

func (g *WompiGateway) GetPaymentStatus(ctx context.Context, gatewayTransactionID string) (commands.PaymentResult, error) {
	var resp paymentResponse
	if err := g.do(ctx, http.MethodGet, "/transactions/"+gatewayTransactionID, g.privateKey, nil, &resp); err != nil {
		return commands.PaymentResult{}, err
	}
	return commands.PaymentResult{
		ID:            resp.Data.ID,
		Status:        resp.Data.Status,
		StatusMessage: resp.Data.StatusMessage,
	}, nil
}

type merchantResponse struct {
	Data struct {
		PresignedAcceptance struct {
			AcceptanceToken string `json:"acceptance_token"`
		} `json:"presigned_acceptance"`
	} `json:"data"`
}

func (g *WompiGateway) fetchAcceptanceToken(ctx context.Context) (string, error) {
	var resp merchantResponse
	if err := g.do(ctx, http.MethodGet, "/merchants/"+g.publicKey, "", nil, &resp); err != nil {
		return "", err
	}
	token := resp.Data.PresignedAcceptance.AcceptanceToken
	if token == "" {
		return "", errs.New("gateway returned empty acceptance token")
	}
	return token, nil
}

// integritySignature is sha256 over reference, amount in cents, currency and
// the merchant integrity secret, concatenated in that order.
func (g *WompiGateway) integritySignature(reference string, amountInCents int64, currency string) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s%d%s%s", reference, amountInCents, currency, g.integritySecret))
	return hex.EncodeToString(sum[:])
}

func (g *WompiGateway) do(ctx context.Context, method, path, bearer string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errs.Wrap(err, "failed to marshal gateway request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.apiURL+path, reader)
	if err != nil {
		return errs.Wrap(err, "failed to build gateway request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return errs.Wrap(err, "gateway request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.Wrap(err, "failed to read gateway response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errs.Newf("gateway returned %d for %s %s: %s", resp.StatusCode, method, path, truncate(raw, 512))
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return errs.Wrap(err, "failed to decode gateway response")
		}
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
