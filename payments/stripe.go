package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rbpanchal/medimatch-api/models"
)

const stripeAPIURL = "https://api.stripe.com/v1/checkout/sessions"

// StripeClient creates Checkout Sessions against Stripe's REST API.
// Requests are form encoded per Stripe's wire format.
type StripeClient struct {
	secretKey   string
	frontendURL string
	httpClient  *http.Client
}

// CheckoutSession is the subset of Stripe's session object we consume.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// NewStripeClientFromEnv returns nil when no secret key is configured,
// which disables online payment and leaves COD checkout working.
func NewStripeClientFromEnv() *StripeClient {
	key := os.Getenv("STRIPE_SECRET_KEY")
	if key == "" {
		return nil
	}
	frontend := os.Getenv("FRONTEND_URL")
	if frontend == "" {
		frontend = "http://localhost:5173"
	}
	return &StripeClient{
		secretKey:   key,
		frontendURL: strings.TrimRight(frontend, "/"),
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

// CreateCheckoutSession opens a card payment session for an order. The
// success URL lands the shopper on the order confirmation page; amounts
// are sent in the smallest currency unit.
func (s *StripeClient) CreateCheckoutSession(ctx context.Context, order *models.Order, items []models.SnapshotItem) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("payment_method_types[0]", "card")
	form.Set("success_url", fmt.Sprintf("%s/orders/%s", s.frontendURL, order.ID))
	form.Set("cancel_url", s.frontendURL+"/checkout")
	form.Set("client_reference_id", order.ID)
	form.Set("metadata[order_id]", order.ID)

	for i, it := range items {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[price_data][currency]", "inr")
		form.Set(prefix+"[price_data][product_data][name]",
			fmt.Sprintf("%s (%s)", it.ProductName, it.VariantName))
		form.Set(prefix+"[price_data][unit_amount]", strconv.Itoa(int(it.Price*100)))
		form.Set(prefix+"[quantity]", strconv.Itoa(it.Quantity))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, stripeAPIURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach Stripe: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stripe API error (%d): %s", resp.StatusCode, string(body))
	}

	var session CheckoutSession
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("failed to parse Stripe response: %w", err)
	}
	if session.URL == "" {
		return nil, fmt.Errorf("stripe returned empty payment URL")
	}
	return &session, nil
}

// WebhookEvent is the decoded and verified webhook payload.
type WebhookEvent struct {
	Type    string
	Session struct {
		ClientReferenceID string `json:"client_reference_id"`
		PaymentIntent     string `json:"payment_intent"`
	}
}

// ParseWebhookEvent verifies the Stripe-Signature header (HMAC-SHA256
// over "<timestamp>.<payload>" with the endpoint secret) and decodes the
// event. Signatures older than 5 minutes are rejected.
func ParseWebhookEvent(payload []byte, sigHeader, secret string) (*WebhookEvent, error) {
	if secret == "" {
		return nil, fmt.Errorf("webhook secret not configured")
	}

	var timestamp string
	var signatures []string
	for _, part := range strings.Split(sigHeader, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return nil, fmt.Errorf("malformed signature header")
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed signature timestamp")
	}
	if time.Since(time.Unix(ts, 0)) > 5*time.Minute {
		return nil, fmt.Errorf("signature timestamp too old")
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	valid := false
	for _, sig := range signatures {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("signature verification failed")
	}

	var raw struct {
		Type string `json:"type"`
		Data struct {
			Object json.RawMessage `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("malformed event payload: %w", err)
	}

	event := WebhookEvent{Type: raw.Type}
	if len(raw.Data.Object) > 0 {
		if err := json.Unmarshal(raw.Data.Object, &event.Session); err != nil {
			return nil, fmt.Errorf("malformed session object: %w", err)
		}
	}
	return &event, nil
}
