package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ChatAction is one instruction in the assistant's closed vocabulary.
type ChatAction struct {
	Type     string `json:"type"`
	Chips    []string `json:"chips,omitempty"`
	Variants []struct {
		VariantID uint `json:"variant_id"`
		Qty       int  `json:"qty"`
	} `json:"variants,omitempty"`
	OrderID string `json:"order_id,omitempty"`
	Confirm bool   `json:"confirm"`
}

// ChatReply is one assistant turn.
type ChatReply struct {
	Response string       `json:"response"`
	Actions  []ChatAction `json:"actions"`
}

// Chat sends one message to the assistant. The chat endpoint lives
// next to the API root rather than under it, and works for anonymous
// and authenticated sessions alike.
func (c *Client) Chat(ctx context.Context, message string) (*ChatReply, error) {
	body, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return nil, err
	}

	url := strings.TrimSuffix(c.baseURL, "/api") + "/ai/chat"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode, Message: errorMessage(raw)}
	}

	var reply ChatReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// ActionHandler executes one assistant action kind.
type ActionHandler func(ctx context.Context, action ChatAction) error

// ActionDispatcher maps action kinds to handlers. Kinds without a
// handler are skipped, so display-only actions can be left to the UI.
type ActionDispatcher struct {
	handlers map[string]ActionHandler
}

// NewActionDispatcher wires the cart-affecting action kinds to the
// coordinator. Confirm-gated actions are skipped unless the caller
// registered an override that asks the user.
func NewActionDispatcher(c *Client) *ActionDispatcher {
	d := &ActionDispatcher{handlers: make(map[string]ActionHandler)}

	d.Register("ADD_TO_CART", func(ctx context.Context, action ChatAction) error {
		for _, v := range action.Variants {
			if err := c.AddItem(ctx, v.VariantID, v.Qty); err != nil {
				return err
			}
		}
		return nil
	})
	d.Register("CLEAR_CART", func(ctx context.Context, action ChatAction) error {
		if action.Confirm {
			// Destructive and unconfirmed; leave it to the UI.
			return nil
		}
		return c.ClearCart(ctx)
	})
	d.Register("DOWNLOAD_QUOTE", func(ctx context.Context, action ChatAction) error {
		quotation, err := c.CreateQuotation(ctx)
		if err != nil {
			return err
		}
		_, err = c.QuotationPDF(ctx, quotation.ID)
		return err
	})
	d.Register("DOWNLOAD_ORDER_INVOICE", func(ctx context.Context, action ChatAction) error {
		_, err := c.OrderInvoicePDF(ctx, action.OrderID)
		return err
	})

	return d
}

// Register sets the handler for an action kind, replacing any default.
func (d *ActionDispatcher) Register(kind string, handler ActionHandler) {
	d.handlers[kind] = handler
}

// Dispatch runs the handlers for a reply's actions in order, stopping
// at the first failure.
func (d *ActionDispatcher) Dispatch(ctx context.Context, reply *ChatReply) error {
	for _, action := range reply.Actions {
		handler, ok := d.handlers[action.Type]
		if !ok {
			continue
		}
		if err := handler(ctx, action); err != nil {
			return fmt.Errorf("action %s: %w", action.Type, err)
		}
	}
	return nil
}
