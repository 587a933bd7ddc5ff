// Package bankverify is the client for bank-account verification: IFSC
// branch lookup and penny-drop account checks.
package bankverify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// ifscPattern: four bank letters, a zero, six branch characters.
var ifscPattern = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)

// ValidIFSC reports whether code has the standard IFSC shape.
func ValidIFSC(code string) bool {
	return ifscPattern.MatchString(strings.ToUpper(strings.TrimSpace(code)))
}

// Client talks to the bank-verification service.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{baseURL: baseURL, apiKey: apiKey, http: &http.Client{Timeout: timeout}}
}

// Branch is the result of an IFSC lookup.
type Branch struct {
	IFSC    string `json:"IFSC"`
	Bank    string `json:"BANK"`
	Branch  string `json:"BRANCH"`
	Address string `json:"ADDRESS"`
	City    string `json:"CITY"`
	State   string `json:"STATE"`
}

// PennyDrop is the result of an account verification deposit.
type PennyDrop struct {
	Status     string  `json:"status"` // SUCCESS, FAILED, PENDING
	NameAtBank string  `json:"nameAtBank"`
	UTR        string  `json:"utr"`
	Amount     float64 `json:"amount"`
	Message    string  `json:"message"`
}

// Verified reports whether the deposit confirmed the account.
func (p PennyDrop) Verified() bool { return p.Status == "SUCCESS" }

// LookupIFSC resolves an IFSC code to its bank branch.
func (c *Client) LookupIFSC(ctx context.Context, code string) (Branch, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !ValidIFSC(code) {
		return Branch{}, fmt.Errorf("lookup ifsc: %q is not a valid IFSC code", code)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+code, nil)
	if err != nil {
		return Branch{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Branch{}, fmt.Errorf("lookup ifsc: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return Branch{}, fmt.Errorf("lookup ifsc: %s not found", code)
	}
	if resp.StatusCode != http.StatusOK {
		return Branch{}, fmt.Errorf("lookup ifsc: status %d", resp.StatusCode)
	}
	var b Branch
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&b); err != nil {
		return Branch{}, fmt.Errorf("lookup ifsc: decode: %w", err)
	}
	return b, nil
}

// VerifyAccount runs a penny-drop check against the account. Requires an
// API key.
func (c *Client) VerifyAccount(ctx context.Context, accountNumber, ifsc, holderName string) (PennyDrop, error) {
	if c.apiKey == "" {
		return PennyDrop{}, fmt.Errorf("verify account: api key not configured")
	}
	if !ValidIFSC(ifsc) {
		return PennyDrop{}, fmt.Errorf("verify account: %q is not a valid IFSC code", ifsc)
	}
	payload, err := json.Marshal(map[string]string{
		"accountNumber": strings.TrimSpace(accountNumber),
		"ifsc":          strings.ToUpper(strings.TrimSpace(ifsc)),
		"name":          strings.TrimSpace(holderName),
	})
	if err != nil {
		return PennyDrop{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/penny-drop", bytes.NewReader(payload))
	if err != nil {
		return PennyDrop{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)
	resp, err := c.http.Do(req)
	if err != nil {
		return PennyDrop{}, fmt.Errorf("verify account: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return PennyDrop{}, fmt.Errorf("verify account: status %d", resp.StatusCode)
	}
	var pd PennyDrop
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&pd); err != nil {
		return PennyDrop{}, fmt.Errorf("verify account: decode: %w", err)
	}
	return pd, nil
}
