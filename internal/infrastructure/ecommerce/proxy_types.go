package ecommerce

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/erp/catalogsync/internal/domain/integration"
)

// proxyAction is the only action the catalog sync sends
const proxyAction = "fetch"

// proxyRequest is the body POSTed to the proxy
type proxyRequest struct {
	Action      string           `json:"action"`
	Credentials proxyCredentials `json:"credentials"`
	Limit       int              `json:"limit"`
	Page        int              `json:"page"`
}

type proxyCredentials struct {
	Endpoint   string `json:"endpoint"`
	Key        string `json:"key"`
	Secret     string `json:"secret"`
	APIVersion string `json:"apiVersion,omitempty"`
	UseTLS     bool   `json:"useTLS"`
}

// proxyResponse is the envelope the proxy answers with
type proxyResponse struct {
	Success  bool           `json:"success"`
	Products []proxyProduct `json:"products"`
	Message  string         `json:"message"`
}

// proxyProduct mirrors the remote product fields the proxy forwards
type proxyProduct struct {
	ID            flexString       `json:"id"`
	SKU           string           `json:"sku"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Price         flexString       `json:"price"`
	StockQuantity *int             `json:"stock_quantity"`
	Weight        flexString       `json:"weight"`
	Dimensions    *proxyDimensions `json:"dimensions"`
	Images        []proxyImage     `json:"images"`
}

type proxyDimensions struct {
	Length flexString `json:"length"`
	Width  flexString `json:"width"`
	Height flexString `json:"height"`
}

// String renders "LxWxH", or "" when every side is blank
func (d *proxyDimensions) String() string {
	if d == nil {
		return ""
	}
	l, w, h := string(d.Length), string(d.Width), string(d.Height)
	if l == "" && w == "" && h == "" {
		return ""
	}
	return l + "x" + w + "x" + h
}

type proxyImage struct {
	Src string `json:"src"`
}

// flexString accepts a JSON string, number or null
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func toProxyCredentials(c integration.Credentials) proxyCredentials {
	return proxyCredentials{
		Endpoint:   c.Endpoint,
		Key:        c.Key,
		Secret:     c.Secret,
		APIVersion: c.APIVersion,
		UseTLS:     c.UseTLS,
	}
}

// toRecord converts a proxy product. A missing stock quantity is zero.
func (p proxyProduct) toRecord() integration.RemoteProductRecord {
	stock := 0
	if p.StockQuantity != nil {
		stock = *p.StockQuantity
	}
	images := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		if src := strings.TrimSpace(img.Src); src != "" {
			images = append(images, src)
		}
	}
	return integration.RemoteProductRecord{
		ExternalID:  string(p.ID),
		SKU:         strings.TrimSpace(p.SKU),
		Name:        p.Name,
		Description: p.Description,
		Price:       string(p.Price),
		Stock:       stock,
		Weight:      string(p.Weight),
		Dimensions:  p.Dimensions.String(),
		Images:      images,
	}
}

// truncateMessage keeps proxy messages readable in job error summaries.
// The cut never splits a UTF-8 sequence.
func truncateMessage(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "...(" + strconv.Itoa(len(s)-cut) + " more bytes)"
}
