package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ProductSummary is a catalog entry as served by the backend. It is
// read-only to the storefront.
type ProductSummary struct {
	ProductID   string   `json:"productId"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	LabellPrice float64  `json:"labellPrice"`
	Stock       int      `json:"stock"`
	Images      []string `json:"images"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
}

// InStock reports whether at least one unit is available.
func (p ProductSummary) InStock() bool {
	return p.Stock > 0
}

// UnmarshalJSON accepts the identifier as productId, _id or id, encoded
// either as a string or as a number.
func (p *ProductSummary) UnmarshalJSON(data []byte) error {
	type alias ProductSummary
	aux := struct {
		*alias
		ProductID json.RawMessage `json:"productId"`
		MongoID   json.RawMessage `json:"_id"`
		ID        json.RawMessage `json:"id"`
	}{alias: (*alias)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	for _, raw := range []json.RawMessage{aux.ProductID, aux.MongoID, aux.ID} {
		id, err := rawID(raw)
		if err != nil {
			return fmt.Errorf("product id: %w", err)
		}
		if id != "" {
			p.ProductID = id
			break
		}
	}
	return nil
}

func rawID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	case '{':
		// extended JSON: {"$oid": "..."}
		var oid struct {
			OID string `json:"$oid"`
		}
		if err := json.Unmarshal(raw, &oid); err != nil {
			return "", err
		}
		return oid.OID, nil
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", err
		}
		return n.String(), nil
	}
}

// NewProduct is the body of an admin product creation request.
type NewProduct struct {
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	LabellPrice float64  `json:"labellPrice"`
	Stock       int      `json:"stock"`
	Images      []string `json:"images"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
}

// Validate checks the fields the admin form requires.
func (p NewProduct) Validate() error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return &ValidationError{Field: "name", Message: "name is required"}
	case p.Price < 0:
		return &ValidationError{Field: "price", Message: "price must not be negative"}
	case p.LabellPrice < 0:
		return &ValidationError{Field: "labellPrice", Message: "list price must not be negative"}
	case p.Stock < 0:
		return &ValidationError{Field: "stock", Message: "stock must not be negative"}
	}
	return nil
}
