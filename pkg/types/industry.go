// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the company-dns client.
//
// IndustryCode and Filing are the two record families the explorer pages
// through; Config groups the settings built once at startup.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// SourceType identifies the classification taxonomy an industry code
// belongs to. The set is closed; see SourceTypes.
type SourceType string

const (
	SourceUSSIC    SourceType = "US SIC"
	SourceUKSIC    SourceType = "UK SIC"
	SourceEUNACE   SourceType = "EU NACE"
	SourceISIC     SourceType = "ISIC"
	SourceJapanSIC SourceType = "Japan SIC"
)

// SourceTypes lists every taxonomy in display order.
var SourceTypes = []SourceType{SourceUSSIC, SourceUKSIC, SourceEUNACE, SourceISIC, SourceJapanSIC}

// ParseSourceType matches s case-insensitively against the known
// taxonomies. Underscore and hyphen forms ("us_sic", "eu-nace") are accepted.
func ParseSourceType(s string) (SourceType, bool) {
	norm := strings.NewReplacer("_", " ", "-", " ").Replace(strings.TrimSpace(s))
	for _, st := range SourceTypes {
		if strings.EqualFold(norm, string(st)) {
			return st, true
		}
	}
	return "", false
}

// Attributes holds the additional named values attached to a record.
// An empty value means "not shown".
type Attributes map[string]string

// UnmarshalJSON accepts strings, numbers, booleans and null. Null becomes
// the empty string; nested objects and arrays are kept as compact JSON.
func (a *Attributes) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*a = nil
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("attributes: %w", err)
	}
	out := make(Attributes, len(raw))
	for k, v := range raw {
		out[k] = ScalarString(v)
	}
	*a = out
	return nil
}

// ScalarString renders a JSON value as display text: strings unquoted,
// null as "", anything else as compact JSON.
func ScalarString(v json.RawMessage) string {
	trimmed := bytes.TrimSpace(v)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err == nil {
		return buf.String()
	}
	return string(trimmed)
}

// Keys returns the attribute names with a non-empty value, sorted.
func (a Attributes) Keys() []string {
	keys := make([]string, 0, len(a))
	for k, v := range a {
		if strings.TrimSpace(v) != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// HasValues reports whether at least one attribute is non-empty.
func (a Attributes) HasValues() bool {
	for _, v := range a {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

// IndustryCode is one result of the cross-taxonomy description search.
// Records are never mutated after decoding.
type IndustryCode struct {
	// SourceType is the taxonomy discriminant ("US SIC", "UK SIC", ...).
	SourceType SourceType `json:"source_type" yaml:"source_type"`

	// Source is the server's short module name ("us_sic", "eu_sic", ...).
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// Code is the classification code within its taxonomy.
	Code string `json:"code" yaml:"code"`

	// Description is the human-readable classification label.
	Description string `json:"description" yaml:"description"`

	// AdditionalData carries taxonomy-specific hierarchy codes.
	AdditionalData Attributes `json:"additional_data" yaml:"additional_data"`
}

// Key returns a stable identifier for the record within one result set.
func (c IndustryCode) Key() string {
	return string(c.SourceType) + "-" + c.Code
}
