// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package companydns

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// API versions, newest first.
const (
	VersionV3 = "V3.0"
	VersionV2 = "V2.0"
)

// Versions lists the API versions, newest first.
var Versions = []string{VersionV3, VersionV2}

// Endpoint is one documented lookup endpoint. Path carries a trailing
// slash; the lookup value is appended to it.
type Endpoint struct {
	Version     string `json:"version" yaml:"version"`
	Name        string `json:"name" yaml:"name"`
	Path        string `json:"path" yaml:"path"`
	Description string `json:"description" yaml:"description"`
}

// URLPath returns the request path for value.
func (e Endpoint) URLPath(value string) string {
	return "/" + e.Version + e.Path + url.PathEscape(strings.TrimSpace(value))
}

const (
	descEdgarDetail  = "Accepts a company search string, returns detailed EDGAR firmographics data for one or more companies."
	descEdgarSummary = "Accepts a company search string, returns summary EDGAR firmographics data for one or more companies."
	descCIKSearch    = "Accepts a company search string of interest, returns a pairing of company names to CIKs."
	descCIKFirmo     = "Accepts a string with a CIK (Central Index Key) for a company, returns EDGAR firmographics detail for that company."
	descWikipedia    = "Accepts a string with a company name of interest, returns Wikipedia firmographics detail."
	descMerged       = "Accepts a string containing a company name of interest, returns merged EDGAR and Wikipedia firmographics detail."
	descSICDesc      = "Accepts a string containing a SIC description of interest, returns all SIC descriptions that matched the full or partial string."
	descSICCode      = "Accepts a string containing a SIC of interest, returns all SICs that matched the full or partial string."
	descSICDivision  = "Accepts a string containing a division id of interest, returns the SIC division description that matches the id."
	descSICIndustry  = "Accepts a string containing an industry group number of interest, returns the SIC industry group information that matches the number."
	descSICMajor     = "Accepts a string containing a major group number of interest, returns the SIC major group information that matches the number."
)

var catalog = []Endpoint{
	{VersionV3, "EDGAR Detail", "/na/companies/edgar/detail/", descEdgarDetail},
	{VersionV3, "EDGAR Summary", "/na/companies/edgar/summary/", descEdgarSummary},
	{VersionV3, "Company CIK Search", "/na/companies/edgar/ciks/", descCIKSearch},
	{VersionV3, "CIK Firmographics", "/na/company/edgar/firmographics/", descCIKFirmo},
	{VersionV3, "Company Wikipedia", "/global/company/wikipedia/firmographics/", descWikipedia},
	{VersionV3, "Merged Firmographics", "/global/company/merged/firmographics/", descMerged},
	{VersionV3, "SIC Description", "/na/sic/description/", descSICDesc},
	{VersionV3, "SIC Code", "/na/sic/code/", descSICCode},
	{VersionV3, "SIC Division", "/na/sic/division/", descSICDivision},
	{VersionV3, "SIC Industry", "/na/sic/industry/", descSICIndustry},
	{VersionV3, "SIC Major", "/na/sic/major/", descSICMajor},
	{VersionV3, "UK SIC Description", "/uk/sic/description/", "Accepts a string containing a UK SIC description of interest, returns all UK SIC descriptions that matched the full or partial string."},
	{VersionV3, "UK SIC Code", "/uk/sic/code/", "Accepts a string containing a UK SIC code of interest, returns all UK SICs that matched the full or partial string."},
	{VersionV3, "International SIC Section", "/international/sic/section/", "Accepts a string containing a section code, returns data about the matching ISIC section."},
	{VersionV3, "International SIC Division", "/international/sic/division/", "Accepts a string containing a division code, returns data about the matching ISIC division."},
	{VersionV3, "International SIC Group", "/international/sic/group/", "Accepts a string containing a group code, returns data about the matching ISIC group."},
	{VersionV3, "International SIC Class", "/international/sic/class/", "Accepts a string containing a class code, returns data about the matching ISIC class."},
	{VersionV3, "International SIC Description", "/international/sic/description/", "Accepts a string containing a description, returns ISIC classes matching the description."},
	{VersionV3, "Global SIC Description", "/global/sic/description/", "Accepts a string containing a description, returns matching industry codes across US SIC, UK SIC, EU NACE, ISIC and Japan SIC."},

	{VersionV2, "EDGAR Detail", "/companies/edgar/detail/", descEdgarDetail},
	{VersionV2, "EDGAR Summary", "/companies/edgar/summary/", descEdgarSummary},
	{VersionV2, "Company CIK Search", "/companies/edgar/ciks/", descCIKSearch},
	{VersionV2, "CIK Firmographics", "/company/edgar/firmographics/", descCIKFirmo},
	{VersionV2, "Company Wikipedia", "/company/wikipedia/firmographics/", descWikipedia},
	{VersionV2, "Merged Firmographics", "/company/merged/firmographics/", descMerged},
	{VersionV2, "SIC Description", "/sic/description/", descSICDesc},
	{VersionV2, "SIC Code", "/sic/code/", descSICCode},
	{VersionV2, "SIC Division", "/sic/division/", descSICDivision},
	{VersionV2, "SIC Industry", "/sic/industry/", descSICIndustry},
	{VersionV2, "SIC Major", "/sic/major/", descSICMajor},
}

// Endpoints returns the catalog for version in documentation order. An
// empty version returns every version, newest first.
func Endpoints(version string) []Endpoint {
	var out []Endpoint
	for _, e := range catalog {
		if version == "" || strings.EqualFold(e.Version, version) {
			out = append(out, e)
		}
	}
	return out
}

// LookupEndpoint finds an endpoint by friendly name or path within
// version (V3.0 when empty). Matching ignores case and surrounding slashes.
func LookupEndpoint(version, nameOrPath string) (Endpoint, bool) {
	if version == "" {
		version = VersionV3
	}
	want := strings.Trim(strings.TrimSpace(nameOrPath), "/")
	for _, e := range Endpoints(version) {
		if strings.EqualFold(e.Name, want) || strings.EqualFold(strings.Trim(e.Path, "/"), want) {
			return e, true
		}
	}
	return Endpoint{}, false
}

// Query calls endpoint with value and returns the raw JSON response.
func (c *Client) Query(ctx context.Context, endpoint Endpoint, value string) (json.RawMessage, error) {
	if strings.TrimSpace(value) == "" {
		return nil, ErrEmptyQuery
	}
	body, err := c.GetRaw(ctx, endpoint.URLPath(value), GetOptions{Operation: "query"})
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", endpoint.Name, err)
	}
	return body, nil
}
