// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// FormFamily groups EDGAR form types for filtering. It is the discriminant
// of the EDGAR explorer.
type FormFamily string

const (
	Form10K   FormFamily = "10-K"
	Form10Q   FormFamily = "10-Q"
	Form8K    FormFamily = "8-K"
	FormOther FormFamily = "Other"
)

// FormFamilies lists every form family in display order.
var FormFamilies = []FormFamily{Form10K, Form10Q, Form8K, FormOther}

// FamilyOf maps a raw EDGAR form type ("10-K/A", "10-Q", "S-1") to its family.
func FamilyOf(formType string) FormFamily {
	t := strings.ToUpper(strings.TrimSpace(formType))
	switch {
	case strings.HasPrefix(t, "10-K"):
		return Form10K
	case strings.HasPrefix(t, "10-Q"):
		return Form10Q
	case strings.HasPrefix(t, "8-K"):
		return Form8K
	default:
		return FormOther
	}
}

// FilingRef points at one filing of a company.
type FilingRef struct {
	Date            string `json:"date" yaml:"date"`
	URL             string `json:"url" yaml:"url"`
	AccessionNumber string `json:"accession_number" yaml:"accession_number"`

	// Recent is set on the latest 10-Q when it was filed within the
	// recency window.
	Recent bool `json:"recent,omitempty" yaml:"recent,omitempty"`
}

// SICInfo is the SIC classification attached to an EDGAR filer.
type SICInfo struct {
	Code                     string `json:"code" yaml:"code"`
	Description              string `json:"description" yaml:"description"`
	Division                 string `json:"division" yaml:"division"`
	DivisionDescription      string `json:"division_description" yaml:"division_description"`
	MajorGroup               string `json:"major_group" yaml:"major_group"`
	MajorGroupDescription    string `json:"major_group_description" yaml:"major_group_description"`
	IndustryGroup            string `json:"industry_group" yaml:"industry_group"`
	IndustryGroupDescription string `json:"industry_group_description" yaml:"industry_group_description"`
}

// Location is the filer's business address.
type Location struct {
	Address       string `json:"address" yaml:"address"`
	City          string `json:"city" yaml:"city"`
	StateProvince string `json:"state_province" yaml:"state_province"`
	ZipPostal     string `json:"zip_postal" yaml:"zip_postal"`
}

// Filing is one EDGAR filing of one company, flattened with the company's
// firmographics so each row can be shown on its own.
type Filing struct {
	CompanyName     string     `json:"company_name" yaml:"company_name"`
	CIK             string     `json:"cik" yaml:"cik"`
	FilingType      string     `json:"filing_type" yaml:"filing_type"`
	FilingDate      string     `json:"filing_date" yaml:"filing_date"`
	AccessionNumber string     `json:"accession_number" yaml:"accession_number"`
	DocumentURL     string     `json:"document_url" yaml:"document_url"`
	SIC             SICInfo    `json:"sic" yaml:"sic"`
	FilerCategory   string     `json:"filer_category,omitempty" yaml:"filer_category,omitempty"`
	FiscalYearEnd   string     `json:"fiscal_year_end,omitempty" yaml:"fiscal_year_end,omitempty"`
	Location        Location   `json:"location" yaml:"location"`
	Ticker          string     `json:"ticker,omitempty" yaml:"ticker,omitempty"`
	Exchange        string     `json:"exchange,omitempty" yaml:"exchange,omitempty"`
	Latest10K       *FilingRef `json:"latest_10k,omitempty" yaml:"latest_10k,omitempty"`
	Latest10Q       *FilingRef `json:"latest_10q,omitempty" yaml:"latest_10q,omitempty"`
}

// Family returns the filing's form family.
func (f Filing) Family() FormFamily { return FamilyOf(f.FilingType) }

// FiscalYearEndLabel formats an EDGAR fiscal year end ("1231", "12/31")
// as MM/DD. Values shorter than four digits are returned unchanged.
func FiscalYearEndLabel(fye string) string {
	var digits strings.Builder
	for _, r := range fye {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) < 4 {
		return fye
	}
	return d[:2] + "/" + d[2:4]
}
