// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package companydns

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/company-dns/internal/explorer"
	"github.com/pdiddy/company-dns/pkg/types"
)

// RecentWindow is how recently a 10-Q must have been filed to count as recent.
const RecentWindow = 90 * 24 * time.Hour

var cikPattern = regexp.MustCompile(`^\d{1,10}$`)

// IsCIK reports whether q is a Central Index Key (1 to 10 digits).
func IsCIK(q string) bool { return cikPattern.MatchString(strings.TrimSpace(q)) }

// flexString decodes a JSON string, number or null as text.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	*s = flexString(types.ScalarString(b))
	return nil
}

type edgarForm struct {
	FilingIndex string `json:"filingIndex"`
	FormType    string `json:"formType"`
}

type edgarFirmographics struct {
	CIK                      flexString   `json:"cik"`
	SIC                      flexString   `json:"sic"`
	SICDescription           string       `json:"sicDescription"`
	Division                 flexString   `json:"division"`
	DivisionDescription      string       `json:"divisionDescription"`
	MajorGroup               flexString   `json:"majorGroup"`
	MajorGroupDescription    string       `json:"majorGroupDescription"`
	IndustryGroup            flexString   `json:"industryGroup"`
	IndustryGroupDescription string       `json:"industryGroupDescription"`
	Category                 string       `json:"category"`
	FiscalYearEnd            flexString   `json:"fiscalYearEnd"`
	City                     string       `json:"city"`
	StateProvince            string       `json:"stateProvince"`
	ZipPostal                flexString   `json:"zipPostal"`
	Address                  string       `json:"address"`
	Tickers                  []flexString `json:"tickers"`
	Exchanges                []flexString `json:"exchanges"`
}

type edgarCompany struct {
	edgarFirmographics
	Forms map[string]edgarForm `json:"forms"`

	// Data holds the firmographics when the server wraps them.
	Data *struct {
		edgarFirmographics
		Forms map[string]edgarForm `json:"forms"`
	} `json:"data"`
}

func (c edgarCompany) firmographics() edgarFirmographics {
	if c.Data != nil {
		return c.Data.edgarFirmographics
	}
	return c.edgarFirmographics
}

func (c edgarCompany) forms() map[string]edgarForm {
	if len(c.Forms) == 0 && c.Data != nil {
		return c.Data.Forms
	}
	return c.Forms
}

type edgarDetailResponse struct {
	Data struct {
		Companies map[string]edgarCompany `json:"companies"`
	} `json:"data"`
}

type edgarFirmographicsResponse struct {
	Data struct {
		Name string `json:"name"`
	} `json:"data"`
}

// EdgarResult is the outcome of an EDGAR filing search.
type EdgarResult struct {
	// Filings are sorted by filing date, newest first.
	Filings   []types.Filing
	Companies int
}

// EdgarFilings returns the filings of every company matching query. A
// query of 1 to 10 digits is a CIK: the company name is looked up first
// and the filings are fetched by name.
func (c *Client) EdgarFilings(ctx context.Context, query string) (EdgarResult, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return EdgarResult{}, ErrEmptyQuery
	}

	name := q
	if IsCIK(q) {
		var firmo edgarFirmographicsResponse
		err := c.Get(ctx, "/V3.0/na/company/edgar/firmographics/"+url.PathEscape(q), &firmo,
			GetOptions{Operation: "edgar_firmographics", CacheTTL: c.cfg.StaticCacheTTL})
		if err != nil && !IsNotFound(err) {
			return EdgarResult{}, fmt.Errorf("resolving CIK %s: %w", q, err)
		}
		name = strings.TrimSpace(firmo.Data.Name)
		if name == "" {
			return EdgarResult{}, fmt.Errorf("CIK %s: %w", q, ErrCIKNotFound)
		}
		c.logger.Debug("resolved CIK", "cik", q, "name", name)
	}

	var detail edgarDetailResponse
	err := c.Get(ctx, "/V3.0/na/companies/edgar/detail/"+url.PathEscape(name), &detail,
		GetOptions{Operation: "edgar_detail", CacheTTL: c.cfg.SearchCacheTTL})
	if err != nil {
		if IsNotFound(err) {
			return EdgarResult{Filings: []types.Filing{}}, nil
		}
		return EdgarResult{}, fmt.Errorf("fetching EDGAR detail for %q: %w", name, err)
	}

	filings := transformDetail(detail, c.now())
	return EdgarResult{Filings: filings, Companies: len(detail.Data.Companies)}, nil
}

// FetchFilings adapts EdgarFilings to a session fetch function.
func (c *Client) FetchFilings(ctx context.Context, query string) ([]types.Filing, error) {
	res, err := c.EdgarFilings(ctx, query)
	if err != nil {
		return nil, err
	}
	return res.Filings, nil
}

// transformDetail flattens companies and their forms into one filing per
// form, newest first. Forms are keyed "YYYY-MM-DD-<accession>".
func transformDetail(detail edgarDetailResponse, now time.Time) []types.Filing {
	names := make([]string, 0, len(detail.Data.Companies))
	for name := range detail.Data.Companies {
		names = append(names, name)
	}
	sort.Strings(names)

	filings := []types.Filing{}
	for _, name := range names {
		company := detail.Data.Companies[name]
		firmo := company.firmographics()
		forms := company.forms()
		latest10K, latest10Q := latestFilings(forms, now)

		keys := make([]string, 0, len(forms))
		for k := range forms {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, key := range keys {
			form := forms[key]
			date, accession := splitFormKey(key)
			filings = append(filings, types.Filing{
				CompanyName:     name,
				CIK:             string(firmo.CIK),
				FilingType:      form.FormType,
				FilingDate:      date,
				AccessionNumber: accession,
				DocumentURL:     form.FilingIndex,
				SIC: types.SICInfo{
					Code:                     string(firmo.SIC),
					Description:              firmo.SICDescription,
					Division:                 string(firmo.Division),
					DivisionDescription:      firmo.DivisionDescription,
					MajorGroup:               string(firmo.MajorGroup),
					MajorGroupDescription:    firmo.MajorGroupDescription,
					IndustryGroup:            string(firmo.IndustryGroup),
					IndustryGroupDescription: firmo.IndustryGroupDescription,
				},
				FilerCategory: firmo.Category,
				FiscalYearEnd: string(firmo.FiscalYearEnd),
				Location: types.Location{
					Address:       firmo.Address,
					City:          firmo.City,
					StateProvince: firmo.StateProvince,
					ZipPostal:     string(firmo.ZipPostal),
				},
				Ticker:    first(firmo.Tickers),
				Exchange:  first(firmo.Exchanges),
				Latest10K: latest10K,
				Latest10Q: latest10Q,
			})
		}
	}

	// ISO dates order lexically.
	sort.SliceStable(filings, func(i, j int) bool {
		return filings[i].FilingDate > filings[j].FilingDate
	})
	return filings
}

// latestFilings picks the newest 10-K and 10-Q and flags the 10-Q as recent
// when it falls within RecentWindow of now.
func latestFilings(forms map[string]edgarForm, now time.Time) (tenK, tenQ *types.FilingRef) {
	for key, form := range forms {
		date, accession := splitFormKey(key)
		ref := &types.FilingRef{Date: date, URL: form.FilingIndex, AccessionNumber: accession}
		switch types.FamilyOf(form.FormType) {
		case types.Form10K:
			if tenK == nil || date > tenK.Date {
				tenK = ref
			}
		case types.Form10Q:
			if tenQ == nil || date > tenQ.Date {
				tenQ = ref
			}
		}
	}
	if tenQ != nil {
		tenQ.Recent = filedWithin(tenQ.Date, now, RecentWindow)
	}
	return tenK, tenQ
}

func splitFormKey(key string) (date, accession string) {
	parts := strings.SplitN(key, "-", 4)
	if len(parts) < 3 {
		return key, ""
	}
	date = strings.Join(parts[:3], "-")
	if len(parts) == 4 {
		accession = parts[3]
	}
	return date, accession
}

func filedWithin(date string, now time.Time, window time.Duration) bool {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return false
	}
	return !t.Before(now.Add(-window).Truncate(24 * time.Hour))
}

func first(values []flexString) string {
	for _, v := range values {
		if s := strings.TrimSpace(string(v)); s != "" {
			return s
		}
	}
	return ""
}

// FilingFilter narrows EDGAR filings beyond the form-family filter.
// Zero fields do not filter.
type FilingFilter struct {
	// Division is an SIC division letter.
	Division string

	// FiscalYearEnd is MM/DD.
	FiscalYearEnd string

	// Recent10Q keeps only 10-Q filings within RecentWindow of Now.
	Recent10Q bool

	Now time.Time
}

// Active reports whether any field filters.
func (f FilingFilter) Active() bool {
	return f.Division != "" || f.FiscalYearEnd != "" || f.Recent10Q
}

// Match reports whether a filing passes every set field.
func (f FilingFilter) Match(fl types.Filing) bool {
	if f.Recent10Q {
		now := f.Now
		if now.IsZero() {
			now = time.Now()
		}
		if fl.Family() != types.Form10Q || !filedWithin(fl.FilingDate, now, RecentWindow) {
			return false
		}
	}
	if f.Division != "" && !strings.EqualFold(fl.SIC.Division, f.Division) {
		return false
	}
	if f.FiscalYearEnd != "" && types.FiscalYearEndLabel(fl.FiscalYearEnd) != types.FiscalYearEndLabel(f.FiscalYearEnd) {
		return false
	}
	return true
}

// Refinement tokens written by Tokens.
const (
	tokenDivision  = "division"
	tokenFYE       = "fye"
	tokenRecent10Q = "recent10Q"
)

// Tokens describes the filter as explorer refinement tokens:
// "division:D", "fye:MM/DD" and "recent10Q".
func (f FilingFilter) Tokens() []string {
	var out []string
	if d := strings.TrimSpace(f.Division); d != "" {
		out = append(out, tokenDivision+":"+strings.ToUpper(d))
	}
	if fye := strings.TrimSpace(f.FiscalYearEnd); fye != "" {
		out = append(out, tokenFYE+":"+types.FiscalYearEndLabel(fye))
	}
	if f.Recent10Q {
		out = append(out, tokenRecent10Q)
	}
	return out
}

// ParseFilingFilter reads tokens written by Tokens. Unknown tokens are
// ignored and later tokens override earlier ones; an empty value clears
// its field.
func ParseFilingFilter(tokens []string) FilingFilter {
	var f FilingFilter
	for _, t := range tokens {
		name, value, _ := strings.Cut(strings.TrimSpace(t), ":")
		value = strings.TrimSpace(value)
		switch {
		case strings.EqualFold(name, tokenDivision):
			f.Division = strings.ToUpper(value)
		case strings.EqualFold(name, tokenFYE):
			f.FiscalYearEnd = value
		case strings.EqualFold(name, tokenRecent10Q):
			f.Recent10Q = value == "" || !strings.EqualFold(value, "off")
		}
	}
	return f
}

// FilingRefinements is the explorer refinement parser for filing filters.
// Recent10Q is judged against now.
func FilingRefinements(now time.Time) explorer.RefinementParser[types.Filing] {
	return func(tokens []string) explorer.Refinement[types.Filing] {
		f := ParseFilingFilter(tokens)
		if !f.Active() {
			return nil
		}
		f.Now = now
		return f
	}
}

// FilterOptions lists the distinct divisions and fiscal year ends (MM/DD)
// present in filings, sorted.
func FilterOptions(filings []types.Filing) (divisions, fiscalYearEnds []string) {
	divSet := make(map[string]struct{})
	fyeSet := make(map[string]struct{})
	for _, fl := range filings {
		if fl.SIC.Division != "" {
			divSet[fl.SIC.Division] = struct{}{}
		}
		if fl.FiscalYearEnd != "" {
			fyeSet[types.FiscalYearEndLabel(fl.FiscalYearEnd)] = struct{}{}
		}
	}
	for d := range divSet {
		divisions = append(divisions, d)
	}
	for f := range fyeSet {
		fiscalYearEnds = append(fiscalYearEnds, f)
	}
	sort.Strings(divisions)
	sort.Strings(fiscalYearEnds)
	return divisions, fiscalYearEnds
}
