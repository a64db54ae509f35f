package models

import (
	"errors"
	"fmt"
)

// ErrMissingField is returned when a required header field is absent.
var ErrMissingField = errors.New("missing header field")

// Header field keys, as produced by the submission header parser.
const (
	FieldCIK           = "cik"
	FieldCompanyName   = "company_name"
	FieldFormType      = "form_type"
	FieldDateFiled     = "date_filed"
	FieldQuarterEnding = "quarter_ending"
	FieldSIC           = "sic"
	FieldFileName      = "file_name"
)

// RequiredFields must all be present before a filing can be persisted.
var RequiredFields = []string{
	FieldCIK, FieldCompanyName, FieldFormType, FieldDateFiled,
	FieldQuarterEnding, FieldSIC, FieldFileName,
}

// HeaderFields is the key/value identity of a filing.
type HeaderFields map[string]string

// Require checks that every key is present.
func (h HeaderFields) Require(keys ...string) error {
	for _, k := range keys {
		if _, ok := h[k]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingField, k)
		}
	}
	return nil
}

// Key returns the persistence key of the filing.
func (h HeaderFields) Key() (FilingKey, error) {
	if err := h.Require(FieldCIK, FieldFormType, FieldQuarterEnding); err != nil {
		return FilingKey{}, err
	}
	return FilingKey{
		CIK:          h[FieldCIK],
		FormType:     h[FieldFormType],
		PeriodEnding: h[FieldQuarterEnding],
	}, nil
}

// LabelValue is one extracted statement line.
type LabelValue struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// FilingKey identifies at most one live record.
type FilingKey struct {
	CIK          string `json:"cik"`
	FormType     string `json:"form_type"`
	PeriodEnding string `json:"period_ending"`
}

func (k FilingKey) String() string {
	return k.CIK + "/" + k.FormType + "/" + k.PeriodEnding
}

// FilingRecord is the persisted form of one extracted filing
type FilingRecord struct {
	CIK               string `json:"cik"`
	CompanyName       string `json:"company_name"`
	FileName          string `json:"file_name"`
	Symbol            string `json:"symbol"`
	SIC               string `json:"sic"`
	FormType          string `json:"form_type"`
	DateFiled         string `json:"date_filed"`
	PeriodEnding      string `json:"period_ending"`
	OutstandingShares int64  `json:"outstanding_shares"` // -1 when not found

	BalanceSheet []LabelValue `json:"balance_sheet"`
	Operations   []LabelValue `json:"statement_of_operations"`
	CashFlows    []LabelValue `json:"cash_flows"`
}

// NewFilingRecord builds a record from header fields and extracted values.
func NewFilingRecord(fields HeaderFields, shares int64, bal, ops, cash []LabelValue) (*FilingRecord, error) {
	if err := fields.Require(RequiredFields...); err != nil {
		return nil, err
	}
	return &FilingRecord{
		CIK:               fields[FieldCIK],
		CompanyName:       fields[FieldCompanyName],
		FileName:          fields[FieldFileName],
		SIC:               fields[FieldSIC],
		FormType:          fields[FieldFormType],
		DateFiled:         fields[FieldDateFiled],
		PeriodEnding:      fields[FieldQuarterEnding],
		OutstandingShares: shares,
		BalanceSheet:      bal,
		Operations:        ops,
		CashFlows:         cash,
	}, nil
}

// Key returns the persistence key of the record.
func (r *FilingRecord) Key() FilingKey {
	return FilingKey{CIK: r.CIK, FormType: r.FormType, PeriodEnding: r.PeriodEnding}
}
