package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FilingType selects the kind of return being priced.
type FilingType string

const (
	FilingStandard  FilingType = "standard"
	FilingAmendment FilingType = "amendment"
	FilingRefund    FilingType = "refund"
)

// Valid reports whether f is a known filing type.
func (f FilingType) Valid() bool {
	switch f {
	case FilingStandard, FilingAmendment, FilingRefund:
		return true
	}
	return false
}

// AmendmentType selects the amendment flow.
type AmendmentType string

const (
	AmendmentVINCorrection   AmendmentType = "vin_correction"
	AmendmentWeightIncrease  AmendmentType = "weight_increase"
	AmendmentMileageExceeded AmendmentType = "mileage_exceeded"
)

// Valid reports whether a is a known amendment type.
func (a AmendmentType) Valid() bool {
	switch a {
	case AmendmentVINCorrection, AmendmentWeightIncrease, AmendmentMileageExceeded:
		return true
	}
	return false
}

// AmendmentData carries the fields of one amendment flow. Which fields are
// read depends on the intent's AmendmentType.
type AmendmentData struct {
	// vin_correction
	OriginalVIN  string `yaml:"original_vin,omitempty" json:"original_vin,omitempty"`
	CorrectedVIN string `yaml:"corrected_vin,omitempty" json:"corrected_vin,omitempty"`

	// weight_increase
	OriginalCategory WeightCategory `yaml:"original_category,omitempty" json:"original_category,omitempty"`
	NewCategory      WeightCategory `yaml:"new_category,omitempty" json:"new_category,omitempty"`
	AmendedMonth     string         `yaml:"amended_month,omitempty" json:"amended_month,omitempty"`
	OriginalLogging  LoggingStatus  `yaml:"original_logging,omitempty" json:"original_logging,omitempty"`
	NewLogging       LoggingStatus  `yaml:"new_logging,omitempty" json:"new_logging,omitempty"`

	// mileage_exceeded
	VehicleCategory WeightCategory `yaml:"vehicle_category,omitempty" json:"vehicle_category,omitempty"`
	Logging         LoggingStatus  `yaml:"logging,omitempty" json:"logging,omitempty"`
	ActualMileage   int            `yaml:"actual_mileage,omitempty" json:"actual_mileage,omitempty"`
	Agricultural    bool           `yaml:"agricultural,omitempty" json:"agricultural,omitempty"`
	ExceededMonth   string         `yaml:"exceeded_month,omitempty" json:"exceeded_month,omitempty"` // informational

	// shared by weight_increase and mileage_exceeded; falls back to the intent's month
	FirstUsedMonth string `yaml:"first_used_month,omitempty" json:"first_used_month,omitempty"`
}

// CouponType selects how a coupon reduces the service fee.
type CouponType string

const (
	CouponPercentage CouponType = "percentage"
	CouponFixed      CouponType = "fixed"
)

// Coupon is a service fee discount. It never reduces tax.
type Coupon struct {
	Code  string          `yaml:"code,omitempty" json:"code,omitempty"`
	Type  CouponType      `yaml:"type" json:"type"`
	Value decimal.Decimal `yaml:"value" json:"value"`
}

// Locale carries the customer's state for sales tax resolution.
type Locale struct {
	State string `yaml:"state" json:"state"`
}

// StateCode returns the normalized two-letter state code.
func (l Locale) StateCode() string {
	return strings.ToUpper(strings.TrimSpace(l.State))
}

// FilingIntent is the canonical description of what the customer is filing.
type FilingIntent struct {
	FilingType     FilingType     `yaml:"filing_type" json:"filing_type"`
	AmendmentType  AmendmentType  `yaml:"amendment_type,omitempty" json:"amendment_type,omitempty"`
	FirstUsedMonth string         `yaml:"first_used_month" json:"first_used_month"`
	TaxYear        int            `yaml:"tax_year,omitempty" json:"tax_year,omitempty"` // calendar year the July-June period starts in
	Amendment      *AmendmentData `yaml:"amendment,omitempty" json:"amendment,omitempty"`
	Coupon         *Coupon        `yaml:"coupon,omitempty" json:"coupon,omitempty"`
}

// FilingRequest is the input document accepted by the CLI and the filing service.
type FilingRequest struct {
	CarrierID string       `yaml:"carrier_id,omitempty" json:"carrier_id,omitempty"`
	Intent    FilingIntent `yaml:"filing" json:"filing"`
	Vehicles  []Vehicle    `yaml:"vehicles" json:"vehicles"`
	Locale    Locale       `yaml:"locale" json:"locale"`
}
