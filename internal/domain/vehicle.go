package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// VINLength is the length of a modern vehicle identification number.
const VINLength = 17

// WeightCategory is an IRS gross taxable weight bracket, A (55,000 lbs) through
// V (over 75,000 lbs). W is reserved for suspended vehicles.
type WeightCategory string

const (
	CategoryA         WeightCategory = "A"
	CategoryV         WeightCategory = "V"
	CategorySuspended WeightCategory = "W"
)

const categoryCodes = "ABCDEFGHIJKLMNOPQRSTUVW"

// WeightCategories lists every category in ascending weight order.
func WeightCategories() []WeightCategory {
	out := make([]WeightCategory, 0, len(categoryCodes))
	for _, r := range categoryCodes {
		out = append(out, WeightCategory(string(r)))
	}
	return out
}

// ParseWeightCategory normalizes and validates a category code.
func ParseWeightCategory(s string) (WeightCategory, error) {
	c := normalizeCategory(s)
	if !c.Valid() {
		return "", NewValidationError("category", "unknown weight category %q", s)
	}
	return c, nil
}

func normalizeCategory(s string) WeightCategory {
	return WeightCategory(strings.ToUpper(strings.TrimSpace(s)))
}

// UnmarshalYAML normalizes the code the way ParseWeightCategory does. Unknown
// codes are kept and reported by Vehicle.Validate with the vehicle's context.
func (c *WeightCategory) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return NewValidationError("category", "expected a scalar at line %d", value.Line)
	}
	*c = normalizeCategory(value.Value)
	return nil
}

// UnmarshalJSON normalizes the code the way ParseWeightCategory does.
func (c *WeightCategory) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return NewValidationError("category", "expected a string, got %s", string(data))
	}
	*c = normalizeCategory(s)
	return nil
}

// Valid reports whether c is one of A through W.
func (c WeightCategory) Valid() bool {
	return len(c) == 1 && strings.Contains(categoryCodes, string(c))
}

// Rank orders categories by weight, A=1 through W=23. Unknown codes rank 0.
func (c WeightCategory) Rank() int {
	if !c.Valid() {
		return 0
	}
	return strings.Index(categoryCodes, string(c)) + 1
}

// Taxable reports whether c is a real weight bracket (A through V).
func (c WeightCategory) Taxable() bool {
	return c.Valid() && c != CategorySuspended
}

// HeavierThan reports whether c is a strictly heavier bracket than other.
func (c WeightCategory) HeavierThan(other WeightCategory) bool {
	return c.Rank() > other.Rank()
}

// WeightRange describes the gross weight bracket in pounds.
func (c WeightCategory) WeightRange() string {
	switch {
	case c == CategoryA:
		return "55,000"
	case c == CategoryV:
		return "over 75,000"
	case c == CategorySuspended:
		return "suspended"
	case c.Valid():
		step := c.Rank() - 2
		return thousands(55001+step*1000) + " - " + thousands(56000+step*1000)
	}
	return ""
}

func thousands(n int) string {
	return fmt.Sprintf("%d,%03d", n/1000, n%1000)
}

// VehicleType classifies how a vehicle appears on the return.
type VehicleType string

const (
	VehicleTaxable       VehicleType = "taxable"
	VehicleSuspended     VehicleType = "suspended"
	VehicleCredit        VehicleType = "credit"
	VehiclePriorYearSold VehicleType = "prior_year_sold"
)

// Valid reports whether t is a known vehicle type.
func (t VehicleType) Valid() bool {
	switch t {
	case VehicleTaxable, VehicleSuspended, VehicleCredit, VehiclePriorYearSold:
		return true
	}
	return false
}

// NeedsDisposition reports whether the vehicle type must carry a disposition date.
func (t VehicleType) NeedsDisposition() bool {
	return t == VehicleCredit || t == VehiclePriorYearSold
}

// LoggingStatus records whether a vehicle is used exclusively for logging.
// Only Logging selects the reduced rate table; Unspecified resolves to the
// standard table.
type LoggingStatus string

const (
	LoggingUnspecified LoggingStatus = ""
	Logging            LoggingStatus = "logging"
	NonLogging         LoggingStatus = "non_logging"
)

// ParseLoggingStatus accepts the status names as well as true/false.
func ParseLoggingStatus(s string) (LoggingStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "~", "unspecified", "null":
		return LoggingUnspecified, nil
	case "logging", "true", "yes":
		return Logging, nil
	case "non_logging", "non-logging", "false", "no":
		return NonLogging, nil
	}
	return "", NewValidationError("logging", "unknown logging status %q", s)
}

// LoggingFromBool maps a known boolean flag to a status.
func LoggingFromBool(b bool) LoggingStatus {
	if b {
		return Logging
	}
	return NonLogging
}

// IsLogging reports whether the logging rate table applies.
func (l LoggingStatus) IsLogging() bool { return l == Logging }

// UnmarshalYAML implements custom YAML unmarshaling so the flag may be written
// as a boolean or a status name.
func (l *LoggingStatus) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return NewValidationError("logging", "expected a scalar at line %d", value.Line)
	}
	parsed, err := ParseLoggingStatus(value.Value)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// UnmarshalJSON accepts true, false, null or a status name.
func (l *LoggingStatus) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*l = LoggingUnspecified
	case bool:
		*l = LoggingFromBool(v)
	case string:
		parsed, err := ParseLoggingStatus(v)
		if err != nil {
			return err
		}
		*l = parsed
	default:
		return NewValidationError("logging", "unsupported value %s", string(data))
	}
	return nil
}

// CreditReason is display text for a credit or refund claim. It never changes
// the amount.
type CreditReason string

const (
	ReasonSold       CreditReason = "sold"
	ReasonDestroyed  CreditReason = "destroyed"
	ReasonStolen     CreditReason = "stolen"
	ReasonLowMileage CreditReason = "low_mileage"
)

// Vehicle is one line of a filing.
type Vehicle struct {
	VIN             string         `yaml:"vin" json:"vin"`
	Type            VehicleType    `yaml:"type" json:"type"`
	Category        WeightCategory `yaml:"category" json:"category"`
	Logging         LoggingStatus  `yaml:"logging,omitempty" json:"logging,omitempty"`
	Agricultural    bool           `yaml:"agricultural,omitempty" json:"agricultural,omitempty"`
	Reason          CreditReason   `yaml:"reason,omitempty" json:"reason,omitempty"`
	DispositionDate *time.Time     `yaml:"disposition_date,omitempty" json:"disposition_date,omitempty"`
}

// DisplayCategory is the category printed on the return; suspended and
// prior-year-sold vehicles always show W.
func (v Vehicle) DisplayCategory() WeightCategory {
	if v.Type == VehicleSuspended || v.Type == VehiclePriorYearSold {
		return CategorySuspended
	}
	return v.Category
}

// Validate checks the vehicle invariants.
func (v Vehicle) Validate() error {
	if err := ValidateVIN(v.VIN); err != nil {
		return err
	}
	if !v.Type.Valid() {
		return NewValidationError("type", "unknown vehicle type %q", v.Type)
	}
	if !v.Category.Valid() {
		return NewValidationError("category", "unknown weight category %q", v.Category)
	}
	if (v.Type == VehicleTaxable || v.Type == VehicleCredit) && !v.Category.Taxable() {
		return NewValidationError("category", "category %s is reserved for suspended vehicles", CategorySuspended)
	}
	if v.Agricultural && v.Type != VehicleSuspended {
		return NewValidationError("agricultural", "only suspended vehicles carry the agricultural flag")
	}
	if v.Type.NeedsDisposition() && (v.DispositionDate == nil || v.DispositionDate.IsZero()) {
		return NewValidationError("disposition_date", "%s vehicles require a disposition date", v.Type)
	}
	return nil
}

// ValidateVIN checks the identifier length.
func ValidateVIN(vin string) error {
	if n := len(strings.TrimSpace(vin)); n != VINLength {
		return NewValidationError("vin", "VIN must be %d characters, got %d", VINLength, n)
	}
	return nil
}
