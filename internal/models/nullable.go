package models

import "encoding/json"

// NullableFloat is a float64 that serializes to JSON null when absent.
//
// The analysis layer must never substitute zero for a value it could not
// compute (a group mean over an empty partition, a difference against a zero
// baseline), so results carry this type instead of a bare float64. It also
// round-trips: unmarshaling distinguishes a JSON null from a real value.
type NullableFloat struct {
	Value float64
	Valid bool // true if Value holds a real number
}

// Float returns a valid NullableFloat.
func Float(v float64) NullableFloat {
	return NullableFloat{Value: v, Valid: true}
}

// NullFloat returns the null NullableFloat.
func NullFloat() NullableFloat {
	return NullableFloat{}
}

// MarshalJSON implements json.Marshaler.
func (nf NullableFloat) MarshalJSON() ([]byte, error) {
	if !nf.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(nf.Value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (nf *NullableFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		nf.Valid = false
		nf.Value = 0
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	nf.Value = v
	nf.Valid = true
	return nil
}

// ToPtr converts to *float64 (nil when null).
func (nf NullableFloat) ToPtr() *float64 {
	if !nf.Valid {
		return nil
	}
	return &nf.Value
}
