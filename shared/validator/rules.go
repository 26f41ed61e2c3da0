package validator

import (
	"time"

	val "github.com/go-playground/validator/v10"

	"facility/shared/constant"
)

func parseClock(value string) (time.Time, bool) {
	for _, layout := range []string{constant.ClockFormat, constant.SQLTimeFormat} {
		if t, err := time.Parse(layout, value); err == nil && t.Second() == 0 {
			return t, true
		}
	}

	return time.Time{}, false
}

// validateDate accepts calendar dates in YYYY-MM-DD form.
func validateDate(fl val.FieldLevel) bool {
	_, err := time.Parse(constant.DayFormat, fl.Field().String())

	return err == nil
}

// validateClock accepts times of day in HH:MM form, or HH:MM:00.
func validateClock(fl val.FieldLevel) bool {
	_, ok := parseClock(fl.Field().String())

	return ok
}

// validateClockAfter requires the field to be strictly later than the sibling field named by the param.
func validateClockAfter(fl val.FieldLevel) bool {
	end, ok := parseClock(fl.Field().String())
	if !ok {
		return false
	}

	other := fl.Parent().FieldByName(fl.Param())
	if !other.IsValid() {
		return false
	}

	start, ok := parseClock(other.String())
	if !ok {
		// the sibling's own rule reports the problem
		return true
	}

	return end.After(start)
}
