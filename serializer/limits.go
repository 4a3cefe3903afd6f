package serializer

// Builtin size limits in bytes. They are also the upper bounds accepted for overrides.
const (
	DefaultRequestLimit       = 3 * 1024 * 1024
	DefaultBeaconRequestLimit = 65000
	DefaultRecordLimit        = 2000000
	DefaultBeaconRecordLimit  = min(DefaultRecordLimit, DefaultBeaconRequestLimit)
)

// SizeLimits holds the byte budgets applied while packing a payload. The
// beacon values apply to payloads created with isBeacon set.
type SizeLimits struct {
	Request       int
	BeaconRequest int
	Record        int
	BeaconRecord  int
}

// DefaultSizeLimits returns the builtin size limits.
func DefaultSizeLimits() SizeLimits {
	return SizeLimits{
		Request:       DefaultRequestLimit,
		BeaconRequest: DefaultBeaconRequestLimit,
		Record:        DefaultRecordLimit,
		BeaconRecord:  DefaultBeaconRecordLimit,
	}
}

// RequestLimit returns the maximum payload blob size for the transport mode.
func (l SizeLimits) RequestLimit(beacon bool) int {
	if beacon {
		return l.BeaconRequest
	}

	return l.Request
}

// RecordLimit returns the maximum encoded record size for the transport mode.
func (l SizeLimits) RecordLimit(beacon bool) int {
	if beacon {
		return l.BeaconRecord
	}

	return l.Record
}

// validated returns l with every out of range value replaced by its builtin.
// Overrides are accepted only when 0 < v <= builtin.
func (l SizeLimits) validated() SizeLimits {
	return SizeLimits{
		Request:       limitOrDefault(l.Request, DefaultRequestLimit),
		BeaconRequest: limitOrDefault(l.BeaconRequest, DefaultBeaconRequestLimit),
		Record:        limitOrDefault(l.Record, DefaultRecordLimit),
		BeaconRecord:  limitOrDefault(l.BeaconRecord, DefaultBeaconRecordLimit),
	}
}

func limitOrDefault(v, builtin int) int {
	if v > 0 && v <= builtin {
		return v
	}

	return builtin
}
