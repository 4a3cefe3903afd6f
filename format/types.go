package format

type (
	// FieldValueType is the runtime shape tag of a field value.
	FieldValueType uint16
	// PropertyType is the Common Schema wire type of a property (0-9).
	PropertyType uint8
	// ValueKind tags a value as PII or customer content.
	ValueKind uint8
	// SendType is the transport mode a payload is prepared for.
	SendType uint8
	// SendReason records why a send was requested.
	SendReason uint8
	// CompressionType selects the payload compression used for transport.
	CompressionType uint8
)

const (
	FieldNotSet        FieldValueType = 0x0    // FieldNotSet means the value is absent or of an unsupported type.
	FieldString        FieldValueType = 0x1    // FieldString represents a string value.
	FieldNumber        FieldValueType = 0x2    // FieldNumber represents any integer or floating point value.
	FieldBoolean       FieldValueType = 0x3    // FieldBoolean represents a boolean value.
	FieldObject        FieldValueType = 0x4    // FieldObject represents a map with string keys.
	FieldArray         FieldValueType = 0x1000 // FieldArray is OR'ed with the shape of the first element.
	FieldEventProperty FieldValueType = 0x2000 // FieldEventProperty is OR'ed with the shape of the inner value.
)

const (
	PropertyUnspecified PropertyType = 0 // PropertyUnspecified carries no type information.
	PropertyString      PropertyType = 1 // PropertyString is a UTF-8 string.
	PropertyInt32       PropertyType = 2 // PropertyInt32 is a signed 32-bit integer.
	PropertyUInt32      PropertyType = 3 // PropertyUInt32 is an unsigned 32-bit integer.
	PropertyInt64       PropertyType = 4 // PropertyInt64 is a signed 64-bit integer.
	PropertyUInt64      PropertyType = 5 // PropertyUInt64 is an unsigned 64-bit integer.
	PropertyDouble      PropertyType = 6 // PropertyDouble is a 64-bit float.
	PropertyBool        PropertyType = 7 // PropertyBool is a boolean.
	PropertyGUID        PropertyType = 8 // PropertyGUID is a GUID string.
	PropertyDateTime    PropertyType = 9 // PropertyDateTime is a date time value.

	// PropertyNotSet marks an absent explicit type. It is never written to the wire.
	PropertyNotSet PropertyType = 0xFF
)

const (
	KindNotSet                 ValueKind = 0
	KindPiiDistinguishedName   ValueKind = 1
	KindPiiGenericData         ValueKind = 2
	KindPiiIPv4Address         ValueKind = 3
	KindPiiIPv6Address         ValueKind = 4
	KindPiiMailSubject         ValueKind = 5
	KindPiiPhoneNumber         ValueKind = 6
	KindPiiQueryString         ValueKind = 7
	KindPiiSipAddress          ValueKind = 8
	KindPiiSmtpAddress         ValueKind = 9
	KindPiiIdentity            ValueKind = 10
	KindPiiURI                 ValueKind = 11
	KindPiiFqdn                ValueKind = 12
	KindPiiIPv4AddressLegacy   ValueKind = 13
	KindCustomerContentGeneric ValueKind = 32
)

const (
	maxPiiKind                   = KindPiiIPv4AddressLegacy
	customerContentPropertyFlags = 1 << 13
)

const (
	SendBatched     SendType = 0 // SendBatched is the normal asynchronous batched send.
	SendSynchronous SendType = 1 // SendSynchronous blocks the caller until the request completes.
	SendBeacon      SendType = 2 // SendBeacon uses the best-effort teardown transport.
	SendSyncFetch   SendType = 3 // SendSyncFetch uses a keep-alive fetch during teardown.
)

const (
	ReasonUndefined      SendReason = 0
	ReasonNormalSchedule SendReason = 1
	ReasonUnload         SendReason = 10
	ReasonPageHide       SendReason = 11
	ReasonResumed        SendReason = 20
	ReasonRetry          SendReason = 21
	ReasonSdkUnload      SendReason = 22
	ReasonManualFlush    SendReason = 30
	ReasonMaxBatchSize   SendReason = 40
	ReasonMaxQueuedItems SendReason = 41
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
	CompressionGzip CompressionType = 0x5 // CompressionGzip represents gzip compression.
)

// IsArray reports whether the shape tag carries the array flag.
func (t FieldValueType) IsArray() bool {
	return t&FieldArray == FieldArray
}

// IsEventProperty reports whether the shape tag carries the event property flag.
func (t FieldValueType) IsEventProperty() bool {
	return t&FieldEventProperty == FieldEventProperty
}

// Inner strips the event property flag.
func (t FieldValueType) Inner() FieldValueType {
	return t &^ FieldEventProperty
}

// Element strips the array flag, returning the shape of the first element.
func (t FieldValueType) Element() FieldValueType {
	return t &^ FieldArray
}

func (t FieldValueType) String() string {
	prefix := ""
	if t.IsEventProperty() {
		prefix = "EventProperty|"
		t = t.Inner()
	}
	if t.IsArray() {
		return prefix + "Array|" + t.Element().String()
	}

	switch t {
	case FieldNotSet:
		return prefix + "NotSet"
	case FieldString:
		return prefix + "String"
	case FieldNumber:
		return prefix + "Number"
	case FieldBoolean:
		return prefix + "Boolean"
	case FieldObject:
		return prefix + "Object"
	default:
		return prefix + "Unknown"
	}
}

// IsValid reports whether the wire type is in the 0-9 range.
func (p PropertyType) IsValid() bool {
	return p <= PropertyDateTime
}

func (p PropertyType) String() string {
	switch p {
	case PropertyUnspecified:
		return "Unspecified"
	case PropertyString:
		return "String"
	case PropertyInt32:
		return "Int32"
	case PropertyUInt32:
		return "UInt32"
	case PropertyInt64:
		return "Int64"
	case PropertyUInt64:
		return "UInt64"
	case PropertyDouble:
		return "Double"
	case PropertyBool:
		return "Bool"
	case PropertyGUID:
		return "Guid"
	case PropertyDateTime:
		return "DateTime"
	case PropertyNotSet:
		return "NotSet"
	default:
		return "Unknown"
	}
}

// IsValid reports whether k is KindNotSet, a PII ordinal or the customer content ordinal.
func (k ValueKind) IsValid() bool {
	return k <= maxPiiKind || k == KindCustomerContentGeneric
}

// IsPii reports whether k is one of the PII ordinals 1-13.
func (k ValueKind) IsPii() bool {
	return k > KindNotSet && k <= maxPiiKind
}

// IsCustomerContent reports whether k tags generic customer content.
func (k ValueKind) IsCustomerContent() bool {
	return k == KindCustomerContentGeneric
}

// Flags returns the metadata bits contributed by the kind, or 0 when it contributes none.
// PII kinds occupy bits 5-12, customer content sets bit 13.
func (k ValueKind) Flags() int {
	switch {
	case k.IsPii():
		return int(k) << 5
	case k.IsCustomerContent():
		return customerContentPropertyFlags
	default:
		return 0
	}
}

func (k ValueKind) String() string {
	switch k {
	case KindNotSet:
		return "NotSet"
	case KindPiiDistinguishedName:
		return "Pii_DistinguishedName"
	case KindPiiGenericData:
		return "Pii_GenericData"
	case KindPiiIPv4Address:
		return "Pii_IPV4Address"
	case KindPiiIPv6Address:
		return "Pii_IPv6Address"
	case KindPiiMailSubject:
		return "Pii_MailSubject"
	case KindPiiPhoneNumber:
		return "Pii_PhoneNumber"
	case KindPiiQueryString:
		return "Pii_QueryString"
	case KindPiiSipAddress:
		return "Pii_SipAddress"
	case KindPiiSmtpAddress:
		return "Pii_SmtpAddress"
	case KindPiiIdentity:
		return "Pii_Identity"
	case KindPiiURI:
		return "Pii_Uri"
	case KindPiiFqdn:
		return "Pii_Fqdn"
	case KindPiiIPv4AddressLegacy:
		return "Pii_IPV4AddressLegacy"
	case KindCustomerContentGeneric:
		return "CustomerContent_GenericContent"
	default:
		return "Unknown"
	}
}

func (s SendType) String() string {
	switch s {
	case SendBatched:
		return "Batched"
	case SendSynchronous:
		return "Synchronous"
	case SendBeacon:
		return "SendBeacon"
	case SendSyncFetch:
		return "SyncFetch"
	default:
		return "Unknown"
	}
}

func (r SendReason) String() string {
	switch r {
	case ReasonUndefined:
		return "Undefined"
	case ReasonNormalSchedule:
		return "NormalSchedule"
	case ReasonUnload:
		return "Unload"
	case ReasonPageHide:
		return "PageHide"
	case ReasonResumed:
		return "Resumed"
	case ReasonRetry:
		return "Retry"
	case ReasonSdkUnload:
		return "SdkUnload"
	case ReasonManualFlush:
		return "ManualFlush"
	case ReasonMaxBatchSize:
		return "MaxBatchSize"
	case ReasonMaxQueuedItems:
		return "MaxQueuedItems"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	case CompressionGzip:
		return "Gzip"
	default:
		return "Unknown"
	}
}

// ContentEncoding returns the HTTP Content-Encoding token for the compression type.
// CompressionNone and unknown types return an empty string.
func (c CompressionType) ContentEncoding() string {
	switch c {
	case CompressionZstd:
		return "zstd"
	case CompressionS2:
		return "s2"
	case CompressionLZ4:
		return "lz4"
	case CompressionGzip:
		return "gzip"
	default:
		return ""
	}
}
