package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFieldValueType_Flags(t *testing.T) {
	arr := FieldArray | FieldNumber
	require.True(t, arr.IsArray())
	require.False(t, arr.IsEventProperty())
	require.Equal(t, FieldNumber, arr.Element())

	prop := FieldEventProperty | FieldArray | FieldString
	require.True(t, prop.IsEventProperty())
	require.Equal(t, FieldArray|FieldString, prop.Inner())
	require.True(t, prop.Inner().IsArray())
}

func TestFieldValueType_String(t *testing.T) {
	require.Equal(t, "NotSet", FieldNotSet.String())
	require.Equal(t, "Object", FieldObject.String())
	require.Equal(t, "Array|Boolean", (FieldArray | FieldBoolean).String())
	require.Equal(t, "EventProperty|Array|String", (FieldEventProperty | FieldArray | FieldString).String())
	require.Equal(t, "Unknown", FieldValueType(0x7).String())
}

func TestPropertyType_IsValid(t *testing.T) {
	for p := PropertyUnspecified; p <= PropertyDateTime; p++ {
		require.True(t, p.IsValid(), p.String())
	}
	require.False(t, PropertyType(10).IsValid())
	require.Equal(t, "Unknown", PropertyType(10).String())
}

func TestValueKind(t *testing.T) {
	t.Run("valid ordinals", func(t *testing.T) {
		for k := KindNotSet; k <= KindPiiIPv4AddressLegacy; k++ {
			require.True(t, k.IsValid(), k.String())
		}
		require.True(t, KindCustomerContentGeneric.IsValid())
		require.False(t, ValueKind(14).IsValid())
		require.False(t, ValueKind(31).IsValid())
		require.False(t, ValueKind(33).IsValid())
	})

	t.Run("flags", func(t *testing.T) {
		require.Equal(t, 0, KindNotSet.Flags())
		require.Equal(t, 2<<5, KindPiiGenericData.Flags())
		require.Equal(t, 13<<5, KindPiiIPv4AddressLegacy.Flags())
		require.Equal(t, 1<<13, KindCustomerContentGeneric.Flags())
		require.Equal(t, 0, ValueKind(20).Flags())
	})

	t.Run("classification", func(t *testing.T) {
		require.True(t, KindPiiSmtpAddress.IsPii())
		require.False(t, KindNotSet.IsPii())
		require.False(t, KindCustomerContentGeneric.IsPii())
		require.True(t, KindCustomerContentGeneric.IsCustomerContent())
	})
}

func TestCompressionType(t *testing.T) {
	require.Equal(t, "Zstd", CompressionZstd.String())
	require.Equal(t, "zstd", CompressionZstd.ContentEncoding())
	require.Equal(t, "gzip", CompressionGzip.ContentEncoding())
	require.Empty(t, CompressionNone.ContentEncoding())
	require.Equal(t, "Unknown", CompressionType(0).String())
}

func TestSendEnums_String(t *testing.T) {
	require.Equal(t, "SendBeacon", SendBeacon.String())
	require.Equal(t, "Unknown", SendType(9).String())
	require.Equal(t, "Retry", ReasonRetry.String())
	require.Equal(t, "Unknown", SendReason(99).String())
}
