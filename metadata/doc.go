// Package metadata implements the Common Schema field metadata encoding.
//
// Every encoded property may carry a compact integer describing its wire type
// and PII or customer-content classification. The integers are collected in a
// tree stored at ext.metadata of the encoded record:
//
//	{"ext": {"metadata": {"f": {
//	    "userId":   {"t": 65},
//	    "scores":   {"a": {"t": 6}},
//	    "baseData": {"f": {"duration": {"t": 6}}}
//	}}}}
//
// The bit layout produced by Encode is parsed by the receiving service and must
// not change.
package metadata
