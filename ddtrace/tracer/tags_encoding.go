// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package tracer

import "strings"

// propagatingTagPrefix is the only key prefix admissible in the x-datadog-tags
// and tracestate `dd` trace-tag encodings.
const propagatingTagPrefix = "_dd.p."

// encodeDatadogTags renders tags (already `_dd.p.*`-prefixed keys) as the
// `key=value,key=value` form used by the x-datadog-tags header.
func encodeDatadogTags(tags *OrderedTags) string {
	if tags == nil || tags.Len() == 0 {
		return ""
	}
	var b strings.Builder
	first := true
	tags.Range(func(k, v string) bool {
		if !first {
			b.WriteByte(',')
		}
		first = false
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(v)
		return true
	})
	return b.String()
}

// decodeDatadogTags parses the x-datadog-tags wire form into an OrderedTags,
// dropping any key not prefixed `_dd.p.`. Returns an error if any `key=value`
// pair is malformed (missing `=`); this is a decoding_error per §4.1, the
// caller is responsible for tagging it non-fatally and discarding the block.
func decodeDatadogTags(raw string) (OrderedTags, error) {
	var out OrderedTags
	if raw == "" {
		return out, nil
	}
	for _, pair := range strings.Split(raw, ",") {
		if pair == "" {
			continue
		}
		idx := strings.IndexByte(pair, '=')
		if idx < 0 {
			return OrderedTags{}, errDecodingError
		}
		k, v := pair[:idx], pair[idx+1:]
		if !strings.HasPrefix(k, propagatingTagPrefix) {
			continue
		}
		out.Set(k, v)
	}
	return out, nil
}

var errDecodingError = &tagDecodingError{}

type tagDecodingError struct{}

func (*tagDecodingError) Error() string { return "decoding_error" }
