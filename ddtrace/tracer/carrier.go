// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package tracer

import "net/http"

// TextMapCarrier implements TextMapReader and TextMapWriter on top of a
// plain string map, for carriers that aren't HTTP headers (message queue
// attributes, gRPC metadata adapted by the caller, ...).
type TextMapCarrier map[string]string

var _ TextMapReader = TextMapCarrier{}
var _ TextMapWriter = TextMapCarrier{}

// ForeachKey implements TextMapReader.
func (c TextMapCarrier) ForeachKey(handler func(key, val string) error) error {
	for k, v := range c {
		if err := handler(k, v); err != nil {
			return err
		}
	}
	return nil
}

// Set implements TextMapWriter.
func (c TextMapCarrier) Set(key, value string) { c[key] = value }

// HTTPHeadersCarrier wraps an http.Header so it implements TextMapReader and
// TextMapWriter, respecting canonical header casing on write.
type HTTPHeadersCarrier http.Header

var _ TextMapReader = HTTPHeadersCarrier{}
var _ TextMapWriter = HTTPHeadersCarrier{}

// ForeachKey implements TextMapReader.
func (c HTTPHeadersCarrier) ForeachKey(handler func(key, val string) error) error {
	for k, vs := range c {
		for _, v := range vs {
			if err := handler(k, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// Set implements TextMapWriter.
func (c HTTPHeadersCarrier) Set(key, value string) {
	http.Header(c).Set(key, value)
}
