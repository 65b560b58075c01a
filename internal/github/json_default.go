//go:build !sonic

package github

import "github.com/goccy/go-json"

var jsonMarshal = json.Marshal
var jsonUnmarshal = json.Unmarshal
