//go:build sonic

package github

import "github.com/bytedance/sonic"

var jsonMarshal = sonic.Marshal
var jsonUnmarshal = sonic.Unmarshal
