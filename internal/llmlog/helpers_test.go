package llmlog

import "errors"

var errTest = errors.New("model unavailable")
