package utils

import (
	"net/http"
	"time"
)

// HTTPClient is shared by the crash feed and profile sync workers.
var HTTPClient = &http.Client{
	Timeout: 30 * time.Second,
}
