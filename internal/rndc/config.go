package rndc

import (
	"time"
)

const DefaultTimeout = 30 * time.Second

// Config carries the operator's RNDC access data. It is loaded once per batch
// and passed explicitly to every render and every call.
type Config struct {
	Usuario    string
	Password   string
	EmpresaNIT string
	SubmitURL  string
	QueryURL   string
	Timeout    time.Duration
	Retry      RetryPolicy
	// RequestsPerSecond caps outbound calls for a batch; 0 disables the cap.
	RequestsPerSecond float64
}

// RetryPolicy is opt-in. The zero value performs a single attempt.
type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration
	MaxBackoff time.Duration
}

// Missing lists the settings that must be filled before anything can be
// rendered or sent.
func (c Config) Missing() []string {
	var missing []string
	if c.Usuario == "" {
		missing = append(missing, "usuario")
	}
	if c.Password == "" {
		missing = append(missing, "password")
	}
	if c.EmpresaNIT == "" {
		missing = append(missing, "empresa_nit")
	}
	if c.SubmitURL == "" {
		missing = append(missing, "submit_url")
	}
	return missing
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

func (c Config) queryURL() string {
	if c.QueryURL != "" {
		return c.QueryURL
	}
	return c.SubmitURL
}
