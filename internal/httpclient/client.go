package httpclient

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// New returns an *http.Client with the given timeout whose requests are
// logged at debug level. A nil logger disables logging.
func New(timeout time.Duration, log *zap.Logger) *http.Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &loggingTransport{
			next: http.DefaultTransport,
			log:  log,
		},
	}
}

type loggingTransport struct {
	next http.RoundTripper
	log  *zap.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)

	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("host", req.URL.Host),
		zap.String("path", req.URL.Path),
		zap.Duration("latency", time.Since(start)),
	}
	if err != nil {
		t.log.Debug("upstream request failed", append(fields, zap.Error(err))...)
		return nil, err
	}

	t.log.Debug("upstream request", append(fields, zap.Int("status", resp.StatusCode))...)
	return resp, nil
}
