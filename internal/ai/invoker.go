package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("github.com/nyashahama/agrocamer-backend/internal/ai")

// maxResponseBytes caps how much of a provider response is read.
const maxResponseBytes = 4 << 20

// Outcome is the result of one provider attempt.
type Outcome struct {
	Provider    string
	Success     bool
	Payload     Payload
	Err         error
	ShouldRetry bool
	Status      int
}

// Invoker performs single provider attempts over HTTP.
type Invoker struct {
	httpClient *http.Client
	policy     StatusPolicy
	metrics    *Metrics
}

// NewInvoker returns an Invoker. A nil httpClient gets a 60s-timeout client.
func NewInvoker(httpClient *http.Client, policy StatusPolicy, metrics *Metrics) *Invoker {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Invoker{httpClient: httpClient, policy: policy, metrics: metrics}
}

// Invoke sends exactly one POST to p and classifies the result. It never
// returns an error directly: failures are reported in the Outcome so the
// chain can decide whether to continue.
func (inv *Invoker) Invoke(ctx context.Context, p Provider, req Request) Outcome {
	ctx, span := tracer.Start(ctx, "ai.invoke")
	defer span.End()
	span.SetAttributes(
		attribute.String("ai.provider", p.Name),
		attribute.String("ai.model", p.Model),
		attribute.String("ai.format", p.Format.String()),
	)

	start := time.Now()
	out := inv.invoke(ctx, p, req)
	out.Provider = p.Name

	outcome := "success"
	switch {
	case out.Success:
	case out.ShouldRetry:
		outcome = ClassRetryable.String()
	default:
		outcome = ClassFatal.String()
	}
	inv.metrics.observe(p.Name, outcome, time.Since(start))

	span.SetAttributes(
		attribute.Int("http.response.status_code", out.Status),
		attribute.String("ai.outcome", outcome),
	)
	if out.Err != nil {
		span.SetStatus(codes.Error, out.Err.Error())
	}
	return out
}

func (inv *Invoker) invoke(ctx context.Context, p Provider, req Request) Outcome {
	var reqBody any
	switch p.Format {
	case FormatGateway:
		reqBody = buildGatewayRequest(p.Model, req)
	case FormatDirect:
		reqBody = buildDirectRequest(req)
	default:
		return fatal(p, 0, fmt.Sprintf("unknown wire format %s", p.Format))
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return fatal(p, 0, fmt.Sprintf("marshal request: %v", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return fatal(p, 0, fmt.Sprintf("build request: %v", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.Format == FormatGateway {
		httpReq.Header.Set("Authorization", "Bearer "+p.APIKey)
	} else {
		httpReq.Header.Set("x-goog-api-key", p.APIKey)
	}

	resp, err := inv.httpClient.Do(httpReq)
	if err != nil {
		return retryable(p, 0, fmt.Sprintf("http request: %v", err))
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return retryable(p, resp.StatusCode, fmt.Sprintf("read response body: %v", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fmt.Sprintf("%.200s", string(respBytes))
		if inv.policy.Classify(resp.StatusCode) == ClassRetryable {
			return retryable(p, resp.StatusCode, msg)
		}
		return fatal(p, resp.StatusCode, msg)
	}

	var payload Payload
	if p.Format == FormatGateway {
		payload, err = parseGatewayResponse(respBytes, req.Structured())
	} else {
		payload, err = parseDirectResponse(respBytes, req.Structured())
	}
	if err != nil {
		return retryable(p, resp.StatusCode, err.Error())
	}

	if req.Validate != nil {
		if err := req.Validate(payload); err != nil {
			return retryable(p, resp.StatusCode, fmt.Sprintf("invalid result: %v", err))
		}
	}

	return Outcome{Success: true, Payload: payload, Status: resp.StatusCode}
}

func retryable(p Provider, status int, msg string) Outcome {
	return Outcome{
		Status:      status,
		ShouldRetry: true,
		Err:         &ProviderError{Provider: p.Name, Status: status, Message: msg, Retryable: true},
	}
}

func fatal(p Provider, status int, msg string) Outcome {
	return Outcome{
		Status: status,
		Err:    &ProviderError{Provider: p.Name, Status: status, Message: msg},
	}
}

// AsProviderError unwraps err into a *ProviderError when it is one.
func AsProviderError(err error) (*ProviderError, bool) {
	var perr *ProviderError
	ok := errors.As(err, &perr)
	return perr, ok
}
