package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/Mdx2025/emailbot-backend/config"
	"github.com/Mdx2025/emailbot-backend/interfaces"
	"github.com/Mdx2025/emailbot-backend/internal/tracing"
)

// crmService talks to the CRM REST API. One record per lead email; the
// record id is the stable handle the sync bridge stores on the draft.
type crmService struct {
	config *config.CRMConfig
	client *http.Client
}

func NewCRMService(cfg *config.CRMConfig) interfaces.CRMService {
	return &crmService{
		config: cfg,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type recordPayload struct {
	Email       string `json:"email"`
	Name        string `json:"name,omitempty"`
	Company     string `json:"company,omitempty"`
	Service     string `json:"service,omitempty"`
	Status      string `json:"status"`
	DraftID     string `json:"draftId,omitempty"`
	ThreadID    string `json:"threadId,omitempty"`
	LastContact string `json:"lastContact,omitempty"`
}

type recordEnvelope struct {
	ID string `json:"id"`
}

func (s *crmService) FindRecordByEmail(ctx context.Context, email string) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "crmService.FindRecordByEmail")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag(tracing.SpanTagUserEmail, email)

	endpoint := fmt.Sprintf("%s/v1/records?email=%s", s.config.Url, url.QueryEscape(email))
	body, status, err := s.do(ctx, "GET", endpoint, nil)
	if err != nil {
		tracing.TraceErr(span, err)
		return "", err
	}
	if status == http.StatusNotFound {
		return "", nil
	}
	if status != http.StatusOK {
		err = fmt.Errorf("record lookup failed with status code %d: %s", status, string(body))
		tracing.TraceErr(span, err)
		return "", err
	}

	var result struct {
		Records []recordEnvelope `json:"records"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		tracing.TraceErr(span, err)
		return "", errors.Wrap(err, "failed to unmarshal response")
	}
	if len(result.Records) == 0 {
		return "", nil
	}
	return result.Records[0].ID, nil
}

func (s *crmService) CreateRecord(ctx context.Context, fields interfaces.CRMRecordFields) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "crmService.CreateRecord")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag(tracing.SpanTagUserEmail, fields.Email)

	payload, err := json.Marshal(payloadFromFields(fields))
	if err != nil {
		tracing.TraceErr(span, err)
		return "", errors.Wrap(err, "failed to marshal payload")
	}

	body, status, err := s.do(ctx, "POST", s.config.Url+"/v1/records", payload)
	if err != nil {
		tracing.TraceErr(span, err)
		return "", err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		err = fmt.Errorf("record create failed with status code %d: %s", status, string(body))
		tracing.TraceErr(span, err)
		return "", err
	}

	var record recordEnvelope
	if err := json.Unmarshal(body, &record); err != nil {
		tracing.TraceErr(span, err)
		return "", errors.Wrap(err, "failed to unmarshal response")
	}
	if record.ID == "" {
		err = errors.New("record create returned no id")
		tracing.TraceErr(span, err)
		return "", err
	}

	tracing.TagEntity(span, record.ID)
	return record.ID, nil
}

func (s *crmService) UpdateRecord(ctx context.Context, id string, fields interfaces.CRMRecordFields) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "crmService.UpdateRecord")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagEntity(span, id)

	payload, err := json.Marshal(payloadFromFields(fields))
	if err != nil {
		tracing.TraceErr(span, err)
		return errors.Wrap(err, "failed to marshal payload")
	}

	body, status, err := s.do(ctx, "PATCH", s.config.Url+"/v1/records/"+id, payload)
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}
	if status != http.StatusOK && status != http.StatusNoContent {
		err = fmt.Errorf("record update failed with status code %d: %s", status, string(body))
		tracing.TraceErr(span, err)
		return err
	}

	return nil
}

func (s *crmService) do(ctx context.Context, method, endpoint string, payload []byte) ([]byte, int, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewBuffer(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to create request")
	}

	req.Header.Set("Authorization", "Bearer "+s.config.ApiToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if span := opentracing.SpanFromContext(ctx); span != nil {
		req = tracing.InjectSpanContextIntoHTTPRequest(req, span)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, errors.Wrap(err, "unable to read response body")
	}

	return body, resp.StatusCode, nil
}

func payloadFromFields(fields interfaces.CRMRecordFields) recordPayload {
	return recordPayload{
		Email:       fields.Email,
		Name:        fields.Name,
		Company:     fields.Company,
		Service:     fields.Service,
		Status:      fields.Status,
		DraftID:     fields.DraftID,
		ThreadID:    fields.ThreadID,
		LastContact: fields.LastContact,
	}
}
