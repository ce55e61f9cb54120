package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/carlosrabelo/bridgevlan/core/domain/entities"
	"github.com/carlosrabelo/bridgevlan/core/infrastructure/logging"
)

// RESTDevice implements ports.DeviceRepository against the RouterOS v7 REST API
type RESTDevice struct {
	config   entities.SwitchConfig
	baseURL  string
	username string
	password string
	http     *http.Client
	log      *logrus.Entry
}

// NewRESTDevice creates a REST repository for the configured device
func NewRESTDevice(cfg entities.SwitchConfig) *RESTDevice {
	scheme := "http"
	httpClient := &http.Client{Timeout: DefaultTimeout}
	if cfg.TLS {
		scheme = "https"
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify}, //nolint:gosec
		}
	}
	return &RESTDevice{
		config:   cfg,
		baseURL:  fmt.Sprintf("%s://%s/rest", scheme, cfg.Address()),
		username: cfg.Username,
		password: cfg.Password,
		http:     httpClient,
		log:      logging.WithTarget(cfg.Target).WithField("transport", "rest"),
	}
}

func (r *RESTDevice) QueryTable(ctx context.Context, path entities.ResourcePath) ([]entities.RawRecord, error) {
	body, err := r.do(ctx, http.MethodGet, r.url(path), nil)
	if err != nil {
		return nil, &entities.TransportError{Op: "query", Path: path, Err: err}
	}
	parsed := gjson.ParseBytes(body)
	if !parsed.IsArray() {
		return nil, &entities.TransportError{Op: "query", Path: path, Err: fmt.Errorf("expected a JSON array, got %.60s", body)}
	}
	var records []entities.RawRecord
	parsed.ForEach(func(_, row gjson.Result) bool {
		record := entities.RawRecord{}
		row.ForEach(func(key, value gjson.Result) bool {
			record[key.String()] = value.String()
			return true
		})
		records = append(records, record)
		return true
	})
	r.log.Debugf("read %d records from %s", len(records), path)
	return records, nil
}

func (r *RESTDevice) CreateRecord(ctx context.Context, path entities.ResourcePath, fields []entities.Field) error {
	if _, err := r.do(ctx, http.MethodPut, r.url(path), fields); err != nil {
		return &entities.TransportError{Op: "create", Path: path, Err: err}
	}
	return nil
}

func (r *RESTDevice) UpdateRecord(ctx context.Context, path entities.ResourcePath, id string, fields []entities.Field) error {
	if _, err := r.do(ctx, http.MethodPatch, r.url(path)+"/"+id, fields); err != nil {
		return &entities.TransportError{Op: "update", Path: path, Err: err}
	}
	return nil
}

func (r *RESTDevice) url(path entities.ResourcePath) string {
	return r.baseURL + "/" + strings.Join(path.Segments(), "/")
}

func (r *RESTDevice) do(ctx context.Context, method, url string, fields []entities.Field) ([]byte, error) {
	var reqBody io.Reader
	if fields != nil {
		payload := make(map[string]string, len(fields))
		for _, f := range fields {
			payload[f.Name] = f.Value
		}
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(r.username, r.password)
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	r.log.Debugf("%s %s", method, url)
	resp, err := r.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	logRaw(r.config, r.log, "response %d: %s", resp.StatusCode, body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, restError(resp.StatusCode, body)
	}
	return body, nil
}

// restError extracts RouterOS's {"error":..,"message":..,"detail":..} body
func restError(status int, body []byte) error {
	msg := gjson.GetBytes(body, "message").String()
	if detail := gjson.GetBytes(body, "detail").String(); detail != "" {
		if msg != "" {
			msg += ": "
		}
		msg += detail
	}
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	return fmt.Errorf("HTTP %d: %s", status, msg)
}
