package lighthouse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Payload is the subset of a PageSpeed Insights v5 response the tool reads.
// Every section is optional and must be checked before use.
type Payload struct {
	ID                   string             `json:"id"`
	AnalysisUTCTimestamp *string            `json:"analysisUTCTimestamp"`
	LoadingExperience    *LoadingExperience `json:"loadingExperience"`
	LighthouseResult     *LighthouseResult  `json:"lighthouseResult"`
}

// LoadingExperience carries the field (real-user) metrics.
type LoadingExperience struct {
	Metrics map[string]*FieldMetric `json:"metrics"`
}

type FieldMetric struct {
	Percentile *float64 `json:"percentile"`
	Category   *string  `json:"category"`
}

// LighthouseResult carries the lab run.
type LighthouseResult struct {
	Categories map[string]*Category `json:"categories"`
	Audits     *Audits              `json:"audits"`
}

type Category struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Score *float64 `json:"score"`
}

type Audit struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	DisplayValue string `json:"displayValue"`
	Score        Score  `json:"score"`
}

// Score is an audit score. Valid is false for null, missing or non-numeric values.
type Score struct {
	Value float64
	Valid bool
}

func (s *Score) UnmarshalJSON(data []byte) error {
	*s = Score{}
	data = bytes.TrimSpace(data)
	if len(data) > 0 && (data[0] == 't' || data[0] == 'f') {
		// binary audits in older reports
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		if b {
			*s = Score{Value: 1, Valid: true}
		} else {
			*s = Score{Value: 0, Valid: true}
		}
		return nil
	}
	if v, ok := number(data); ok {
		*s = Score{Value: v, Valid: true}
	}
	return nil
}

// Audits keeps the diagnostic checks in the order the payload lists them.
type Audits struct {
	keys []string
	byID map[string]Audit
}

// Keys returns the audit ids in payload order.
func (a *Audits) Keys() []string {
	if a == nil {
		return nil
	}
	return a.keys
}

// Get returns the audit stored under key.
func (a *Audits) Get(key string) (Audit, bool) {
	if a == nil {
		return Audit{}, false
	}
	audit, ok := a.byID[key]
	return audit, ok
}

func (a *Audits) Len() int {
	if a == nil {
		return 0
	}
	return len(a.keys)
}

func (a *Audits) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("audits: expected object, got %v", tok)
	}

	a.keys = nil
	a.byID = make(map[string]Audit)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("audits: expected key, got %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("audits: %s: %w", key, err)
		}
		var audit Audit
		if err := json.Unmarshal(raw, &audit); err != nil {
			// non-object entries are not checks
			continue
		}
		if audit.ID == "" {
			audit.ID = key
		}
		if _, seen := a.byID[key]; !seen {
			a.keys = append(a.keys, key)
		}
		a.byID[key] = audit
	}

	_, err = dec.Token()
	return err
}

func (p *Payload) UnmarshalJSON(data []byte) error {
	*p = Payload{}
	if isNull(data) {
		return nil
	}
	m, err := members(data)
	if err != nil {
		return fmt.Errorf("payload: %w", err)
	}

	if id := optionalString(m["id"]); id != nil {
		p.ID = *id
	}
	p.AnalysisUTCTimestamp = optionalString(m["analysisUTCTimestamp"])

	if raw, ok := m["loadingExperience"]; ok && !isNull(raw) {
		var le LoadingExperience
		if le.UnmarshalJSON(raw) == nil {
			p.LoadingExperience = &le
		}
	}
	if raw, ok := m["lighthouseResult"]; ok && !isNull(raw) {
		var lr LighthouseResult
		if lr.UnmarshalJSON(raw) == nil {
			p.LighthouseResult = &lr
		}
	}
	return nil
}

// UnmarshalJSON fails only when the section is not an object. Metrics of
// the wrong shape are dropped.
func (le *LoadingExperience) UnmarshalJSON(data []byte) error {
	*le = LoadingExperience{}
	m, err := members(data)
	if err != nil {
		return err
	}

	metrics, err := members(m["metrics"])
	if err != nil || metrics == nil {
		return nil
	}
	le.Metrics = make(map[string]*FieldMetric, len(metrics))
	for key, raw := range metrics {
		var fm FieldMetric
		if fm.UnmarshalJSON(raw) != nil {
			continue
		}
		le.Metrics[key] = &fm
	}
	return nil
}

func (fm *FieldMetric) UnmarshalJSON(data []byte) error {
	*fm = FieldMetric{}
	m, err := members(data)
	if err != nil {
		return err
	}
	fm.Percentile = optionalNumber(m["percentile"])
	fm.Category = optionalString(m["category"])
	return nil
}

// UnmarshalJSON fails only when the section is not an object. Categories
// of the wrong shape are dropped and malformed audits leave Audits nil.
func (lr *LighthouseResult) UnmarshalJSON(data []byte) error {
	*lr = LighthouseResult{}
	m, err := members(data)
	if err != nil {
		return err
	}

	if categories, err := members(m["categories"]); err == nil && categories != nil {
		lr.Categories = make(map[string]*Category, len(categories))
		for key, raw := range categories {
			var c Category
			if c.UnmarshalJSON(raw) != nil {
				continue
			}
			lr.Categories[key] = &c
		}
	}

	if raw, ok := m["audits"]; ok && !isNull(raw) {
		var audits Audits
		if audits.UnmarshalJSON(raw) == nil {
			lr.Audits = &audits
		}
	}
	return nil
}

func (c *Category) UnmarshalJSON(data []byte) error {
	*c = Category{}
	m, err := members(data)
	if err != nil {
		return err
	}
	if id := optionalString(m["id"]); id != nil {
		c.ID = *id
	}
	if title := optionalString(m["title"]); title != nil {
		c.Title = *title
	}
	c.Score = optionalNumber(m["score"])
	return nil
}

func isNull(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) == 0 || bytes.Equal(data, []byte("null"))
}

// members splits a JSON object into its raw fields. Null or absent input
// yields a nil map; any other non-object is an error.
func members(data []byte) (map[string]json.RawMessage, error) {
	if isNull(data) {
		return nil, nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// optionalString is nil unless data is a JSON string.
func optionalString(data []byte) *string {
	if isNull(data) {
		return nil
	}
	var s string
	if json.Unmarshal(data, &s) != nil {
		return nil
	}
	return &s
}

// optionalNumber is nil unless data is a number or a numeric string.
func optionalNumber(data []byte) *float64 {
	v, ok := number(data)
	if !ok {
		return nil
	}
	return &v
}

func number(data []byte) (float64, bool) {
	data = bytes.TrimSpace(data)
	if isNull(data) {
		return 0, false
	}
	if data[0] == '"' {
		var str string
		if json.Unmarshal(data, &str) != nil {
			return 0, false
		}
		data = []byte(strings.TrimSpace(str))
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Decode parses a raw PageSpeed response body. Only a body that is not a
// JSON object is an error; sections of the wrong shape are left empty.
func Decode(content []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(content, &p); err != nil {
		return nil, fmt.Errorf("failed to decode pagespeed payload: %w", err)
	}
	return &p, nil
}
