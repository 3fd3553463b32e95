package transfer

import "encoding/json"

type ProviderMedia struct {
	URL string `json:"url"`
}

// ProviderPostPayload is the body sent to the provider's publish endpoint.
type ProviderPostPayload struct {
	Content       string          `json:"content"`
	Channels      []string        `json:"channels"`
	ScheduledTime string          `json:"scheduled_time,omitempty"`
	Media         []ProviderMedia `json:"media,omitempty"`
}

// ProviderResponse is the provider's answer to a publish call. Mock marks
// a deliberate stub; Error is set when the provider reported a failure.
type ProviderResponse struct {
	HTTPStatus int             `json:"http_status"`
	Status     string          `json:"status"`
	Mock       bool            `json:"mock"`
	Error      string          `json:"error,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
}

// FlexibleID accepts an identifier encoded as a JSON string or number.
type FlexibleID string

func (id *FlexibleID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = FlexibleID(s)
		return nil
	}
	if string(b) == "null" {
		*id = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = FlexibleID(n.String())
	return nil
}

type metricoolChannel struct {
	ID       FlexibleID `json:"id"`
	Network  string     `json:"network"`
	Platform string     `json:"platform"`
	Name     string     `json:"name"`
}

// MetricoolChannel is one channel as the provider reports it. The provider
// names the platform either "network" or "platform"; IDs may be numeric.
type MetricoolChannel struct {
	ID       string
	Platform string
	Name     string
}

func (c *MetricoolChannel) UnmarshalJSON(b []byte) error {
	var raw metricoolChannel
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	c.ID = string(raw.ID)
	c.Platform = raw.Network
	if c.Platform == "" {
		c.Platform = raw.Platform
	}
	c.Name = raw.Name
	return nil
}

type MetricoolChannelsResponse struct {
	Data []MetricoolChannel `json:"data"`
	Mock bool               `json:"mock"`
}

type MetricoolWorkspace struct {
	ID   FlexibleID `json:"id"`
	Name string     `json:"name"`
}

type MetricoolWorkspacesResponse struct {
	Data []MetricoolWorkspace `json:"data"`
}

type MetricoolErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
