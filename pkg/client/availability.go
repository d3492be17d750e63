package client

import (
	"encoding/json"
	"fmt"
	"net/url"
)

type AvailabilityClient struct {
	httpClient *HttpClient
}

func NewAvailabilityClient(baseURL string) *AvailabilityClient {
	return &AvailabilityClient{
		httpClient: NewHttpClient(baseURL),
	}
}

// AvailabilityResult mirrors the availability service's per-window answer.
type AvailabilityResult struct {
	Available      bool   `json:"available"`
	Reason         string `json:"reason,omitempty"`
	EventDate      string `json:"event_date"`
	SlotID         string `json:"slot_id,omitempty"`
	UnitID         string `json:"unit_id,omitempty"`
	DeliveryCrewID string `json:"delivery_crew_id,omitempty"`
	PickupCrewID   string `json:"pickup_crew_id,omitempty"`
}

func (c *AvailabilityClient) Days(productID, from string, days int, bookingType string) (*Response, error) {
	q := url.Values{}
	q.Set("product_id", productID)
	q.Set("from", from)
	q.Set("days", fmt.Sprintf("%d", days))
	if bookingType != "" {
		q.Set("booking_type", bookingType)
	}
	return c.httpClient.GET("/api/v1/availability/days?" + q.Encode())
}

func (c *AvailabilityClient) Slots(productID, date string) (*Response, error) {
	q := url.Values{}
	q.Set("product_id", productID)
	q.Set("date", date)
	return c.httpClient.GET("/api/v1/availability/slots?" + q.Encode())
}

func (c *AvailabilityClient) Validate(body any) (*Response, error) {
	return c.httpClient.POST("/api/v1/availability/validate", body)
}

func (c *AvailabilityClient) DecodeResult(resp *Response) (*AvailabilityResult, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode availability wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var result AvailabilityResult
	if err := json.Unmarshal(wrapper.Data, &result); err != nil {
		return nil, fmt.Errorf("could not decode availability result:\n%+v\n%s", resp.ToString(), err)
	}
	return &result, nil
}

func (c *AvailabilityClient) DecodeResults(resp *Response) ([]*AvailabilityResult, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode availability wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var results []*AvailabilityResult
	if err := json.Unmarshal(wrapper.Data, &results); err != nil {
		return nil, fmt.Errorf("could not decode availability list:\n%+v\n%s", resp.ToString(), err)
	}
	return results, nil
}
