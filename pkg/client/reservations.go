package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"bouncebook/pkg/model"
)

type ReservationsClient struct {
	httpClient *HttpClient
}

func NewReservationsClient(baseURL string) *ReservationsClient {
	return &ReservationsClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *ReservationsClient) CreateHold(body any) (*Response, error) {
	return c.httpClient.POST("/api/v1/holds", body)
}

func (c *ReservationsClient) GetHold(sessionID string) (*Response, error) {
	return c.httpClient.GET("/api/v1/holds/session/" + url.PathEscape(sessionID))
}

func (c *ReservationsClient) ReleaseHold(sessionID string) (*Response, error) {
	return c.httpClient.DELETE("/api/v1/holds/session/" + url.PathEscape(sessionID))
}

func (c *ReservationsClient) GetBooking(id string) (*Response, error) {
	return c.httpClient.GET("/api/v1/bookings/id/" + url.PathEscape(id))
}

func (c *ReservationsClient) RescheduleOptions(id string, horizonDays int) (*Response, error) {
	path := fmt.Sprintf("/api/v1/bookings/id/%s/reschedule/options?horizon_days=%d", url.PathEscape(id), horizonDays)
	return c.httpClient.GET(path)
}

func (c *ReservationsClient) Reschedule(id string, body any) (*Response, error) {
	return c.httpClient.POST("/api/v1/bookings/id/"+url.PathEscape(id)+"/reschedule", body)
}

func (c *ReservationsClient) DecodeHold(resp *Response) (*model.SoftHold, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode hold wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var hold model.SoftHold
	if err := json.Unmarshal(wrapper.Data, &hold); err != nil {
		return nil, fmt.Errorf("could not decode hold json:\n%+v\n%s", resp.ToString(), err)
	}
	return &hold, nil
}

func (c *ReservationsClient) DecodeBooking(resp *Response) (*model.Booking, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode booking wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var booking model.Booking
	if err := json.Unmarshal(wrapper.Data, &booking); err != nil {
		return nil, fmt.Errorf("could not decode booking json:\n%+v\n%s", resp.ToString(), err)
	}
	return &booking, nil
}
